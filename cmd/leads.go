package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadtrack-cli/internal/classify"
	"github.com/sells-group/leadtrack-cli/internal/model"
	"github.com/sells-group/leadtrack-cli/internal/reconcile"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect and update stored leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		leads, _, err := st.Leads(ctx)
		if err != nil {
			return eris.Wrap(err, "leads list")
		}

		topOnly, _ := cmd.Flags().GetBool("top")
		uncontacted, _ := cmd.Flags().GetBool("uncontacted")
		now := time.Now()

		// The priority flag is derived, never stored: recompute on
		// every listing so day-based rules stay current.
		var shown []model.Lead
		for _, l := range leads {
			l.TopLead = l.TopLead || classify.IsTopLead(l, now)
			if topOnly && !l.TopLead {
				continue
			}
			if uncontacted && l.Contacted {
				continue
			}
			shown = append(shown, l)
		}
		if len(shown) == 0 {
			fmt.Fprintln(os.Stderr, "No leads found.")
			return nil
		}
		formatLeads(cmd.OutOrStdout(), shown, now)
		return nil
	},
}

func formatLeads(w io.Writer, leads []model.Lead, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTITLE\tCOMPANY\tSEGMENT\tDIRECTION\tCONTACTED\tTOP\tRULES")
	for _, l := range leads {
		contacted := "no"
		if l.Contacted {
			contacted = "yes"
		}
		top := ""
		var rules []string
		if l.TopLead {
			top = "*"
			rules = classify.Explain(l, now)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.Name, l.SearchTitle, l.Company, l.CompanySegment,
			l.Direction, contacted, top, joinRules(rules))
	}
	tw.Flush()
}

func joinRules(rules []string) string {
	out := ""
	for i, r := range rules {
		if i > 0 {
			out += ","
		}
		out += r
	}
	return out
}

// transition wraps the load-modify-save cycle shared by the status
// subcommands.
func transition(cmd *cobra.Command, id string, apply func(*model.Lead, time.Time) bool) error {
	ctx := cmd.Context()

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	leads, version, err := st.Leads(ctx)
	if err != nil {
		return eris.Wrap(err, "load leads")
	}

	at := -1
	for i := range leads {
		if leads[i].ID == id {
			at = i
			break
		}
	}
	if at < 0 {
		return eris.Errorf("lead not found: %s", id)
	}

	if !apply(&leads[at], time.Now()) {
		fmt.Fprintln(cmd.OutOrStdout(), "no change")
		return nil
	}
	if err := st.SaveLeads(ctx, leads, version); err != nil {
		return eris.Wrap(err, "save leads")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "updated")
	return nil
}

var leadsAcceptCmd = &cobra.Command{
	Use:   "accept <id>",
	Short: "Record that a pending request was accepted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(cmd, args[0], reconcile.Accept)
	},
}

var leadsContactCmd = &cobra.Command{
	Use:   "contact <id>",
	Short: "Mark a lead as contacted today",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return eris.New("expected exactly one lead id")
		}
		undo, _ := cmd.Flags().GetBool("undo")
		if undo {
			return transition(cmd, args[0], reconcile.MarkUncontacted)
		}
		return transition(cmd, args[0], reconcile.MarkContacted)
	},
}

var leadsConvertCmd = &cobra.Command{
	Use:   "convert <id>",
	Short: "Record a conversion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(cmd, args[0], reconcile.MarkConverted)
	},
}

func init() {
	leadsListCmd.Flags().Bool("top", false, "only top leads")
	leadsListCmd.Flags().Bool("uncontacted", false, "only leads not yet contacted")
	leadsContactCmd.Flags().Bool("undo", false, "revert the contact mark")

	leadsCmd.AddCommand(leadsListCmd, leadsAcceptCmd, leadsContactCmd, leadsConvertCmd)
	rootCmd.AddCommand(leadsCmd)
}
