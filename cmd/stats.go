package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadtrack-cli/internal/classify"
	"github.com/sells-group/leadtrack-cli/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary counters and the 30-day capture timeline",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		leads, _, err := st.Leads(ctx)
		if err != nil {
			return eris.Wrap(err, "stats")
		}

		now := time.Now()
		for i := range leads {
			leads[i].TopLead = leads[i].TopLead || classify.IsTopLead(leads[i], now)
		}

		sum := stats.Aggregate(leads, now)
		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Total\t%d\n", sum.Total)
		fmt.Fprintf(w, "Contacted\t%d\n", sum.Contacted)
		fmt.Fprintf(w, "To contact\t%d\n", sum.ToContact)
		fmt.Fprintf(w, "Follow-up due\t%d\n", sum.FollowUpDue)
		fmt.Fprintf(w, "Pending\t%d\n", sum.Pending)
		fmt.Fprintf(w, "Inbound\t%d\n", sum.Inbound)
		fmt.Fprintf(w, "Outbound\t%d\n", sum.Outbound)
		fmt.Fprintf(w, "Top leads\t%d\n", sum.TopLeads)
		fmt.Fprintf(w, "Converted\t%d\n", sum.Converted)
		w.Flush()

		titleFilter, _ := cmd.Flags().GetString("title")
		companyFilter, _ := cmd.Flags().GetString("company")
		if titleFilter != stats.All || companyFilter != stats.All {
			fmt.Fprintf(out, "\nCompanies (title=%s): %s\n",
				titleFilter, strings.Join(stats.UniqueCompanies(leads, titleFilter), ", "))
			fmt.Fprintf(out, "Titles (company=%s): %s\n",
				companyFilter, strings.Join(stats.UniqueTitles(leads, companyFilter), ", "))
		}

		timeline, _ := cmd.Flags().GetBool("timeline")
		if timeline {
			fmt.Fprintln(out)
			for _, p := range stats.Timeline(leads, now) {
				fmt.Fprintf(out, "%s %s\n", p.Date, strings.Repeat("#", p.Count))
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("timeline", false, "print the daily capture timeline")
	statsCmd.Flags().String("title", stats.All, "narrow company list to one search title")
	statsCmd.Flags().String("company", stats.All, "narrow title list to one company")

	rootCmd.AddCommand(statsCmd)
}
