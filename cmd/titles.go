package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadtrack-cli/internal/model"
	"github.com/sells-group/leadtrack-cli/internal/seed"
	"github.com/sells-group/leadtrack-cli/internal/title"
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Manage the curated search-title list",
}

var titlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List search titles with their normalized form",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		titles, _, err := st.SearchTitles(ctx)
		if err != nil {
			return eris.Wrap(err, "titles list")
		}
		if len(titles) == 0 {
			fmt.Fprintln(os.Stderr, "No search titles. Run 'leadtrack titles seed' to load the defaults.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tNORMALIZED")
		for _, t := range titles {
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Label, title.Normalize(t.Label))
		}
		return w.Flush()
	},
}

var titlesAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add a search title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		label := args[0]
		if title.Normalize(label) == "" {
			return eris.New("label normalizes to nothing")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		titles, version, err := st.SearchTitles(ctx)
		if err != nil {
			return eris.Wrap(err, "titles add")
		}
		for _, t := range titles {
			if title.Normalize(t.Label) == title.Normalize(label) {
				return eris.Errorf("title already exists as %q", t.Label)
			}
		}

		now := time.Now().UnixMilli()
		titles = append(titles, model.SearchTitle{
			ID:        model.NewID(),
			Label:     label,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err := st.SaveSearchTitles(ctx, titles, version); err != nil {
			return eris.Wrap(err, "titles add")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %q\n", label)
		return nil
	},
}

var titlesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the shipped default title sets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		titles, version, err := st.SearchTitles(ctx)
		if err != nil {
			return eris.Wrap(err, "titles seed")
		}
		seeded, added, err := seed.Seed(titles, time.Now())
		if err != nil {
			return err
		}
		if !added {
			fmt.Fprintln(cmd.OutOrStdout(), "defaults already present")
			return nil
		}
		if err := st.SaveSearchTitles(ctx, seeded, version); err != nil {
			return eris.Wrap(err, "titles seed")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d titles\n", len(seeded)-len(titles))
		return nil
	},
}

var titlesHarmonizeCmd = &cobra.Command{
	Use:   "harmonize",
	Short: "Rewrite lead titles to their canonical stored spelling",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		titles, _, err := st.SearchTitles(ctx)
		if err != nil {
			return eris.Wrap(err, "titles harmonize")
		}
		leads, version, err := st.Leads(ctx)
		if err != nil {
			return eris.Wrap(err, "titles harmonize")
		}

		harmonized, changed := seed.Harmonize(leads, titles, time.Now())
		if !changed {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to harmonize")
			return nil
		}
		if err := st.SaveLeads(ctx, harmonized, version); err != nil {
			return eris.Wrap(err, "titles harmonize")
		}
		zap.L().Info("lead titles harmonized", zap.Int("leads", len(harmonized)))
		fmt.Fprintln(cmd.OutOrStdout(), "harmonized")
		return nil
	},
}

func init() {
	titlesCmd.AddCommand(titlesListCmd, titlesAddCmd, titlesSeedCmd, titlesHarmonizeCmd)
	rootCmd.AddCommand(titlesCmd)
}
