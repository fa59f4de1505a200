package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadtrack-cli/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge local and remote collections in both directions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		client, err := initRemote()
		if err != nil {
			return err
		}

		report, err := syncer.NewEngine(st, client).Sync(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"leads: local=%d remote=%d merged=%d\ntitles: local=%d remote=%d merged=%d\n",
			report.LeadsLocal, report.LeadsRemote, report.LeadsMerged,
			report.TitlesLocal, report.TitlesRemote, report.TitlesMerged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
