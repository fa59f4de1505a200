package main

import (
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadtrack-cli/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export leads as CSV, XLSX or a JSON backup envelope",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		leads, _, err := st.Leads(ctx)
		if err != nil {
			return eris.Wrap(err, "export")
		}

		var w io.Writer = cmd.OutOrStdout()
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return eris.Wrap(err, "export: create output file")
			}
			defer f.Close()
			w = f
		}

		now := time.Now()
		switch format {
		case "csv":
			err = export.WriteCSV(w, leads, now)
		case "xlsx":
			if out == "" {
				return eris.New("xlsx export requires --out")
			}
			err = export.WriteXLSX(w, leads, now)
		case "json":
			titles, _, terr := st.SearchTitles(ctx)
			if terr != nil {
				return eris.Wrap(terr, "export")
			}
			err = export.WriteBackup(w, leads, titles)
		default:
			return eris.Errorf("unsupported export format: %s", format)
		}
		if err != nil {
			return err
		}

		if out != "" {
			zap.L().Info("export written",
				zap.String("format", format),
				zap.String("path", out),
				zap.Int("leads", len(leads)))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "csv", "export format: csv, xlsx or json")
	exportCmd.Flags().String("out", "", "output file (stdout if empty, required for xlsx)")

	rootCmd.AddCommand(exportCmd)
}
