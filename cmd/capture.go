package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadtrack-cli/internal/export"
	"github.com/sells-group/leadtrack-cli/internal/reconcile"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Reconcile captured profiles into the lead store",
	Long:  "Takes partial profile data (flags, a JSON file of candidates, or a backup envelope) and merges it into the local collection without creating duplicates.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		session, err := initSession(ctx, st)
		if err != nil {
			return err
		}

		file, _ := cmd.Flags().GetString("file")
		backup, _ := cmd.Flags().GetString("backup")
		switch {
		case backup != "":
			return captureBackup(cmd, session, backup)
		case file != "":
			return captureFile(cmd, session, file)
		default:
			return captureSingle(cmd, session)
		}
	},
}

func captureSingle(cmd *cobra.Command, session *reconcile.Session) error {
	var cand reconcile.Candidate
	cand.ProfileURL, _ = cmd.Flags().GetString("url")
	cand.Name, _ = cmd.Flags().GetString("name")
	cand.Headline, _ = cmd.Flags().GetString("headline")
	cand.Company, _ = cmd.Flags().GetString("company")
	cand.EmployeeRange, _ = cmd.Flags().GetString("employee-range")
	cand.CompanyIndustry, _ = cmd.Flags().GetString("industry")
	cand.Geo, _ = cmd.Flags().GetString("geo")
	cand.SearchTitle, _ = cmd.Flags().GetString("title")

	res, err := session.Capture(cmd.Context(), cand)
	if err != nil {
		return eris.Wrap(err, "capture")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s", res.Outcome)
	if res.Lead.ID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " %s", res.Lead.ID)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func captureFile(cmd *cobra.Command, session *reconcile.Session, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrap(err, "read candidates file")
	}
	var cands []reconcile.Candidate
	if err := json.Unmarshal(data, &cands); err != nil {
		return eris.Wrap(err, "parse candidates file")
	}

	sum, err := session.CaptureBatch(cmd.Context(), cands)
	if err != nil {
		return eris.Wrap(err, "capture batch")
	}
	printSummary(cmd, sum)
	return nil
}

// captureBackup replays a backup envelope through the reconciler so
// restored leads still dedup against whatever is already stored.
func captureBackup(cmd *cobra.Command, session *reconcile.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrap(err, "open backup file")
	}
	defer f.Close()

	b, err := export.ReadBackup(f)
	if err != nil {
		return err
	}
	zap.L().Info("importing backup",
		zap.Int("leads", len(b.Leads)),
		zap.Int("search_titles", len(b.SearchTitles)))

	cands := make([]reconcile.Candidate, 0, len(b.Leads))
	for _, l := range b.Leads {
		l := l
		cands = append(cands, reconcile.Candidate{
			ProfileURL:      l.ProfileURL,
			Name:            l.Name,
			Headline:        l.Headline,
			Company:         l.Company,
			EmployeeRange:   l.EmployeeRange,
			CompanySegment:  l.CompanySegment,
			CompanyIndustry: l.CompanyIndustry,
			Geo:             l.Geo,
			SearchTitle:     l.SearchTitle,
			Direction:       l.Direction,
			RequestDate:     l.RequestDate,
			AcceptanceDate:  l.AcceptanceDate,
			Contacted:       &l.Contacted,
			ContactedDate:   &l.ContactedDate,
			Converted:       &l.Converted,
			ConversionDate:  &l.ConversionDate,
			Status:          &l.Status,
			Notes:           &l.Notes,
			Tags:            &l.Tags,
		})
	}

	sum, err := session.CaptureBatch(cmd.Context(), cands)
	if err != nil {
		return eris.Wrap(err, "import backup")
	}
	printSummary(cmd, sum)
	return nil
}

func printSummary(cmd *cobra.Command, sum reconcile.Summary) {
	fmt.Fprintf(cmd.OutOrStdout(),
		"created=%d updated=%d skipped=%d unmatched=%d rejected=%d\n",
		sum.Created, sum.Updated, sum.Skipped, sum.Unmatched, sum.Rejected)
}

func init() {
	captureCmd.Flags().String("url", "", "profile URL (dedup key)")
	captureCmd.Flags().String("name", "", "full name")
	captureCmd.Flags().String("headline", "", "free-text headline")
	captureCmd.Flags().String("company", "", "company name")
	captureCmd.Flags().String("employee-range", "", "free-text size descriptor, e.g. \"51-200 employees\"")
	captureCmd.Flags().String("industry", "", "company industry")
	captureCmd.Flags().String("geo", "", "location")
	captureCmd.Flags().String("title", "", "explicit search title (otherwise derived from headline)")
	captureCmd.Flags().String("file", "", "JSON file with an array of candidates")
	captureCmd.Flags().String("backup", "", "backup envelope to import")

	rootCmd.AddCommand(captureCmd)
}
