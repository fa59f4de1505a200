// Package export renders the lead collection for use outside the tool:
// CSV for spreadsheets, XLSX for the sales team, a JSON envelope for
// backup and restore.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack-cli/internal/model"
)

// The export columns keep the French labels the sales side expects.
var csvHeaders = []string{
	"Nom", "Headline", "URL Profil", "Titre Recherche", "Type",
	"Date Demande", "Date Acceptation", "Jours depuis", "Contacté",
	"Date Contact", "Date Création",
}

// directionLabel translates the direction enum to the export wording.
func directionLabel(d model.Direction) string {
	switch d {
	case model.DirectionOutboundPending:
		return "En attente (demande envoyée)"
	case model.DirectionOutboundAccepted:
		return "Outbound (acceptée)"
	case model.DirectionInboundAccepted:
		return "Inbound (reçue)"
	case "":
		return "Inconnu"
	default:
		return string(d)
	}
}

func csvRow(l model.Lead, now time.Time) []string {
	acceptance := l.AcceptanceDate
	if acceptance == "" {
		acceptance = "En attente"
	}
	daysSince := "-"
	if d, ok := model.DaysSince(l.AcceptanceDate, now); ok {
		daysSince = strconv.Itoa(d)
	}
	contacted := "Non"
	if l.Contacted {
		contacted = "Oui"
	}
	created := ""
	if l.CreatedAt != 0 {
		created = model.FormatDate(time.UnixMilli(l.CreatedAt).In(now.Location()))
	}
	return []string{
		l.Name,
		l.Headline,
		l.ProfileURL,
		l.SearchTitle,
		directionLabel(l.Direction),
		l.RequestDate,
		acceptance,
		daysSince,
		contacted,
		l.ContactedDate,
		created,
	}
}

// WriteCSV writes the leads as UTF-8 CSV with a byte order mark so
// spreadsheet tools pick up the accented characters.
func WriteCSV(w io.Writer, leads []model.Lead, now time.Time) error {
	if _, err := fmt.Fprint(w, "\ufeff"); err != nil {
		return eris.Wrap(err, "export: write byte order mark")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, l := range leads {
		if err := cw.Write(csvRow(l, now)); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}
