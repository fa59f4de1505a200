package export

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadtrack-cli/internal/model"
)

// Backup is the JSON envelope for full export and restore. The field
// names match what the capture surfaces produce, so a backup written
// elsewhere imports cleanly.
type Backup struct {
	Leads        []model.Lead        `json:"leads"`
	SearchTitles []model.SearchTitle `json:"searchTitles"`
}

// WriteBackup serializes both collections as an indented JSON envelope.
func WriteBackup(w io.Writer, leads []model.Lead, titles []model.SearchTitle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(Backup{Leads: leads, SearchTitles: titles})
	return eris.Wrap(err, "export: write backup")
}

// ReadBackup parses a backup envelope. A missing leads property is a
// format error; missing searchTitles is tolerated.
func ReadBackup(r io.Reader) (*Backup, error) {
	var raw struct {
		Leads        json.RawMessage     `json:"leads"`
		SearchTitles []model.SearchTitle `json:"searchTitles"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, eris.Wrap(err, "export: parse backup")
	}
	if raw.Leads == nil {
		return nil, eris.New("export: backup missing leads property")
	}
	var leads []model.Lead
	if err := json.Unmarshal(raw.Leads, &leads); err != nil {
		return nil, eris.Wrap(err, "export: parse backup leads")
	}
	return &Backup{Leads: leads, SearchTitles: raw.SearchTitles}, nil
}
