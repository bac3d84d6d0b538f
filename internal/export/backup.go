package export

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/eurotrade/salesdesk/internal/model"
)

// ErrInvalidBackup is returned for any file that is not a readable backup,
// regardless of the underlying parse problem.
var ErrInvalidBackup = eris.New("export: invalid backup file")

// Backup is the JSON envelope holding a complete snapshot of the pipeline.
type Backup struct {
	ID        string           `json:"id"`
	CreatedAt string           `json:"created_at"`
	Prospects []model.Prospect `json:"prospects"`
	Offers    []model.Offer    `json:"offers"`
	Refs      model.Refs       `json:"refs"`
}

// WriteBackup writes a snapshot of all collections to path as JSON.
func WriteBackup(path string, prospects []model.Prospect, offers []model.Offer, refs model.Refs) error {
	b := Backup{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Prospects: prospects,
		Offers:    offers,
		Refs:      refs,
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal backup")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}

// ReadBackup reads and validates a backup file. A malformed file yields
// ErrInvalidBackup with no partial content.
func ReadBackup(path string) (*Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: read %s", path)
	}
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, eris.Wrap(ErrInvalidBackup, err.Error())
	}
	if b.Prospects == nil && b.Offers == nil {
		return nil, eris.Wrap(ErrInvalidBackup, "no collections in file")
	}
	return &b, nil
}
