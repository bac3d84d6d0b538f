package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/eurotrade/salesdesk/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite, keeping each
// collection as one JSON document in a name-keyed table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadProspects(ctx context.Context) ([]model.Prospect, error) {
	var prospects []model.Prospect
	if err := s.load(ctx, collectionProspects, &prospects); err != nil {
		return nil, err
	}
	return prospects, nil
}

func (s *SQLiteStore) SaveProspects(ctx context.Context, prospects []model.Prospect) error {
	return s.save(ctx, collectionProspects, prospects)
}

func (s *SQLiteStore) LoadOffers(ctx context.Context) ([]model.Offer, error) {
	var offers []model.Offer
	if err := s.load(ctx, collectionOffers, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (s *SQLiteStore) SaveOffers(ctx context.Context, offers []model.Offer) error {
	return s.save(ctx, collectionOffers, offers)
}

func (s *SQLiteStore) LoadRefs(ctx context.Context) (model.Refs, error) {
	refs := model.Refs{}
	found, err := s.loadRaw(ctx, collectionRefs, &refs)
	if err != nil {
		return model.Refs{}, err
	}
	if !found {
		return model.SeedRefs(), nil
	}
	// Older documents may predate the product seed.
	if len(refs.Products) == 0 {
		refs.Products = model.DefaultProducts()
	}
	if refs.Clients == nil {
		refs.Clients = []string{}
	}
	return refs, nil
}

func (s *SQLiteStore) SaveRefs(ctx context.Context, refs model.Refs) error {
	return s.save(ctx, collectionRefs, refs)
}

func (s *SQLiteStore) LoadFx(ctx context.Context) (*model.FxCache, error) {
	var fx model.FxCache
	found, err := s.loadRaw(ctx, collectionFx, &fx)
	if err != nil || !found {
		return nil, err
	}
	if fx.TS == 0 {
		return nil, nil
	}
	return &fx, nil
}

func (s *SQLiteStore) SaveFx(ctx context.Context, fx model.FxCache) error {
	return s.save(ctx, collectionFx, fx)
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM collections`)
	return eris.Wrap(err, "sqlite: reset")
}

// load fills dest from a collection document, leaving it zero-valued when
// the document is missing or corrupt.
func (s *SQLiteStore) load(ctx context.Context, name string, dest any) error {
	_, err := s.loadRaw(ctx, name, dest)
	return err
}

// loadRaw reports whether a usable document existed. Unparseable payloads
// count as absent: availability wins over strict consistency for a local
// single-user tool.
func (s *SQLiteStore) loadRaw(ctx context.Context, name string, dest any) (bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM collections WHERE name = ?`, name,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: load %s", name)
	}

	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		zap.L().Warn("store: discarding corrupt collection payload",
			zap.String("collection", name),
			zap.Error(err),
		)
		return false, nil
	}
	return true, nil
}

func (s *SQLiteStore) save(ctx context.Context, name string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return eris.Wrapf(err, "sqlite: marshal %s", name)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO collections (name, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		name, string(payload), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save %s", name)
}
