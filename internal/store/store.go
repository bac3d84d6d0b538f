// Package store persists the desk's collections. Each collection is a
// single JSON document loaded and saved whole; there is exactly one writer
// (the interactive user), so read-modify-write needs no locking.
package store

import (
	"context"

	"github.com/eurotrade/salesdesk/internal/model"
)

// Collection names as persisted.
const (
	collectionProspects = "prospects"
	collectionOffers    = "offers"
	collectionRefs      = "refs"
	collectionFx        = "fx"
)

// Store defines the persistence contract per collection. Loads are
// corrupt-tolerant: a missing or unparseable document yields the empty or
// seed default, never an application-facing decode error.
type Store interface {
	LoadProspects(ctx context.Context) ([]model.Prospect, error)
	SaveProspects(ctx context.Context, prospects []model.Prospect) error

	LoadOffers(ctx context.Context) ([]model.Offer, error)
	SaveOffers(ctx context.Context, offers []model.Offer) error

	LoadRefs(ctx context.Context) (model.Refs, error)
	SaveRefs(ctx context.Context, refs model.Refs) error

	// LoadFx returns nil when no rate has been cached yet.
	LoadFx(ctx context.Context) (*model.FxCache, error)
	SaveFx(ctx context.Context, fx model.FxCache) error

	// Reset clears all four collections back to their defaults.
	Reset(ctx context.Context) error

	Migrate(ctx context.Context) error
	Close() error
}
