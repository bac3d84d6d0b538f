// Package service is the application layer of the pipeline tracker. The
// Tracker owns all collections through the store and applies every
// cross-record rule (auto-linking, offer-to-prospect cascades) as a single
// load-mutate-save step, so no component writes another's state on the side.
package service

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/eurotrade/salesdesk/internal/cascade"
	"github.com/eurotrade/salesdesk/internal/dates"
	"github.com/eurotrade/salesdesk/internal/ids"
	"github.com/eurotrade/salesdesk/internal/model"
	"github.com/eurotrade/salesdesk/internal/pricing"
	"github.com/eurotrade/salesdesk/internal/store"
)

// Tracker coordinates all reads and writes of the pipeline state.
type Tracker struct {
	store store.Store
	today func() string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the current-day source, for tests.
func WithClock(today func() string) Option {
	return func(t *Tracker) { t.today = today }
}

// New creates a Tracker on top of a migrated store.
func New(st store.Store, opts ...Option) *Tracker {
	t := &Tracker{store: st, today: dates.Today}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ProspectInput carries the creation fields of a prospect.
type ProspectInput struct {
	Client           string
	Market           model.Market
	Product          string
	FirstContactDate string // defaults to today
	OfferSent        model.YesNo
	OfferDate        string
	AmountUSD        *float64
	Status           model.ProspectStatus // defaults to To qualify
	NextFollowUpDate string
	ClientResponded  model.YesNo
	ResponseDate     string
	LossReason       model.LossReason
	Supplier         string
	SignatureDate    string
	Note             string
}

// AddProspect validates the input, allocates an id and prepends the new
// prospect, updating the reference lists as a side effect.
func (t *Tracker) AddProspect(ctx context.Context, in ProspectInput) (*model.Prospect, error) {
	if strings.TrimSpace(in.Client) == "" {
		return nil, eris.Wrap(ErrMissingRequiredField, "client")
	}
	if in.Product == "" {
		return nil, eris.Wrap(ErrMissingRequiredField, "product")
	}
	if in.OfferSent.Bool() && in.OfferDate == "" {
		return nil, eris.Wrap(ErrConditionalFieldMissing, "offer date (offer sent)")
	}
	if in.ClientResponded.Bool() && in.ResponseDate == "" {
		return nil, eris.Wrap(ErrConditionalFieldMissing, "response date (client responded)")
	}
	if in.Status == model.ProspectSigned && in.SignatureDate == "" {
		return nil, eris.Wrap(ErrConditionalFieldMissing, "signature date (signed)")
	}

	if in.FirstContactDate == "" {
		in.FirstContactDate = t.today()
	}
	if in.Status == "" {
		in.Status = model.ProspectToQualify
	}
	if in.Market == "" {
		in.Market = model.MarketMorocco
	}
	if in.OfferSent == "" {
		in.OfferSent = model.No
	}
	if in.ClientResponded == "" {
		in.ClientResponded = model.No
	}

	prospects, err := t.store.LoadProspects(ctx)
	if err != nil {
		return nil, err
	}

	p := model.Prospect{
		ID:               ids.Next("PR", prospectIDs(prospects)),
		Client:           in.Client,
		Market:           in.Market,
		Product:          in.Product,
		FirstContactDate: in.FirstContactDate,
		OfferSent:        in.OfferSent,
		OfferDate:        in.OfferDate,
		AmountUSD:        in.AmountUSD,
		Status:           in.Status,
		NextFollowUpDate: in.NextFollowUpDate,
		ClientResponded:  in.ClientResponded,
		ResponseDate:     in.ResponseDate,
		LossReason:       in.LossReason,
		Supplier:         in.Supplier,
		SignatureDate:    in.SignatureDate,
		Note:             in.Note,
	}

	if err := t.store.SaveProspects(ctx, append([]model.Prospect{p}, prospects...)); err != nil {
		return nil, err
	}
	if err := t.upsertRefs(ctx, p.Client, p.Product); err != nil {
		return nil, err
	}

	zap.L().Info("prospect added",
		zap.String("id", p.ID),
		zap.String("client", p.Client),
		zap.String("status", string(p.Status)),
	)
	return &p, nil
}

// OfferInput carries the creation fields of an offer. ProspectID may name
// a prospect explicitly; when empty the offer auto-links to the most
// recently contacted prospect of the same client.
type OfferInput struct {
	ProspectID    string
	Client        string
	Market        model.Market
	Product       string
	SizeGrade     string
	Incoterm      model.Incoterm // defaults to CFR
	PricePerKgUSD float64
	VolumeKg      float64
	OfferDate     string // defaults to today
	ValidityDays  int
	Status        model.OfferStatus // defaults to Sent

	PurchasePricePerKgUSD *float64
	FreightPerKgUSD       *float64
	OtherCostsPerKgUSD    *float64
	Note                  string

	// AcceptDeviation proceeds past the price-deviation warning.
	AcceptDeviation bool
}

// AddOffer validates the input, checks the price against the 30-day
// suggestion, allocates an id, links the offer to a prospect and applies
// the creation cascade. The returned suggestion (possibly nil) reflects
// the comparables before this offer was recorded.
func (t *Tracker) AddOffer(ctx context.Context, in OfferInput) (*model.Offer, *pricing.Suggestion, error) {
	if strings.TrimSpace(in.Client) == "" {
		return nil, nil, eris.Wrap(ErrMissingRequiredField, "client")
	}
	if in.Product == "" {
		return nil, nil, eris.Wrap(ErrMissingRequiredField, "product")
	}
	if in.PricePerKgUSD <= 0 {
		return nil, nil, eris.Wrap(ErrInvalidNumericRange, "price USD/kg must be > 0")
	}
	if in.VolumeKg <= 0 {
		return nil, nil, eris.Wrap(ErrInvalidNumericRange, "volume kg must be > 0")
	}

	if in.OfferDate == "" {
		in.OfferDate = t.today()
	}
	if in.Incoterm == "" {
		in.Incoterm = model.IncotermCFR
	}
	if in.Status == "" {
		in.Status = model.OfferSent
	}
	if in.Market == "" {
		in.Market = model.MarketMorocco
	}

	offers, err := t.store.LoadOffers(ctx)
	if err != nil {
		return nil, nil, err
	}

	suggestion := pricing.Suggest(offers, pricing.Query{
		Product:   in.Product,
		Market:    in.Market,
		Incoterm:  in.Incoterm,
		SizeGrade: in.SizeGrade,
	}, t.today())

	if suggestion != nil && !in.AcceptDeviation {
		if delta := pricing.Deviation(in.PricePerKgUSD, suggestion.Median); delta > pricing.DeviationThreshold {
			return nil, suggestion, &PriceDeviationError{
				Proposed: in.PricePerKgUSD,
				Median:   suggestion.Median,
				Delta:    delta,
			}
		}
	}

	prospects, err := t.store.LoadProspects(ctx)
	if err != nil {
		return nil, nil, err
	}

	linkedID := in.ProspectID
	if linkedID == "" {
		if linked := latestProspectForClient(prospects, in.Client); linked != nil {
			linkedID = linked.ID
		}
	}

	o := model.Offer{
		ID:                    ids.Next("OF", offerIDs(offers)),
		ProspectID:            linkedID,
		Client:                in.Client,
		Market:                in.Market,
		Product:               in.Product,
		SizeGrade:             in.SizeGrade,
		Incoterm:              in.Incoterm,
		PricePerKgUSD:         in.PricePerKgUSD,
		VolumeKg:              in.VolumeKg,
		OfferDate:             in.OfferDate,
		ValidityDays:          in.ValidityDays,
		Status:                in.Status,
		PurchasePricePerKgUSD: in.PurchasePricePerKgUSD,
		FreightPerKgUSD:       in.FreightPerKgUSD,
		OtherCostsPerKgUSD:    in.OtherCostsPerKgUSD,
		Note:                  in.Note,
	}

	if err := t.store.SaveOffers(ctx, append([]model.Offer{o}, offers...)); err != nil {
		return nil, nil, err
	}

	// Creation cascade on the linked prospect: the offer flag and date are
	// stamped, and To qualify promotes to Offer sent.
	if linkedID != "" {
		for i := range prospects {
			if prospects[i].ID != linkedID {
				continue
			}
			prospects[i].OfferSent = model.Yes
			prospects[i].OfferDate = o.OfferDate
			if prospects[i].Status == model.ProspectToQualify {
				prospects[i].Status = model.ProspectOfferSent
			}
			if err := t.store.SaveProspects(ctx, prospects); err != nil {
				return nil, nil, err
			}
			break
		}
	}

	if err := t.upsertRefs(ctx, o.Client, o.Product); err != nil {
		return nil, nil, err
	}

	zap.L().Info("offer added",
		zap.String("id", o.ID),
		zap.String("client", o.Client),
		zap.String("prospect_id", linkedID),
		zap.Float64("price_usd_kg", o.PricePerKgUSD),
		zap.Float64("volume_kg", o.VolumeKg),
	)
	return &o, suggestion, nil
}

// UpdateOfferStatus edits an offer's status inline and cascades the change
// onto the linked prospect, when one is recorded.
func (t *Tracker) UpdateOfferStatus(ctx context.Context, id string, status model.OfferStatus) (*model.Offer, error) {
	offers, err := t.store.LoadOffers(ctx)
	if err != nil {
		return nil, err
	}

	var updated *model.Offer
	for i := range offers {
		if offers[i].ID == id {
			offers[i].Status = status
			updated = &offers[i]
			break
		}
	}
	if updated == nil {
		return nil, eris.Wrapf(ErrNotFound, "offer %s", id)
	}
	if err := t.store.SaveOffers(ctx, offers); err != nil {
		return nil, err
	}

	if updated.ProspectID != "" {
		prospects, err := t.store.LoadProspects(ctx)
		if err != nil {
			return nil, err
		}
		for i := range prospects {
			if prospects[i].ID != updated.ProspectID {
				continue
			}
			next := cascade.Apply(prospects[i].Status, status)
			if next != prospects[i].Status {
				zap.L().Info("cascade applied",
					zap.String("offer_id", id),
					zap.String("prospect_id", prospects[i].ID),
					zap.String("from", string(prospects[i].Status)),
					zap.String("to", string(next)),
				)
				prospects[i].Status = next
				if err := t.store.SaveProspects(ctx, prospects); err != nil {
					return nil, err
				}
			}
			break
		}
	}

	return updated, nil
}

// ProspectPatch is an inline edit; nil fields are left unchanged.
type ProspectPatch struct {
	Status           *model.ProspectStatus
	NextFollowUpDate *string
	ClientResponded  *model.YesNo
	ResponseDate     *string
	LossReason       *model.LossReason
	SignatureDate    *string
	Note             *string
}

// UpdateProspect applies an inline patch to a prospect. Creation-time
// invariants are deliberately not re-enforced here.
func (t *Tracker) UpdateProspect(ctx context.Context, id string, patch ProspectPatch) (*model.Prospect, error) {
	prospects, err := t.store.LoadProspects(ctx)
	if err != nil {
		return nil, err
	}

	for i := range prospects {
		if prospects[i].ID != id {
			continue
		}
		p := &prospects[i]
		if patch.Status != nil {
			p.Status = *patch.Status
		}
		if patch.NextFollowUpDate != nil {
			p.NextFollowUpDate = *patch.NextFollowUpDate
		}
		if patch.ClientResponded != nil {
			p.ClientResponded = *patch.ClientResponded
		}
		if patch.ResponseDate != nil {
			p.ResponseDate = *patch.ResponseDate
		}
		if patch.LossReason != nil {
			p.LossReason = *patch.LossReason
		}
		if patch.SignatureDate != nil {
			p.SignatureDate = *patch.SignatureDate
		}
		if patch.Note != nil {
			p.Note = *patch.Note
		}
		if err := t.store.SaveProspects(ctx, prospects); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, eris.Wrapf(ErrNotFound, "prospect %s", id)
}

// Prospects returns the full prospect collection.
func (t *Tracker) Prospects(ctx context.Context) ([]model.Prospect, error) {
	return t.store.LoadProspects(ctx)
}

// Offers returns the full offer collection.
func (t *Tracker) Offers(ctx context.Context) ([]model.Offer, error) {
	return t.store.LoadOffers(ctx)
}

// Refs returns the reference lists.
func (t *Tracker) Refs(ctx context.Context) (model.Refs, error) {
	return t.store.LoadRefs(ctx)
}

// SaveRefs persists an edited reference list set.
func (t *Tracker) SaveRefs(ctx context.Context, refs model.Refs) error {
	return t.store.SaveRefs(ctx, refs)
}

// ReplaceAll swaps in complete collections, used by the backup restore.
// No partial import: the caller validated the payload as a whole.
func (t *Tracker) ReplaceAll(ctx context.Context, prospects []model.Prospect, offers []model.Offer, refs model.Refs) error {
	if err := t.store.SaveProspects(ctx, prospects); err != nil {
		return err
	}
	if err := t.store.SaveOffers(ctx, offers); err != nil {
		return err
	}
	return t.store.SaveRefs(ctx, refs)
}

// Reset clears every collection back to its default.
func (t *Tracker) Reset(ctx context.Context) error {
	zap.L().Warn("resetting all collections")
	return t.store.Reset(ctx)
}

// Today exposes the tracker's current-day source so derived views share
// one clock per invocation.
func (t *Tracker) Today() string {
	return t.today()
}

func (t *Tracker) upsertRefs(ctx context.Context, client, product string) error {
	refs, err := t.store.LoadRefs(ctx)
	if err != nil {
		return err
	}
	changedClient := refs.UpsertClient(client)
	changedProduct := refs.UpsertProduct(product)
	if !changedClient && !changedProduct {
		return nil
	}
	return t.store.SaveRefs(ctx, refs)
}

// latestProspectForClient picks the same-client prospect with the most
// recent first-contact date, matching the client case-insensitively.
func latestProspectForClient(prospects []model.Prospect, client string) *model.Prospect {
	var best *model.Prospect
	for i := range prospects {
		p := &prospects[i]
		if !strings.EqualFold(p.Client, client) {
			continue
		}
		if best == nil || p.FirstContactDate > best.FirstContactDate {
			best = p
		}
	}
	return best
}

func prospectIDs(prospects []model.Prospect) []string {
	out := make([]string, len(prospects))
	for i, p := range prospects {
		out[i] = p.ID
	}
	return out
}

func offerIDs(offers []model.Offer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.ID
	}
	return out
}
