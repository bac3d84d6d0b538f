package scoring

import (
	"math"
	"strings"

	"github.com/eurotrade/salesdesk/internal/dates"
	"github.com/eurotrade/salesdesk/internal/model"
)

// Grade is the letter bucket derived from the numeric score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Next-best actions by grade. C and D share the softest action.
const (
	actionA = "Re-engage today (price/margin angle)"
	actionB = "Ask for specific feedback on the offer"
	actionC = "Send market info and an alternative"
)

// Result holds the derived prioritization of a single prospect. It is
// recomputed on every read and never persisted.
type Result struct {
	Score          int                `json:"score"`
	Grade          Grade              `json:"grade"`
	NextBestAction string             `json:"next_best_action"`
	Components     map[string]float64 `json:"components"`
}

// missingTouchDays is the recency sentinel when a prospect has neither a
// follow-up nor a first-contact date.
const missingTouchDays = 999

// trailingWindowDays scopes the frequency component to recent offers.
const trailingWindowDays = 30

// Engine scores prospects with a fixed weight blend.
type Engine struct {
	weights Weights
}

// NewEngine creates an Engine. Invalid weights fall back to the defaults;
// callers that care should Validate first.
func NewEngine(w Weights) *Engine {
	if w.Validate() != nil {
		w = DefaultWeights()
	}
	return &Engine{weights: w}
}

// Score computes the composite priority of a prospect against the full
// offer history as of the given day. It always returns a result; missing
// inputs degrade through sentinels rather than erroring.
func (e *Engine) Score(p model.Prospect, offers []model.Offer, today string) Result {
	recency := e.recency(p, today)
	frequency := e.frequency(p, offers, today)
	potential := e.potential(p, offers)
	statusW := statusWeight(p.Status)

	w := e.weights
	raw := w.Recency*recency + w.Frequency*frequency + w.Potential*potential + w.Status*statusW
	score := int(math.Round(math.Min(100, math.Max(0, raw))))

	grade := gradeFor(score)
	return Result{
		Score:          score,
		Grade:          grade,
		NextBestAction: actionFor(grade),
		Components: map[string]float64{
			"recency":       recency,
			"frequency":     frequency,
			"potential":     potential,
			"status_weight": statusW,
		},
	}
}

// recency decays linearly from 100 at day 0 to 0 at day 20 since the last
// planned touch.
func (e *Engine) recency(p model.Prospect, today string) float64 {
	days := float64(missingTouchDays)
	if touch := p.LastTouch(); touch != "" {
		if d, ok := dates.DayDiff(today, touch); ok {
			days = math.Max(0, float64(d))
		}
	}
	return math.Max(0, 100-math.Min(100, days*5))
}

// frequency saturates at four same-client offers inside the trailing window.
func (e *Engine) frequency(p model.Prospect, offers []model.Offer, today string) float64 {
	count := 0
	for _, o := range offers {
		if !strings.EqualFold(o.Client, p.Client) {
			continue
		}
		if d, ok := dates.DayDiff(today, o.OfferDate); ok && d <= trailingWindowDays {
			count++
		}
	}
	return math.Min(100, float64(count)*25)
}

// potential log-compresses the open pipeline value (price * volume of this
// client's Sent or Negotiating offers).
func (e *Engine) potential(p model.Prospect, offers []model.Offer) float64 {
	var total float64
	for _, o := range offers {
		if strings.EqualFold(o.Client, p.Client) && o.Status.Open() {
			total += o.Value()
		}
	}
	return math.Min(100, math.Log10(1+total/1000)*40)
}

func statusWeight(s model.ProspectStatus) float64 {
	switch s {
	case model.ProspectSigned:
		return 100
	case model.ProspectNegotiating:
		return 70
	case model.ProspectOfferSent:
		return 40
	case model.ProspectToQualify:
		return 20
	case model.ProspectLost:
		return 0
	}
	return 0
}

func gradeFor(score int) Grade {
	switch {
	case score >= 75:
		return GradeA
	case score >= 60:
		return GradeB
	case score >= 40:
		return GradeC
	default:
		return GradeD
	}
}

func actionFor(g Grade) string {
	switch g {
	case GradeA:
		return actionA
	case GradeB:
		return actionB
	default:
		return actionC
	}
}
