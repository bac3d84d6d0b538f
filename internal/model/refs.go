package model

import "strings"

// Benchmark is a manually recorded market reference price for a month.
type Benchmark struct {
	Product       string   `json:"product"`
	Market        Market   `json:"market"`
	Incoterm      Incoterm `json:"incoterm"`
	Month         string   `json:"month"` // "YYYY-MM"
	RefPriceUSDKg float64  `json:"ref_price_usd_kg"`
}

// Refs holds the append-only reference lists of known clients and products,
// plus optional manual benchmarks for the seasonal view.
type Refs struct {
	Clients    []string    `json:"clients"`
	Products   []string    `json:"products"`
	Benchmarks []Benchmark `json:"benchmarks,omitempty"`
}

// DefaultProducts is the seed product list for a fresh reference store.
func DefaultProducts() []string {
	return []string{
		"Vannamei Shrimp (Ecuador)",
		"Muelleri Shrimp (Argentina)",
		"Corvina (South America)",
		"Hubbsi Hake (Argentina)",
		"Jack Mackerel (CL/PE)",
	}
}

// SeedRefs returns the default reference lists for an empty store.
func SeedRefs() Refs {
	return Refs{Clients: []string{}, Products: DefaultProducts()}
}

// UpsertClient prepends name to the client list unless an entry already
// matches case-insensitively. Reports whether the list changed.
func (r *Refs) UpsertClient(name string) bool {
	return upsert(&r.Clients, name)
}

// UpsertProduct prepends name to the product list unless an entry already
// matches case-insensitively. Reports whether the list changed.
func (r *Refs) UpsertProduct(name string) bool {
	return upsert(&r.Products, name)
}

// RemoveClient deletes an exact entry from the client list.
func (r *Refs) RemoveClient(name string) bool {
	return remove(&r.Clients, name)
}

// RemoveProduct deletes an exact entry from the product list.
func (r *Refs) RemoveProduct(name string) bool {
	return remove(&r.Products, name)
}

func upsert(list *[]string, name string) bool {
	if name == "" {
		return false
	}
	for _, v := range *list {
		if strings.EqualFold(v, name) {
			return false
		}
	}
	*list = append([]string{name}, *list...)
	return true
}

func remove(list *[]string, name string) bool {
	for i, v := range *list {
		if v == name {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// FxCache is the persisted USD to EUR rate with its fetch timestamp
// (unix milliseconds).
type FxCache struct {
	TS     int64   `json:"ts"`
	USDEUR float64 `json:"usd_eur"`
}
