// Package ids allocates the sequential record identifiers used by both
// collections, e.g. "PR-000001" for prospects and "OF-000001" for offers.
package ids

import (
	"fmt"
	"strconv"
	"strings"
)

// Next returns the next identifier for prefix given the ids already in a
// collection: "{prefix}-{max+1}" zero-padded to six digits. The numeric
// suffix is parsed after the first dash; ids without a parseable suffix
// count as zero. Array order is irrelevant.
//
// Safe under the single-writer model: collections are read, extended and
// saved synchronously, so two allocations can never interleave.
func Next(prefix string, existing []string) string {
	max := 0
	for _, id := range existing {
		_, suffix, found := strings.Cut(id, "-")
		if !found {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%06d", prefix, max+1)
}
