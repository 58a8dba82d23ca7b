package report

import (
	"sort"
	"strings"

	"github.com/McValls/inspt-demo-newrelic/internal/loadgen"
)

// ErrorGroup counts failures sharing a message prefix.
type ErrorGroup struct {
	Message string `json:"message" yaml:"message"`
	Count   int    `json:"count" yaml:"count"`
}

// ErrorKey is the part of msg before the first colon, or msg itself.
func ErrorKey(msg string) string {
	key, _, _ := strings.Cut(msg, ":")
	return key
}

// GroupErrors buckets errors by ErrorKey, most frequent first, ties by key.
func GroupErrors(errs []loadgen.ErrorRecord) []ErrorGroup {
	counts := make(map[string]int)
	for _, e := range errs {
		counts[ErrorKey(e.Message)]++
	}

	groups := make([]ErrorGroup, 0, len(counts))
	for msg, n := range counts {
		groups = append(groups, ErrorGroup{Message: msg, Count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Message < groups[j].Message
	})
	return groups
}
