package cache

import (
	"strconv"
	"strings"
)

// Keyer derives cache keys for graph responses.
type Keyer interface {
	// GraphKey identifies the graph returned by source for a query and
	// strength threshold.
	GraphKey(source, query string, minStrength float64) string
}

// DefaultKeyer hashes the request parameters under a "graph:" prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey returns "graph:<sha256>". Queries differing only in case or
// surrounding spaces share a key, matching how sources filter them.
func (DefaultKeyer) GraphKey(source, query string, minStrength float64) string {
	q := strings.ToLower(strings.TrimSpace(query))
	return hashKey("graph", source, q, strconv.FormatFloat(minStrength, 'g', -1, 64))
}
