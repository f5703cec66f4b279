// Package category assigns catalog records to subject buckets.
package category

import (
	"fmt"
	"strings"
)

// Label is a subject bucket.
type Label string

// Category labels, in categorization priority order. Other is the fallback.
const (
	Science        Label = "science"
	Engineering    Label = "engineering"
	Software       Label = "software"
	Humanities     Label = "humanities"
	Management     Label = "management"
	NaturalScience Label = "natural-sciences"
	Health         Label = "health"
	Law            Label = "law"
	Education      Label = "education"
	Architecture   Label = "architecture"
	Technology     Label = "technology"
	Other          Label = "other"

	// Any is the filter sentinel meaning "no category filter".
	Any Label = "all"
)

var labels = []Label{
	Science, Engineering, Software, Humanities, Management, NaturalScience,
	Health, Law, Education, Architecture, Technology, Other,
}

// Labels used by the legacy web front-end.
var aliases = map[string]Label{
	"ciencia":     Science,
	"engenharia":  Engineering,
	"humanas":     Humanities,
	"gestao":      Management,
	"naturais":    NaturalScience,
	"saude":       Health,
	"direito":     Law,
	"educacao":    Education,
	"arquitetura": Architecture,
	"tecnologia":  Technology,
	"outros":      Other,
}

// Labels returns every concrete label, Other last.
func Labels() []Label {
	out := make([]Label, len(labels))
	copy(out, labels)
	return out
}

// IsValid reports whether l is a concrete label.
func (l Label) IsValid() bool {
	for _, v := range labels {
		if v == l {
			return true
		}
	}
	return false
}

// IsAny reports whether l is the no-filter sentinel.
func (l Label) IsAny() bool { return l == Any }

// String implements fmt.Stringer.
func (l Label) String() string { return string(l) }

// Parse resolves a filter value. Empty input and "all" yield Any.
func Parse(s string) (Label, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(Any) {
		return Any, nil
	}
	if l := Label(s); l.IsValid() {
		return l, nil
	}
	if l, ok := aliases[s]; ok {
		return l, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}
