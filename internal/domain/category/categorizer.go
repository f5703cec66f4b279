package category

import (
	"fmt"
	"strings"
)

// Categorizer evaluates an ordered rule list against record text.
// It is immutable after construction and safe for concurrent use.
type Categorizer struct {
	rules []Rule
}

// NewCategorizer validates rules and returns a categorizer that checks them in order.
func NewCategorizer(rules []Rule) (*Categorizer, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("at least one category rule is required")
	}
	seen := make(map[Label]bool, len(rules))
	out := make([]Rule, 0, len(rules))
	for i, r := range rules {
		if !r.Label.IsValid() || r.Label == Other {
			return nil, fmt.Errorf("rule %d: invalid label %q", i, r.Label)
		}
		if seen[r.Label] {
			return nil, fmt.Errorf("rule %d: duplicate label %q", i, r.Label)
		}
		seen[r.Label] = true

		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			kw = strings.ToLower(kw)
			if kw == "" {
				continue
			}
			kws = append(kws, kw)
		}
		if len(kws) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i, r.Label)
		}
		out = append(out, Rule{Label: r.Label, Keywords: kws})
	}
	return &Categorizer{rules: out}, nil
}

// Default returns a categorizer over DefaultRules.
func Default() *Categorizer {
	c, err := NewCategorizer(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Rules returns a copy of the rule list in evaluation order.
func (c *Categorizer) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = Rule{Label: r.Label, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Categorize labels a record from its title, subtitle and subject.
// Matching is case-insensitive but accent-sensitive; keyword lists carry both spellings.
func (c *Categorizer) Categorize(title, subtitle, subject string) Label {
	text := strings.ToLower(joinNonEmpty(title, subtitle, subject))
	if text == "" {
		return Other
	}
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return r.Label
			}
		}
	}
	return Other
}

func joinNonEmpty(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}
