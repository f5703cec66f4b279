package libsearch

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/libsearch/internal/domain/category"
	catalogrepo "github.com/kailas-cloud/libsearch/internal/repository/catalog"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	encoding   string
	repair     bool
	ttl        time.Duration
	maxResults int
	rules      []category.Rule
	logger     *zap.Logger
}

// WithLatin1 reads the catalog as ISO-8859-1 instead of UTF-8.
func WithLatin1() Option {
	return func(c *clientConfig) {
		c.encoding = catalogrepo.EncodingLatin1
	}
}

// WithRepairEncoding fixes double-encoded text (e.g. "Ã§" for "ç") while loading.
func WithRepairEncoding() Option {
	return func(c *clientConfig) {
		c.repair = true
	}
}

// WithTTL sets how long a loaded catalog is served before it is re-read.
// Zero re-reads the file on every call.
func WithTTL(d time.Duration) Option {
	return func(c *clientConfig) {
		if d >= 0 {
			c.ttl = d
		}
	}
}

// WithMaxResults caps the number of records a search returns.
func WithMaxResults(n int) Option {
	return func(c *clientConfig) {
		c.maxResults = n
	}
}

// WithCategory appends a categorization rule. Rules are tried in the order added;
// once any is given the built-in rules are replaced.
func WithCategory(label string, keywords ...string) Option {
	return func(c *clientConfig) {
		c.rules = append(c.rules, category.Rule{Label: category.Label(label), Keywords: keywords})
	}
}

// WithLogger sets the zap logger used for load warnings.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
