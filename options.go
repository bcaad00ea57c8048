package uniq

import logger "github.com/xraph/go-utils/log"

// Option configures a Collection.
type Option func(*config)

type config struct {
	logger   logger.Logger
	hooks    *hookChain
	capacity int
}

// WithLogger sets the logger used for replacement and reconciliation events.
// The default logger discards everything.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if !isNil(l) {
			c.logger = l
		}
	}
}

// WithHook adds a hook notified of replacements and collapsed duplicates.
func WithHook(hook Hook) Option {
	return func(c *config) {
		if !isNil(hook) {
			c.hooks.add(hook)
		}
	}
}

// WithCapacity preallocates room for n entries.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		logger: logger.NewNoopLogger(),
		hooks:  newHookChain(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
