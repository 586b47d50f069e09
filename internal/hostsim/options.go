package hostsim

import "go.uber.org/zap"

const defaultArenaPages = 4

// Option configures an Engine.
type Option func(*config)

type config struct {
	log        *zap.Logger
	arenaPages uint32
}

// WithArenaPages sets the object heap size in 64KiB pages. Each object takes
// one header slot, so this bounds the number of live objects.
func WithArenaPages(pages uint32) Option {
	return func(c *config) {
		if pages > 0 {
			c.arenaPages = pages
		}
	}
}

// WithLogger sets the engine logger. Host warnings and error reports are
// logged here in addition to being recorded.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}
