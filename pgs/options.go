package pgs

import (
	"go.uber.org/zap"
)

// Logger receives diagnostic messages. A *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugf(format string, a ...interface{})
	Infof(format string, a ...interface{})
	Warnf(format string, a ...interface{})
	Errorf(format string, a ...interface{})
}

type config struct {
	hasher Hasher
	logger Logger
}

// Option configures a GroupManager or Verifier.
type Option func(*config)

// WithHasher selects the hash construction. All parties must agree on it.
func WithHasher(h Hasher) Option {
	return func(c *config) {
		if h != nil {
			c.hasher = h
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		hasher: SHA256Hasher{},
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
