package netio

import "go.uber.org/zap"

type config struct {
	logger     *zap.Logger
	queueDepth int
}

func defaultConfig() config {
	return config{logger: zap.NewNop(), queueDepth: 4096}
}

// Option configures a Worker.
type Option func(*config)

// WithLogger installs a structured logger for lifecycle and error
// events. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTaskQueueDepth sets the depth of the Context's task channel.
// Defaults to 4096.
func WithTaskQueueDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.queueDepth = n
		}
	}
}
