package udp

// config collects the options NewNetEntity accepts.
type config struct {
	stateChange StateChangeHandler
	errorFn     ErrorHandler
}

func defaultConfig() config {
	return config{}
}

// Option configures a NetEntity.
type Option func(*config)

// WithStateChange installs the callback fired when the entity's handler
// is created or removed.
func WithStateChange(fn StateChangeHandler) Option {
	return func(c *config) {
		c.stateChange = fn
	}
}

// WithErrorHandler installs the callback fired when the handler
// terminates abnormally.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(c *config) {
		c.errorFn = fn
	}
}
