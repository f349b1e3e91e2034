package depot

import "github.com/rs/zerolog"

// MaxComponentTypes is the number of distinct component types a storage can
// register. Presence masks are exposed as uint32.
const MaxComponentTypes = 32

type config struct {
	logger            zerolog.Logger
	componentCapacity int
	initialCapacity   int
	toggleDetach      bool
}

type Option func(c *config)

func defaultConfig() config {
	return config{
		logger:            zerolog.Nop(),
		componentCapacity: MaxComponentTypes,
	}
}

// WithLogger injects the logger used for storage events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithComponentCapacity lowers the component type ceiling. Values outside
// [1, MaxComponentTypes] are ignored.
func WithComponentCapacity(n int) Option {
	return func(c *config) {
		if n < 1 || n > MaxComponentTypes {
			return
		}
		c.componentCapacity = n
	}
}

// WithInitialCapacity preallocates room for n entity slots.
func WithInitialCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.initialCapacity = n
		}
	}
}

// WithToggleDetach makes DeleteComponentFromEntity flip the component bit
// instead of clearing it. Detaching a component the entity does not have then
// marks it present. Only useful for reproducing legacy behaviour.
func WithToggleDetach() Option {
	return func(c *config) {
		c.toggleDetach = true
	}
}
