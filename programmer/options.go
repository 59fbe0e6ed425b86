package programmer

import "time"

// Config holds the programmer configuration.
type Config struct {
	// Progress receives a report after every chunk (optional)
	Progress ProgressSink

	// Logger is used for logging operations (optional)
	Logger Logger

	// CommandDelay is an optional pause after every frame written
	CommandDelay time.Duration
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{}
}

// Option is a functional option for configuring the Programmer.
type Option func(*Config)

// WithProgress sets the sink that receives transfer progress.
//
// Example:
//
//	prog := programmer.New(port,
//	    programmer.WithProgress(programmer.ProgressFunc(func(done, total int) {
//	        fmt.Printf("%d/%d\n", done, total)
//	    })),
//	)
func WithProgress(sink ProgressSink) Option {
	return func(c *Config) {
		c.Progress = sink
	}
}

// WithLogger sets a logger for the programmer operations.
//
// Example:
//
//	prog := programmer.New(port, programmer.WithLogger(slog.Default()))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithCommandDelay inserts a pause after every frame sent to the device.
//
// Example:
//
//	prog := programmer.New(port, programmer.WithCommandDelay(2*time.Millisecond))
func WithCommandDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay >= 0 {
			c.CommandDelay = delay
		}
	}
}
