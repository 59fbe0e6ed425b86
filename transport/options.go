package transport

import "time"

// Default serial settings of the ÜRP programmer firmware.
const (
	// DefaultBaudRate matches the firmware UART configuration
	DefaultBaudRate = 38400

	// DefaultReadTimeout bounds every wait for device data
	DefaultReadTimeout = 5 * time.Second
)

// Config holds the serial transport configuration.
type Config struct {
	// BaudRate is the serial line speed in bits per second
	BaudRate int

	// ReadTimeout bounds each ReadExact call
	ReadTimeout time.Duration
}

// defaultConfig returns the default configuration (38400 8N1, 5s timeout).
func defaultConfig() Config {
	return Config{
		BaudRate:    DefaultBaudRate,
		ReadTimeout: DefaultReadTimeout,
	}
}

// Option is a functional option for configuring a serial transport.
type Option func(*Config)

// WithBaudRate sets the serial line speed.
//
// Example:
//
//	port, err := transport.OpenSerial("/dev/ttyUSB0", transport.WithBaudRate(115200))
func WithBaudRate(baud int) Option {
	return func(c *Config) {
		if baud > 0 {
			c.BaudRate = baud
		}
	}
}

// WithReadTimeout sets the deadline applied to each ReadExact call.
//
// Example:
//
//	port, err := transport.OpenSerial("/dev/ttyUSB0", transport.WithReadTimeout(10*time.Second))
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ReadTimeout = timeout
		}
	}
}
