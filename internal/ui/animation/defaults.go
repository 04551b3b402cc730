package animation

import "time"

// DefaultConfig moves the block every ten seconds.
func DefaultConfig() Config {
	return Config{
		Dwell: Range{
			Min: 10 * time.Second,
			Max: 10 * time.Second,
		},
		Margin: 16,
	}
}
