// Package lifecycle holds shared timing constants for application startup and shutdown.
package lifecycle

import "time"

// DefaultTimeout bounds individual lifecycle hooks such as database pings and
// server shutdown.
const DefaultTimeout = 10 * time.Second
