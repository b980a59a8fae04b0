// Package lifecycle holds shared limits for fx start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds every start or stop hook: store pings, server shutdown.
const DefaultTimeout = 10 * time.Second
