// Package delivery defines the transports that expose the auth use case.
package delivery

import "context"

// Delivery is a long-running transport started by the application.
type Delivery interface {
	// Serve blocks until the transport stops.
	Serve(ctx context.Context) error
}
