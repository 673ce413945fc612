// Package delivery defines the contract shared by all transport servers.
package delivery

import "context"

// Delivery is implemented by every transport (HTTP, workers) the application
// can serve. Serve blocks until the server stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
