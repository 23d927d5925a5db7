package ports

import "context"

// GatewayRestarter asks the monitored gateway process to restart after
// an intervention. Fire-and-forget: the engine only logs the outcome.
type GatewayRestarter interface {
	Restart(ctx context.Context) error
}
