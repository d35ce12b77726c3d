package usecase

import (
	"context"

	"github.com/aq2208/gorder-mesh/internal/entity"
)

// Ports over infrastructure. Implementations live in internal/adapter/repo and
// internal/netsim; tests substitute fakes.

type UserRepo interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Add(ctx context.Context, u entity.User) error
}

type OrderRepo interface {
	FindByID(ctx context.Context, id string) (*entity.Order, error)
	FindByDedupKey(ctx context.Context, userID, productCode string) (*entity.Order, error)
	Add(ctx context.Context, o entity.Order) error
}

// NetworkSimulator injects latency and transient faults into simulated hops
// between services. Outgoing calls may fail; incoming calls only delay.
type NetworkSimulator interface {
	SimulateIncoming(ctx context.Context, correlationID string) error
	SimulateOutgoing(ctx context.Context, endpoint, correlationID string) error
}
