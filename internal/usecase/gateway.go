package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aq2208/gorder-mesh/internal/correlation"
	"github.com/aq2208/gorder-mesh/internal/entity"
	"github.com/aq2208/gorder-mesh/internal/logging"
	"github.com/aq2208/gorder-mesh/internal/observ"
	"github.com/aq2208/gorder-mesh/internal/result"
)

// RetryPolicy bounds the user-directory lookup. BackoffBase grows linearly:
// the delay after attempt n is n * BackoffBase.
type RetryPolicy struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	BackoffBase    time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = 500 * time.Millisecond
	}
	if p.BackoffBase <= 0 {
		p.BackoffBase = 100 * time.Millisecond
	}
	return p
}

// userTimeoutError marks retry-budget exhaustion against the user directory.
type userTimeoutError struct {
	cause error
}

func (e *userTimeoutError) Error() string {
	return fmt.Sprintf("user directory unreachable after retries: %v", e.cause)
}

func (e *userTimeoutError) Unwrap() error { return e.cause }

// Gateway orchestrates order creation across the user directory and the order
// ledger over the simulated network. Its only public outcome channel is the
// Result envelope: no error or panic crosses CreateOrder's boundary.
type Gateway struct {
	users  *UserDirectory
	orders *OrderLedger
	net    NetworkSimulator
	policy RetryPolicy
}

func NewGateway(users *UserDirectory, orders *OrderLedger, net NetworkSimulator, policy RetryPolicy) *Gateway {
	return &Gateway{
		users:  users,
		orders: orders,
		net:    net,
		policy: policy.withDefaults(),
	}
}

func (g *Gateway) CreateOrder(ctx context.Context, req entity.CreateOrderRequest) result.Result[entity.OrderConfirmation] {
	start := time.Now()
	res := g.createOrder(ctx, req)
	observ.OrderProcessed(res.Code, time.Since(start))
	return res
}

func (g *Gateway) createOrder(ctx context.Context, req entity.CreateOrderRequest) result.Result[entity.OrderConfirmation] {
	// Shape validation happens before any simulated I/O.
	if err := req.Validate(); err != nil {
		return result.Fail[entity.OrderConfirmation](result.CodeGatewayValidation, err.Error())
	}

	// The correlation id lives in a derived context only; the caller's ambient
	// value is untouched once this call returns.
	ctx = correlation.With(ctx, correlation.New())
	log := logging.WithCorrelation(ctx)

	attrs := []any{"user_id", req.UserID, "product_code", req.ProductCode}
	if req.RequestID != "" {
		attrs = append(attrs, "request_id", req.RequestID)
	}
	log.Info("received create order request", attrs...)

	if err := g.net.SimulateIncoming(ctx, correlation.FromContext(ctx)); err != nil {
		return result.Fail[entity.OrderConfirmation](result.CodeGatewayCanceled, "request was cancelled by the caller")
	}

	// Classification order matters: the timeout wrapper can itself wrap a
	// context.DeadlineExceeded cause, and a raw context error out of the retry
	// loop always belongs to the caller's signal.
	user, err := g.fetchUserWithRetry(ctx, req.UserID)
	switch {
	case errors.Is(err, entity.ErrUserValidation):
		return result.Fail[entity.OrderConfirmation](result.CodeUserValidation, err.Error())
	case isUserTimeout(err):
		log.Error("user lookup timed out", "user_id", req.UserID, "error", err.Error())
		return result.Fail[entity.OrderConfirmation](result.CodeUserTimeout, "user service is not responding, please retry later")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return result.Fail[entity.OrderConfirmation](result.CodeGatewayCanceled, "request was cancelled by the caller")
	case err != nil:
		log.Error("unexpected error while retrieving user", "user_id", req.UserID, "error", err.Error())
		return result.Fail[entity.OrderConfirmation](result.CodeUserUnexpected, "an unexpected error occurred while retrieving the user")
	case user == nil:
		log.Warn("user not found", "user_id", req.UserID)
		return result.Fail[entity.OrderConfirmation](result.CodeUserNotFound, "the specified user does not exist")
	}

	order, err := g.orders.CreateOrder(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrOrderValidation):
			log.Warn("order rejected by ledger", "reason", err.Error())
			return result.Fail[entity.OrderConfirmation](result.CodeOrderValidation, err.Error())
		case errors.Is(err, entity.ErrOrderConflict):
			log.Warn("order conflict not resolvable", "reason", err.Error())
			return result.Fail[entity.OrderConfirmation](result.CodeOrderConflict, err.Error())
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return result.Fail[entity.OrderConfirmation](result.CodeOrderCanceled, "order creation cancelled")
		default:
			log.Error("unexpected error from order ledger", "error", err.Error())
			return result.Fail[entity.OrderConfirmation](result.CodeOrderUnexpected, "an unexpected error occurred while creating the order")
		}
	}

	if err := g.net.SimulateOutgoing(ctx, "OrderService", correlation.FromContext(ctx)); err != nil {
		if ctx.Err() != nil {
			return result.Fail[entity.OrderConfirmation](result.CodeOrderCanceled, "order creation cancelled")
		}
		// The order is already durable; a transient fault on the notification
		// leg is logged and swallowed.
		log.Warn("outbound notification failed", "error", err.Error())
	}

	log.Info("order created", "order_id", order.ID, "email", user.Email)
	return result.Ok(entity.OrderConfirmation{
		OrderID:   order.ID,
		Message:   fmt.Sprintf("Order created for %s", user.Email),
		CreatedAt: order.CreatedAt,
	})
}

// fetchUserWithRetry runs up to MaxAttempts lookups, each bounded by its own
// deadline. Per-attempt timeouts and transient errors back off and retry; a
// cancellation of the caller's context dominates everything and aborts at once.
func (g *Gateway) fetchUserWithRetry(ctx context.Context, userID string) (*entity.User, error) {
	log := logging.WithCorrelation(ctx)
	var lastCause error

	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		u, err := g.lookupOnce(ctx, userID)
		if err == nil {
			observ.UserLookupAttempt("ok")
			return u, nil
		}

		// Caller cancellation is never classified as a timeout and never retried.
		if ctx.Err() != nil {
			observ.UserLookupAttempt("canceled")
			return nil, ctx.Err()
		}
		if errors.Is(err, entity.ErrUserValidation) {
			observ.UserLookupAttempt("rejected")
			return nil, err
		}

		lastCause = err
		if errors.Is(err, context.DeadlineExceeded) {
			observ.UserLookupAttempt("timeout")
			log.Warn("user directory call timed out", "attempt", attempt)
		} else {
			observ.UserLookupAttempt("transient")
			log.Warn("transient error calling user directory", "attempt", attempt, "error", err.Error())
		}

		if attempt < g.policy.MaxAttempts {
			if err := sleep(ctx, time.Duration(attempt)*g.policy.BackoffBase); err != nil {
				return nil, err
			}
		}
	}

	return nil, &userTimeoutError{cause: lastCause}
}

// lookupOnce is one simulated hop plus one directory read, both under the
// per-attempt deadline.
func (g *Gateway) lookupOnce(ctx context.Context, userID string) (*entity.User, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.policy.AttemptTimeout)
	defer cancel()

	if err := g.net.SimulateOutgoing(attemptCtx, "UserService", correlation.FromContext(ctx)); err != nil {
		return nil, err
	}
	return g.users.GetUser(attemptCtx, userID)
}

func isUserTimeout(err error) bool {
	var te *userTimeoutError
	return errors.As(err, &te)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
