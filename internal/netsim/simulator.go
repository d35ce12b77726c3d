// Package netsim stands in for the wire between the gateway and its backends.
// Every hop sleeps for a configured latency; outgoing hops may additionally fail
// with a transient error, with a configured probability.
package netsim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

const defaultLatency = 60 * time.Millisecond

type Simulator struct {
	latency     time.Duration
	failureProb float64
}

func New(latency time.Duration, failureProb float64) *Simulator {
	if latency <= 0 {
		latency = defaultLatency
	}
	return &Simulator{
		latency:     latency,
		failureProb: min(max(failureProb, 0), 1),
	}
}

// SimulateIncoming models the inbound leg of a request reaching the gateway.
func (s *Simulator) SimulateIncoming(ctx context.Context, correlationID string) error {
	return sleep(ctx, s.latency)
}

// SimulateOutgoing models a call leaving the gateway toward endpoint. It may
// return a transient error to exercise the caller's retry path.
func (s *Simulator) SimulateOutgoing(ctx context.Context, endpoint, correlationID string) error {
	if err := sleep(ctx, s.latency); err != nil {
		return err
	}
	if s.failureProb > 0 && rand.Float64() < s.failureProb {
		return fmt.Errorf("transient error contacting %s", endpoint)
	}
	return nil
}

// sleep waits for d or until ctx is done, whichever comes first.
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
