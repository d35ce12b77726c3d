package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aq2208/gorder-mesh/configs"
	"github.com/aq2208/gorder-mesh/internal/adapter/repo"
	"github.com/aq2208/gorder-mesh/internal/clock"
	"github.com/aq2208/gorder-mesh/internal/entity"
	"github.com/aq2208/gorder-mesh/internal/logging"
	"github.com/aq2208/gorder-mesh/internal/netsim"
	"github.com/aq2208/gorder-mesh/internal/result"
	"github.com/aq2208/gorder-mesh/internal/usecase"
)

// Run wires the in-process mesh by hand and drives a short demo scenario
// against it. Composition is explicit: no container, constructors only.
func Run(cfg configs.Config) error {
	log := logging.Init(cfg.App.Name, cfg.App.LogFile)

	userRepo := repo.NewMemoryUserRepo()
	orderRepo := repo.NewMemoryOrderRepo()
	sim := netsim.New(cfg.Simulator.Latency, cfg.Simulator.FailureProbability)

	users := usecase.NewUserDirectory(userRepo)
	orders := usecase.NewOrderLedger(orderRepo, clock.NewSystem(), cfg.Orders.Catalog)
	gw := usecase.NewGateway(users, orders, sim, usecase.RetryPolicy{
		MaxAttempts:    cfg.Gateway.UserMaxAttempts,
		AttemptTimeout: cfg.Gateway.UserAttemptTimeout,
		BackoffBase:    cfg.Gateway.UserRetryBackoff,
	})

	ctx := context.Background()
	seed := make([]entity.User, 0, len(cfg.Users.Seed))
	for _, u := range cfg.Users.Seed {
		seed = append(seed, entity.User{ID: u.ID, Email: u.Email})
	}
	if err := users.Seed(ctx, seed); err != nil {
		return err
	}
	demoUser := seed[0].ID

	// Concurrent duplicate submissions for one dedup key: every call must come
	// back with the same order id, and the ledger must hold exactly one row.
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := gw.CreateOrder(ctx, entity.CreateOrderRequest{
				UserID: demoUser, ProductCode: "BOOK-123", Quantity: 1,
			})
			logResult(log, "duplicate burst", res)
		}()
	}
	wg.Wait()
	log.Info("ledger after burst", "orders", orderRepo.Len())

	logResult(log, "invalid quantity", gw.CreateOrder(ctx, entity.CreateOrderRequest{
		UserID: demoUser, ProductCode: "BOOK-123", Quantity: 0,
	}))

	logResult(log, "unknown product", gw.CreateOrder(ctx, entity.CreateOrderRequest{
		UserID: demoUser, ProductCode: "GONE-000", Quantity: 1,
	}))

	logResult(log, "unknown user", gw.CreateOrder(ctx, entity.CreateOrderRequest{
		UserID: uuid.NewString(), ProductCode: "BOOK-123", Quantity: 1,
	}))

	cctx, cancel := context.WithCancel(ctx)
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	logResult(log, "cancelled caller", gw.CreateOrder(cctx, entity.CreateOrderRequest{
		UserID: demoUser, ProductCode: "LIC-PREMIUM", Quantity: 2,
	}))

	return nil
}

func logResult(log *slog.Logger, scenario string, res result.Result[entity.OrderConfirmation]) {
	if res.IsSuccess() {
		log.Info("scenario succeeded", "scenario", scenario,
			"order_id", res.Value.OrderID, "message", res.Value.Message)
		return
	}
	log.Warn("scenario failed", "scenario", scenario, "code", res.Code, "message", res.Message)
}
