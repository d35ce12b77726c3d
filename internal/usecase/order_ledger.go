package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aq2208/gorder-mesh/internal/clock"
	"github.com/aq2208/gorder-mesh/internal/entity"
	"github.com/aq2208/gorder-mesh/internal/logging"
)

// DefaultCatalog lists the product codes known out of the box.
var DefaultCatalog = []string{"BOOK-123", "COURSE-ADV-C#", "LIC-PREMIUM"}

// OrderLedger is the write side of the order service: it validates requests
// against the catalog and persists at most one order per (userID, productCode).
type OrderLedger struct {
	repo    OrderRepo
	clock   clock.Clock
	catalog map[string]struct{}
}

func NewOrderLedger(repo OrderRepo, clk clock.Clock, catalog []string) *OrderLedger {
	if len(catalog) == 0 {
		catalog = DefaultCatalog
	}
	set := make(map[string]struct{}, len(catalog))
	for _, code := range catalog {
		set[strings.ToUpper(code)] = struct{}{}
	}
	return &OrderLedger{repo: repo, clock: clk, catalog: set}
}

// CreateOrder is idempotent on (UserID, ProductCode): a repeated request returns
// the already-persisted order unchanged, including under concurrent duplicates.
func (l *OrderLedger) CreateOrder(ctx context.Context, req entity.CreateOrderRequest) (entity.Order, error) {
	if err := l.validate(req); err != nil {
		return entity.Order{}, err
	}
	if err := ctx.Err(); err != nil {
		return entity.Order{}, err
	}

	log := logging.WithCorrelation(ctx)

	existing, err := l.repo.FindByDedupKey(ctx, req.UserID, req.ProductCode)
	if err != nil {
		return entity.Order{}, err
	}
	if existing != nil {
		log.Info("idempotent match, returning existing order",
			"order_id", existing.ID, "user_id", req.UserID, "product_code", req.ProductCode)
		return *existing, nil
	}

	order := entity.Order{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		ProductCode: req.ProductCode,
		Quantity:    req.Quantity,
		CreatedAt:   l.clock.Now(),
	}
	if err := l.repo.Add(ctx, order); err != nil {
		if errors.Is(err, entity.ErrOrderConflict) {
			// Lost the insert race: another caller landed the same dedup key
			// first. Their row is the idempotent result.
			log.Warn("order insert conflict, re-reading winner",
				"user_id", req.UserID, "product_code", req.ProductCode)
			winner, findErr := l.repo.FindByDedupKey(ctx, req.UserID, req.ProductCode)
			if findErr != nil {
				return entity.Order{}, findErr
			}
			if winner != nil {
				return *winner, nil
			}
		}
		return entity.Order{}, err
	}

	log.Info("created order", "order_id", order.ID, "user_id", order.UserID)
	return order, nil
}

func (l *OrderLedger) validate(req entity.CreateOrderRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: userId must be provided", entity.ErrOrderValidation)
	}
	if req.ProductCode == "" {
		return fmt.Errorf("%w: productCode must be provided", entity.ErrOrderValidation)
	}
	if _, ok := l.catalog[strings.ToUpper(req.ProductCode)]; !ok {
		return fmt.Errorf("%w: product %s does not exist in the catalog", entity.ErrOrderValidation, req.ProductCode)
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", entity.ErrOrderValidation)
	}
	return nil
}
