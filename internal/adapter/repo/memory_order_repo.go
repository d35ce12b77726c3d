package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aq2208/gorder-mesh/internal/entity"
	"github.com/aq2208/gorder-mesh/internal/usecase"
)

// MemoryOrderRepo is the in-process order store: a dual index by order id and by
// the (userID, productCode) dedup key.
type MemoryOrderRepo struct {
	idx dualIndex[entity.Order]
}

func NewMemoryOrderRepo() *MemoryOrderRepo { return &MemoryOrderRepo{} }

func dedupKey(userID, productCode string) string {
	return userID + ":" + strings.ToUpper(productCode)
}

func (r *MemoryOrderRepo) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o, ok := r.idx.byPrimary(id)
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *MemoryOrderRepo) FindByDedupKey(ctx context.Context, userID, productCode string) (*entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o, ok := r.idx.bySecondary(dedupKey(userID, productCode))
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *MemoryOrderRepo) Add(ctx context.Context, o entity.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch err := r.idx.insert(o.ID, dedupKey(o.UserID, o.ProductCode), o); {
	case errors.Is(err, errPrimaryExists):
		return fmt.Errorf("%w: order %s already exists", entity.ErrOrderConflict, o.ID)
	case errors.Is(err, errSecondaryExists):
		return fmt.Errorf("%w: an equivalent order already exists", entity.ErrOrderConflict)
	}
	return nil
}

// Len reports the number of persisted orders.
func (r *MemoryOrderRepo) Len() int { return r.idx.size() }

var _ usecase.OrderRepo = (*MemoryOrderRepo)(nil)
