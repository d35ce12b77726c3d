package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aq2208/gorder-mesh/internal/entity"
	"github.com/aq2208/gorder-mesh/internal/usecase"
)

// MemoryUserRepo stores users under a dual index by id and by email. Both keys
// enforce uniqueness independently.
type MemoryUserRepo struct {
	idx dualIndex[entity.User]
}

func NewMemoryUserRepo() *MemoryUserRepo { return &MemoryUserRepo{} }

func (r *MemoryUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, ok := r.idx.byPrimary(id)
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, ok := r.idx.bySecondary(strings.ToLower(email))
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryUserRepo) Add(ctx context.Context, u entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.ID == "" {
		return fmt.Errorf("%w: userId must be provided", entity.ErrUserValidation)
	}
	if u.Email == "" {
		return fmt.Errorf("%w: email must be provided", entity.ErrUserValidation)
	}
	switch err := r.idx.insert(u.ID, strings.ToLower(u.Email), u); {
	case errors.Is(err, errPrimaryExists):
		return fmt.Errorf("%w: a user with id %s already exists", entity.ErrUserValidation, u.ID)
	case errors.Is(err, errSecondaryExists):
		return fmt.Errorf("%w: a user with email %s already exists", entity.ErrUserValidation, u.Email)
	}
	return nil
}

var _ usecase.UserRepo = (*MemoryUserRepo)(nil)
