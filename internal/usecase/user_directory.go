package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/aq2208/gorder-mesh/internal/entity"
	"github.com/aq2208/gorder-mesh/internal/logging"
)

// UserDirectory is the read side of the user service: validated lookups over an
// immutable store.
type UserDirectory struct {
	repo UserRepo
}

func NewUserDirectory(repo UserRepo) *UserDirectory {
	return &UserDirectory{repo: repo}
}

// GetUser looks a user up by id. Absence is not an error: the result is
// (nil, nil) and the caller decides what a missing user means.
func (d *UserDirectory) GetUser(ctx context.Context, id string) (*entity.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: userId must be provided", entity.ErrUserValidation)
	}

	log := logging.WithCorrelation(ctx)
	u, err := d.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		log.Warn("user not found", "user_id", id)
	}
	return u, nil
}

// Seed inserts the given users unless already present. Safe to run on every
// startup.
func (d *UserDirectory) Seed(ctx context.Context, users []entity.User) error {
	log := logging.FromCtx(ctx)
	for _, u := range users {
		existing, err := d.repo.FindByID(ctx, u.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := d.repo.Add(ctx, u); err != nil {
			if errors.Is(err, entity.ErrUserValidation) {
				log.Warn("skipping seed user", "email", u.Email, "reason", err.Error())
				continue
			}
			return err
		}
		log.Info("seeded user", "email", u.Email)
	}
	return nil
}
