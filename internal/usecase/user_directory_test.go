package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/aq2208/gorder-mesh/internal/entity"
)

func TestUserDirectory_GetUser(t *testing.T) {
	t.Parallel()

	t.Run("returns the stored user", func(t *testing.T) {
		dir := NewUserDirectory(newFakeUserRepo(entity.User{ID: "u1", Email: "demo@example.com"}))

		u, err := dir.GetUser(context.Background(), "u1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if u == nil || u.Email != "demo@example.com" {
			t.Fatalf("expected demo@example.com, got %+v", u)
		}
	})

	t.Run("missing user is nil, not an error", func(t *testing.T) {
		dir := NewUserDirectory(newFakeUserRepo())

		u, err := dir.GetUser(context.Background(), "nobody")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if u != nil {
			t.Fatalf("expected nil user, got %+v", u)
		}
	})

	t.Run("empty id is a validation error", func(t *testing.T) {
		dir := NewUserDirectory(newFakeUserRepo())

		if _, err := dir.GetUser(context.Background(), ""); !errors.Is(err, entity.ErrUserValidation) {
			t.Fatalf("expected ErrUserValidation, got %v", err)
		}
	})
}

func TestUserDirectory_Seed(t *testing.T) {
	t.Parallel()

	seed := []entity.User{
		{ID: "u1", Email: "demo@example.com"},
		{ID: "u2", Email: "premium@example.com"},
	}

	t.Run("seeds users once", func(t *testing.T) {
		repo := newFakeUserRepo()
		dir := NewUserDirectory(repo)

		if err := dir.Seed(context.Background(), seed); err != nil {
			t.Fatalf("first seed: %v", err)
		}
		if err := dir.Seed(context.Background(), seed); err != nil {
			t.Fatalf("second seed must be a no-op: %v", err)
		}
		if got := len(repo.users); got != 2 {
			t.Fatalf("expected 2 users, got %d", got)
		}
	})

	t.Run("skips a duplicate email instead of failing", func(t *testing.T) {
		repo := newFakeUserRepo()
		dir := NewUserDirectory(repo)

		clash := []entity.User{
			{ID: "u1", Email: "demo@example.com"},
			{ID: "u9", Email: "demo@example.com"},
		}
		if err := dir.Seed(context.Background(), clash); err != nil {
			t.Fatalf("expected duplicate email to be skipped, got %v", err)
		}
		if got := len(repo.users); got != 1 {
			t.Fatalf("expected 1 user, got %d", got)
		}
	})
}
