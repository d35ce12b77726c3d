package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aq2208/gorder-mesh/internal/entity"
)

// fakeUserRepo scripts lookup behavior per call.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]entity.User
	calls int

	// findErr is returned by FindByID for the first failFirst calls
	// (failFirst == 0 means every call).
	findErr   error
	failFirst int

	// block parks FindByID until the context is done.
	block bool
}

func newFakeUserRepo(users ...entity.User) *fakeUserRepo {
	m := make(map[string]entity.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	r.calls++
	n := r.calls
	r.mu.Unlock()

	if r.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if r.findErr != nil && (r.failFirst == 0 || n <= r.failFirst) {
		return nil, r.findErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Add(ctx context.Context, u entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; ok {
		return fmt.Errorf("%w: a user with id %s already exists", entity.ErrUserValidation, u.ID)
	}
	for _, ex := range r.users {
		if strings.EqualFold(ex.Email, u.Email) {
			return fmt.Errorf("%w: a user with email %s already exists", entity.ErrUserValidation, u.Email)
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) findCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// fakeOrderRepo is an insert-or-fail store with optional scripted conflicts.
type fakeOrderRepo struct {
	mu    sync.Mutex
	byID  map[string]entity.Order
	byKey map[string]string

	// conflictOnAdd makes the next Add fail with an order conflict. When
	// winnerOnConflict is set, that order is installed first, so a re-read by
	// dedup key discovers it.
	conflictOnAdd    bool
	winnerOnConflict *entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byID: map[string]entity.Order{}, byKey: map[string]string{}}
}

func composeKey(userID, productCode string) string {
	return userID + ":" + strings.ToUpper(productCode)
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.byID[id]; ok {
		return &o, nil
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindByDedupKey(ctx context.Context, userID, productCode string) (*entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byKey[composeKey(userID, productCode)]; ok {
		o := r.byID[id]
		return &o, nil
	}
	return nil, nil
}

func (r *fakeOrderRepo) Add(ctx context.Context, o entity.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflictOnAdd {
		r.conflictOnAdd = false
		if w := r.winnerOnConflict; w != nil {
			r.byID[w.ID] = *w
			r.byKey[composeKey(w.UserID, w.ProductCode)] = w.ID
		}
		return fmt.Errorf("%w: an equivalent order already exists", entity.ErrOrderConflict)
	}

	k := composeKey(o.UserID, o.ProductCode)
	if _, ok := r.byKey[k]; ok {
		return fmt.Errorf("%w: an equivalent order already exists", entity.ErrOrderConflict)
	}
	if _, ok := r.byID[o.ID]; ok {
		return fmt.Errorf("%w: order %s already exists", entity.ErrOrderConflict, o.ID)
	}
	r.byID[o.ID] = o
	r.byKey[k] = o.ID
	return nil
}

func (r *fakeOrderRepo) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// fakeSimulator counts hops and can fail scripted endpoints. It never sleeps.
type fakeSimulator struct {
	mu       sync.Mutex
	incoming int
	outgoing map[string]int
	seenIDs  []string

	incomingErr error
	outErr      map[string]error
	outErrFirst map[string]int // fail only the first N calls; 0 = every call
}

func newFakeSimulator() *fakeSimulator {
	return &fakeSimulator{
		outgoing:    map[string]int{},
		outErr:      map[string]error{},
		outErrFirst: map[string]int{},
	}
}

func (s *fakeSimulator) SimulateIncoming(ctx context.Context, correlationID string) error {
	s.mu.Lock()
	s.incoming++
	s.seenIDs = append(s.seenIDs, correlationID)
	s.mu.Unlock()
	if s.incomingErr != nil {
		return s.incomingErr
	}
	return ctx.Err()
}

func (s *fakeSimulator) SimulateOutgoing(ctx context.Context, endpoint, correlationID string) error {
	s.mu.Lock()
	s.outgoing[endpoint]++
	n := s.outgoing[endpoint]
	err := s.outErr[endpoint]
	first := s.outErrFirst[endpoint]
	s.mu.Unlock()

	if err != nil && (first == 0 || n <= first) {
		return err
	}
	return ctx.Err()
}

func (s *fakeSimulator) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.incoming
	for _, c := range s.outgoing {
		n += c
	}
	return n
}

func (s *fakeSimulator) outgoingCalls(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outgoing[endpoint]
}

func (s *fakeSimulator) correlationIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.seenIDs...)
}
