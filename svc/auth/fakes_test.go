package auth_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cybergaz/Hashira/pkg/email"
	"github.com/cybergaz/Hashira/svc/auth"
)

// memStore is an in-memory UserStore with the same uniqueness semantics as
// the Postgres implementation.
type memStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]auth.User

	failWith    error
	createCalls int
	updateCalls int
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uuid.UUID]auth.User)}
}

func (s *memStore) FindUserByEmail(ctx context.Context, addr string) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return auth.User{}, s.failWith
	}
	for _, user := range s.users {
		if strings.EqualFold(user.Email, addr) {
			return user, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (s *memStore) FindUserByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return auth.User{}, s.failWith
	}
	user, ok := s.users[id]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return user, nil
}

func (s *memStore) CreateUser(ctx context.Context, user auth.User) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCalls++
	if s.failWith != nil {
		return auth.User{}, s.failWith
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return auth.User{}, auth.ErrEmailTaken
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	return user, nil
}

func (s *memStore) UpdateUser(ctx context.Context, user auth.User) (auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateCalls++
	if s.failWith != nil {
		return auth.User{}, s.failWith
	}
	if _, ok := s.users[user.ID]; !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = user
	return user, nil
}

// put seeds a user directly, bypassing call counters.
func (s *memStore) put(user auth.User) auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = user
	return user
}

// fakeSender records templated sends and optionally fails them.
type fakeSender struct {
	mu       sync.Mutex
	sent     []email.SendTemplateParams
	failWith error
}

func (f *fakeSender) SendTemplate(ctx context.Context, params email.SendTemplateParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}
	f.sent = append(f.sent, params)
	return nil
}

func (f *fakeSender) last() email.SendTemplateParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeNonces is an in-memory single-use ledger.
type fakeNonces struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeNonces() *fakeNonces {
	return &fakeNonces{seen: make(map[string]bool)}
}

func (f *fakeNonces) Consume(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen[nonce] {
		return false, nil
	}
	f.seen[nonce] = true
	return true, nil
}

// fakeAdapter is a canned ProviderAdapter for orchestration tests.
type fakeAdapter struct {
	id       string
	identity auth.Identity
	failWith error
}

func (f *fakeAdapter) ProviderID() string { return f.id }

func (f *fakeAdapter) AuthURL(state string) (string, error) {
	return "https://provider.example/authorize?state=" + state, nil
}

func (f *fakeAdapter) ResolveProfile(ctx context.Context, code string) (auth.Identity, error) {
	if f.failWith != nil {
		return auth.Identity{}, f.failWith
	}
	return f.identity, nil
}
