package handlers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/folioweb/siteserver/internal/services"
	"github.com/folioweb/siteserver/internal/store"
	"github.com/folioweb/siteserver/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[string]types.User
	failWith error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]types.User)}
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return types.User{}, r.failWith
	}
	user, ok := r.users[username]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetProfileByUsername(ctx context.Context, username string) (types.Profile, error) {
	user, err := r.GetByUsername(ctx, username)
	if err != nil {
		return types.Profile{}, err
	}
	return types.Profile{Username: user.Username, Email: user.Email, Phone: user.Phone}, nil
}

func (r *fakeUserRepo) SearchUsernames(ctx context.Context, term string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	matches := make([]string, 0)
	for username := range r.users {
		if strings.Contains(username, term) {
			matches = append(matches, username)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user types.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, exists := r.users[user.Username]; exists {
		return errDuplicate
	}
	r.users[user.Username] = user
	return nil
}

type fakeContactRepo struct {
	mu       sync.Mutex
	messages []types.ContactMessage
	failWith error
}

func (r *fakeContactRepo) Create(ctx context.Context, msg types.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.messages = append(r.messages, msg)
	return nil
}

var errDuplicate = &duplicateError{}

type duplicateError struct{}

func (*duplicateError) Error() string {
	return `pq: duplicate key value violates unique constraint "users_pkey"`
}

// newTestRouter wires the handlers exactly as the server does, minus the
// static fallthrough, over fake repositories.
func newTestRouter(userRepo *fakeUserRepo, contactRepo *fakeContactRepo) http.Handler {
	userService := services.NewUserService(userRepo)
	contactService := services.NewContactService(contactRepo, nil, zap.NewNop())

	authHandler := NewAuthHandler(userService, testSecret, zap.NewNop())
	userHandler := NewUserHandler(userService, zap.NewNop())
	adminHandler := NewAdminHandler(userService, testSecret, zap.NewNop())
	contactHandler := NewContactHandler(contactService, zap.NewNop())

	router := chi.NewRouter()
	router.Post("/login", authHandler.Login)
	router.Post("/signup", authHandler.Signup)
	router.Post("/submit", contactHandler.Submit)
	router.Get("/user-info", userHandler.UserInfo)
	router.Route("/admin", func(r chi.Router) {
		r.Use(adminHandler.RequireAdmin)
		r.Get("/search-user", adminHandler.SearchUser)
		r.Get("/search-users-autocomplete", adminHandler.SearchUsersAutocomplete)
	})
	return router
}
