package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/davitran/profile-hub/adapters/event"
	"github.com/davitran/profile-hub/internal/domain/user"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]*user.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Update(ctx context.Context, id uuid.UUID, fields user.UpdateFields) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	if fields.Name != nil {
		u.Name = *fields.Name
	}
	if fields.Address != nil {
		u.Address = *fields.Address
	}
	if fields.Bio != nil {
		u.Bio = *fields.Bio
	}
	if fields.ProfilePictureURL != nil {
		u.ProfilePictureURL = *fields.ProfilePictureURL
	}
	cp := *u
	return &cp, nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []event.UserEventPayload
}

func (p *capturePublisher) PublishUserEvent(ctx context.Context, payload event.UserEventPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload)
	return nil
}

func (p *capturePublisher) published() []event.UserEventPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.UserEventPayload, len(p.events))
	copy(out, p.events)
	return out
}
