package profile

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/davitran/profile-hub/internal/domain/user"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newMemUserRepo(seed ...*user.User) *memUserRepo {
	r := &memUserRepo{users: map[uuid.UUID]*user.User{}}
	for _, u := range seed {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *memUserRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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

// fakeUploader records the order of media-store calls.
type fakeUploader struct {
	mu        sync.Mutex
	ops       []string
	uploadURL string
	uploadErr error
	deleteErr error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		uploadURL: "https://media.example.com/profile-pictures/new-pic.jpg",
	}
}

func (f *fakeUploader) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "upload:"+folder)
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.uploadURL, nil
}

func (f *fakeUploader) Delete(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "delete:"+publicID)
	return f.deleteErr
}

func (f *fakeUploader) operations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.ops))
	copy(out, f.ops)
	return out
}

// recordingCache tracks invalidations; lookups always miss.
type recordingCache struct {
	mu          sync.Mutex
	invalidated []uuid.UUID
}

func (c *recordingCache) Get(ctx context.Context, id uuid.UUID) (*user.User, bool) {
	return nil, false
}

func (c *recordingCache) Set(ctx context.Context, u *user.User) {}

func (c *recordingCache) Invalidate(ctx context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
}

var errMediaDown = errors.New("media store unavailable")
