package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/davitran/profile-hub/internal/domain/user"
	"github.com/davitran/profile-hub/pkg/apperror"
	"github.com/davitran/profile-hub/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

// Cache is the read cache for profiles. Implementations must treat
// every failure as a miss; correctness never depends on the cache.
type Cache interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, bool)
	Set(ctx context.Context, u *user.User)
	Invalidate(ctx context.Context, id uuid.UUID)
}

type GetProfileUseCase struct {
	userRepo user.Repository
	cache    Cache
	logger   logger.Logger
}

func NewGetProfileUseCase(repo user.Repository, cache Cache, log logger.Logger) *GetProfileUseCase {
	return &GetProfileUseCase{
		userRepo: repo,
		cache:    cache,
		logger:   log,
	}
}

type GetProfileInput struct {
	UserID uuid.UUID
}

type GetProfileOutput struct {
	User *user.User
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {

	ctx, span := tracer.Start(ctx, "GetProfile")
	defer span.End()

	if uc.cache != nil {
		if cached, ok := uc.cache.Get(ctx, input.UserID); ok {
			return &GetProfileOutput{User: cached}, nil
		}
	}

	u, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.NewNotFound("User", input.UserID.String())
		}
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to fetch user profile", err)
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, u)
	}

	return &GetProfileOutput{User: u}, nil
}
