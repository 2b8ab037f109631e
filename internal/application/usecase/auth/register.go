package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/davitran/profile-hub/adapters/event"
	"github.com/davitran/profile-hub/internal/domain/user"
	"github.com/davitran/profile-hub/pkg/apperror"
	"github.com/davitran/profile-hub/pkg/auth"
	"github.com/davitran/profile-hub/pkg/logger"
)

var tracer = otel.Tracer("auth_usecase")

type RegisterUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	events   event.UserEventPublisher
	logger   logger.Logger
}

func NewRegisterUseCase(repo user.Repository, jwtSvc *auth.JWTService, events event.UserEventPublisher, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		events:   events,
		logger:   log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Bio      string
}

type RegisterOutput struct {
	UserID      uuid.UUID
	AccessToken string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {

	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	if input.Name == "" || input.Email == "" || input.Password == "" || input.Address == "" {
		return nil, apperror.NewValidation("Name, email, password, and address are required", nil)
	}

	existing, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to check existing email", err)
	}
	if existing != nil {
		return nil, apperror.NewConflict("User", "email", input.Email)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	newUser := &user.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Address:      input.Address,
		Bio:          input.Bio,
	}

	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		// The unique index may still fire when two registrations race.
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, apperror.NewConflict("User", "email", input.Email)
		}
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to create user", err)
	}

	token, err := uc.jwtSvc.GenerateToken(newUser.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", newUser.ID.String()))
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	if uc.events != nil {
		go func() {
			payload := event.UserEventPayload{
				EventType:  event.UserEventTypeRegistered,
				UserID:     newUser.ID,
				Email:      newUser.Email,
				OccurredAt: time.Now().UTC(),
			}
			if err := uc.events.PublishUserEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'user.registered' event", err, zap.String("user_id", newUser.ID.String()))
			}
		}()
	}

	span.SetAttributes(attribute.String("user_id", newUser.ID.String()))
	return &RegisterOutput{UserID: newUser.ID, AccessToken: token}, nil
}
