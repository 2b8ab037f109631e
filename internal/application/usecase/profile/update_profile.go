package profile

import (
	"context"
	"errors"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/davitran/profile-hub/adapters/event"
	"github.com/davitran/profile-hub/internal/application/service"
	"github.com/davitran/profile-hub/internal/domain/user"
	"github.com/davitran/profile-hub/pkg/apperror"
	"github.com/davitran/profile-hub/pkg/logger"
)

// ProfilePictureFolder is the media-store folder all profile pictures
// live under. The public ID of an old picture is reconstructed from
// its URL relative to this folder.
const ProfilePictureFolder = "profile-pictures"

type UpdateProfileUseCase struct {
	userRepo user.Repository
	uploader service.Uploader
	cache    Cache
	events   event.UserEventPublisher
	logger   logger.Logger
}

func NewUpdateProfileUseCase(
	repo user.Repository,
	uploader service.Uploader,
	cache Cache,
	events event.UserEventPublisher,
	log logger.Logger,
) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{
		userRepo: repo,
		uploader: uploader,
		cache:    cache,
		events:   events,
		logger:   log,
	}
}

// UpdateProfileInput carries a partial update. A nil field is left
// untouched; a non-nil empty Bio clears the bio. ImagePath, when
// non-empty, names a local temp copy of the uploaded picture.
type UpdateProfileInput struct {
	UserID    uuid.UUID
	Name      *string
	Address   *string
	Bio       *string
	ImagePath string
}

type UpdateProfileOutput struct {
	User *user.User
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {

	ctx, span := tracer.Start(ctx, "UpdateProfile")
	defer span.End()

	current, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.NewNotFound("User", input.UserID.String())
		}
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to fetch user", err)
	}

	// name and address are required fields: an empty submission keeps
	// the current value, it never clears. Only bio tells empty apart
	// from absent.
	if input.Name != nil && *input.Name == "" {
		input.Name = nil
	}
	if input.Address != nil && *input.Address == "" {
		input.Address = nil
	}

	fields := user.UpdateFields{
		Name:    input.Name,
		Address: input.Address,
		Bio:     input.Bio,
	}

	if input.ImagePath != "" {
		newURL, err := uc.replacePicture(ctx, current, input.ImagePath)
		if err != nil {
			return nil, err
		}
		fields.ProfilePictureURL = &newURL
	}

	updated, err := uc.userRepo.Update(ctx, input.UserID, fields)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.NewNotFound("User", input.UserID.String())
		}
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to update user", err)
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, updated.ID)
	}

	if uc.events != nil {
		go func() {
			payload := event.UserEventPayload{
				EventType:  event.UserEventTypeProfileUpdated,
				UserID:     updated.ID,
				Email:      updated.Email,
				OccurredAt: time.Now().UTC(),
			}
			if err := uc.events.PublishUserEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'user.profile_updated' event", err, zap.String("user_id", updated.ID.String()))
			}
		}()
	}

	span.SetAttributes(attribute.String("user_id", updated.ID.String()))
	return &UpdateProfileOutput{User: updated}, nil
}

// replacePicture deletes the user's old media-store asset (best
// effort), uploads the new one, and removes the local temp copy.
// The temp copy is removed on both success and failure; the request
// is never retried, so nothing reads it again.
func (uc *UpdateProfileUseCase) replacePicture(ctx context.Context, current *user.User, imagePath string) (string, error) {
	if current.ProfilePictureURL != "" {
		publicID := PublicIDFromURL(current.ProfilePictureURL)
		if err := uc.uploader.Delete(ctx, publicID); err != nil {
			uc.logger.Warn("Error deleting old profile picture",
				zap.String("user_id", current.ID.String()),
				zap.String("public_id", publicID),
				zap.Error(err))
		}
	}

	file, err := os.Open(imagePath)
	if err != nil {
		return "", apperror.NewUpload("cannot open uploaded file", err)
	}

	newURL, err := uc.uploader.Upload(ctx, file, ProfilePictureFolder, uuid.NewString())
	file.Close()
	if removeErr := os.Remove(imagePath); removeErr != nil {
		uc.logger.Warn("Failed to remove temp upload file", zap.String("path", imagePath), zap.Error(removeErr))
	}
	if err != nil {
		return "", apperror.NewUpload("media store upload failed", err)
	}

	return newURL, nil
}

// PublicIDFromURL maps a stored picture URL back to its media-store
// public ID: the last path segment with the extension stripped,
// qualified by the profile-pictures folder.
func PublicIDFromURL(url string) string {
	base := path.Base(url)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return ProfilePictureFolder + "/" + base
}
