package http

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	profileUC "github.com/davitran/profile-hub/internal/application/usecase/profile"
	"github.com/davitran/profile-hub/pkg/apperror"
	"github.com/davitran/profile-hub/pkg/logger"
)

type ProfileHandler struct {
	getProfileUC    *profileUC.GetProfileUseCase
	updateProfileUC *profileUC.UpdateProfileUseCase
	uploadDir       string
	maxUploadBytes  int64
	logger          logger.Logger
}

func NewProfileHandler(
	getUC *profileUC.GetProfileUseCase,
	updateUC *profileUC.UpdateProfileUseCase,
	uploadDir string,
	maxUploadBytes int64,
	log logger.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		getProfileUC:    getUC,
		updateProfileUC: updateUC,
		uploadDir:       uploadDir,
		maxUploadBytes:  maxUploadBytes,
		logger:          log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	input := profileUC.GetProfileInput{UserID: userID}
	output, err := h.getProfileUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToUserDTO(output.User))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	input := profileUC.UpdateProfileInput{UserID: userID}

	// GetPostForm keeps "field absent" and "field present but empty"
	// apart; bio relies on that to distinguish clearing from ignoring.
	if name, present := c.GetPostForm("name"); present {
		input.Name = &name
	}
	if address, present := c.GetPostForm("address"); present {
		input.Address = &address
	}
	if bio, present := c.GetPostForm("bio"); present {
		input.Bio = &bio
	}

	fileHeader, err := c.FormFile("profilePicture")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		c.Error(apperror.NewValidation("Malformed multipart body", err))
		return
	}
	if fileHeader != nil {
		if fileHeader.Size > h.maxUploadBytes {
			c.Error(apperror.NewValidation("Profile picture exceeds the size limit", nil))
			return
		}
		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			c.Error(apperror.NewValidation("Only image files are allowed", nil))
			return
		}

		if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
			c.Error(apperror.NewInternal("cannot create upload directory", err))
			return
		}
		tempPath := filepath.Join(h.uploadDir, uuid.NewString()+filepath.Ext(fileHeader.Filename))
		if err := c.SaveUploadedFile(fileHeader, tempPath); err != nil {
			c.Error(apperror.NewInternal("cannot save uploaded file", err))
			return
		}
		input.ImagePath = tempPath
	}

	output, err := h.updateProfileUC.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    ToUserDTO(output.User),
		"message": "Profile updated successfully",
	})
}
