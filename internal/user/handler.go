package user

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/httputil"
	"github.com/taskboard/taskboard-api/internal/logging"
	"github.com/taskboard/taskboard-api/internal/validation"
)

// Handler contains HTTP handlers for the profile endpoints. All of them
// sit behind the auth and ownership middleware, so the {id} parameter
// is always the caller's own id.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// UpdateProfileRequest represents the profile update request body
type UpdateProfileRequest struct {
	Name     *string          `json:"name" validate:"omitempty,max=50"`
	Email    *string          `json:"email" validate:"omitempty,email"`
	Settings *SettingsRequest `json:"settings"`
}

// SettingsRequest represents the optional settings fields of a profile update
type SettingsRequest struct {
	NotificationEmail *string `json:"notificationEmail" validate:"omitempty,oneof=immediate daily weekly none"`
	Theme             *string `json:"theme" validate:"omitempty,oneof=light dark"`
	DefaultTaskStatus *string `json:"defaultTaskStatus" validate:"omitempty,oneof=pending in-progress"`
}

// ChangePasswordRequest represents the password change request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// ProfileResponse is the public view of a profile
type ProfileResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Settings Settings  `json:"settings"`
}

func profileResponse(u *User) ProfileResponse {
	return ProfileResponse{ID: u.ID, Name: u.Name, Email: u.Email, Settings: u.Settings}
}

// GetProfile returns the caller's profile
// @Summary      Get user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User id"
// @Success      200 {object} map[string]interface{}
// @Failure      403 {object} httputil.ErrorResponse "Not the caller's id"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/users/{id} [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(w, r)
	if !ok {
		return
	}

	u, err := h.service.Profile(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, "", map[string]any{
		"user": profileResponse(u),
	})
}

// UpdateProfile updates name, email and settings
// @Summary      Update user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User id"
// @Param        request body UpdateProfileRequest true "Fields to update"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} httputil.ErrorResponse "Validation failure or duplicate email"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/users/{id} [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := pathUserID(w, r)
	if !ok {
		return
	}

	req, ok := validation.DecodeValid[UpdateProfileRequest](w, r)
	if !ok {
		return
	}

	// omitempty skips the zero string behind a pointer, so
	// present-but-blank fields need their own checks
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		validation.Respond(w, validation.FieldErrors{{"name": "Name cannot be empty"}})
		return
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) == "" {
		validation.Respond(w, validation.FieldErrors{{"email": "Please include a valid email"}})
		return
	}

	var update ProfileUpdate
	if req.Name != nil {
		update.Name = *req.Name
	}
	if req.Email != nil {
		update.Email = *req.Email
	}
	if req.Settings != nil {
		update.Settings = &SettingsUpdate{
			NotificationEmail: req.Settings.NotificationEmail,
			Theme:             req.Settings.Theme,
			DefaultTaskStatus: req.Settings.DefaultTaskStatus,
		}
	}

	u, err := h.service.UpdateProfile(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			logger.Warn("profile update failed: duplicate email")
			httputil.RespondError(w, "Email is already in use.", http.StatusBadRequest)
			return
		}
		h.respondServiceError(w, r, err)
		return
	}

	logger.Info("profile updated", "user_id", id)

	httputil.RespondSuccess(w, http.StatusOK, "Profile updated successfully", map[string]any{
		"user": profileResponse(u),
	})
}

// ChangePassword re-verifies the current password and stores a new hash
// @Summary      Change password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User id"
// @Param        request body ChangePasswordRequest true "Current and new password"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} httputil.ErrorResponse "Wrong current password"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/users/{id}/password [put]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := pathUserID(w, r)
	if !ok {
		return
	}

	req, ok := validation.DecodeValid[ChangePasswordRequest](w, r)
	if !ok {
		return
	}

	err := h.service.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, ErrWrongPassword) {
			logger.Warn("password change failed: wrong current password", "user_id", id)
			httputil.RespondError(w, "Current password is incorrect", http.StatusBadRequest)
			return
		}
		h.respondServiceError(w, r, err)
		return
	}

	logger.Info("password changed", "user_id", id)

	httputil.RespondSuccess(w, http.StatusOK, "Password updated successfully", nil)
}

// DeleteAccount removes the user and all embedded tasks
// @Summary      Delete account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User id"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/users/{id} [delete]
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := pathUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteAccount(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	logger.Info("account deleted", "user_id", id)

	httputil.RespondSuccess(w, http.StatusOK, "Account deleted successfully", nil)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.GetLoggerFromContext(r.Context())

	if errors.Is(err, ErrNotFound) {
		httputil.RespondError(w, "User not found", http.StatusNotFound)
		return
	}

	logger.Error("user operation failed: internal error", "error", err.Error())
	httputil.RespondError(w, "Server Error", http.StatusInternalServerError)
}

// pathUserID parses the {id} path parameter. The ownership middleware
// has already matched it against the caller, so a parse failure means
// the id cannot exist.
func pathUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, "User not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}
