package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/skillswap-backend/internal/dto"
	"github.com/dkovalev/skillswap-backend/internal/http/handlers/common"
	"github.com/dkovalev/skillswap-backend/internal/service"
	"github.com/dkovalev/skillswap-backend/internal/validation"
)

// ProfileHandler предоставляет HTTP слой для профилей участников.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler создаёт хэндлер.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Me обрабатывает GET /profile.
func (h *ProfileHandler) Me(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	user, err := h.profiles.Me(c.Request.Context(), userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, user)
}

// Update обрабатывает PUT /profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if req.Bio != nil {
		if err := validation.ValidateBio(*req.Bio); err != nil {
			common.RespondBadRequest(c, err.Error())
			return
		}
	}
	if req.Location != nil {
		if err := validation.ValidateLocation(*req.Location); err != nil {
			common.RespondBadRequest(c, err.Error())
			return
		}
	}

	user, err := h.profiles.Update(c.Request.Context(), userID, service.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Location:  req.Location,
		Avatar:    req.Avatar,
		Bio:       req.Bio,
	})
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, user)
}

// PublicProfile обрабатывает GET /users/:id.
func (h *ProfileHandler) PublicProfile(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.profiles.PublicProfile(c.Request.Context(), userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, profile)
}
