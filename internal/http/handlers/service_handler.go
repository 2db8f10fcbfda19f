package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/skillswap-backend/internal/dto"
	"github.com/dkovalev/skillswap-backend/internal/http/handlers/common"
	"github.com/dkovalev/skillswap-backend/internal/repository"
	"github.com/dkovalev/skillswap-backend/internal/service"
	"github.com/dkovalev/skillswap-backend/internal/validation"
)

// ServiceHandler предоставляет HTTP слой для каталога услуг.
type ServiceHandler struct {
	catalog *service.CatalogService
}

// NewServiceHandler создаёт хэндлер.
func NewServiceHandler(catalog *service.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// List обрабатывает GET /services.
func (h *ServiceHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	services, err := h.catalog.List(c.Request.Context(), repository.ServiceListParams{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"services": services})
}

// Get обрабатывает GET /services/:id.
func (h *ServiceHandler) Get(c *gin.Context) {
	serviceID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	svc, err := h.catalog.Get(c.Request.Context(), serviceID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, svc)
}

// Mine обрабатывает GET /services/mine.
func (h *ServiceHandler) Mine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	services, err := h.catalog.ListByProvider(c.Request.Context(), userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"services": services})
}

// Create обрабатывает POST /services.
func (h *ServiceHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateServiceRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := validation.ValidateServiceTitle(req.Title); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidateServiceDescription(req.Description); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}
	if err := validation.ValidateTags(req.Tags); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	svc, err := h.catalog.Create(c.Request.Context(), userID, service.CreateServiceInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Points:       req.Points,
		Location:     req.Location,
		Availability: req.Availability,
		Tags:         req.Tags,
	})
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, svc)
}

// Update обрабатывает PUT /services/:id.
func (h *ServiceHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	serviceID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateServiceRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if req.Tags != nil {
		if err := validation.ValidateTags(req.Tags); err != nil {
			common.RespondBadRequest(c, err.Error())
			return
		}
	}

	svc, err := h.catalog.Update(c.Request.Context(), serviceID, userID, service.UpdateServiceInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Points:       req.Points,
		Location:     req.Location,
		Availability: req.Availability,
		Tags:         req.Tags,
		IsAvailable:  req.IsAvailable,
	})
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, svc)
}

// Delete обрабатывает DELETE /services/:id.
func (h *ServiceHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	serviceID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), serviceID, userID); err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "услуга удалена", nil)
}
