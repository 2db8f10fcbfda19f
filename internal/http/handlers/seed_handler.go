package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/skillswap-backend/internal/service"
)

// SeedHandler обрабатывает запросы генерации демонстрационных данных.
// Маршрут регистрируется только вне production.
type SeedHandler struct {
	seedService *service.SeedService
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(seedService *service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// SeedRequest представляет запрос на генерацию данных.
type SeedRequest struct {
	NumUsers        int `json:"num_users"`
	ServicesPerUser int `json:"services_per_user"`
}

// Seed генерирует демонстрационных участников и услуги.
// POST /api/seed
func (h *SeedHandler) Seed(c *gin.Context) {
	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "некорректное тело запроса"})
		return
	}

	if req.NumUsers < 1 {
		req.NumUsers = 20
	}
	if req.NumUsers > 500 {
		req.NumUsers = 500
	}
	if req.ServicesPerUser < 1 {
		req.ServicesPerUser = 2
	}
	if req.ServicesPerUser > 10 {
		req.ServicesPerUser = 10
	}

	if err := h.seedService.SeedData(c.Request.Context(), req.NumUsers, req.ServicesPerUser); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "не удалось сгенерировать данные",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "демонстрационные данные созданы",
		"num_users":         req.NumUsers,
		"services_per_user": req.ServicesPerUser,
	})
}
