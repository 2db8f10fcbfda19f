package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dkovalev/skillswap-backend/internal/dto"
	"github.com/dkovalev/skillswap-backend/internal/http/handlers/common"
	"github.com/dkovalev/skillswap-backend/internal/service"
	"github.com/dkovalev/skillswap-backend/internal/validation"
)

// TransactionHandler предоставляет HTTP слой для сделок обмена услугами.
type TransactionHandler struct {
	exchange *service.ExchangeService
}

// NewTransactionHandler создаёт хэндлер.
func NewTransactionHandler(exchange *service.ExchangeService) *TransactionHandler {
	return &TransactionHandler{exchange: exchange}
}

// Create обрабатывает POST /transactions — запрос услуги.
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.RequestServiceRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		common.RespondBadRequest(c, "service_id должен быть валидным UUID")
		return
	}

	if err := validation.ValidateRequestMessage(req.Message); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	tx, err := h.exchange.RequestService(c.Request.Context(), userID, serviceID, req.Message)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, tx)
}

// List обрабатывает GET /transactions — сделки текущего пользователя.
func (h *TransactionHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	transactions, err := h.exchange.ListMyTransactions(c.Request.Context(), userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"transactions": transactions})
}

// Get обрабатывает GET /transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	transactionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	tx, err := h.exchange.GetTransaction(c.Request.Context(), transactionID, userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, tx)
}

// Respond обрабатывает POST /transactions/:id/respond — ответ исполнителя.
func (h *TransactionHandler) Respond(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	transactionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.RespondRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	tx, err := h.exchange.Respond(c.Request.Context(), transactionID, userID, service.RespondAction(req.Action))
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, tx)
}

// Confirm обрабатывает POST /transactions/:id/confirm — подтверждение выполнения.
func (h *TransactionHandler) Confirm(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	transactionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.exchange.ConfirmCompletion(c.Request.Context(), transactionID, userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, result)
}
