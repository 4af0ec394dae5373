package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/service"
	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransferHandler maps HTTP requests onto the transfer service and its
// error taxonomy onto status codes: validation 400, not found 404,
// everything else 500.
type TransferHandler struct {
	Service *service.Service
}

func NewTransferHandler(svc *service.Service) *TransferHandler {
	return &TransferHandler{Service: svc}
}

// transferReq mirrors the historical wire format: every attribute optional,
// pointer fields so absent and zero are distinguishable. The service does
// the real validation. The historical API misspelled the amount field as
// "ammount"; both spellings are accepted so old clients keep working, while
// responses always use the corrected "amount".
type transferReq struct {
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Ammount     *decimal.Decimal `json:"ammount"`
	Date        *time.Time       `json:"date"`
	AccOriID    *uint            `json:"acc_ori_id"`
	AccDestID   *uint            `json:"acc_dest_id"`
}

func (r *transferReq) payload() service.Payload {
	amount := r.Amount
	if amount == nil {
		amount = r.Ammount
	}
	return service.Payload{
		Description: r.Description,
		Amount:      amount,
		Date:        r.Date,
		AccOriID:    r.AccOriID,
		AccDestID:   r.AccDestID,
	}
}

func (h *TransferHandler) ListTransfers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	transfers, err := h.Service.List(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, transfers)
}

func (h *TransferHandler) GetTransfer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	transfer, err := h.Service.GetByID(id, user.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req transferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid transfer payload")
		return
	}

	transfer, err := h.Service.Create(user.ID, req.payload())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transfer)
}

func (h *TransferHandler) UpdateTransfer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req transferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid transfer payload")
		return
	}

	transfer, err := h.Service.Update(id, user.ID, req.payload())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *TransferHandler) writeError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		util.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		util.Error(c, http.StatusNotFound, err.Error())
	default:
		util.Error(c, http.StatusInternalServerError, "internal error")
	}
}
