package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/models"
	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AccountHandler serves account CRUD, always scoped to the acting user.
type AccountHandler struct {
	DB *gorm.DB
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{DB: db}
}

type accountReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "name is a required attribute")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, "name is a required attribute")
		return
	}

	account := models.Account{
		Name:   req.Name,
		UserID: user.ID,
	}
	if err := h.DB.Create(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var accounts []models.Account
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("id ASC").
		Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "name is a required attribute")
		return
	}

	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	account.Name = strings.TrimSpace(req.Name)
	if err := h.DB.Save(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, account)
}

// DeleteAccount removes the account unless ledger entries reference it.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var account models.Account
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	var count int64
	if err := h.DB.Model(&models.Transaction{}).
		Where("acc_id = ?", account.ID).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, "account has associated transactions")
		return
	}

	if err := h.DB.Delete(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.Status(http.StatusNoContent)
}

// pathID parses the :id route parameter; answers 400 itself on bad input.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
