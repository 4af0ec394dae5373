package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/models"
	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler serves signup and signin.
type AuthHandler struct {
	DB         *gorm.DB
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(db *gorm.DB, jwtSecret string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthHandler{
		DB:         db,
		JWTSecret:  jwtSecret,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

type signupReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Mail     string `json:"mail" binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid signup payload")
		return
	}

	req.Mail = strings.TrimSpace(strings.ToLower(req.Mail))

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("mail = ?", req.Mail).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, "mail is already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	user := models.User{
		Name:         req.Name,
		Mail:         req.Mail,
		PasswordHash: string(hash),
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusCreated, user)
}

type signinReq struct {
	Mail     string `json:"mail" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req signinReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid signin payload")
		return
	}

	req.Mail = strings.TrimSpace(strings.ToLower(req.Mail))

	var user models.User
	if err := h.DB.Where("mail = ?", req.Mail).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, "invalid mail or password")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		util.Error(c, http.StatusUnauthorized, "invalid mail or password")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.ID, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
