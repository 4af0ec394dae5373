package handler

import (
	"net/http"

	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/models"
	"github.com/gustavobiasi/api-gerenciador-financeiro/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser fetches the authenticated user placed into the context by the
// auth middleware. When absent the request is answered with 401 and false
// is returned.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return user, true
}

// GetMe returns the authenticated user's profile.
func GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}
