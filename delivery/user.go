package delivery

import (
	"bazaar/domain"
	"bazaar/middleware"
	"bazaar/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type UserHandler struct {
	userUC domain.UserUseCase
}

func NewUserHandler(r *gin.Engine, userUC domain.UserUseCase, tokens *utils.JWTManager) {
	handler := &UserHandler{userUC: userUC}

	grp := r.Group("/api/users")
	grp.Use(middleware.AuthRequired(tokens))
	{
		grp.GET("", handler.List)
		grp.GET("/:id", handler.GetByID)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userUC.GetAllUsers(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.userUC.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Error().Err(err).Str("userId", c.Param("id")).Msg("get user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}
