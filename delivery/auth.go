package delivery

import (
	"bazaar/domain"
	"bazaar/dto"
	"bazaar/middleware"
	"bazaar/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	authUC domain.AuthUseCase
}

func NewAuthHandler(r *gin.Engine, authUC domain.AuthUseCase) {
	handler := &AuthHandler{authUC: authUC}

	public := r.Group("/api/auth")
	{
		public.POST("/register", handler.Register)
		public.POST("/login", handler.Login)
	}

	protected := r.Group("/api/auth")
	protected.Use(middleware.AuthRequired(authUC.GetTokenManager()))
	{
		protected.GET("/profile", handler.Profile)
		protected.GET("/verify", handler.Verify)
	}
}

func userResponse(user *domain.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": utils.TranslateValidationError(err),
		})
		return
	}

	result, err := h.authUC.Register(c.Request.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role"})
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		default:
			log.Error().Err(err).Msg("register failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": utils.TranslateDBError(err),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   result.Token,
		"user":    userResponse(result.User),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": utils.TranslateValidationError(err),
		})
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
			return
		}
		log.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user":    userResponse(result.User),
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	user, err := h.authUC.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Error().Err(err).Str("userId", userID).Msg("get profile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"name":      user.Name,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	})
}

// Verify echoes the decoded claims back; used by clients to validate a
// stored token.
func (h *AuthHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Token is valid",
		"user": gin.H{
			"userId": c.GetString(middleware.CtxUserID),
			"email":  c.GetString(middleware.CtxEmail),
			"role":   c.GetString(middleware.CtxRole),
		},
	})
}
