package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bidmarket/auction-service/internal/metrics"
	"github.com/bidmarket/auction-service/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles account and session HTTP requests.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CredentialsRequest represents the signup and signin request payload.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup godoc
// @Summary Create account
// @Description Register a new account and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Account credentials"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	resp, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, http.StatusBadRequest, "Email already registered. Please use a different email or sign in.")
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, http.StatusBadRequest, "Please enter a valid email address")
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, http.StatusBadRequest, "Password must be at least 6 characters long")
		default:
			logAndRespondError(c, http.StatusInternalServerError, err, "Error creating account. Please try again.")
		}
		return
	}

	metrics.SignupsTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"token":   resp.Token,
		"message": "Account created successfully!",
	})
}

// Signin godoc
// @Summary Sign in
// @Description Verify credentials and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Account credentials"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	resp, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusBadRequest, "User not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusBadRequest, "Invalid password")
		default:
			logAndRespondError(c, http.StatusInternalServerError, err, "Error signing in")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": resp.Token})
}

// Signout godoc
// @Summary Sign out
// @Description Revoke the presented bearer token
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /signout [post]
func (h *AuthHandler) Signout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		respondError(c, http.StatusUnauthorized, "Authorization header missing")
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), token); err != nil {
		logAndRespondError(c, http.StatusInternalServerError, err, "Error signing out")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully"})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
