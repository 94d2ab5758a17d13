package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	a "github.com/Pushkaraj-Palli/Discord-Clone/internal/auth"
)

type AuthHandlers struct {
	authService *a.AuthService
}

func NewAuthHandlers(db *gorm.DB) *AuthHandlers {
	return &AuthHandlers{
		authService: a.NewAuthService(db),
	}
}

const cookieMaxAge = 3600 * 24

type RegisterInput struct {
	Email    string `json:"email" binding:"required" example:"john@example.com"`
	Username string `json:"username" binding:"required" example:"john_doe"`
	Password string `json:"password" binding:"required" example:"securePassword123"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required" example:"john@example.com"`
	Password string `json:"password" binding:"required" example:"securePassword123"`
}

type UserResponse struct {
	ID        string `json:"id" example:"a1b2c3d4"`
	Email     string `json:"email" example:"john@example.com"`
	Username  string `json:"username" example:"john_doe"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Status    string `json:"status,omitempty" example:"online"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"invalid email or password"`
}

// RegisterHandler registers a new user
// @Summary Register a new user
// @Description Register with email, username and password; sets the auth cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body RegisterInput true "Registration request"
// @Success 201 {object} UserResponse "User registered successfully"
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 409 {object} ErrorResponse "Email or username taken"
// @Router /register [post]
func (h *AuthHandlers) RegisterHandler(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(input.Email, input.Username, input.Password)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "email already registered" || err.Error() == "username already taken" {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	token, err := a.GenerateToken(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User created but token generation failed"})
		return
	}

	c.SetCookie(a.CookieName, token, cookieMaxAge, "/", "", true, true)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Register successful",
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
		},
	})
}

// LoginHandler authenticates a user
// @Summary Login user
// @Description Authenticate with email and password; sets the auth cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login request"
// @Success 200 {object} UserResponse "User logged in successfully"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /login [post]
func (h *AuthHandlers) LoginHandler(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	token, err := a.GenerateToken(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
		return
	}

	c.SetCookie(a.CookieName, token, cookieMaxAge, "/", "", true, true)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
		},
	})
}

// LogoutHandler logs out the user
// @Summary Logout user
// @Description Clear the authentication cookie
// @Tags Authentication
// @Produce json
// @Security CookieAuth
// @Success 200 {object} gin.H "User logged out successfully"
// @Router /api/logout [post]
func (h *AuthHandlers) LogoutHandler(c *gin.Context) {
	c.SetCookie(a.CookieName, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
