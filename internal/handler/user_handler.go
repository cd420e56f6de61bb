package handler

import (
	"net/http"
	"strings"

	"classdesk/internal/auth"
	"classdesk/internal/model"
	"classdesk/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	repo      repository.UserRepository
	jwtSecret string
}

func NewUserHandler(repo repository.UserRepository, jwtSecret string) *UserHandler {
	return &UserHandler{repo: repo, jwtSecret: jwtSecret}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=teacher student observer"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Register creates an account. Admin accounts are provisioned out of band;
// self-registration covers the remaining roles and defaults to student.
// @Summary  Register a new user
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    request body RegisterRequest true "Registration data"
// @Success  201 {object} AuthResponse
// @Router   /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid input"})
		return
	}

	req.Email = strings.ToLower(req.Email)
	if req.Role == "" {
		req.Role = model.RoleStudent
	}

	existing, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict", "message": "User with this email already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &model.User{
		Email:          req.Email,
		Name:           req.Name,
		Role:           req.Role,
		HashedPassword: string(hash),
	}
	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token: token,
		User: UserResponse{
			ID:    user.ID.String(),
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	})
}

// Login authenticates by email and password and returns a bearer token.
// @Summary  Log in
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    request body LoginRequest true "Credentials"
// @Success  200 {object} AuthResponse
// @Router   /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid input"})
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(h.jwtSecret, user.ID, user.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User: UserResponse{
			ID:    user.ID.String(),
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	})
}
