package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"classdesk/internal/handler"
	"classdesk/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func setupUserTest() (*gin.Engine, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockRepo := new(MockUserRepository)
	userHandler := handler.NewUserHandler(mockRepo, "test-secret")

	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	return r, mockRepo
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()

	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	reqBody := handler.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
		Role:     model.RoleTeacher,
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.AuthResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, reqBody.Name, response.User.Name)
	assert.Equal(t, reqBody.Email, response.User.Email)
	assert.Equal(t, model.RoleTeacher, response.User.Role)

	mockRepo.AssertExpectations(t)
}

func TestRegister_DefaultsToStudentRole(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()

	mockRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	reqBody := handler.RegisterRequest{
		Name:     "New User",
		Email:    "new@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.AuthResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, model.RoleStudent, response.User.Role)
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	// Arrange: admin accounts are provisioned out of band.
	router, mockRepo := setupUserTest()

	reqBody := handler.RegisterRequest{
		Name:     "Admin Wannabe",
		Email:    "admin@example.com",
		Password: "password123",
		Role:     model.RoleAdmin,
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_UserAlreadyExists(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()

	existingUser := &model.User{
		ID:             uuid.New(),
		Email:          "existing@example.com",
		HashedPassword: "hashed_password",
		Name:           "Existing User",
		Role:           model.RoleStudent,
	}
	mockRepo.On("FindByEmail", mock.Anything, "existing@example.com").Return(existingUser, nil)

	reqBody := handler.RegisterRequest{
		Name:     "Test User",
		Email:    "existing@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Conflict", response["error"])

	mockRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	testUser := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hashedPassword),
		Name:           "Test User",
		Role:           model.RoleStudent,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(testUser, nil)

	reqBody := handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.AuthResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, testUser.ID.String(), response.User.ID)

	mockRepo.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)
	testUser := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hashedPassword),
		Name:           "Test User",
		Role:           model.RoleStudent,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(testUser, nil)

	reqBody := handler.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong_password",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_UserNotFound(t *testing.T) {
	// Arrange
	router, mockRepo := setupUserTest()

	mockRepo.On("FindByEmail", mock.Anything, "nonexistent@example.com").Return(nil, nil)

	reqBody := handler.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
