package user

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/joefazee/foresight/internal/security"
	"github.com/joefazee/foresight/models"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	tokenMaker *security.MockMaker
	repo       *MockRepo
	router     *gin.Engine
}

func (suite *AuthMiddlewareTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *AuthMiddlewareTestSuite) SetupTest() {
	suite.tokenMaker = &security.MockMaker{}
	suite.repo = &MockRepo{}
	suite.router = gin.New()

	suite.router.Use(AuthMiddleware(suite.tokenMaker, suite.repo))
	suite.router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
}

func TestAuthMiddleware(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (suite *AuthMiddlewareTestSuite) TestMissingAuthHeader() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", http.NoBody)

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Header().Get("Vary"), AuthorizationHeaderKey)
}

func (suite *AuthMiddlewareTestSuite) TestInvalidAuthHeaderFormat_NoBearer() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", http.NoBody)
	req.Header.Set("Authorization", "Basic token123")

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestInvalidAuthHeaderFormat_OnlyBearer() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer")

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestInvalidToken() {
	suite.tokenMaker.On("VerifyToken", "invalid_token").Return(nil, errors.New("invalid token"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer invalid_token")

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.tokenMaker.AssertExpectations(suite.T())
}

func (suite *AuthMiddlewareTestSuite) TestUserNotFound() {
	userID := uuid.New()
	payload := &security.Payload{UserID: userID}

	suite.tokenMaker.On("VerifyToken", "valid_token").Return(payload, nil)
	suite.repo.On("GetByID", mock.Anything, userID).Return(nil, models.ErrRecordNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid_token")

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.tokenMaker.AssertExpectations(suite.T())
	suite.repo.AssertExpectations(suite.T())
}

func (suite *AuthMiddlewareTestSuite) TestSuccessful() {
	userID := uuid.New()
	payload := &security.Payload{UserID: userID}
	user := &models.User{ID: userID}

	suite.tokenMaker.On("VerifyToken", "valid_token").Return(payload, nil)
	suite.repo.On("GetByID", mock.Anything, userID).Return(user, nil)

	suite.router.GET("/context-test", func(c *gin.Context) {
		contextUser := ContextGetUser(c)
		contextToken := ContextGetToken(c)
		suite.Equal(user, contextUser)
		suite.Equal(payload, contextToken)
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/context-test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid_token")

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.tokenMaker.AssertExpectations(suite.T())
	suite.repo.AssertExpectations(suite.T())
}
