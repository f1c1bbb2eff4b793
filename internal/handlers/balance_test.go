package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"match-service/internal/mocks"
	"match-service/internal/models"
)

func setupBalanceRouter(handler *BalanceHandler, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	r.GET("/balance", handler.GetBalance)
	r.POST("/balance/credit", handler.Credit)
	return r
}

func TestGetBalance(t *testing.T) {
	repo := new(mocks.BalanceRepositoryMock)
	handler := NewBalanceHandler(repo)
	router := setupBalanceRouter(handler, 5)

	repo.On("GetBalance", mock.Anything, 5).
		Return(models.Balance{UserID: 5, SuperlikesBalance: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/balance", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"superlikes_balance":2`)
	repo.AssertExpectations(t)
}

func TestCreditBalance(t *testing.T) {
	repo := new(mocks.BalanceRepositoryMock)
	handler := NewBalanceHandler(repo)
	router := setupBalanceRouter(handler, 5)

	repo.On("Credit", mock.Anything, 5, "superlike", 3).
		Return(models.Balance{UserID: 5, SuperlikesBalance: 3}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/balance/credit",
		bytes.NewBufferString(`{"kind":"superlike","amount":3}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestCreditBalanceIgnoresForeignUserID(t *testing.T) {
	repo := new(mocks.BalanceRepositoryMock)
	handler := NewBalanceHandler(repo)
	router := setupBalanceRouter(handler, 5)

	repo.On("Credit", mock.Anything, 5, "boost", 2).
		Return(models.Balance{UserID: 5, BoostsBalance: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/balance/credit",
		bytes.NewBufferString(`{"user_id":999,"kind":"boost","amount":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestCreditBalanceUnknownKind(t *testing.T) {
	handler := NewBalanceHandler(new(mocks.BalanceRepositoryMock))
	router := setupBalanceRouter(handler, 5)

	req := httptest.NewRequest(http.MethodPost, "/balance/credit",
		bytes.NewBufferString(`{"kind":"gold","amount":3}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreditBalanceNegativeAmount(t *testing.T) {
	handler := NewBalanceHandler(new(mocks.BalanceRepositoryMock))
	router := setupBalanceRouter(handler, 5)

	req := httptest.NewRequest(http.MethodPost, "/balance/credit",
		bytes.NewBufferString(`{"kind":"superlike","amount":-1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
