package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOutOfStock = stderrors.New("out of stock")

func TestChainedResponder_UsesFirstMatchingMapper(t *testing.T) {
	gin.SetMode(gin.TestMode)
	responder := NewChainedResponder("", func(err error) (ProblemDetail, bool) {
		if stderrors.Is(err, errOutOfStock) {
			return NewConflictProblem(ReasonInsufficientStock, err.Error()), true
		}
		return ProblemDetail{}, false
	})

	router := gin.New()
	router.GET("/orders", func(c *gin.Context) {
		responder.RespondError(c, errOutOfStock)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeConflict, body.Type)
	assert.Equal(t, "/orders", body.Instance)
	assert.Equal(t, "insufficient_stock", body.Extensions["reason"])
}

func TestChainedResponder_FallsBackToInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	responder := NewChainedResponder("https://errors.example")

	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		responder.RespondError(c, stderrors.New("database unreachable"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://errors.example"+TypeInternal, body.Type)
	assert.Equal(t, "database unreachable", body.Detail)
}

func TestChainedResponder_PassesProblemThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	responder := NewChainedResponder("")

	router := gin.New()
	router.POST("/orders", func(c *gin.Context) {
		responder.RespondError(c, NewInsufficientStockProblem(7, 3, 1))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", nil))

	require.Equal(t, http.StatusConflict, rec.Code)
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ReasonInsufficientStock, body.Extensions["reason"])
	assert.EqualValues(t, 7, body.Extensions["product_id"])
	assert.EqualValues(t, 3, body.Extensions["requested"])
	assert.EqualValues(t, 1, body.Extensions["available"])
}

func TestWithExtension_LeavesTemplateUntouched(t *testing.T) {
	_ = NewConflictProblem(ReasonStatusConflict, "order 1 changed")
	_ = NewValidationProblem(map[string]string{"items[0].price": "must have at most 2 decimal places"})

	assert.Empty(t, ErrConflict.Extensions)
	assert.Empty(t, ErrValidation.Extensions)
}
