package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/easyml-code/ocr-data-insertion/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindTarget struct {
	Invoices []map[string]any `json:"invoices" binding:"required,min=1"`
}

func newBindRouter(limit int64) *gin.Engine {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID(), BodyLimit(limit))
	router.POST("/test", func(c *gin.Context) {
		var req bindTarget
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(len(req.Invoices)))
	})
	return router
}

func postJSON(router *gin.Engine, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandleBindError(t *testing.T) {
	router := newBindRouter(1 << 10)

	t.Run("valid", func(t *testing.T) {
		w, resp := postJSON(router, `{"invoices":[{}]}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
	})

	t.Run("empty list uses json field name", func(t *testing.T) {
		w, resp := postJSON(router, `{"invoices":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "invoices", resp.Error.Details[0].Field)
		assert.Equal(t, "Must contain at least 1 item(s)", resp.Error.Details[0].Message)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("missing field", func(t *testing.T) {
		w, resp := postJSON(router, `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		w, resp := postJSON(router, `{"invoices": [`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})
}

func TestHandleBindError_TooLarge(t *testing.T) {
	router := newBindRouter(16)

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"invoices":[{"a":"`+strings.Repeat("x", 64)+`"}]}`))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeRequestTooLarge)
}
