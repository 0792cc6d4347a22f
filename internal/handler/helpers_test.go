package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"billflow/internal/domain"
	"billflow/internal/handler"
	"billflow/internal/middleware"
)

const testNS = domain.Namespace("users/u1")

func init() {
	gin.SetMode(gin.TestMode)
}

// newContext builds a test context for a request. A non-nil body is sent as JSON.
func newContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body == nil {
		c.Request, _ = http.NewRequest(method, target, http.NoBody)
	} else {
		raw, _ := json.Marshal(body)
		c.Request, _ = http.NewRequest(method, target, bytes.NewReader(raw))
		c.Request.Header.Set("Content-Type", "application/json")
	}
	c.Set(middleware.ContextKeyNamespace, testNS)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode(t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}
