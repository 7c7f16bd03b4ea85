package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegisterRoutes verifies every auth route is mounted; none may return
// fiber's 404/405 for method-and-path.
func TestRegisterRoutes(t *testing.T) {
	ta := newTestApp(t, 5)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/auth/signup"},
		{http.MethodPost, "/auth/login"},
		{http.MethodPost, "/auth/refresh-token"},
		{http.MethodPost, "/auth/logout"},
		{http.MethodGet, "/auth/me"},
		{http.MethodPut, "/auth/me"},
		{http.MethodDelete, "/auth/me"},
		{http.MethodPost, "/auth/change-password"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%s_exists", tc.method, tc.path), func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, err := ta.app.Test(req)
			require.NoError(t, err)
			assert.NotEqual(t, fiber.StatusNotFound, resp.StatusCode)
			assert.NotEqual(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
		})
	}
}
