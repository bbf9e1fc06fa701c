package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/finbook/finbook-backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// newJSONContext builds an echo context carrying a JSON body, ready for a
// handler under test.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate injects a user ID the way the auth middleware would.
func authenticate(c echo.Context, userID uuid.UUID) {
	c.Set(middleware.UserIDKey, userID)
}
