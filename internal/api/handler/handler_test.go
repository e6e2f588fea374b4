package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type testRouter struct {
	echo          *echo.Echo
	events        *MockEventService
	participation *MockParticipationService
	directory     *MockDirectoryService
}

func newTestRouter() *testRouter {
	r := &testRouter{
		echo:          NewTestEcho(),
		events:        new(MockEventService),
		participation: new(MockParticipationService),
		directory:     new(MockDirectoryService),
	}
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	RegisterRoutes(r.echo, Handlers{
		Event:         NewEventHandler(r.events),
		Participation: NewParticipationHandler(r.participation),
		Admin:         NewAdminHandler(r.directory),
		Health:        NewHealthHandler(nil),
	}, passthrough)
	return r
}

func (r *testRouter) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	r.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func mustField(t *testing.T, body []byte, field string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	v, ok := m[field]
	require.True(t, ok, field)
	return v
}
