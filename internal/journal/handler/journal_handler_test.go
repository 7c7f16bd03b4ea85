package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authhandler "github.com/Yrcd27/mirror-auth-service/internal/auth/handler"
	authservice "github.com/Yrcd27/mirror-auth-service/internal/auth/service"
	"github.com/Yrcd27/mirror-auth-service/internal/journal/domain"
	"github.com/Yrcd27/mirror-auth-service/internal/journal/handler"
	"github.com/Yrcd27/mirror-auth-service/internal/journal/service"
	"github.com/Yrcd27/mirror-auth-service/internal/mocks"
)

func newJournalApp(t *testing.T) (*fiber.App, *mocks.MockEntryRepository, string) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockEntryRepository(ctrl)
	entryService := service.NewEntryService(repo)
	journalHandler := handler.NewJournalHandler(entryService)

	tokens := authservice.NewTokenService("journal-test-secret", 15, 10080)
	accessToken, err := tokens.GenerateAccessToken("user-123", "alice@x.com")
	require.NoError(t, err)

	app := fiber.New()
	handler.RegisterRoutes(app, journalHandler, authhandler.RequireAuth(tokens))

	return app, repo, accessToken
}

func TestJournalRequiresAuth(t *testing.T) {
	app, _, _ := newJournalApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/journal/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJournalCreateAndList(t *testing.T) {
	app, repo, accessToken := newJournalApp(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	body, _ := json.Marshal(fiber.Map{"title": "First", "content": "Dear diary..."})
	req := httptest.NewRequest("POST", "/api/journal/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	repo.EXPECT().ListByUserID(gomock.Any(), "user-123").Return([]*domain.Entry{
		{ID: "entry-1", UserID: "user-123", Title: "First", Content: "Dear diary...",
			CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}, nil)

	req = httptest.NewRequest("GET", "/api/journal/", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entries []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "First", entries[0]["title"])
}

func TestJournalGetNotFound(t *testing.T) {
	app, repo, accessToken := newJournalApp(t)

	repo.EXPECT().GetByID(gomock.Any(), "user-123", "missing").Return(nil, nil)

	req := httptest.NewRequest("GET", "/api/journal/missing", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
