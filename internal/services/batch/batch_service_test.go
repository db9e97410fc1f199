package batch

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Пустой батч отклоняется до любых обращений к базе
func TestBatchCreateAds_EmptyBatch(t *testing.T) {
	app := fiber.New()
	SetupRoutes(app, nil)

	req := httptest.NewRequest("POST", "/api/v1/batch-import/ads", strings.NewReader("[]"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBatchCreateAds_MalformedBody(t *testing.T) {
	app := fiber.New()
	SetupRoutes(app, nil)

	req := httptest.NewRequest("POST", "/api/v1/batch-import/ads", strings.NewReader("{не json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
