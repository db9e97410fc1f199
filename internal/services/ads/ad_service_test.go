package ads

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	SetupRoutes(app, nil)
	return app
}

// Неизвестный ключ сортировки отклоняется до обращения к базе
func TestGetAds_RejectsUnknownSortKey(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/ads/?sort_by=bogus", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetAds_RejectsBadParams(t *testing.T) {
	app := newTestApp()

	for _, target := range []string{
		"/api/v1/ads/?limit=0",
		"/api/v1/ads/?limit=101",
		"/api/v1/ads/?skip=-1",
		"/api/v1/ads/?min_price=-5",
		"/api/v1/ads/?moderation_status=UNKNOWN",
		"/api/v1/ads/?tag_ids=10,abc",
		"/api/v1/ads/?owner_id=not-a-uuid",
		"/api/v1/ads/?created_after=yesterday",
		"/api/v1/ads/?has_images=maybe",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, target)
	}
}

func TestValidateAdRequest(t *testing.T) {
	valid := adRequest{
		Title:       "Продам горный велосипед",
		Description: strings.Repeat("Очень подробное описание. ", 3),
		Price:       1500,
	}

	req := valid
	require.NoError(t, validateAdRequest(&req))
	// Значения по умолчанию заполняются при проверке
	assert.Equal(t, "RUB", req.Currency)
	assert.Equal(t, "PENDING", req.ModerationStatus)

	req = valid
	req.Title = "Коротко"
	assert.Error(t, validateAdRequest(&req))

	req = valid
	req.Description = "Мало"
	assert.Error(t, validateAdRequest(&req))

	req = valid
	req.Price = 0
	assert.Error(t, validateAdRequest(&req))

	req = valid
	req.Currency = "BTC"
	assert.Error(t, validateAdRequest(&req))

	req = valid
	req.ModerationStatus = "MAYBE"
	assert.Error(t, validateAdRequest(&req))
}
