package favorites

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateDescription_Short(t *testing.T) {
	// Короткое описание возвращается без изменений
	assert.Equal(t, "Короткое описание", TruncateDescription("Короткое описание"))
	assert.Equal(t, "", TruncateDescription(""))
}

func TestTruncateDescription_CutsAtWordBoundary(t *testing.T) {
	long := strings.Repeat("слово ", 40)
	got := TruncateDescription(long)

	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len([]rune(got)), 153)
	// Обрезка не должна рвать слово посередине
	assert.True(t, strings.HasSuffix(strings.TrimSuffix(got, "..."), "слово"))
}

func TestTruncateDescription_NoSpaceNearLimit(t *testing.T) {
	// Сплошная строка без пробелов режется жестко по 150 символам
	long := strings.Repeat("x", 300)
	got := TruncateDescription(long)

	assert.Equal(t, strings.Repeat("x", 150)+"...", got)
}

func TestFavoriteEndpoints_RejectBadParams(t *testing.T) {
	app := fiber.New()
	SetupRoutes(app, nil)

	cases := []struct {
		name   string
		method string
		target string
	}{
		{"добавление без ad_id", "POST", "/api/v1/favorites/?user_id=6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"добавление с кривым user_id", "POST", "/api/v1/favorites/?ad_id=6ba7b810-9dad-11d1-80b4-00c04fd430c8&user_id=abc"},
		{"список без user_id", "GET", "/api/v1/favorites/"},
		{"список с отрицательным skip", "GET", "/api/v1/favorites/?user_id=6ba7b810-9dad-11d1-80b4-00c04fd430c8&skip=-1"},
		{"список с limit больше 100", "GET", "/api/v1/favorites/?user_id=6ba7b810-9dad-11d1-80b4-00c04fd430c8&limit=101"},
		{"удаление с кривым ad_id", "DELETE", "/api/v1/favorites/abc?user_id=6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tc.method, tc.target, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}
