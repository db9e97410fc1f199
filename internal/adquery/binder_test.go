package adquery

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinder_Bind(t *testing.T) {
	b := &Binder{}

	assert.Equal(t, "$1", b.Bind("первый"))
	assert.Equal(t, "$2", b.Bind(42))
	assert.Equal(t, "$3", b.Bind(true))

	require.Len(t, b.Args(), 3)
	assert.Equal(t, []any{"первый", 42, true}, b.Args())
}

func TestBinder_Empty(t *testing.T) {
	b := &Binder{}

	assert.Zero(t, b.Len())
	assert.Empty(t, b.Args())
}

// Индекс N-го плейсхолдера всегда совпадает с позицией N-го значения,
// какие бы условия ни были пропущены
func TestBinder_Monotonic(t *testing.T) {
	b := &Binder{}

	values := []any{"a", 1, 2.5, false, "b"}
	for i, v := range values {
		ph := b.Bind(v)
		assert.Equal(t, "$"+strconv.Itoa(i+1), ph)
		assert.Equal(t, v, b.Args()[i])
	}
}
