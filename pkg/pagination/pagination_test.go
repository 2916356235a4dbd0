package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDefaults(t *testing.T) {
	page, limit := Normalize(0, 0)
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultLimit, limit)

	page, limit = Normalize(-3, -1)
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultLimit, limit)
}

func TestNormalizeKeepsValidWindow(t *testing.T) {
	page, limit := Normalize(4, 50)
	assert.Equal(t, 4, page)
	assert.Equal(t, 50, limit)
}

func TestNormalizeCapsOversizedLimit(t *testing.T) {
	page, limit := Normalize(2, 1000000)
	assert.Equal(t, 2, page)
	assert.Equal(t, MaxLimit, limit)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 20))
	assert.Equal(t, 40, Offset(3, 20))
}
