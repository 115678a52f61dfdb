package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplay(t *testing.T) {
	assert.Equal(t, "$1,234.57", Display(d("1234.567"), "USD"))
	assert.Equal(t, "-$50.00", Display(d("-50"), "USD"))
	assert.Equal(t, "12.5", Display(d("12.5"), "XYZ"))
}
