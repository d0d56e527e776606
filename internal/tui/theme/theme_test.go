package theme

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestInterpolateColor(t *testing.T) {
	assert.Equal(t, "#000000", InterpolateColor("#000000", "#ffffff", 0))
	assert.Equal(t, "#ffffff", InterpolateColor("#000000", "#ffffff", 1))
	assert.Equal(t, "#7f7f7f", InterpolateColor("#000000", "#ffffff", 0.5))
}

func TestParseHexColor(t *testing.T) {
	r, g, b := ParseHexColor("#f9e2af")
	assert.Equal(t, uint8(0xf9), r)
	assert.Equal(t, uint8(0xe2), g)
	assert.Equal(t, uint8(0xaf), b)

	r, g, b = ParseHexColor("bad")
	assert.Zero(t, r)
	assert.Zero(t, g)
	assert.Zero(t, b)
}

func TestApplyGradient(t *testing.T) {
	assert.Empty(t, ApplyGradient("", "#000000", "#ffffff"))
	assert.Equal(t, "R&B", ansi.Strip(ApplyGradient("R&B", "#000000", "#ffffff")))
}

func TestStatusColor(t *testing.T) {
	th := NewCatppuccinMocha()
	assert.Equal(t, th.Success, th.StatusColor("valid"))
	assert.Equal(t, th.Error, th.StatusColor("invalid"))
	assert.Equal(t, th.BgSurface1, th.StatusColor("empty"))
	assert.Same(t, th.S(), th.S(), "styles are built once")
}
