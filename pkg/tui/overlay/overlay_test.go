package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposePlacesBlock(t *testing.T) {
	bg := "aaaaaa\nbbbbbb\ncccccc"
	out := Compose(bg, 6, 3, "XY\nZW", 2, 1)
	assert.Equal(t, []string{"aaaaaa", "bbXYbb", "ccZWcc"}, strings.Split(out, "\n"))
}

func TestComposeClampsToBounds(t *testing.T) {
	out := Compose("", 4, 2, "XYZ", 3, 5)
	assert.Equal(t, []string{"    ", " XYZ"}, strings.Split(out, "\n"))
}

func TestComposeStripsBackgroundStyling(t *testing.T) {
	out := Compose("\x1b[1mab\x1b[0m", 2, 1, "", 0, 0)
	assert.Equal(t, "ab", out)
}
