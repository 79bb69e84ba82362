package strutils_test

import (
	"strings"
	"testing"

	"github.com/madevisual/chessdash/internal/strutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	t.Parallel()

	t.Run("valid usernames", func(t *testing.T) {
		t.Parallel()
		cases := map[string]string{
			"MagnusCarlsen": "magnuscarlsen",
			"hikaru":        "hikaru",
			"Gm_Player-1":   "gm_player-1",
			"  spaced  ":    "spaced",
			"UPPER":         "upper",
		}
		for input, expected := range cases {
			normalized, err := strutils.NormalizeUsername(input)
			require.NoError(t, err)
			assert.Equal(t, expected, normalized)
			assert.True(t, strutils.UsernameIsNormalized(normalized))
		}
	})

	t.Run("invalid usernames", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{
			"",
			"   ",
			"name with spaces",
			"sémantic",
			"slash/name",
			strings.Repeat("a", 65),
		} {
			_, err := strutils.NormalizeUsername(input)
			require.Error(t, err, "input: %q", input)
			assert.False(t, strutils.UsernameIsNormalized(input))
		}
	})

	t.Run("non-normalized input is detected", func(t *testing.T) {
		t.Parallel()
		assert.False(t, strutils.UsernameIsNormalized("Hikaru"))
		assert.True(t, strutils.UsernameIsNormalized("hikaru"))
	})
}
