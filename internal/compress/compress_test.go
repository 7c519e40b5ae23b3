package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress_RoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("Name: Dana\nOccupation: N/A\n", 64))

	for _, name := range []string{"nop", "gzip", "brotli", "lz4"} {
		t.Run(name, func(t *testing.T) {
			c, err := New(name)
			require.NoError(t, err)
			assert.Equal(t, name, c.Name())

			encoded, err := c.Encode(payload)
			require.NoError(t, err)
			if name != "nop" {
				assert.Less(t, len(encoded), len(payload))
			}

			decoded, err := c.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, payload, decoded)
		})
	}
}

func TestCompress_Unknown(t *testing.T) {
	_, err := New("zstd")
	assert.Error(t, err)
}
