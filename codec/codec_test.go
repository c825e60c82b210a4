package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string
	Count int
}

func TestRoundtrip(t *testing.T) {
	for _, c := range []Codec{JSON{}, Gob{}} {
		t.Run(c.Name(), func(t *testing.T) {
			in := payload{Name: "a", Count: 3}
			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out payload
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("gob")
	require.True(t, ok)
	assert.Equal(t, "gob", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}
