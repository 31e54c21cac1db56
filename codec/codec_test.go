package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type series struct {
	Labels []string             `json:"labels"`
	Series map[string][]float64 `json:"series"`
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	c, ok = ByName("")
	require.True(t, ok)
	assert.Equal(t, Default.Name(), c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAgree(t *testing.T) {
	v := series{
		Labels: []string{"x", "y", "z"},
		Series: map[string][]float64{
			"Min-Max":     {1.5e-7, 2e-7, 0},
			"Unit-Sphere": {3e-7, 0.25, 1},
		},
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			compact, err := c.Marshal(v)
			require.NoError(t, err)

			var back series
			require.NoError(t, c.Unmarshal(compact, &back))
			assert.Equal(t, v, back)
		})
	}

	a, err := Pretty(JSON{}, v)
	require.NoError(t, err)
	b, err := Pretty(GoJSON{}, v)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestPretty(t *testing.T) {
	b, err := Pretty(nil, map[string]int{"bins": 1024})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"bins\": 1024\n}\n", string(b))
}
