package dialog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetString(t *testing.T) {
	p := Payload{"full_name": "Иван Петров", "attempts": float64(2), "flag": true}

	v, ok := GetString(p, "full_name")
	require.True(t, ok)
	require.Equal(t, "Иван Петров", v)

	_, ok = GetString(p, "attempts")
	require.False(t, ok)

	_, ok = GetString(p, "missing")
	require.False(t, ok)

	_, ok = GetString(nil, "full_name")
	require.False(t, ok)
}
