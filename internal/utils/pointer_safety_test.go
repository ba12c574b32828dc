package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueOr(t *testing.T) {
	require.Equal(t, -1.0, ValueOr[float64](nil, -1))
	require.Equal(t, 0.0, ValueOr(Ptr(0.0), -1))
	require.Equal(t, "x", ValueOr(Ptr("x"), ""))
}
