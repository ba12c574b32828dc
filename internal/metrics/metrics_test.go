package metrics_test

import (
	"errors"
	"testing"

	"github.com/jrsteele09/portal-group-access/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	require.Equal(t, "ok", metrics.Result(nil))
	require.Equal(t, "error", metrics.Result(errors.New("boom")))
}

func TestMembershipOutcomesCounter(t *testing.T) {
	c := metrics.MembershipOutcomesTotal.WithLabelValues("test_state")
	before := testutil.ToFloat64(c)
	c.Inc()
	require.Equal(t, before+1, testutil.ToFloat64(c))
}
