package cmdlog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"bombardier/internal/logging"
	"bombardier/internal/metrics"
)

func TestRunRecordsOutcome(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)

	runs := testutil.ToFloat64(metrics.Commands.WithLabelValues("probe"))
	errs := testutil.ToFloat64(metrics.CommandErrors.WithLabelValues("probe"))

	assert.NoError(t, Run("probe", func() error { return nil }))
	boom := errors.New("boom")
	assert.ErrorIs(t, Run("probe", func() error { return boom }), boom)

	assert.Equal(t, runs+2, testutil.ToFloat64(metrics.Commands.WithLabelValues("probe")))
	assert.Equal(t, errs+1, testutil.ToFloat64(metrics.CommandErrors.WithLabelValues("probe")))
	assert.Contains(t, buf.String(), "probe_ok")
	assert.Contains(t, buf.String(), "probe_error")
}
