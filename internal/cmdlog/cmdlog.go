// Package cmdlog wraps CLI command bodies with run/error metrics and a
// completion log line.
package cmdlog

import (
	"time"

	"bombardier/internal/logging"
	"bombardier/internal/metrics"
)

// Run executes f as the named command.
func Run(cmd string, f func() error) error {
	start := time.Now()
	metrics.IncCommandRun(cmd)
	err := f()
	fields := logging.Fields{"duration_ms": time.Since(start).Milliseconds()}
	if err != nil {
		metrics.IncCommandError(cmd)
		fields["error"] = err.Error()
		logging.Error(cmd+"_error", fields)
	} else {
		logging.Info(cmd+"_ok", fields)
	}
	return err
}
