// Package logging builds the diagnostic logger shared by the services.
package logging

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// New returns a logger writing to w. Diagnostics are only emitted in verbose
// mode; V(1) lines carry per-step detail.
func New(w io.Writer, verbose bool) logr.Logger {
	if !verbose {
		return logr.Discard()
	}

	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{
		LogTimestamp:    true,
		TimestampFormat: "15:04:05.000",
		Verbosity:       1,
	}).WithName("abt")
}
