// Package telemetry provides diagnostic logging, CSV run-stats export and
// the ballistic-particle dump writer for the grid engine and narrowband-FLIP
// core (§4.9, §6).
package telemetry

import (
	"fmt"
	"io"
)

// logWriter is the destination for plain diagnostic log lines (§7: "the
// core produces diagnostic lines ... via a small logging helper").
var logWriter io.Writer

// SetLogWriter sets the log output destination. A nil writer (the
// zero-value default) sends output to os.Stdout via fmt.Println.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted diagnostic line.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}
