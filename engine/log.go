package engine

import (
	"os"

	"github.com/op/go-logging"
)

// opLog is the package's operational diagnostics logger: cache sizing,
// configuration load errors, and similar detail that never needs to reach
// a UCI peer. It is distinct from the Logger interface in engine.go, which carries
// protocol-facing search output (PV lines, scores).
var opLog = logging.MustGetLogger("engine")

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{module} %{level:.4s} %{message}`,
	)
	logging.SetBackend(logging.NewBackendFormatter(backend, formatter))
	logging.SetLevel(logging.INFO, "engine")
}
