package cli

import (
	"io"
	"os"

	"github.com/andywolf/forge/internal/config"
	"github.com/andywolf/forge/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/term"
)

// newScanLogger builds the diagnostics logger for one scan. Every entry is
// labelled with a fresh scan_id so interleaved runs can be told apart.
func newScanLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	sev, err := logging.ParseSeverity(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(
		logging.WithWriter(w),
		logging.WithFormat(logging.Format(cfg.Log.Format)),
		logging.WithMinSeverity(sev),
		logging.WithLabels(map[string]string{"scan_id": uuid.New().String()}),
	), nil
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// isInteractive reports whether prompts can be shown: both stdin and stdout
// must be terminals and CI must not be set.
func isInteractive() bool {
	if os.Getenv("CI") != "" || os.Getenv("FORGE_NON_INTERACTIVE") == "1" {
		return false
	}
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}
