// Package logging builds the logr.Logger the binaries hand to each
// component.
package logging

import (
	"io"
	"log"
	"os"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
)

// EnvVar enables verbose logging when set to a true value.
const EnvVar = "LOGS"

// New returns a logger writing to w in the standard log format. Verbose
// enables V(1) diagnostics.
func New(w io.Writer, verbose bool) logr.Logger {
	v := 0
	if verbose {
		v = 1
	}
	stdr.SetVerbosity(v)
	return stdr.New(log.New(w, "", log.LstdFlags))
}

// FromEnv returns a stderr logger, verbose when verbose is set or the LOGS
// environment variable is true.
func FromEnv(verbose bool) logr.Logger {
	return New(os.Stderr, verbose || envEnabled())
}

func envEnabled() bool {
	on, err := strconv.ParseBool(os.Getenv(EnvVar))
	return err == nil && on
}
