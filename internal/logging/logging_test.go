package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    []string
		absent  []string
	}{
		{name: "quiet", want: []string{`"msg"="probe failed"`}, absent: []string{"book move"}},
		{name: "verbose", verbose: true, want: []string{"book move", `"move"="e2e4"`, "probe failed"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, tc.verbose)
			log.V(1).Info("book move", "move", "e2e4")
			log.Info("probe failed")

			out := buf.String()
			for _, s := range tc.want {
				if !strings.Contains(out, s) {
					t.Errorf("output %q lacks %q", out, s)
				}
			}
			for _, s := range tc.absent {
				if strings.Contains(out, s) {
					t.Errorf("output %q contains %q", out, s)
				}
			}
		})
	}
}

func TestEnvEnabled(t *testing.T) {
	for value, want := range map[string]bool{"true": true, "1": true, "false": false, "": false, "yes": false} {
		t.Setenv(EnvVar, value)
		if got := envEnabled(); got != want {
			t.Errorf("LOGS=%q: envEnabled() = %v", value, got)
		}
	}
}
