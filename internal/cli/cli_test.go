package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/typeboot/internal/app"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantCode int
	}{
		{
			name: "positional path with defaults",
			args: []string{"domain.hcl"},
			want: &app.Config{ManifestPath: "domain.hcl", MappingStyle: "field", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "long flag wins over shorthand and positional",
			args: []string{"-manifest", "a", "-m", "b", "c"},
			want: &app.Config{ManifestPath: "a", MappingStyle: "field", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "all options",
			args: []string{"-m", "dir", "-mapping-style", "Accessor", "-type-safe-values", "-log-format", "JSON", "-log-level", "debug"},
			want: &app.Config{ManifestPath: "dir", MappingStyle: "accessor", TypeSafeValues: true, LogFormat: "json", LogLevel: "debug"},
		},
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "no path prints usage", args: nil, wantExit: true},
		{name: "unknown flag", args: []string{"-nope"}, wantCode: 2},
		{name: "bad mapping style", args: []string{"-mapping-style", "xml", "x.hcl"}, wantCode: 2},
		{name: "bad log level", args: []string{"-log-level", "loud", "x.hcl"}, wantCode: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, exit, err := Parse(tc.args, &out)
			if tc.wantCode != 0 {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tc.wantCode, exitErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, exit)
			if tc.wantExit {
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			assert.Equal(t, tc.want, cfg)
		})
	}
}
