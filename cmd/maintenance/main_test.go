package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runCmd(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var out bytes.Buffer
	cfgPath := filepath.Join(t.TempDir(), "missing.yaml")
	code := run(append([]string{"maintenance", "--config", cfgPath}, args...), &out)
	return code, out.String()
}

func TestRun_MemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"seed", []string{"seed-faculty"}, "Faculty seeded"},
		{"reseed", []string{"reseed-faculty"}, "Faculty reseeded"},
		{"fix", []string{"fix-faculty"}, "Faculty fix finished"},
		{"verify", []string{"verify-faculty"}, "Faculty verification finished"},
		{"check", []string{"check-faculty"}, "Faculty records"},
		{"connection", []string{"test-connection"}, "Connection OK"},
		{"admin", []string{"seed-admin", "--email", "admin@example.edu", "--password", "portal2026"}, "Admin account ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := runCmd(t, tt.args...)
			assert.Equal(t, 0, code, out)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestRun_Failures(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "cassandra")
		code, out := runCmd(t, "check-faculty")
		assert.Equal(t, 1, code)
		assert.Contains(t, out, "unknown store driver")
	})

	t.Run("weak admin password", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "memory")
		code, _ := runCmd(t, "seed-admin", "--email", "admin@example.edu", "--password", "short")
		assert.Equal(t, 1, code)
	})

	t.Run("missing admin email", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "memory")
		code, _ := runCmd(t, "seed-admin")
		assert.Equal(t, 1, code)
	})
}
