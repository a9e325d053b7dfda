package main

import (
	"bytes"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestLoadtestBackends(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"cookie", []string{"--backend", "cookie"}, "using cookie-only sessions"},
		{"memory", []string{"--backend", "memory", "--sliding"}, "using in-process memory adapter"},
		{"redis", []string{"--backend", "redis"}, "using miniredis"},
		{"sqlite", []string{"--backend", "sqlite", "--sqlite-path", filepath.Join(t.TempDir(), "lt.db")}, "using sqlite"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"--users", "20", "--ops", "60", "--concurrency", "4"}, tc.args...)
			out := runCmd(t, args...)
			assert.Contains(t, out, tc.want)
			assert.Contains(t, out, "login: ops=20 failures=0")
			assert.Contains(t, out, "require: ops=60 failures=0")
			assert.Contains(t, out, "logout: ops=20 failures=0")
		})
	}
}

func TestLoadtestRejectsBadFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--users", "0"})
	assert.Error(t, cmd.Execute())

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--backend", "etcd"})
	assert.Error(t, cmd.Execute())
}

func TestPercentile(t *testing.T) {
	samples := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, time.Duration(1), percentile(samples, 0))
	assert.Equal(t, time.Duration(5), percentile(samples, 50))
	assert.Equal(t, time.Duration(10), percentile(samples, 100))
	assert.Equal(t, time.Duration(0), percentile(nil, 50))
}

func TestRunPhaseCountsFailures(t *testing.T) {
	stats := runPhase(10, 3, func(i int, _ *rand.Rand) error {
		if i%2 == 0 {
			return assert.AnError
		}
		return nil
	})
	assert.Equal(t, 10, stats.ops)
	assert.Equal(t, int64(5), stats.failures)
}
