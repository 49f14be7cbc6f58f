package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvironDefaults(t *testing.T) {
	cfg, err := FromEnviron(nil)
	require.NoError(t, err)

	assert.Equal(t, BackendNative, cfg.Backend)
	assert.Equal(t, DefaultQuery, cfg.Query)
	assert.Empty(t, cfg.LogDir)
	assert.Empty(t, cfg.MetricsFile)
	assert.Empty(t, cfg.Sources)
}

func TestFromEnvironValues(t *testing.T) {
	cfg, err := FromEnviron([]string{
		"ODBCDIAG_BACKEND=Bridge",
		"ODBCDIAG_QUERY=SELECT 1, 2, 3, 4, 5",
		"ODBCDIAG_LOG_DIR=/tmp/logs",
		"ODBCDIAG_METRICS_FILE=/tmp/todbc.prom",
		"ODBCDIAG_KEY=secret",
		"ODBCDIAG_SOURCE_DEMO=sqlite:demo.db",
		"ODBCDIAG_SOURCE_pg-prod=postgres:postgres://{uid}:{pwd}@db:5432/app",
		"UNRELATED=1",
	})
	require.NoError(t, err)

	assert.Equal(t, BackendBridge, cfg.Backend)
	assert.Equal(t, "SELECT 1, 2, 3, 4, 5", cfg.Query)
	assert.Equal(t, "/tmp/logs", cfg.LogDir)
	assert.Equal(t, "/tmp/todbc.prom", cfg.MetricsFile)
	assert.Equal(t, "secret", cfg.Key)
	require.Len(t, cfg.Sources, 2)

	src, ok := cfg.Lookup("demo")
	require.True(t, ok)
	assert.Equal(t, Source{Driver: "sqlite", Template: "demo.db"}, src)

	src, ok = cfg.Lookup("PG-PROD")
	require.True(t, ok)
	assert.Equal(t, "postgres", src.Driver)
	assert.Equal(t, "postgres://{uid}:{pwd}@db:5432/app", src.Template)

	_, ok = cfg.Lookup("missing")
	assert.False(t, ok)
}

func TestFromEnvironErrors(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
	}{
		{"unknown backend", []string{"ODBCDIAG_BACKEND=jdbc"}},
		{"no driver", []string{"ODBCDIAG_SOURCE_X=:file.db"}},
		{"no separator", []string{"ODBCDIAG_SOURCE_X=sqlite"}},
		{"empty template", []string{"ODBCDIAG_SOURCE_X=sqlite:"}},
		{"unknown placeholder", []string{"ODBCDIAG_SOURCE_X=postgres:postgres://{user}@db/app"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnviron(tt.environ)
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ODBCDIAG_QUERY=SELECT 42\n"), 0644))

	t.Chdir(dir)
	t.Cleanup(func() { _ = os.Unsetenv("ODBCDIAG_QUERY") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "SELECT 42", cfg.Query)
}
