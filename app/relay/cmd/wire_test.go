package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lk2023060901/alertrelay/pkg/app"
	"github.com/lk2023060901/alertrelay/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAppAuditLogger(t *testing.T) {
	dir := t.TempDir()
	auditPath := filepath.Join(dir, "audit.log")
	path := filepath.Join(dir, "relay.yaml")
	content := "app:\n" +
		"  name: relay-test\n" +
		"  stop_timeout: 2s\n" +
		"  loggers:\n" +
		"    audit:\n" +
		"      format: json\n" +
		"      enable_file: true\n" +
		"      output_path: " + auditPath + "\n" +
		"web:\n" +
		"  mode: test\n" +
		"prometheus:\n" +
		"  namespace: relaywire\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var cfg Config
	mgr, err := app.LoadConfigFile(path, &cfg, nil)
	require.NoError(t, err)

	application, cleanup, err := InitApp(&cfg, logger.NewNoop(), mgr)
	require.NoError(t, err)
	defer cleanup()

	application.Logger("audit").Info("alert received", "source", "dashboard")
	require.NoError(t, application.Shutdown())

	data, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alert received")
	assert.Contains(t, string(data), `"logger":"audit"`)
}

func TestInitAppBadNamedLogger(t *testing.T) {
	cfg := Config{}
	cfg.App.Loggers = map[string]*logger.Config{"audit": {EnableFile: true}}
	cfg.Prometheus.Namespace = "relaywire"

	_, _, err := InitApp(&cfg, logger.NewNoop(), nil)
	assert.Error(t, err)
}
