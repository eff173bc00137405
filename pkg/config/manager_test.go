package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relayTestConfig 测试配置结构
type relayTestConfig struct {
	Web struct {
		Port        int           `mapstructure:"port"`
		ReadTimeout time.Duration `mapstructure:"read_timeout"`
	} `mapstructure:"web"`
	Feishu struct {
		BaseURL string `mapstructure:"base_url"`
		Secret  string `mapstructure:"secret"`
	} `mapstructure:"feishu"`
}

// createTestConfigFile 创建测试配置文件
func createTestConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const relayYAML = `
web:
  port: 8080
  read_timeout: 15s
feishu:
  base_url: "https://open.feishu.cn/open-apis/bot/v2/hook/"
  secret: ""
`

func TestManagerLoadFile(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.LoadFile(createTestConfigFile(t, relayYAML)))

	var cfg relayTestConfig
	require.NoError(t, mgr.Unmarshal(&cfg))

	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Equal(t, 15*time.Second, cfg.Web.ReadTimeout)
	assert.Equal(t, "https://open.feishu.cn/open-apis/bot/v2/hook/", cfg.Feishu.BaseURL)
}

func TestManagerLoadFile_Missing(t *testing.T) {
	mgr := NewManager()
	err := mgr.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigFileNotFound))
}

func TestManagerUnmarshalKey(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.LoadFile(createTestConfigFile(t, relayYAML)))

	var port int
	require.NoError(t, mgr.UnmarshalKey("web.port", &port))
	assert.Equal(t, 8080, port)

	var feishu struct {
		BaseURL string `mapstructure:"base_url"`
	}
	require.NoError(t, mgr.UnmarshalKey("feishu", &feishu))
	assert.Contains(t, feishu.BaseURL, "open.feishu.cn")

	assert.True(t, mgr.IsSet("web.port"))
	assert.False(t, mgr.IsSet("web.nonexistent"))
	assert.Equal(t, "8080", mgr.GetString("web.port"))
}

func TestManagerBindEnv(t *testing.T) {
	t.Setenv("RELAYTEST_WEB_PORT", "9000")

	mgr := NewManager()
	mgr.BindEnv("RELAYTEST")
	require.NoError(t, mgr.LoadFile(createTestConfigFile(t, relayYAML)))

	// 环境变量优先于配置文件
	assert.Equal(t, 9000, mgr.GetInt("web.port"))
}

func TestManagerWithDefaults(t *testing.T) {
	mgr := NewManager(WithDefaults(map[string]any{
		"web.port": 3000,
	}))

	assert.Equal(t, 3000, mgr.GetInt("web.port"))
}

func TestManagerConfigFile(t *testing.T) {
	path := createTestConfigFile(t, relayYAML)

	mgr := NewManager()
	require.NoError(t, mgr.LoadFile(path))
	assert.Equal(t, path, mgr.ConfigFile())
}

func TestManagerWatch(t *testing.T) {
	path := createTestConfigFile(t, relayYAML)

	mgr := NewManager()
	require.NoError(t, mgr.LoadFile(path))

	changed := make(chan string, 4)
	mgr.Watch(func(file string) {
		changed <- file
	})

	updated := []byte("web:\n  port: 9191\n")
	require.NoError(t, os.WriteFile(path, updated, 0o644))

	select {
	case <-changed:
		assert.Eventually(t, func() bool {
			return mgr.GetInt("web.port") == 9191
		}, 2*time.Second, 20*time.Millisecond)
	case <-time.After(5 * time.Second):
		t.Skip("fsnotify event not delivered in this environment")
	}
}

func TestErrorsAreMarked(t *testing.T) {
	_, err := MergeConfig[relayTestConfig](nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMergeFailed))
}
