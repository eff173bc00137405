package app

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/alertrelay/pkg/config"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 ALERTRELAY_WEB_PORT -> web.port
const EnvPrefix = "ALERTRELAY"

var (
	configPath string
	logPath    string
)

// LoadConfig 解析命令行参数并加载配置
// 优先级：1. 命令行显式参数 > 2. 环境变量 > 3. 配置文件 > 4. 默认值
// 返回的 Manager 可继续用于 UnmarshalKey 与热更新监听
func LoadConfig(target any, opts ...config.Option) (config.Manager, error) {
	execDir, err := GetExecDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get executable directory")
	}

	defaultConfig := filepath.Join(execDir, "configs", "relay.yaml")
	defaultLog := filepath.Join(execDir, "logs", "relay.log")

	if pflag.Lookup("config") == nil {
		pflag.StringVarP(&configPath, "config", "c", defaultConfig, "path to config file")
	}
	if pflag.Lookup("log.path") == nil {
		pflag.StringVar(&logPath, "log.path", defaultLog, "output path for logs")
	}
	if !pflag.Parsed() {
		pflag.Parse()
	}

	// Flag 显式指定 > 环境变量 ALERTRELAY_CONFIG > 默认路径
	path := configPath
	if !pflag.CommandLine.Changed("config") {
		if envConfig := os.Getenv(EnvPrefix + "_CONFIG"); envConfig != "" {
			path = envConfig
		}
	}

	overrides := map[string]any{}
	if pflag.CommandLine.Changed("log.path") {
		overrides["log.output_path"] = logPath
	}

	return LoadConfigFile(path, target, overrides, opts...)
}

// LoadConfigFile 从指定文件加载配置，overrides 拥有最高优先级
// target 按 validate tag 校验，未写出的字段留给各组件合并默认值
func LoadConfigFile(path string, target any, overrides map[string]any, opts ...config.Option) (config.Manager, error) {
	v := viper.New()
	for key, value := range overrides {
		v.Set(key, value)
	}

	mgr := config.NewManager(append([]config.Option{config.WithViper(v)}, opts...)...)
	mgr.BindEnv(EnvPrefix)

	if err := mgr.LoadFile(path); err != nil {
		return nil, err
	}
	configPath = path

	if target != nil {
		if err := mgr.Unmarshal(target); err != nil {
			return nil, err
		}
		if err := config.NewValidator().Validate(target); err != nil {
			return nil, errors.Wrapf(err, "config file %s", path)
		}
	}

	// 文件日志开启时提前创建目录
	if out := mgr.GetString("log.output_path"); out != "" {
		if dir := filepath.Dir(out); dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				_ = os.MkdirAll(dir, 0755)
			}
		}
	}

	return mgr, nil
}

// GetExecDir 获取可执行文件所在目录（处理符号链接）
func GetExecDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	realPath, err := filepath.EvalSymlinks(execPath)
	if err != nil {
		return filepath.Dir(execPath), nil
	}
	return filepath.Dir(realPath), nil
}

// GetConfigPath 返回最终使用的配置文件路径
func GetConfigPath() string {
	return configPath
}
