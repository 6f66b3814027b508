package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	JwtSecret string `yaml:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "stoq",
		Location: "America/Toronto",
		Workdir:  "/var/stoq",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		JwtSecret: "9b6de5cc-0001-das3-23ad-7e9cdb4f5b27",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "stoq",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/stoq/stoq.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	if v := os.Getenv(name); v != "" {
		f(v)
	}
}

// LoadConfig loads yaml configuration from cfile, falling back to defaults.
// Selected values can be overridden by STOQ_* environment variables.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(filepath.Clean(cfile)); err == nil {
			fcfg := new(AppConfig)
			if err := yaml.Unmarshal(data, fcfg); err == nil {
				cfg = fcfg
			}
		}
	}

	setEnvValue("STOQ_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("STOQ_WEB_JWT_SECRET", func(v string) { cfg.Web.JwtSecret = v })
	setEnvValue("STOQ_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("STOQ_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("STOQ_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("STOQ_DB_PASSWD", func(v string) { cfg.Database.Passwd = v })
	return cfg
}
