package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	driverName         = "mysql"
	DefaultConfigPath  = "config/config.yaml"
	defaultCallTimeout = 10 * time.Second
	connectTimeout     = 3 * time.Second
	envPrefix          = "LMS"
)

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	// 1回のDB呼び出し（CALL / SELECT / Tx全体）の上限
	CallTimeout time.Duration `yaml:"call_timeout"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type Config struct {
	Version string         `yaml:"version"`
	Mode    string         `yaml:"mode"`
	DB      DatabaseConfig `yaml:"database"`
	Server  ServerConfig   `yaml:"server"`
	Auth    AuthConfig     `yaml:"auth"`
}

func defaultConfig() *Config {
	return &Config{
		Mode: "release",
		DB: DatabaseConfig{
			Host:        "localhost",
			Port:        3306,
			DBName:      "LibraryManagement",
			CallTimeout: defaultCallTimeout,
		},
		Server: ServerConfig{Addr: ":8443"},
		Auth:   AuthConfig{TokenTTL: 24 * time.Hour},
	}
}

// LoadConfig はYAMLを読み込んだ後、環境変数（LMS_*）で上書きする。
// 接続情報をファイルに書かずに環境変数だけで渡す運用も可能。
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	buf, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("[WARN] config file %s not found, using defaults and environment", path)
	default:
		return nil, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setString("mode", &cfg.Mode)
	setString("db_host", &cfg.DB.Host)
	setString("db_user", &cfg.DB.Username)
	setString("db_password", &cfg.DB.Password)
	setString("db_name", &cfg.DB.DBName)
	setString("server_addr", &cfg.Server.Addr)
	setString("server_cert", &cfg.Server.Cert)
	setString("server_key", &cfg.Server.Key)
	setString("auth_secret", &cfg.Auth.Secret)

	if v.IsSet("db_port") {
		cfg.DB.Port = v.GetInt("db_port")
	}
	if v.IsSet("db_call_timeout") {
		cfg.DB.CallTimeout = v.GetDuration("db_call_timeout")
	}
	if v.IsSet("auth_token_ttl") {
		cfg.Auth.TokenTTL = v.GetDuration("auth_token_ttl")
	}
}

func (c *Config) Validate() error {
	if c.Mode != "dev" && c.Mode != "release" {
		return fmt.Errorf("mode must be dev or release, got %q", c.Mode)
	}
	if c.DB.Host == "" || c.DB.DBName == "" || c.DB.Username == "" {
		return errors.New("database host, user and dbname are required")
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		return fmt.Errorf("invalid database port %d", c.DB.Port)
	}
	if c.DB.CallTimeout <= 0 {
		c.DB.CallTimeout = defaultCallTimeout
	}
	return nil
}

// DSN は go-sql-driver/mysql の接続文字列を組み立てる
func (c DatabaseConfig) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.Username
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Timeout = connectTimeout
	mc.ReadTimeout = c.CallTimeout
	mc.WriteTimeout = c.CallTimeout
	return mc.FormatDSN()
}

// ConnectionError は起動時の接続失敗。呼び出し側はプロセスを終了させること。
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return "DB接続に失敗: " + e.Err.Error() }
func (e *ConnectionError) Unwrap() error { return e.Err }

// Connect はセッションを1本だけ張る。リトライはしない。
func Connect(ctx context.Context, c DatabaseConfig) (*Session, error) {
	conn, err := sql.Open(driverName, c.DSN())
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, &ConnectionError{Err: err}
	}

	// プールは使わない：プロセス全体で1セッション
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	return NewSession(conn, c.CallTimeout), nil
}
