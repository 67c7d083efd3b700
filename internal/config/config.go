package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Share     ShareConfig     `mapstructure:"share"`
	Notice    NoticeConfig    `mapstructure:"notice"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug or release
}

type ShareConfig struct {
	JoinBaseURL string `mapstructure:"join_base_url"`
	HelpContact string `mapstructure:"help_contact"`
	QRSize      int    `mapstructure:"qr_size"`
}

type NoticeConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RedisConfig enables the Redis notice channel when Addr is set
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // empty disables the file sink
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig bounds PIN join attempts
type RateLimitConfig struct {
	JoinPerMinute int `mapstructure:"join_per_minute"`
	JoinBurst     int `mapstructure:"join_burst"`
}

const envPrefix = "CLASSPULSE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("share.join_base_url", "http://localhost:8080/join")
	v.SetDefault("share.help_contact", "help@classpulse.local")
	v.SetDefault("share.qr_size", 256)
	v.SetDefault("notice.ttl", "1800ms")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "classpulse-demo-secret-change-me")
	v.SetDefault("jwt.ttl", "12h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("rate_limit.join_per_minute", 60)
	v.SetDefault("rate_limit.join_burst", 10)
}

// Load reads defaults, then the optional config file at path, then
// CLASSPULSE_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Plain names used by container platforms
	_ = v.BindEnv("server.port", envPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("redis.addr", envPrefix+"_REDIS_ADDR", "REDIS_URI")
	_ = v.BindEnv("jwt.secret", envPrefix+"_JWT_SECRET", "JWT_SECRET")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Redis.Addr = normalizeRedisAddr(cfg.Redis.Addr)
	if cfg.Notice.TTL <= 0 {
		return nil, fmt.Errorf("notice.ttl must be positive, got %s", cfg.Notice.TTL)
	}
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}

// normalizeRedisAddr accepts both host:port and redis://host:port
func normalizeRedisAddr(addr string) string {
	addr = strings.TrimPrefix(addr, "redis://")
	return strings.TrimSuffix(addr, "/")
}
