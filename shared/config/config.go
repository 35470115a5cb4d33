package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/itchan-dev/bbs/shared/validation"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	APIBaseURL             string `yaml:"api_base_url" validate:"required,url"`
	PageSize               int    `yaml:"page_size" validate:"gt=0,lte=100"`
	AutoLoginAfterRegister bool   `yaml:"auto_login_after_register"`
	// 0 disables the client timeout
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`
	// failure messages containing one of these force a local logout
	AuthErrorMarkers []string `yaml:"auth_error_markers"`
	LogLevel         string   `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogJSON          bool     `yaml:"log_json"`
	Session          Session  `yaml:"session"`
	Server           Server   `yaml:"server"`
}

type Session struct {
	Backend   string        `yaml:"backend" validate:"oneof=memory file redis"`
	Key       string        `yaml:"key" validate:"required"`
	File      string        `yaml:"file" validate:"required_if=Backend file"`
	RedisAddr string        `yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB   int           `yaml:"redis_db" validate:"gte=0"`
	RedisTTL  time.Duration `yaml:"redis_ttl" validate:"gte=0"`
}

type Server struct {
	Addr           string        `yaml:"addr" validate:"required"`
	JwtTTL         time.Duration `yaml:"jwt_ttl" validate:"gt=0"`
	SecureCookies  bool          `yaml:"secure_cookies"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	MaxPageSize    int           `yaml:"max_page_size" validate:"gt=0"`
}

type Private struct {
	JwtKey        string `yaml:"jwt_key"`
	RedisPassword string `yaml:"redis_password"`
}

func (s *Config) JwtKey() string {
	return s.private.JwtKey
}

func (s *Config) RedisPassword() string {
	return s.private.RedisPassword
}

// Default returns a config usable without any file: memory session storage
// and a local development API.
func Default() *Config {
	return &Config{Public: defaultPublic()}
}

func defaultPublic() Public {
	return Public{
		APIBaseURL: "http://localhost:8080",
		PageSize:   10,
		LogLevel:   "info",
		Session: Session{
			Backend: "memory",
			Key:     "sess_user_id",
		},
		Server: Server{
			Addr:        ":8080",
			JwtTTL:      24 * time.Hour,
			MaxPageSize: 100,
		},
	}
}

func loadPath(configPath string, output interface{}) error {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// Load reads public.yaml and private.yaml from configFolder on top of the
// defaults. private.yaml is optional.
func Load(configFolder string) (*Config, error) {
	public := defaultPublic()
	if err := loadPath(path.Join(configFolder, "public.yaml"), &public); err != nil {
		return nil, err
	}

	var private Private
	privatePath := path.Join(configFolder, "private.yaml")
	if _, err := os.Stat(privatePath); err == nil {
		if err := loadPath(privatePath, &private); err != nil {
			return nil, err
		}
	}

	if err := validation.Validator().Struct(public); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Config{public, private}, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
