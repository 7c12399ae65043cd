package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
	Secret     string `mapstructure:"secret"`
	LogLevel   string `mapstructure:"log_level"`

	MaxParticipants   int    `mapstructure:"max_participants"`
	EchoToSender      bool   `mapstructure:"echo_to_sender"`
	AnnounceRoomUsers bool   `mapstructure:"announce_room_users"`
	KickSlowMembers   bool   `mapstructure:"kick_slow_members"`
	PinChatUsername   bool   `mapstructure:"pin_chat_username"`
	RoomFullMessage   string `mapstructure:"room_full_message"`
	HubBuffer         int    `mapstructure:"hub_buffer"`

	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`

	JoinLimit    int           `mapstructure:"join_limit"`
	JoinInterval time.Duration `mapstructure:"join_interval"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (CONFIG_ENV defaults to dev).
// A missing file is not an error: defaults and RENDEZVOUS_* variables apply.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix("RENDEZVOUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).
		Int("max_participants", cfg.MaxParticipants).Bool("echo_to_sender", cfg.EchoToSender).Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 3000)
	v.SetDefault("static_path", "./public")
	v.SetDefault("secret", "rendezvous-dev-secret")
	v.SetDefault("log_level", "info")
	v.SetDefault("max_participants", 8)
	v.SetDefault("echo_to_sender", false)
	v.SetDefault("announce_room_users", true)
	v.SetDefault("kick_slow_members", false)
	v.SetDefault("pin_chat_username", false)
	v.SetDefault("room_full_message", "Room is full. A maximum of {max} participants can join.")
	v.SetDefault("hub_buffer", 256)
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 256)
	v.SetDefault("join_limit", 10)
	v.SetDefault("join_interval", "10s")
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.MaxParticipants < 1 {
		errs = append(errs, fmt.Errorf("max_participants must be at least 1, got %d", c.MaxParticipants))
	}
	if c.PingPeriod >= c.PongWait {
		errs = append(errs, fmt.Errorf("ping_period (%s) must be shorter than pong_wait (%s)", c.PingPeriod, c.PongWait))
	}
	if c.SendBuffer < 1 {
		errs = append(errs, fmt.Errorf("send_buffer must be at least 1, got %d", c.SendBuffer))
	}
	if c.ReadLimit < 1024 {
		errs = append(errs, fmt.Errorf("read_limit must be at least 1024, got %d", c.ReadLimit))
	}
	return errors.Join(errs...)
}
