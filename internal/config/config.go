package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token          string
		AdminChatID    int64 `mapstructure:"admin_chat_id"`
		PollTimeoutSec int   `mapstructure:"poll_timeout_sec"`
	} `mapstructure:"telegram"`

	Community struct {
		CurrentBatch string `mapstructure:"current_batch"`
		ChatLink     string `mapstructure:"chat_link"`
	} `mapstructure:"community"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Session struct {
		TTLMinutes int `mapstructure:"ttl_minutes"`
	} `mapstructure:"session"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.Telegram.PollTimeoutSec == 0 {
		c.Telegram.PollTimeoutSec = 30
	}
	if c.Session.TTLMinutes == 0 {
		c.Session.TTLMinutes = 30
	}
	return c, nil
}
