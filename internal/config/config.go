package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token         string
		AdminChatID   int64  `mapstructure:"admin_chat_id"`
		Mode          string // polling | webhook
		WebhookURL    string `mapstructure:"webhook_url"`
		WebhookSecret string `mapstructure:"webhook_secret"`
		WebAppURL     string `mapstructure:"web_app_url"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Admin struct {
		SessionTTLMinutes int `mapstructure:"session_ttl_minutes"`
	} `mapstructure:"admin"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	// Секреты (токен бота, DSN) можно переопределять через ENV (APP_*)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.Telegram.Mode == "" {
		c.Telegram.Mode = "polling"
	}
	if c.Admin.SessionTTLMinutes <= 0 {
		c.Admin.SessionTTLMinutes = 60
	}
	return c, nil
}
