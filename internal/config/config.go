package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN            string `env:"DSN,required"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout   int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		MaxOpenConns   int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns   int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime    int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Messenger struct {
		VerifyToken    string `env:"VERIFY_TOKEN,required"`
		AccessToken    string `env:"ACCESS_TOKEN,required"`
		APIBaseURL     string `env:"API_BASE_URL" envDefault:"https://graph.facebook.com/v24.0"`
		SendTimeout    int    `env:"SEND_TIMEOUT" envDefault:"10"`
		ProfileTimeout int    `env:"PROFILE_TIMEOUT" envDefault:"5"`
	} `envPrefix:"MESSENGER_"`
	Gemini struct {
		APIKey  string `env:"API_KEY,required"`
		Model   string `env:"MODEL" envDefault:"gemini-2.5-flash"`
		Timeout int    `env:"TIMEOUT" envDefault:"30"`
	} `envPrefix:"GEMINI_"`
	Schedule struct {
		MinHour    int `env:"MIN_HOUR" envDefault:"9"`
		MaxHour    int `env:"MAX_HOUR" envDefault:"18"`
		DayLimit   int `env:"DAY_LIMIT" envDefault:"3"`
		HeaderRows int `env:"HEADER_ROWS" envDefault:"2"`
		NameColumn int `env:"NAME_COLUMN" envDefault:"1"`
	} `envPrefix:"SCHEDULE_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host           string `env:"HOST" envDefault:"localhost"`
		Port           int    `env:"PORT" envDefault:"6379"`
		Password       string `env:"PASSWORD,required"`
		NameCacheTTL   int    `env:"NAME_CACHE_TTL" envDefault:"86400"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	Alert struct {
		AdminEmail string `env:"ADMIN_EMAIL,required"`
		SMTP       struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"ALERT_"`
	Seed struct {
		Employees []string `env:"EMPLOYEES" envSeparator:"," envDefault:"Alice,Bob,Charlie,Diana"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
	}

	return cfg, nil
}
