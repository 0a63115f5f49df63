package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type EscrowConfig struct {
	Env           string `yaml:"env"`
	HTTPServer    `yaml:"http_server"`
	EscrowDB      `yaml:"escrow_db"`
	LogConfig     `yaml:"log_config"`
	LedgerService `yaml:"ledger-service"`
	KafkaService  `yaml:"kafka-service"`
	Scheduler     `yaml:"scheduler"`
	Migrations    `yaml:"migrations"`
	Platform      `yaml:"platform"`
}

type Platform struct {
	AccountID string `yaml:"account_id"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type EscrowDB struct {
	Dsn string `yaml:"dsn"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type LedgerService struct {
	Host    string        `yaml:"host"`
	Port    string        `yaml:"port"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type KafkaService struct {
	Host           string `yaml:"host"`
	Port           string `yaml:"port"`
	MilestoneTopic string `yaml:"milestone_topic" env-default:"milestone-events"`
	DisputeTopic   string `yaml:"dispute_topic" env-default:"dispute-events"`
}

type Scheduler struct {
	Interval  time.Duration `yaml:"interval" env-default:"10m"`
	BatchSize int           `yaml:"batch_size" env-default:"100"`
}

type Migrations struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" env-default:"migrations"`
}

func MustLoad() *EscrowConfig {

	configPath := os.Getenv("ESCROW_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("ESCROW_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg EscrowConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
