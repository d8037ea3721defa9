package main

import (
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/getsentry/callcount/internal/cost"
)

type ServiceConfig struct {
	Environment string `env:"CALLCOUNT_ENVIRONMENT" env-default:"development"`
	Port        string `env:"PORT" env-default:"8080"`

	SentryDSN string `env:"SENTRY_DSN"`

	KafkaBrokers []string `env:"CALLCOUNT_KAFKA_BROKERS" env-separator:","`
	KafkaTopic   string   `env:"CALLCOUNT_KAFKA_TOPIC" env-default:"function-calls"`
	KafkaGroupID string   `env:"CALLCOUNT_KAFKA_GROUP" env-default:"callcountd"`

	// SnapshotBucket is a gocloud bucket URL, snapshots are disabled when
	// empty.
	SnapshotBucket string `env:"CALLCOUNT_SNAPSHOT_BUCKET"`

	Costs cost.Config
}

func loadServiceConfig() (ServiceConfig, error) {
	var c ServiceConfig
	if err := cleanenv.ReadEnv(&c); err != nil {
		return ServiceConfig{}, err
	}
	costs, err := cost.LoadConfig("")
	if err != nil {
		return ServiceConfig{}, err
	}
	c.Costs = costs
	return c, nil
}
