package main

import (
	"errors"

	"github.com/dmitrymomot/taskflow/pkg/config"
	"github.com/dmitrymomot/taskflow/pkg/httpserver"
	"github.com/dmitrymomot/taskflow/pkg/pg"
	"github.com/dmitrymomot/taskflow/pkg/redis"
	"github.com/dmitrymomot/taskflow/svc/billing"
)

const (
	storagePostgres = "postgres"
	storageMemory   = "memory"
)

type appConfig struct {
	Env           string `env:"APP_ENV" envDefault:"development"`
	Name          string `env:"APP_NAME" envDefault:"taskflow"`
	JWTSigningKey string `env:"JWT_SIGNING_KEY,required"`
	Storage       string `env:"STORAGE" envDefault:"postgres"`
	RedisEnabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
}

// settings groups every config struct the server reads from the environment.
type settings struct {
	App     appConfig
	HTTP    httpserver.Config
	Billing billing.Config
	PG      *pg.Config
	Redis   *redis.Config
}

var errUnknownStorage = errors.New("STORAGE must be postgres or memory")

func loadSettings() (settings, error) {
	var s settings
	if err := config.Load(&s.App); err != nil {
		return s, err
	}
	if err := config.Load(&s.HTTP); err != nil {
		return s, err
	}
	if err := config.Load(&s.Billing); err != nil {
		return s, err
	}

	switch s.App.Storage {
	case storagePostgres:
		s.PG = &pg.Config{}
		if err := config.Load(s.PG); err != nil {
			return s, err
		}
	case storageMemory:
	default:
		return s, errUnknownStorage
	}

	if s.App.RedisEnabled {
		s.Redis = &redis.Config{}
		if err := config.Load(s.Redis); err != nil {
			return s, err
		}
	}
	return s, nil
}
