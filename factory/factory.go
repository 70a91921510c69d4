package factory

import (
	"context"
	"database/sql"
	"sync"

	"event-tickets-backend/config"
	"event-tickets-backend/logger"

	"github.com/go-redis/redis"
	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

var db sync.Once
var rd sync.Once

type Factory interface {
	DB(ctx context.Context) *sql.DB
	Redis(ctx context.Context) *redis.Client
}

type factory struct {
	db    *sql.DB
	redis *redis.Client
}

func NewFactory() Factory {
	return &factory{}
}

func (f *factory) DB(ctx context.Context) *sql.DB {
	db.Do(func() {
		sqlDB, err := sql.Open("mysql", viper.GetString(config.DBURL))
		if err != nil {
			logger.Fatalf(ctx, "Could not establish connection to the DB: %+v", err)
		}
		f.db = sqlDB
	})

	return f.db
}

func (f *factory) Redis(ctx context.Context) *redis.Client {
	rd.Do(func() {
		f.redis = redis.NewClient(&redis.Options{
			Addr:     viper.GetString(config.RedisAddress),
			Password: viper.GetString(config.RedisPassword),
			DB:       viper.GetInt(config.RedisDB),
		})
	})

	return f.redis
}
