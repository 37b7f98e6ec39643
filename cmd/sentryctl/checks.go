package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/db"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/health"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/redis"
)

// newChecker registers a check for every service the configuration points
// at. The returned function releases the connections.
func newChecker(cfg *config.SentryConfig) (*health.Checker, func(), error) {
	checker := health.NewChecker()
	var closers []func() error

	switch {
	case cfg.Database.IsPostgres():
		store := db.NewLazyHealthStore(cfg.Database)
		checker.Register("database", store)
		closers = append(closers, store.Close)
	case cfg.Database.IsSet():
		log.WithFields(log.Fields{"engine": cfg.Database.Engine}).Warn("Database engine cannot be checked")
	}

	if cluster, ok := cfg.DefaultCluster(); ok {
		client, err := redis.NewClient(cluster)
		if err != nil {
			return nil, nil, err
		}
		checker.Register("redis", health.CheckFunc(client.Ping))
		closers = append(closers, client.Close)
	}

	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}
	return checker, closeAll, nil
}
