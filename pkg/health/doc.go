// Package health aggregates connectivity checks for the services a Sentry
// install depends on.
//
//	checker := health.NewChecker()
//	checker.Register("database", db.NewHealthStore(database))
//	checker.Register("redis", redisClient)
//	report := checker.Check(ctx)
//	if !report.OK() {
//	    ...
//	}
package health
