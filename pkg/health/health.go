package health

import (
	"context"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// DefaultTimeout bounds each check when the checker has no timeout set.
const DefaultTimeout = 5 * time.Second

// Check reports whether a dependency is reachable.
type Check interface {
	CheckConnectivity(ctx context.Context) error
}

// CheckFunc adapts a function to Check.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) CheckConnectivity(ctx context.Context) error { return f(ctx) }

// Result is the outcome of one named check. Error carries the failure
// detail and is kept out of JSON so served reports never expose it.
type Result struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Error    string        `json:"-"`
	Duration time.Duration `json:"duration_ns"`
}

// Report aggregates every check. Status is ok only when all checks are ok.
type Report struct {
	Status string   `json:"status"`
	Checks []Result `json:"checks"`
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	return r.Status == StatusOK
}

// Checker runs a set of named checks concurrently.
type Checker struct {
	Timeout time.Duration

	mu     sync.RWMutex
	checks map[string]Check
}

// NewChecker creates a Checker with no registered checks.
func NewChecker() *Checker {
	return &Checker{Timeout: DefaultTimeout, checks: make(map[string]Check)}
}

// Register adds or replaces the check called name.
func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Names returns the registered check names in order.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs every registered check and returns a report sorted by name.
// A failing check never stops the others.
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.RLock()
	checks := make(map[string]Check, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	results := make([]Result, len(checks))
	var wg sync.WaitGroup
	i := 0
	for name, check := range checks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = run(ctx, name, check, timeout)
		}(i)
		i++
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	report := Report{Status: StatusOK, Checks: results}
	for _, res := range results {
		if res.Status != StatusOK {
			report.Status = StatusError
		}
	}
	return report
}

func run(ctx context.Context, name string, check Check, timeout time.Duration) Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := check.CheckConnectivity(ctx)
	res := Result{Name: name, Status: StatusOK, Duration: time.Since(start)}
	if err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		log.WithFields(log.Fields{"check": name, "err": err}).Warn("Health check failed")
	}
	return res
}
