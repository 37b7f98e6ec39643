package integration

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"os/exec"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/db"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/health"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/redis"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/server"
)

const serverPort = "18080" // Use a fixed port for testing

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	Postgres      testcontainers.Container
	Redis         testcontainers.Container
	DatabaseURL   string
	RedisURL      string
	ServerURL     string
	Upstream      *httptest.Server
	HTTPClient    *http.Client
	Cancel        context.CancelFunc
	ServerProcess *exec.Cmd
	InlineServer  *server.Server // For inline mode
	closers       []func() error
}

// NewTestContext starts PostgreSQL and Redis testcontainers and a front
// server pointed at them.
// Modes:
//   - Binary mode (default): Set SENTRYCTL_BINARY to the path of the sentryctl binary
//   - Inline mode: Set SENTRYCTL_INLINE=1 to run the server in-process (no binary needed)
func NewTestContext(ctx context.Context) (*TestContext, error) {
	inlineMode := os.Getenv("SENTRYCTL_INLINE") == "1"
	binaryPath := os.Getenv("SENTRYCTL_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either SENTRYCTL_BINARY or SENTRYCTL_INLINE=1 is required.\n\nBinary mode:\n  go build -o sentryctl ./cmd/sentryctl\n  INTEGRATION_TEST=1 SENTRYCTL_BINARY=$(pwd)/sentryctl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 SENTRYCTL_INLINE=1 go test -v ./test/integration/...")
	}

	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("SENTRYCTL_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	tc := &TestContext{HTTPClient: &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("sentry_test"),
		tcpostgres.WithUsername("sentry"),
		tcpostgres.WithPassword("sentry"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}
	tc.Postgres = pgContainer

	host, err := pgContainer.Host(ctx)
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	tc.DatabaseURL = fmt.Sprintf("postgres://sentry:sentry@%s:%s/sentry_test?sslmode=disable", host, port.Port())

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}
	tc.Redis = redisContainer

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("failed to get redis endpoint: %w", err)
	}
	tc.RedisURL = "redis://" + endpoint

	tc.Upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream", "sentry")
		_, _ = fmt.Fprintf(w, "upstream %s", r.URL.Path)
	}))

	confDir, err := os.MkdirTemp("", "sentryctl-integration")
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}
	tc.closers = append(tc.closers, func() error { return os.RemoveAll(confDir) })

	env := map[string]string{
		"DATABASE_URL":      tc.DatabaseURL,
		"REDIS_URL":         tc.RedisURL,
		"SECRET_KEY":        "integration-secret",
		"SENTRY_URL_PREFIX": "https://sentry.example.com",
		"PORT":              serverPort,
		"SENTRY_CONF":       confDir,
	}

	if inlineMode {
		err = tc.startInlineServer(env)
	} else {
		err = tc.startBinary(binaryPath, env)
	}
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}
	tc.ServerURL = "http://127.0.0.1:" + serverPort

	if err := waitForServer(tc.ServerURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return tc, nil
}

// startInlineServer starts the server in-process (no binary needed)
func (tc *TestContext) startInlineServer(env map[string]string) error {
	for k, v := range env {
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	checker := health.NewChecker()
	store := db.NewLazyHealthStore(cfg.Database)
	checker.Register("database", store)
	tc.closers = append(tc.closers, store.Close)

	cluster, _ := cfg.DefaultCluster()
	client, err := redis.NewClient(cluster)
	if err != nil {
		return err
	}
	checker.Register("redis", health.CheckFunc(client.Ping))
	tc.closers = append(tc.closers, client.Close)

	upstream, err := url.Parse(tc.Upstream.URL)
	if err != nil {
		return err
	}
	s := server.NewServer(cfg, checker, upstream)
	tc.InlineServer = s

	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			log.Printf("Inline server error: %v", err)
		}
	}()

	tc.Cancel = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}
	return nil
}

func (tc *TestContext) startBinary(binaryPath string, env map[string]string) error {
	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, binaryPath, "server", "--upstream", tc.Upstream.URL)
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start binary: %w", err)
	}

	tc.ServerProcess = cmd
	tc.Cancel = cancel
	return nil
}

// waitForServer polls the health endpoint until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + server.HealthPath)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.Cancel != nil {
		tc.Cancel()
	}
	if tc.ServerProcess != nil && tc.ServerProcess.Process != nil {
		_ = tc.ServerProcess.Process.Kill()
		_ = tc.ServerProcess.Wait()
	}
	for _, c := range tc.closers {
		_ = c()
	}
	if tc.Upstream != nil {
		tc.Upstream.Close()
	}
	if tc.Redis != nil {
		_ = tc.Redis.Terminate(ctx)
	}
	if tc.Postgres != nil {
		_ = tc.Postgres.Terminate(ctx)
	}
}
