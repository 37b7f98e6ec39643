package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/health"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^the front server is running$`, s.theFrontServerIsRunning)

	// Request steps
	sc.Step(`^I request "([^"]*)" over HTTPS$`, s.iRequestOverHTTPS)
	sc.Step(`^I request "([^"]*)" over plain HTTP$`, s.iRequestOverPlainHTTP)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, s.theResponseHeaderShouldBe)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
	sc.Step(`^the response body should not contain "([^"]*)"$`, s.theResponseBodyShouldNotContain)
	sc.Step(`^the health check "([^"]*)" should be "([^"]*)"$`, s.theHealthCheckShouldBe)
}

func (s *StepsContext) theFrontServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) request(path string, secure bool) error {
	req, err := http.NewRequest(http.MethodGet, s.tc.ServerURL+path, nil)
	if err != nil {
		return err
	}
	req.Host = "sentry.example.com"
	if secure {
		req.Header.Set("X-Forwarded-Proto", "https")
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	s.response = resp
	s.responseBody = body
	return nil
}

func (s *StepsContext) iRequestOverHTTPS(path string) error {
	return s.request(path, true)
}

func (s *StepsContext) iRequestOverPlainHTTP(path string) error {
	return s.request(path, false)
}

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseHeaderShouldBe(name, expected string) error {
	if actual := s.response.Header.Get(name); actual != expected {
		return fmt.Errorf("expected header %s %q, got %q", name, expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("expected body to contain %q, got %q", expected, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldNotContain(unexpected string) error {
	if strings.Contains(string(s.responseBody), unexpected) {
		return fmt.Errorf("expected body not to contain %q", unexpected)
	}
	return nil
}

func (s *StepsContext) theHealthCheckShouldBe(name, status string) error {
	var report health.Report
	if err := json.Unmarshal(s.responseBody, &report); err != nil {
		return fmt.Errorf("failed to parse health report: %w", err)
	}
	for _, res := range report.Checks {
		if res.Name == name {
			if res.Status != status {
				return fmt.Errorf("check %s is %s: %s", name, res.Status, res.Error)
			}
			return nil
		}
	}
	return fmt.Errorf("check %s not in report", name)
}
