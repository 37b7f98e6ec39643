package config

import (
	"errors"
	"strings"
)

// ErrMissingEnv is matched by every MissingEnvError.
var ErrMissingEnv = errors.New("required environment variable is not set")

// MissingEnvError lists required environment variables that are not set.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	if len(e.Names) == 1 {
		return e.Names[0] + " environment variable is required"
	}
	return strings.Join(e.Names, ", ") + " environment variables are required"
}

func (e *MissingEnvError) Is(target error) bool {
	return target == ErrMissingEnv
}
