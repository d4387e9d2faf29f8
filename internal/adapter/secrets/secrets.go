// Package secrets resolves named credentials at process start.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Store retrieves a secret by name.
type Store interface {
	Get(name string) (string, error)
}

// EnvStore resolves secrets from the process environment. A secret named
// NAME is read from $NAME, or from the file at $NAME_FILE when set, which is
// how container orchestrators mount secrets.
type EnvStore struct{}

// Get returns the secret value or an error when it is absent. The caller
// treats a missing object-store credential as a fatal startup condition.
func (EnvStore) Get(name string) (string, error) {
	if path := os.Getenv(name + "_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read secret file for %s: %w", name, err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("secret %s is not set", name)
}
