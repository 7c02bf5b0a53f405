// Package secrets resolves secret values from files or inline configuration.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Load returns the trimmed secret value. A file path takes precedence over an
// inline value. The name is only used to make error messages specific.
func Load(name, file, inline string) (string, error) {
	if name = strings.TrimSpace(name); name == "" {
		name = "secret"
	}

	value := inline
	if file = strings.TrimSpace(file); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		value = string(data)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return value, nil
}
