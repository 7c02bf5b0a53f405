package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  api-key-value\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Load("gemini api key", path, "ignored-inline")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "api-key-value" {
		t.Errorf("expected trimmed file value, got %q", got)
	}
}

func TestLoadInline(t *testing.T) {
	got, err := Load("token", "", " inline ")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "inline" {
		t.Errorf("got %q", got)
	}
}

func TestLoadErrorsNameTheSecret(t *testing.T) {
	_, err := Load("gemini api key", "", "")
	if err == nil || !strings.Contains(err.Error(), "gemini api key") {
		t.Errorf("error should name the secret: %v", err)
	}

	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err = Load("gemini api key", path, "")
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("error should name the file: %v", err)
	}
}
