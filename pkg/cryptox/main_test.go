package cryptox

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMain(m *testing.M) {
	// Hashing peppers every input; point the pepper at a throwaway file so
	// tests never touch a developer's real pepper.
	dir, err := os.MkdirTemp("", "cryptox-test-")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}
