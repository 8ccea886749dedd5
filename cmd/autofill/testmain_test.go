package main

import (
	"os"
	"testing"
)

// TestMain keeps the model out of CLI tests regardless of the developer's environment.
func TestMain(m *testing.M) {
	_ = os.Unsetenv("GEMINI_API_KEY")
	_ = os.Unsetenv("DATABASE_URL")
	os.Exit(m.Run())
}
