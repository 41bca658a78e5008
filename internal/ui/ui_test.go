package ui

import (
	"os"
	"strings"
	"testing"
)

// Tests here mutate the global theme, so they do not run in parallel.

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"orange", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q) selected %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitThemeNoColor(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	InitTheme(true)
	if ColorGreen() != "" || ColorReset() != "" {
		t.Error("no-color theme still emits escape codes")
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("NO_COLOR ignored, theme %q", GetCurrentTheme().Name)
	}
}

func TestInitThemeDefault(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	if _, set := os.LookupEnv("NO_COLOR"); set {
		t.Skip("NO_COLOR set in the environment")
	}
	InitTheme(false)
	if ColorGreen() == "" {
		t.Error("dark theme has no green")
	}
}

func TestBadge(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	SetTheme("none")
	tests := []struct {
		v    Verdict
		want string
	}{
		{VerdictFor(true), "PRIME"},
		{VerdictFor(false), "NOT PRIME"},
		{VerdictFailed, "FAILED"},
	}
	for _, tt := range tests {
		if got := Badge(tt.v); got != tt.want {
			t.Errorf("Badge(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}

	SetTheme("dark")
	if got := Badge(VerdictPrime); !strings.Contains(got, "PRIME") {
		t.Errorf("colored badge %q lost its text", got)
	}
}
