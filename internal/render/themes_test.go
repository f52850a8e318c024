package render

import (
	"testing"
)

func TestStandardStyle(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{ThemeDark, "dark", true},
		{ThemeTokyoNight, "tokyo-night", true},
		{ThemeNoTTY, "notty", true},
		{"./custom.json", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := StandardStyle(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("StandardStyle(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestIsBuiltinStyle(t *testing.T) {
	if !IsBuiltinStyle(ThemeLight) {
		t.Error("IsBuiltinStyle(light) = false, want true")
	}
	if IsBuiltinStyle("/tmp/theme.json") {
		t.Error("IsBuiltinStyle(path) = true, want false")
	}
}

func TestAvailableThemes(t *testing.T) {
	list := AvailableThemes()
	if len(list) != len(themes) {
		t.Fatalf("AvailableThemes() len = %d, want %d", len(list), len(themes))
	}
	if list[0].Name != ThemeDark {
		t.Errorf("AvailableThemes()[0] = %s, want %s first", list[0].Name, ThemeDark)
	}
	for i := 2; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Errorf("AvailableThemes() not sorted at %d: %s > %s", i, list[i-1].Name, list[i].Name)
		}
	}
	for _, info := range list {
		if info.Description == "" {
			t.Errorf("theme %s has no description", info.Name)
		}
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate theme name %s", n)
		}
		seen[n] = true
	}
	if !seen[ThemeTokyoNight] {
		t.Errorf("ThemeNames() missing %s", ThemeTokyoNight)
	}
}
