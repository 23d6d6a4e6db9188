package ui

import (
	"strings"
	"testing"
)

func TestShouldUseColor(t *testing.T) {
	for _, tc := range []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"NoColor", map[string]string{"NO_COLOR": "1", "CLICOLOR_FORCE": "1"}, false},
		{"Forced", map[string]string{"CLICOLOR_FORCE": "1"}, true},
		{"Disabled", map[string]string{"CLICOLOR": "0"}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "")
			t.Setenv("CLICOLOR_FORCE", "")
			t.Setenv("CLICOLOR", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if got := ShouldUseColor(); got != tc.want {
				t.Fatalf("ShouldUseColor() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRenderStatus(t *testing.T) {
	saved := noColor
	t.Cleanup(func() { noColor = saved })

	noColor = false
	if got := RenderStatus("ok"); !strings.Contains(got, "\x1b[38;5;78m") {
		t.Fatalf("expected green for ok, got %q", got)
	}
	if got := RenderStatus("NOT_SERVING"); !strings.Contains(got, "\x1b[38;5;167m") {
		t.Fatalf("expected red for NOT_SERVING, got %q", got)
	}

	ForceNoColor()
	if got := RenderStatus("ok"); got != "ok" {
		t.Fatalf("expected plain text with color disabled, got %q", got)
	}
	if got := RenderAccent("v1"); got != "v1" {
		t.Fatalf("expected plain accent with color disabled, got %q", got)
	}
}
