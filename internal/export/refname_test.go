package export

import "testing"

func TestSanitizeTagName(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"v1", "v1"},
		{"Release 1.0", "Release_1.0"},
		{"  padded  ", "padded"},
		{"a..b", "a.b"},
		{"what?*", "what_"},
		{"x~1^2:3", "x_1_2_3"},
		{"[build]", "_build]"},
		{`back\slash`, "back_slash"},
		{".hidden", "hidden"},
		{"ends.", "ends"},
		{"ref.lock", "ref"},
		{"a//b", "a/b"},
		{"/leading/", "leading"},
		{"at@{now}", "at_now}"},
		{"@", ""},
		{"...", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := sanitizeTagName(tt.label); got != tt.want {
				t.Errorf("sanitizeTagName(%q) = %q, expected %q", tt.label, got, tt.want)
			}
		})
	}
}
