package sanitizer

import "testing"

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "valid E.164 format", input: "+972525551234", want: "+972525551234"},
		{name: "with spaces", input: "+972 52 555 1234", want: "+972525551234"},
		{name: "with dashes", input: "+972-52-555-1234", want: "+972525551234"},
		{name: "with parentheses", input: "+1 (212) 555-1234", want: "+12125551234"},
		{name: "leading and trailing spaces", input: "  +972525551234  ", want: "+972525551234"},
		{name: "local israeli format", input: "052-555-1234", want: "+972525551234"},
		{name: "unassigned range is only trimmed", input: " +972 54 123 4567 ", want: "+972 54 123 4567"},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   ", want: ""},
		{name: "garbage is passed through", input: " not a phone ", want: "not a phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizePhone(tt.input)
			if got != tt.want {
				t.Errorf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizePhone(got); again != got {
				t.Errorf("SanitizePhone is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSanitizeSeatNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a1", "A1"},
		{" b 12 ", "B12"},
		{"c-3", "C-3"},
		{"A1!", "A1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeSeatNumber(tt.input); got != tt.want {
				t.Errorf("SanitizeSeatNumber(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Dana Levi  ", want: "Dana Levi"},
		{name: "multiple spaces between words", input: "Dana    Levi", want: "Dana Levi"},
		{name: "tabs and newlines", input: "Dana\t\nLevi", want: "Dana Levi"},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n  ", want: ""},
		{name: "preserve special characters", input: " Zoë O'Brien ", want: "Zoë O'Brien"},
		{name: "hebrew characters", input: " דנה  לוי ", want: "דנה לוי"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Room Rent", "room_rent"},
		{"  electricity  ", "electricity"},
		{"snacks & drinks", "snacks_drinks"},
		{"__weird__", "weird"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeLabel(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizeLabel(got); again != got {
				t.Errorf("SanitizeLabel is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSanitizeIDs(t *testing.T) {
	got := SanitizeIDs([]string{" a ", "", "b", "a", "  "})
	want := []string{"a", "b"}

	if len(got) != len(want) {
		t.Fatalf("SanitizeIDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SanitizeIDs[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if out := SanitizeIDs(nil); out == nil || len(out) != 0 {
		t.Errorf("SanitizeIDs(nil) = %#v, want empty slice", out)
	}
}
