package htmlsanitize

import "testing"

func TestStrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "Movie Night", "Movie Night"},
		{"script tag", `Movie <script>alert("x")</script> Night`, "Movie  Night"},
		{"bold tag", "<b>Friday</b> films", "Friday films"},
		{"anchor", `<a href="http://evil.example">click</a>`, "click"},
		{"whitespace trimmed", "  Movie Night  ", "Movie Night"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strip(tt.input)
			if got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
