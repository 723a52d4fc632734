package strings

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "short body unchanged",
			input:    `{"error":"x"}`,
			maxLen:   20,
			expected: `{"error":"x"}`,
		},
		{
			name:     "exact length unchanged",
			input:    "hello",
			maxLen:   5,
			expected: "hello",
		},
		{
			name:     "long body shortened",
			input:    `{"error":{"code":"CHANNEL_NOT_FOUND"}}`,
			maxLen:   16,
			expected: `{"error":{"co...`,
		},
		{
			name:     "pretty printed json folded",
			input:    "{\n  \"error\": {\n    \"code\": \"X\"\n  }\n}",
			maxLen:   100,
			expected: `{ "error": { "code": "X" } }`,
		},
		{
			name:     "html error page folded",
			input:    "<html>\r\n\t<body>Bad Gateway</body>\r\n</html>\n",
			maxLen:   100,
			expected: "<html> <body>Bad Gateway</body> </html>",
		},
		{
			name:     "empty body",
			input:    "",
			maxLen:   10,
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    " \n\t ",
			maxLen:   10,
			expected: "",
		},
		{
			name:     "maxLen below minimum is raised",
			input:    "abcdefgh",
			maxLen:   1,
			expected: "a...",
		},
		{
			name:     "negative maxLen is raised",
			input:    "abcdefgh",
			maxLen:   -5,
			expected: "a...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(tt.input, tt.maxLen); got != tt.expected {
				t.Errorf("Excerpt(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}

func TestExcerpt_MultiByte(t *testing.T) {
	input := strings.Repeat("채널", 150)

	got := Excerpt(input, DefaultExcerptLen)

	if !utf8.ValidString(got) {
		t.Fatalf("Excerpt produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != DefaultExcerptLen {
		t.Errorf("expected %d runes, got %d", DefaultExcerptLen, n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected trailing ellipsis, got %q", got)
	}
}
