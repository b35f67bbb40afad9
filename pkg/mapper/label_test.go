package mapper

import (
	"strings"
	"testing"
)

func TestFormatLabelLeaf(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantLines int
		wantTrunc bool
	}{
		{"Empty", "", 0, false},
		{"Short", "hello world", 1, false},
		{"ExactlyTwenty", "12345678901234567890", 1, false},
		{"TwoLines", "alpha beta gamma delta epsilon", 2, false},
		{
			// 10 words of 5 chars = 59 chars with spaces; three words fit
			// per 20-char line, so 9 words fill 3 lines and one remains.
			name:      "OverflowTruncates",
			text:      "aaaaa bbbbb ccccc ddddd eeeee fffff ggggg hhhhh iiiii jjjjj",
			wantLines: 3,
			wantTrunc: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatLabel(tt.text, false)

			var lines []string
			if got != "" {
				lines = strings.Split(got, "\n")
			}
			if len(lines) != tt.wantLines {
				t.Fatalf("lines = %d (%q), want %d", len(lines), got, tt.wantLines)
			}
			for _, line := range lines {
				if !tt.wantTrunc && len([]rune(line)) > leafLineWidth {
					t.Errorf("line %q exceeds %d chars", line, leafLineWidth)
				}
			}
			if trunc := strings.HasSuffix(got, ellipsis); trunc != tt.wantTrunc {
				t.Errorf("ellipsis = %v, want %v (%q)", trunc, tt.wantTrunc, got)
			}
		})
	}
}

func TestFormatLabelLeafLongWord(t *testing.T) {
	// A single word longer than the line width occupies its own line
	// rather than being split mid-word.
	word := strings.Repeat("x", 25)
	got := FormatLabel(word+" tail", false)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 || lines[0] != word || lines[1] != "tail" {
		t.Errorf("got %q", got)
	}
}

func TestFormatLabelContainer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"Short", "Project", "Project"},
		{"ExactlyForty", strings.Repeat("a", 40), strings.Repeat("a", 40)},
		{"FortyOne", strings.Repeat("a", 41), strings.Repeat("a", 37) + ellipsis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLabel(tt.text, true); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatLabelContainerSingleLine(t *testing.T) {
	got := FormatLabel("one two three four five six seven eight nine ten eleven", true)
	if strings.Contains(got, "\n") {
		t.Errorf("container label wrapped: %q", got)
	}
}
