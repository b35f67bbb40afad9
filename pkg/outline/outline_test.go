package outline

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, forest []*Node)
	}{
		{
			name:  "Empty",
			input: "",
			check: func(t *testing.T, forest []*Node) {
				if len(forest) != 0 {
					t.Errorf("forest = %d nodes, want 0", len(forest))
				}
			},
		},
		{
			name:  "WhitespaceOnly",
			input: "   \n\t\n  ",
			check: func(t *testing.T, forest []*Node) {
				if len(forest) != 0 {
					t.Errorf("forest = %d nodes, want 0", len(forest))
				}
			},
		},
		{
			name:  "SiblingsAndChildren",
			input: "A\n  B\n  C\nD",
			check: func(t *testing.T, forest []*Node) {
				if len(forest) != 2 {
					t.Fatalf("top-level = %d, want 2", len(forest))
				}
				a, d := forest[0], forest[1]
				if a.Text != "A" || d.Text != "D" {
					t.Fatalf("top-level texts = %q, %q, want A, D", a.Text, d.Text)
				}
				if len(a.Children) != 2 {
					t.Fatalf("A children = %d, want 2", len(a.Children))
				}
				if a.Children[0].Text != "B" || a.Children[1].Text != "C" {
					t.Errorf("A children = %q, %q, want B, C", a.Children[0].Text, a.Children[1].Text)
				}
				if len(d.Children) != 0 {
					t.Errorf("D children = %d, want 0", len(d.Children))
				}
			},
		},
		{
			name:  "MultiLevelDecrease",
			input: "A\n  B\n    C\n      D\nE",
			check: func(t *testing.T, forest []*Node) {
				if len(forest) != 2 {
					t.Fatalf("top-level = %d, want 2", len(forest))
				}
				if forest[1].Text != "E" {
					t.Errorf("second top-level = %q, want E", forest[1].Text)
				}
				c := forest[0].Children[0].Children[0]
				if c.Text != "C" || len(c.Children) != 1 || c.Children[0].Text != "D" {
					t.Errorf("deep chain broken: got %q with %d children", c.Text, len(c.Children))
				}
			},
		},
		{
			name:  "IndentedFirstLine",
			input: "    A\nB",
			check: func(t *testing.T, forest []*Node) {
				if len(forest) != 2 {
					t.Fatalf("top-level = %d, want 2 (indented first line attaches to root)", len(forest))
				}
				if forest[0].Text != "A" || forest[0].Level != 2 {
					t.Errorf("first = %q level %d, want A level 2", forest[0].Text, forest[0].Level)
				}
			},
		},
		{
			name:  "TabsExpandToFourSpaces",
			input: "A\n\tB\n\t\tC",
			check: func(t *testing.T, forest []*Node) {
				// One tab = 4 spaces = level 2, two tabs = level 4.
				b := forest[0].Children[0]
				if b.Level != 2 {
					t.Errorf("B level = %d, want 2", b.Level)
				}
				if len(b.Children) != 1 || b.Children[0].Level != 4 {
					t.Errorf("C level under B wrong: %+v", b.Children)
				}
			},
		},
		{
			name:  "BlankLinesSkipped",
			input: "A\n\n  B\n\n\n  C",
			check: func(t *testing.T, forest []*Node) {
				if len(forest) != 1 || len(forest[0].Children) != 2 {
					t.Errorf("shape wrong: %d top-level, %d children", len(forest), len(forest[0].Children))
				}
			},
		},
		{
			name:  "OddIndentFloors",
			input: "A\n   B",
			check: func(t *testing.T, forest []*Node) {
				// Three spaces floor to level 1: B is a child of A.
				if len(forest) != 1 || len(forest[0].Children) != 1 {
					t.Fatalf("shape wrong: %d top-level", len(forest))
				}
				if forest[0].Children[0].Level != 1 {
					t.Errorf("B level = %d, want 1", forest[0].Children[0].Level)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Parse(tt.input))
		})
	}
}

func TestIndentLevel(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"A", 0},
		{" A", 0},
		{"  A", 1},
		{"   A", 1},
		{"    A", 2},
		{"\tA", 2},
		{"\t\tA", 4},
		{"\t  A", 3},
		{"  \tA", 3},
	}

	for _, tt := range tests {
		if got := indentLevel(tt.line); got != tt.want {
			t.Errorf("indentLevel(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	forest := Parse("A\n  B\n    C\n  D\nE")
	if got := Count(forest); got != 5 {
		t.Errorf("Count = %d, want 5", got)
	}
	if got := Count(nil); got != 0 {
		t.Errorf("Count(nil) = %d, want 0", got)
	}
}
