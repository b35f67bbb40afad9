// Package classify assigns category tags to outline text.
//
// Categories drive node coloring and grouping in the rendered mind map.
// Classification is keyword-driven: each category carries a set of
// keywords, and a text matches a category when any keyword appears as a
// case-insensitive substring. Categories are checked in declaration
// order and the first match wins, so the table order is a priority
// order. Text matching no category falls back to [Other].
package classify

import "strings"

// Other is the fallback category for text matching no keyword set.
const Other = "Other"

// OtherColor is the node color used for the fallback category.
const OtherColor = "#90A4AE"

// Category pairs a name with its keyword set and display color.
type Category struct {
	Name     string   `toml:"name" json:"name"`
	Keywords []string `toml:"keywords" json:"keywords"`
	Color    string   `toml:"color" json:"color"`
}

// DefaultTable is the built-in ordered category table. Earlier entries
// take priority when a text matches more than one keyword set.
var DefaultTable = []Category{
	{Name: "Goals", Keywords: []string{"goal", "objective", "target", "milestone"}, Color: "#FFB74D"},
	{Name: "Design", Keywords: []string{"design", "ui", "ux", "layout", "wireframe", "mockup"}, Color: "#BA68C8"},
	{Name: "Development", Keywords: []string{"develop", "code", "implement", "build", "api", "backend", "frontend"}, Color: "#4FC3F7"},
	{Name: "Testing", Keywords: []string{"test", "qa", "bug", "verify", "review"}, Color: "#81C784"},
	{Name: "Research", Keywords: []string{"research", "study", "analyze", "explore", "investigate"}, Color: "#FFD54F"},
	{Name: "Planning", Keywords: []string{"plan", "schedule", "roadmap", "timeline", "deadline"}, Color: "#F06292"},
}

// Classifier resolves text to a category using an ordered table.
// The zero value is not usable; use [New] or [Default].
type Classifier struct {
	table []Category
}

// New creates a Classifier over the given ordered table.
// A nil or empty table classifies everything as [Other].
func New(table []Category) *Classifier {
	return &Classifier{table: table}
}

// Default returns a Classifier over [DefaultTable].
func Default() *Classifier {
	return New(DefaultTable)
}

// Classify returns the name of the first category with a keyword that is
// a case-insensitive substring of text, or [Other] if none match.
func (c *Classifier) Classify(text string) string {
	lower := strings.ToLower(text)
	for _, cat := range c.table {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return cat.Name
			}
		}
	}
	return Other
}

// Color returns the display color for a category name.
// Unknown names (including [Other]) get [OtherColor].
func (c *Classifier) Color(category string) string {
	for _, cat := range c.table {
		if cat.Name == category {
			return cat.Color
		}
	}
	return OtherColor
}

// Categories returns the classifier's table in priority order.
// The returned slice should be treated as read-only.
func (c *Classifier) Categories() []Category {
	return c.table
}
