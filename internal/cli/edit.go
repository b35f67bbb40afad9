package cli

import (
	"context"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/treeline-io/treeline/pkg/codec"
	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/editor"
	"github.com/treeline-io/treeline/pkg/errors"
	"github.com/treeline-io/treeline/pkg/mapper"
	"github.com/treeline-io/treeline/pkg/observability"
)

// editCommand creates the edit command, an interactive terminal editor
// for a mind map. Structural operations go through the editor package so
// the tree invariants hold after every keystroke, and the outline file
// is rewritten from the edited map on save.
func (c *CLI) editCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a mind map interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(args[0], configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a treeline.toml config file")

	return cmd
}

func (c *CLI) runEdit(path, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	text, err := readInput(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read outline %s", path)
	}

	doc, err := mapper.BuildText(text, mapper.Options{
		AutoGroup:  cfg.AutoGroup,
		Classifier: cfg.Classifier(),
		Layout:     cfg.Layout,
		Source:     text,
	})
	if err != nil {
		return err
	}

	model := newEditModel(doc, path)
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "run editor")
	}

	m, ok := final.(editModel)
	if !ok || !m.saved {
		printInfo("No changes written")
		return nil
	}
	printSuccess("Saved %s", path)
	printStats(doc.NodeCount(), doc.EdgeCount(), false)
	return nil
}

// Edit modes.
const (
	modeNavigate = iota
	modeInput
)

// pendingOp is the structural operation an input-mode entry completes.
type pendingOp int

const (
	opRename pendingOp = iota
	opAddChild
	opAddSibling
)

// editModel is the bubbletea model for the interactive editor.
type editModel struct {
	doc    *document.Document
	path   string
	cursor string // current node ID

	mode   int
	op     pendingOp
	input  string
	status string
	dirty  bool
	saved  bool
	height int

	// undo holds payload snapshots taken before each structural edit.
	undo []codec.Payload
}

func newEditModel(doc *document.Document, path string) editModel {
	return editModel{
		doc:    doc,
		path:   path,
		cursor: document.RootID,
		height: 20,
	}
}

func (m editModel) Init() tea.Cmd {
	return nil
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	case tea.KeyMsg:
		if m.mode == modeInput {
			return m.updateInput(msg)
		}
		return m.updateNavigate(msg)
	}
	return m, nil
}

func (m editModel) updateNavigate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "w":
		if err := m.save(); err != nil {
			m.status = "save failed: " + errors.UserMessage(err)
			return m, nil
		}
		m.saved = true
		m.dirty = false
		m.status = "saved " + m.path
	case "up", "k":
		if id, ok := editor.Navigate(m.doc, editor.DirUp, m.cursor); ok {
			m.cursor = id
		}
	case "down", "j":
		if id, ok := editor.Navigate(m.doc, editor.DirDown, m.cursor); ok {
			m.cursor = id
		}
	case "left", "h":
		if id, ok := editor.Navigate(m.doc, editor.DirLeft, m.cursor); ok {
			m.cursor = id
		}
	case "right", "l":
		if id, ok := editor.Navigate(m.doc, editor.DirRight, m.cursor); ok {
			m.cursor = id
		}
	case "a":
		m.mode = modeInput
		m.op = opAddChild
		m.input = ""
	case "s":
		m.mode = modeInput
		m.op = opAddSibling
		m.input = ""
	case "r":
		if n, ok := m.doc.Node(m.cursor); ok {
			m.mode = modeInput
			m.op = opRename
			m.input = n.OriginalText
		}
	case "d":
		target := m.cursor
		snap := codec.FromDocument(m.doc)
		next, hadParent := m.doc.Parent(target)
		if editor.Delete(m.doc, target) {
			observability.Editor().OnEdit(context.Background(), "delete", target)
			m.undo = append(m.undo, snap)
			m.dirty = true
			if hadParent {
				m.cursor = next
			}
			m.status = "deleted subtree"
		}
	case "u":
		n := len(m.undo)
		if n == 0 {
			m.status = "nothing to undo"
			break
		}
		restored, err := codec.ToDocument(m.undo[n-1])
		if err != nil {
			m.status = "undo failed: " + errors.UserMessage(err)
			break
		}
		m.undo = m.undo[:n-1]
		m.doc = restored
		if _, ok := m.doc.Node(m.cursor); !ok {
			m.cursor = document.RootID
		}
		m.dirty = true
		m.status = "undid last edit"
	}
	return m, nil
}

func (m editModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNavigate
		m.status = ""
	case "enter":
		m.mode = modeNavigate
		m.apply()
	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		case tea.KeySpace:
			m.input += " "
		}
	}
	return m, nil
}

// apply commits the pending input-mode operation.
func (m *editModel) apply() {
	text := strings.TrimSpace(m.input)
	snap := codec.FromDocument(m.doc)
	switch m.op {
	case opRename:
		if text == "" {
			return
		}
		if editor.Rename(m.doc, m.cursor, text) {
			observability.Editor().OnEdit(context.Background(), "rename", m.cursor)
			m.undo = append(m.undo, snap)
			m.dirty = true
			m.status = "renamed"
		}
	case opAddChild:
		id, ok := editor.AddChild(m.doc, m.cursor)
		if !ok {
			return
		}
		if text != "" {
			editor.Rename(m.doc, id, text)
		}
		observability.Editor().OnEdit(context.Background(), "add_child", id)
		m.undo = append(m.undo, snap)
		m.cursor = id
		m.dirty = true
		m.status = "added child"
	case opAddSibling:
		id, ok := editor.AddSibling(m.doc, m.cursor)
		if !ok {
			m.status = "cannot add a sibling here"
			return
		}
		if text != "" {
			editor.Rename(m.doc, id, text)
		}
		observability.Editor().OnEdit(context.Background(), "add_sibling", id)
		m.undo = append(m.undo, snap)
		m.cursor = id
		m.dirty = true
		m.status = "added sibling"
	}
}

// save rewrites the outline file from the edited document.
func (m *editModel) save() error {
	return os.WriteFile(m.path, []byte(mapper.Reconstruct(m.doc)), 0o644)
}

// Editor styles.
var (
	editCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editNodeStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editDirtyStyle  = lipgloss.NewStyle().Foreground(colorYellow)
)

func (m editModel) View() string {
	var b strings.Builder

	title := "Treeline Editor"
	if m.dirty {
		title += " " + editDirtyStyle.Render("[modified]")
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓/←/→ navigate  a child  s sibling  r rename  d delete  u undo  w save  q quit"))
	b.WriteString("\n\n")

	rows := m.visibleRows()
	for _, row := range rows {
		indent := strings.Repeat("  ", row.depth)
		marker := "  "
		line := row.text
		if row.id == m.cursor {
			marker = editCursorStyle.Render("▸ ")
			line = editCursorStyle.Render(line)
		} else if row.color != "" {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color(row.color)).Render(line)
		} else {
			line = editNodeStyle.Render(line)
		}
		b.WriteString(indent + marker + line)
		if row.category != "" {
			b.WriteString("  " + StyleDim.Render(row.category))
		}
		b.WriteString("\n")
	}

	if m.mode == modeInput {
		prompt := map[pendingOp]string{
			opRename:     "rename",
			opAddChild:   "new child",
			opAddSibling: "new sibling",
		}[m.op]
		b.WriteString("\n" + StyleTitle.Render(prompt+": ") + m.input + "█\n")
	} else if m.status != "" {
		b.WriteString("\n" + StyleDim.Render(m.status) + "\n")
	}
	return b.String()
}

// editRow is one rendered line of the tree.
type editRow struct {
	id       string
	depth    int
	text     string
	category string
	color    string
}

// visibleRows flattens the tree depth-first in deterministic child order.
func (m editModel) visibleRows() []editRow {
	var rows []editRow
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, ok := m.doc.Node(id)
		if !ok {
			return
		}
		rows = append(rows, editRow{
			id:       id,
			depth:    depth,
			text:     n.OriginalText,
			category: n.Category,
			color:    n.Color,
		})
		for _, child := range mapper.OrderedChildren(m.doc, id) {
			walk(child, depth+1)
		}
	}
	walk(document.RootID, 0)

	// Keep the cursor on screen for tall maps.
	if len(rows) > m.height {
		idx := 0
		for i, r := range rows {
			if r.id == m.cursor {
				idx = i
				break
			}
		}
		start := idx - m.height/2
		if start < 0 {
			start = 0
		}
		end := start + m.height
		if end > len(rows) {
			end = len(rows)
			start = end - m.height
		}
		rows = rows[start:end]
	}
	return rows
}

