package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/errors"
	"github.com/treeline-io/treeline/pkg/mapper"
)

func buildDoc(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, err := mapper.BuildText(src, mapper.Options{AutoGroup: true, Layout: document.LayoutRadial})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return doc
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"text", FormatText, false},
		{"txt", FormatText, false},
		{"xml", FormatXML, false},
		{"yaml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) code = %q, want INVALID_FORMAT", tt.in, errors.GetCode(err))
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	doc := buildDoc(t, "Design work\n  Wireframes\n  Mockups\nTesting\n  Unit tests")

	var buf bytes.Buffer
	if err := EncodeJSON(doc, &buf); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}

	got, err := DecodeJSON(&buf)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}

	if got.NodeCount() != doc.NodeCount() || got.EdgeCount() != doc.EdgeCount() {
		t.Fatalf("counts = %d/%d, want %d/%d", got.NodeCount(), got.EdgeCount(), doc.NodeCount(), doc.EdgeCount())
	}
	if *got.Meta() != *doc.Meta() {
		t.Errorf("meta = %+v, want %+v", *got.Meta(), *doc.Meta())
	}
	for _, want := range doc.Nodes() {
		n, ok := got.Node(want.ID)
		if !ok {
			t.Fatalf("node %s lost in round-trip", want.ID)
		}
		if *n != *want {
			t.Errorf("node %s = %+v, want %+v", want.ID, *n, *want)
		}
	}
}

func TestDecodeJSONFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Malformed", `{not json}`},
		{"NoNodes", `{"meta":{"auto_group":false},"nodes":[],"edges":[]}`},
		{"NoRoot", `{"meta":{"auto_group":false},"nodes":[{"id":"n0001","text":"a","depth":1}],"edges":[]}`},
		{
			name: "MultiParent",
			input: `{"meta":{"auto_group":false},"nodes":[
				{"id":"root","text":"Mind Map","depth":0,"shape":"container"},
				{"id":"n0001","text":"a","depth":1,"shape":"container"},
				{"id":"n0002","text":"b","depth":1,"shape":"leaf"}],
				"edges":[{"from":"root","to":"n0001"},{"from":"root","to":"n0002"},{"from":"n0001","to":"n0002"}]}`,
		},
		{
			name: "Disconnected",
			input: `{"meta":{"auto_group":false},"nodes":[
				{"id":"root","text":"Mind Map","depth":0,"shape":"container"},
				{"id":"n0001","text":"a","depth":1,"shape":"leaf"}],
				"edges":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeImportFailed) {
				t.Errorf("code = %q, want IMPORT_FAILED (%v)", errors.GetCode(err), err)
			}
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	doc := buildDoc(t, "Design\n  Wireframes\nLaunch")

	var buf bytes.Buffer
	if err := EncodeText(doc, &buf); err != nil {
		t.Fatalf("EncodeText: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# ") {
		t.Errorf("text export missing comment header: %q", buf.String())
	}

	got, err := DecodeText(&buf)
	if err != nil {
		t.Fatalf("DecodeText: %v", err)
	}

	// Label text and nesting survive; styling does not.
	if got.NodeCount() != doc.NodeCount() {
		t.Fatalf("nodes = %d, want %d", got.NodeCount(), doc.NodeCount())
	}
	n, _ := got.Node("n0001")
	if n.OriginalText != "Design" {
		t.Errorf("n0001 text = %q", n.OriginalText)
	}
	if n.Category != "" || n.Color != "" {
		t.Errorf("styling survived lossy round-trip: %+v", n)
	}
	if kids := got.Children("n0001"); len(kids) != 1 {
		t.Errorf("nesting lost: %v", kids)
	}
}

func TestDecodeTextComments(t *testing.T) {
	doc, err := DecodeText(strings.NewReader("# header\nA\n  # indented comment\n  B\n"))
	if err != nil {
		t.Fatalf("DecodeText: %v", err)
	}
	if doc.NodeCount() != 3 {
		t.Errorf("nodes = %d, want 3 (root + A + B)", doc.NodeCount())
	}
}

func TestDecodeTextEmpty(t *testing.T) {
	_, err := DecodeText(strings.NewReader("# only comments\n\n"))
	if !errors.Is(err, errors.ErrCodeImportFailed) {
		t.Errorf("err = %v, want IMPORT_FAILED", err)
	}
}

func TestXMLRoundTrip(t *testing.T) {
	doc := buildDoc(t, "Design <&> \"quotes\" 'apos'\n  Wireframes\nLaunch")

	var buf bytes.Buffer
	if err := EncodeXML(doc, &buf); err != nil {
		t.Fatalf("EncodeXML: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<&>") {
		t.Errorf("metacharacters not escaped: %q", out)
	}
	if !strings.Contains(out, "<node text=\"Wireframes\"/>") {
		t.Errorf("leaf not self-closing: %q", out)
	}

	got, err := DecodeXML(&buf)
	if err != nil {
		t.Fatalf("DecodeXML: %v", err)
	}
	if got.NodeCount() != doc.NodeCount() {
		t.Fatalf("nodes = %d, want %d", got.NodeCount(), doc.NodeCount())
	}
	n, _ := got.Node("n0001")
	if n.OriginalText != `Design <&> "quotes" 'apos'` {
		t.Errorf("escaped text did not round-trip: %q", n.OriginalText)
	}
	if got.Meta().Layout != document.LayoutRadial {
		t.Errorf("layout attr lost: %q", got.Meta().Layout)
	}
}

func TestDecodeXMLFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Unparseable", `<mindmap><node text="a"`},
		{"MissingRootNode", `<mindmap layout="tree"></mindmap>`},
		{"MultipleRoots", `<mindmap><node text="a"/><node text="b"/></mindmap>`},
		{"WrongEnvelope", `<other><node text="a"/></other>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeXML(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeImportFailed) {
				t.Errorf("code = %q, want IMPORT_FAILED", errors.GetCode(err))
			}
		})
	}
}

func TestXMLScopedChildren(t *testing.T) {
	// C is a grandchild and must not surface as a direct child of the
	// root's first child.
	input := `<mindmap><node text="Mind Map"><node text="A"><node text="B"><node text="C"/></node></node></node></mindmap>`

	doc, err := DecodeXML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeXML: %v", err)
	}
	a, _ := doc.Node("n0001")
	if a.OriginalText != "A" {
		t.Fatalf("n0001 = %q", a.OriginalText)
	}
	if kids := doc.Children("n0001"); len(kids) != 1 {
		t.Errorf("A children = %d, want 1 (only B)", len(kids))
	}
	b := doc.Children("n0001")[0]
	if kids := doc.Children(b); len(kids) != 1 {
		t.Errorf("B children = %d, want 1 (only C)", len(kids))
	}
}

func TestEncodeDecodeDispatch(t *testing.T) {
	doc := buildDoc(t, "A")

	for _, f := range []Format{FormatJSON, FormatText, FormatXML} {
		var buf bytes.Buffer
		if err := Encode(doc, f, &buf); err != nil {
			t.Fatalf("Encode(%s): %v", f, err)
		}
		if _, err := Decode(f, &buf); err != nil {
			t.Fatalf("Decode(%s): %v", f, err)
		}
	}

	var buf bytes.Buffer
	if err := Encode(doc, Format("yaml"), &buf); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Encode(yaml) err = %v", err)
	}
	if _, err := Decode(Format("yaml"), &buf); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Decode(yaml) err = %v", err)
	}
}
