package codec

import (
	"bufio"
	"io"
	"strings"

	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/errors"
	"github.com/treeline-io/treeline/pkg/mapper"
)

// EncodeText writes the lossy plain-text outline: the label hierarchy in
// reconstruction order, two spaces of indent per level, preceded by a
// comment header. Category, color, and shape are dropped.
func EncodeText(d *document.Document, w io.Writer) error {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(d.Root().OriginalText)
	b.WriteString("\n\n")
	b.WriteString(mapper.Reconstruct(d))
	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write text")
	}
	return nil
}

// DecodeText reads a plain-text outline into a fresh Document.
//
// Comment lines (leading #, possibly indented) are skipped. The document
// is rebuilt through the forward mapper's shape rules but without
// category or color assignment: styling is defaulted, as the format does
// not carry it. An outline with no entries yields an IMPORT_FAILED error.
func DecodeText(r io.Reader) (*document.Document, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeImportFailed, err, "read text")
	}

	text := strings.Join(lines, "\n")
	doc, err := mapper.BuildText(text, mapper.Options{DefaultStyle: true})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImportFailed, err, "rebuild outline")
	}
	if doc.NodeCount() <= 1 {
		return nil, errors.New(errors.ErrCodeImportFailed, "outline has no entries")
	}
	return doc, nil
}
