package pipeline

import (
	"bytes"
	"context"

	"github.com/treeline-io/treeline/pkg/codec"
	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/errors"
	"github.com/treeline-io/treeline/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, d *document.Document, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, d, format)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, d *document.Document, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		return render.RenderSVG(ctx, d)
	case FormatPNG:
		return render.RenderPNG(ctx, d)
	case FormatDOT:
		return []byte(render.ToDOT(d)), nil
	case FormatJSON, FormatText, FormatXML:
		var buf bytes.Buffer
		if err := codec.Encode(d, codec.Format(format), &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}
