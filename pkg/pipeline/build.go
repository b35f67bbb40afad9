package pipeline

import (
	"github.com/treeline-io/treeline/pkg/document"
	"github.com/treeline-io/treeline/pkg/errors"
	"github.com/treeline-io/treeline/pkg/mapper"
	"github.com/treeline-io/treeline/pkg/outline"
)

// Parse reads the outline text into a labeled forest.
func Parse(opts Options) []*outline.Node {
	return outline.Parse(opts.Text)
}

// Build maps an outline forest onto a styled document.
func Build(forest []*outline.Node, opts Options) (*document.Document, error) {
	source := opts.Source
	if source == "" {
		source = opts.Text
	}
	doc, err := mapper.Build(forest, mapper.Options{
		AutoGroup:  opts.GroupingEnabled(),
		Classifier: opts.Classifier(),
		Layout:     opts.Layout,
		Source:     source,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build mind map")
	}
	return doc, nil
}
