package bundle

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/render"
	"github.com/lvillar/bizdoc/template"
)

// Documents renders each record with its kind's template and merges
// the results into one PDF written to w. Templates missing a kind fall
// back to the built-in default for that kind.
func Documents(w io.Writer, r *render.Renderer, tpls map[bizdoc.DocKind]template.Template, docs []*record.Document, opts ...Option) error {
	if len(docs) == 0 {
		return bizdoc.E("bundle.Documents", fmt.Errorf("no documents"))
	}
	b := New(opts...)
	for i, doc := range docs {
		tpl, ok := tpls[doc.Kind]
		if !ok {
			tpl = template.Default(doc.Kind)
		}
		var buf bytes.Buffer
		if err := r.PDF(&buf, tpl, doc); err != nil {
			return fmt.Errorf("document %d: %w", i+1, err)
		}
		if err := b.Append(bytes.NewReader(buf.Bytes())); err != nil {
			return fmt.Errorf("document %d: %w", i+1, err)
		}
	}
	return b.Output(w)
}
