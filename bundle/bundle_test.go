package bundle

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/render"
	"github.com/lvillar/bizdoc/template"
)

func renderSample(t *testing.T, kind bizdoc.DocKind) []byte {
	t.Helper()
	var buf bytes.Buffer
	r := render.NewRenderer()
	if err := r.PDF(&buf, template.Default(kind), record.Sample(kind)); err != nil {
		t.Fatalf("rendering %s sample: %v", kind, err)
	}
	return buf.Bytes()
}

func TestMergeTwoDocuments(t *testing.T) {
	inv := renderSample(t, bizdoc.KindInvoice)
	est := renderSample(t, bizdoc.KindEstimate)

	var out bytes.Buffer
	err := Merge(&out, bytes.NewReader(inv), bytes.NewReader(est))
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
	if out.Len() <= len(inv) {
		t.Errorf("merged PDF %d bytes, not larger than first input %d", out.Len(), len(inv))
	}
	t.Logf("merged PDF: %d bytes", out.Len())
}

func TestMergeNoInput(t *testing.T) {
	var out bytes.Buffer
	if err := Merge(&out); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestAppendRejectsGarbage(t *testing.T) {
	b := New()
	err := b.Append(strings.NewReader("this is not a pdf"))
	if !errors.Is(err, bizdoc.ErrInvalidImport) {
		t.Fatalf("err = %v, want ErrInvalidImport", err)
	}
	if b.Pages() != 0 {
		t.Errorf("pages = %d after failed append", b.Pages())
	}
}

func TestBundlePageCount(t *testing.T) {
	inv := renderSample(t, bizdoc.KindInvoice)
	b := New()
	if err := b.Append(bytes.NewReader(inv)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := b.Append(bytes.NewReader(inv)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if b.Pages() < 2 {
		t.Errorf("pages = %d, want >= 2", b.Pages())
	}
}

func TestStampedBundle(t *testing.T) {
	est := renderSample(t, bizdoc.KindEstimate)
	b := New(
		WithStamp(Stamp{Text: "DRAFT"}),
		WithPageNumbers(""),
	)
	if err := b.Append(bytes.NewReader(est)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	var out bytes.Buffer
	if err := b.Output(&out); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
}

func TestBatchDocuments(t *testing.T) {
	r := render.NewRenderer()
	docs := []*record.Document{
		record.Sample(bizdoc.KindInvoice),
		record.Sample(bizdoc.KindEstimate),
		record.Sample(bizdoc.KindReceipt),
	}
	var out bytes.Buffer
	err := Documents(&out, r, nil, docs)
	if err != nil {
		t.Fatalf("Documents failed: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
	t.Logf("batch of %d documents: %d bytes", len(docs), out.Len())
}
