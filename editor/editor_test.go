package editor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/template"
)

func newEditor(t *testing.T) (*Editor, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return New(template.Default(bizdoc.KindInvoice), store), store
}

func TestMutateUndoRedo(t *testing.T) {
	e, _ := newEditor(t)
	orig := e.Current()

	e.Mutate(func(tpl *template.Template) { tpl.Layout.Margin = 20 })
	e.Mutate(func(tpl *template.Template) { tpl.Layout.Margin = 25 })
	if got := e.Current().Layout.Margin; got != 25 {
		t.Fatalf("margin = %v, want 25", got)
	}

	tpl, ok := e.Undo()
	if !ok || tpl.Layout.Margin != 20 {
		t.Fatalf("after undo: margin = %v, ok = %v", tpl.Layout.Margin, ok)
	}
	tpl, ok = e.Undo()
	if !ok || tpl.Layout.Margin != orig.Layout.Margin {
		t.Fatalf("after second undo: margin = %v, ok = %v", tpl.Layout.Margin, ok)
	}
	if _, ok := e.Undo(); ok {
		t.Fatal("undo past the oldest snapshot")
	}

	tpl, ok = e.Redo()
	if !ok || tpl.Layout.Margin != 20 {
		t.Fatalf("after redo: margin = %v, ok = %v", tpl.Layout.Margin, ok)
	}
}

func TestMutateTruncatesRedoTail(t *testing.T) {
	e, _ := newEditor(t)
	e.Mutate(func(tpl *template.Template) { tpl.Layout.Margin = 20 })
	e.Mutate(func(tpl *template.Template) { tpl.Layout.Margin = 25 })
	e.Undo()

	e.Mutate(func(tpl *template.Template) { tpl.Layout.Margin = 18 })
	if e.CanRedo() {
		t.Fatal("redo tail survived a mutation")
	}
	if got := e.Current().Layout.Margin; got != 18 {
		t.Fatalf("margin = %v, want 18", got)
	}
	if tpl, ok := e.Undo(); !ok || tpl.Layout.Margin != 20 {
		t.Fatalf("undo after branch: margin = %v, ok = %v", tpl.Layout.Margin, ok)
	}
}

func TestHistoryEviction(t *testing.T) {
	h := NewHistory(template.Default(bizdoc.KindInvoice), 5)
	for i := 0; i < 10; i++ {
		tpl := h.Current()
		tpl.Layout.Margin = float64(10 + i)
		h.Push(tpl)
	}
	if h.Len() != 5 {
		t.Fatalf("history kept %d snapshots, want 5", h.Len())
	}
	// Undo bottoms out at the oldest retained snapshot, not the seed.
	steps := 0
	for {
		if _, ok := h.Undo(); !ok {
			break
		}
		steps++
	}
	if steps != 4 {
		t.Errorf("%d undo steps, want 4", steps)
	}
	if got := h.Current().Layout.Margin; got != 15 {
		t.Errorf("oldest retained margin = %v, want 15", got)
	}
}

func TestMutateValidates(t *testing.T) {
	e, _ := newEditor(t)
	tpl := e.Mutate(func(tpl *template.Template) { tpl.Layout.Margin = -50 })
	if tpl.Layout.Margin < template.MinMargin {
		t.Errorf("mutation bypassed validation: margin = %v", tpl.Layout.Margin)
	}
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	e, _ := newEditor(t)
	e.Mutate(func(tpl *template.Template) {
		tpl.Layout.SectionOrder = []template.Section{
			template.SectionHeader, template.SectionTable,
			template.SectionTotals, template.SectionFooter,
		}
	})
	got := e.Current()
	got.Layout.SectionOrder[0] = template.SectionFooter

	if e.Current().Layout.SectionOrder[0] != template.SectionHeader {
		t.Fatal("caller mutation leaked into a history snapshot")
	}
}

func TestDirtyAndSave(t *testing.T) {
	e, store := newEditor(t)
	if e.Dirty() {
		t.Fatal("fresh editor is dirty")
	}
	e.Mutate(func(tpl *template.Template) { tpl.Content.Terms = "Net 15." })
	if !e.Dirty() {
		t.Fatal("mutation did not mark the editor dirty")
	}

	ctx := context.Background()
	if err := e.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if e.Dirty() {
		t.Fatal("editor dirty after save")
	}

	loaded, err := store.LoadTemplate(ctx, e.Current().ID)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if loaded.Content.Terms != "Net 15." {
		t.Errorf("persisted terms = %q", loaded.Content.Terms)
	}

	// Undoing below the saved baseline is dirty again.
	e.Undo()
	if !e.Dirty() {
		t.Fatal("undo past baseline not dirty")
	}
}

func TestApplyPresetUndoable(t *testing.T) {
	e, _ := newEditor(t)
	before := e.Current()

	tpl, err := e.ApplyPreset("modern")
	if err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if tpl.Colors.Primary == before.Colors.Primary {
		t.Log("preset kept the primary color; checking header style instead")
	}
	if _, err := e.ApplyPreset("no-such-preset"); err == nil {
		t.Fatal("unknown preset accepted")
	}

	restored, ok := e.Undo()
	if !ok || restored.Colors.Primary != before.Colors.Primary {
		t.Fatalf("undo did not restore pre-preset colors")
	}
}

func TestLoadTemplateMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.LoadTemplate(context.Background(), "nope")
	if !errors.Is(err, bizdoc.ErrTemplateNotFound) {
		t.Fatalf("err = %v, want ErrTemplateNotFound", err)
	}
}

func TestRecordStoreRoundTrip(t *testing.T) {
	store := NewMemoryRecords()
	ctx := context.Background()
	doc := record.Sample(bizdoc.KindInvoice)

	if err := store.SaveRecord(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the original after save must not leak into the store.
	doc.Party.Name = "changed after save"

	got, err := store.LoadRecord(ctx, doc.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Party.Name == "changed after save" {
		t.Fatal("stored record aliases the saved document")
	}

	// Nor must mutating a loaded copy affect later loads.
	got.Items[0].Name = "tampered"
	again, err := store.LoadRecord(ctx, doc.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Items[0].Name == "tampered" {
		t.Fatal("loaded record aliases the stored document")
	}
}

func TestLoadRecordMissing(t *testing.T) {
	store := NewMemoryRecords()
	_, err := store.LoadRecord(context.Background(), "nope")
	if !errors.Is(err, bizdoc.ErrMissingRecord) {
		t.Fatalf("err = %v, want ErrMissingRecord", err)
	}
}

func TestSaveRecordRejectsIncomplete(t *testing.T) {
	store := NewMemoryRecords()
	err := store.SaveRecord(context.Background(), &record.Document{ID: "r1"})
	if !errors.Is(err, bizdoc.ErrMissingRecord) {
		t.Fatalf("err = %v, want ErrMissingRecord", err)
	}
}

func TestOnChangeFeed(t *testing.T) {
	var seen []float64
	store := NewMemoryStore()
	e := New(template.Default(bizdoc.KindInvoice), store,
		WithOnChange(func(tpl template.Template) {
			seen = append(seen, tpl.Layout.Margin)
		}))

	e.Mutate(func(tpl *template.Template) { tpl.Layout.Margin = 20 })
	e.Undo()
	e.Redo()

	want := fmt.Sprintf("%v", []float64{20, 12, 20})
	if got := fmt.Sprintf("%v", seen); got != want {
		t.Errorf("onChange margins = %v, want %v", got, want)
	}
}
