package preview

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/render"
	"github.com/lvillar/bizdoc/template"
)

func waitFrame(t *testing.T, frames <-chan Frame) Frame {
	t.Helper()
	select {
	case f := <-frames:
		return f
	case <-time.After(5 * time.Second):
		t.Fatal("no frame within 5s")
		return Frame{}
	}
}

func TestFirstRenderCommits(t *testing.T) {
	frames := make(chan Frame, 16)
	p := NewPipeline(render.NewRenderer(), record.Sample(bizdoc.KindInvoice),
		WithDelays(0, 0),
		WithZoom(2),
		WithOnFrame(func(f Frame) { frames <- f }),
	)
	defer p.Close()

	v, err := p.Update(template.Default(bizdoc.KindInvoice), false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	f := waitFrame(t, frames)
	if f.Version != v {
		t.Errorf("frame version = %d, want %d", f.Version, v)
	}
	if f.Err != nil {
		t.Errorf("frame error: %v", f.Err)
	}
	if f.Image == nil {
		t.Fatal("no bitmap committed")
	}
	if f.Pages < 1 {
		t.Errorf("pages = %d", f.Pages)
	}
}

func TestDebounceCoalescesRapidEdits(t *testing.T) {
	var commits atomic.Int32
	frames := make(chan Frame, 16)
	p := NewPipeline(render.NewRenderer(), record.Sample(bizdoc.KindInvoice),
		WithDelays(500*time.Millisecond, 100*time.Millisecond),
		WithZoom(1),
		WithOnFrame(func(f Frame) {
			commits.Add(1)
			frames <- f
		}),
	)
	defer p.Close()

	tpl := template.Default(bizdoc.KindInvoice)
	var last uint64
	for i := 0; i < 5; i++ {
		tpl.Layout.Margin = float64(10 + i)
		v, err := p.Update(tpl, false)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		last = v
	}

	f := waitFrame(t, frames)
	if f.Version != last {
		t.Errorf("committed version = %d, want %d", f.Version, last)
	}
	// The superseded versions must never render.
	time.Sleep(300 * time.Millisecond)
	if n := commits.Load(); n != 1 {
		t.Errorf("%d commits for 5 rapid edits, want 1", n)
	}
}

func TestStaleRenderNeverPaints(t *testing.T) {
	release := make(chan struct{})
	v1Blocked := make(chan struct{})
	var once atomic.Bool

	frames := make(chan Frame, 16)
	p := NewPipeline(render.NewRenderer(), record.Sample(bizdoc.KindInvoice),
		WithDelays(0, 0),
		WithZoom(1),
		WithOnFrame(func(f Frame) { frames <- f }),
		WithStageHook(func(version uint64, stage string) {
			if version == 1 && stage == StageRasterize && once.CompareAndSwap(false, true) {
				close(v1Blocked)
				<-release
			}
		}),
	)
	defer p.Close()

	slow := template.Default(bizdoc.KindInvoice)
	if _, err := p.Update(slow, false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	<-v1Blocked

	fast := template.Default(bizdoc.KindInvoice)
	fast.Layout.Margin = 30
	v2, err := p.Update(fast, false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	f := waitFrame(t, frames)
	if f.Version != v2 {
		t.Fatalf("frame version = %d, want %d", f.Version, v2)
	}

	// Let the stale render finish; it must not overwrite the frame.
	close(release)
	time.Sleep(200 * time.Millisecond)
	if got := p.Frame().Version; got != v2 {
		t.Errorf("frame version after stale finish = %d, want %d", got, v2)
	}
	select {
	case extra := <-frames:
		t.Errorf("unexpected extra commit: version %d", extra.Version)
	default:
	}
}

func TestErrorKeepsLastGoodBitmap(t *testing.T) {
	doc := record.Sample(bizdoc.KindInvoice)
	frames := make(chan Frame, 16)
	p := NewPipeline(render.NewRenderer(), doc,
		WithDelays(0, 0),
		WithZoom(1),
		WithOnFrame(func(f Frame) { frames <- f }),
	)
	defer p.Close()

	if _, err := p.Update(template.Default(bizdoc.KindInvoice), false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	good := waitFrame(t, frames)
	if good.Err != nil || good.Image == nil {
		t.Fatalf("bad first frame: %+v", good)
	}

	// Break the record out from under the pipeline.
	doc.Party = nil
	if _, err := p.Update(template.Default(bizdoc.KindInvoice), false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	bad := waitFrame(t, frames)
	if !errors.Is(bad.Err, bizdoc.ErrMissingRecord) {
		t.Errorf("frame error = %v, want ErrMissingRecord", bad.Err)
	}
	if bad.Image == nil {
		t.Error("error frame dropped the last-good bitmap")
	}
}

func TestSetPageClampsFrameIndex(t *testing.T) {
	frames := make(chan Frame, 16)
	p := NewPipeline(render.NewRenderer(), record.Sample(bizdoc.KindReceipt),
		WithDelays(0, 0),
		WithZoom(1),
		WithOnFrame(func(f Frame) { frames <- f }),
	)
	defer p.Close()

	if _, err := p.Update(template.Default(bizdoc.KindReceipt), false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	f := waitFrame(t, frames)
	if f.Pages != 1 {
		t.Fatalf("pages = %d, want 1", f.Pages)
	}

	// A receipt has a single page, so page 5 falls back to page 0 and
	// the committed frame must say so.
	if err := p.SetPage(5); err != nil {
		t.Fatalf("SetPage: %v", err)
	}
	f = waitFrame(t, frames)
	if f.Page != 0 {
		t.Errorf("frame page = %d, want 0", f.Page)
	}
	if f.Image == nil {
		t.Fatal("no bitmap committed")
	}
}

func TestSetZoomSkipsLayout(t *testing.T) {
	var builds atomic.Int32
	frames := make(chan Frame, 16)
	p := NewPipeline(render.NewRenderer(), record.Sample(bizdoc.KindInvoice),
		WithDelays(0, 0),
		WithZoom(1),
		WithOnFrame(func(f Frame) { frames <- f }),
		WithStageHook(func(_ uint64, stage string) {
			if stage == StageBuild {
				builds.Add(1)
			}
		}),
	)
	defer p.Close()

	if _, err := p.Update(template.Default(bizdoc.KindInvoice), false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	f := waitFrame(t, frames)
	w1 := f.Image.Bounds().Dx()

	if err := p.SetZoom(2); err != nil {
		t.Fatalf("SetZoom: %v", err)
	}
	f = waitFrame(t, frames)
	w2 := f.Image.Bounds().Dx()

	if w2 <= w1 {
		t.Errorf("zoomed width %d not larger than %d", w2, w1)
	}
	if n := builds.Load(); n != 1 {
		t.Errorf("layout ran %d times, want 1 (zoom is a view transform)", n)
	}
}

func TestDraftDelayLongerThanSettled(t *testing.T) {
	frames := make(chan Frame, 16)
	p := NewPipeline(render.NewRenderer(), record.Sample(bizdoc.KindInvoice),
		WithDelays(400*time.Millisecond, 10*time.Millisecond),
		WithZoom(1),
		WithOnFrame(func(f Frame) { frames <- f }),
	)
	defer p.Close()

	start := time.Now()
	if _, err := p.Update(template.Default(bizdoc.KindInvoice), true); err != nil {
		t.Fatalf("Update: %v", err)
	}
	waitFrame(t, frames)
	if elapsed := time.Since(start); elapsed < 400*time.Millisecond {
		t.Errorf("draft render after %v, want >= 400ms debounce", elapsed)
	}
}

func TestClosedPipeline(t *testing.T) {
	p := NewPipeline(render.NewRenderer(), record.Sample(bizdoc.KindInvoice))
	p.Close()
	p.Close() // idempotent

	if _, err := p.Update(template.Default(bizdoc.KindInvoice), false); !errors.Is(err, bizdoc.ErrClosed) {
		t.Errorf("Update after Close: err = %v, want ErrClosed", err)
	}
	if err := p.SetZoom(2); !errors.Is(err, bizdoc.ErrClosed) {
		t.Errorf("SetZoom after Close: err = %v, want ErrClosed", err)
	}
}
