// Package preview keeps a raster frame in sync with a template as it
// is edited. Renders are debounced, versioned, and cooperatively
// cancelled: a slow render of an old version never overwrites a newer
// frame.
package preview

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/lvillar/bizdoc"
	"github.com/lvillar/bizdoc/layout"
	"github.com/lvillar/bizdoc/record"
	"github.com/lvillar/bizdoc/render"
	"github.com/lvillar/bizdoc/template"
)

// Default debounce delays. Draft mode (slider dragging) waits longer
// so the UI stays responsive; settled edits render almost immediately.
const (
	DefaultDraftDelay   = 800 * time.Millisecond
	DefaultSettledDelay = 250 * time.Millisecond

	// DefaultZoom is the raster density in pixels per millimeter.
	DefaultZoom = 4.0
)

// Frame is the pipeline's visible state: the last successfully
// rendered bitmap plus the error of the most recent attempt, if any.
// Image is nil only before the first successful render.
type Frame struct {
	Version uint64
	Image   image.Image
	Pages   int
	Page    int
	Err     error
}

// Stage names passed to the render hook, in order.
const (
	StageBuild     = "build"
	StageRasterize = "rasterize"
	StageCommit    = "commit"
)

// Pipeline renders preview frames for a single document surface.
// All methods are safe for concurrent use.
type Pipeline struct {
	renderer *render.Renderer
	doc      *record.Document

	draftDelay   time.Duration
	settledDelay time.Duration

	onFrame func(Frame)
	hook    func(version uint64, stage string)

	mu      sync.Mutex
	version uint64
	pending template.Template
	page    int
	zoom    float64
	timer   *time.Timer
	cancel  context.CancelFunc
	frame   Frame
	cached  *layout.Result // layout of the last committed version
	closed  bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDelays overrides the draft and settled debounce delays. Zero
// delays render on the next scheduler tick, which tests rely on.
func WithDelays(draft, settled time.Duration) Option {
	return func(p *Pipeline) {
		p.draftDelay = draft
		p.settledDelay = settled
	}
}

// WithZoom sets the initial raster density in pixels per millimeter.
func WithZoom(pxPerMM float64) Option {
	return func(p *Pipeline) {
		if pxPerMM > 0 {
			p.zoom = pxPerMM
		}
	}
}

// WithOnFrame registers a callback invoked after every commit,
// including error commits. Called without internal locks held.
func WithOnFrame(fn func(Frame)) Option {
	return func(p *Pipeline) { p.onFrame = fn }
}

// WithStageHook registers an instrumentation hook called at render
// phase boundaries. Blocking in the hook delays that render only.
func WithStageHook(fn func(version uint64, stage string)) Option {
	return func(p *Pipeline) { p.hook = fn }
}

// NewPipeline creates a pipeline that previews doc with the given
// renderer.
func NewPipeline(r *render.Renderer, doc *record.Document, opts ...Option) *Pipeline {
	p := &Pipeline{
		renderer:     r,
		doc:          doc,
		draftDelay:   DefaultDraftDelay,
		settledDelay: DefaultSettledDelay,
		zoom:         DefaultZoom,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Update schedules a render of tpl after the debounce delay and
// returns its version token. A newer Update supersedes any scheduled
// or in-flight render; the superseded render is cancelled at its next
// phase boundary. draft selects the longer debounce delay.
func (p *Pipeline) Update(tpl template.Template, draft bool) (uint64, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return 0, bizdoc.E("preview.Update", bizdoc.ErrClosed)
	}
	p.version++
	v := p.version
	p.pending = tpl
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	delay := p.settledDelay
	if draft {
		delay = p.draftDelay
	}
	p.timer = time.AfterFunc(delay, p.fire)
	p.mu.Unlock()
	return v, nil
}

// fire runs the latest pending render. Only the newest version ever
// reaches here with its token intact; older timers were stopped.
func (p *Pipeline) fire() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	tpl := p.pending
	v := p.version
	page := p.page
	zoom := p.zoom
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	go p.renderVersion(ctx, v, tpl, page, zoom)
}

func (p *Pipeline) renderVersion(ctx context.Context, v uint64, tpl template.Template, page int, zoom float64) {
	p.stage(v, StageBuild)
	res, err := p.renderer.Layout(tpl, p.doc)
	if err != nil {
		p.commitError(v, err)
		return
	}
	if ctx.Err() != nil {
		bizdoc.Logger().Debug("render superseded", "version", v, "stage", StageBuild)
		return
	}

	p.stage(v, StageRasterize)
	page = clampPage(page, res.PageCount)
	img, err := p.rasterize(res, page, zoom)
	if err != nil {
		p.commitError(v, err)
		return
	}
	if ctx.Err() != nil {
		bizdoc.Logger().Debug("render superseded", "version", v, "stage", StageRasterize)
		return
	}

	p.stage(v, StageCommit)
	p.commit(v, res, img, page)
}

// clampPage maps an out-of-range page index to the first page, so the
// committed Frame.Page always names the page that was drawn.
func clampPage(page, pages int) int {
	if page < 0 || page >= pages {
		return 0
	}
	return page
}

// rasterize draws one page into a fresh offscreen canvas. The visible
// frame is swapped only after the whole page has been drawn.
func (p *Pipeline) rasterize(res *layout.Result, page int, zoom float64) (image.Image, error) {
	c, err := render.NewRasterCanvas(zoom, nil)
	if err != nil {
		return nil, err
	}
	page = clampPage(page, res.PageCount)
	c.BeginPage(res.PageWidth, res.PageHeight)
	p.renderer.DrawPage(c, res, page)
	if err := c.Err(); err != nil {
		return nil, bizdoc.E("preview.rasterize", err)
	}
	return c.Bitmap(), nil
}

// commit swaps the frame in, unless a newer version won the race.
func (p *Pipeline) commit(v uint64, res *layout.Result, img image.Image, page int) {
	p.mu.Lock()
	if p.closed || v != p.version {
		p.mu.Unlock()
		bizdoc.Logger().Debug("stale frame dropped", "version", v)
		return
	}
	p.cached = res
	p.frame = Frame{
		Version: v,
		Image:   img,
		Pages:   res.PageCount,
		Page:    page,
	}
	fn := p.onFrame
	frame := p.frame
	p.mu.Unlock()

	if fn != nil {
		fn(frame)
	}
}

// commitError surfaces a render failure without discarding the
// last-good bitmap. The surface always shows something.
func (p *Pipeline) commitError(v uint64, err error) {
	p.mu.Lock()
	if p.closed || v != p.version {
		p.mu.Unlock()
		return
	}
	p.frame.Version = v
	p.frame.Err = err
	fn := p.onFrame
	frame := p.frame
	p.mu.Unlock()

	bizdoc.Logger().Warn("preview render failed", "version", v, "err", err)
	if fn != nil {
		fn(frame)
	}
}

// SetZoom re-rasterizes the committed layout at a new density. The
// layout engine is not re-run; zoom is a pure view transform.
func (p *Pipeline) SetZoom(pxPerMM float64) error {
	if pxPerMM <= 0 {
		pxPerMM = DefaultZoom
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return bizdoc.E("preview.SetZoom", bizdoc.ErrClosed)
	}
	p.zoom = pxPerMM
	res := p.cached
	v := p.version
	page := p.page
	p.mu.Unlock()

	if res == nil {
		return nil
	}
	img, err := p.rasterize(res, page, pxPerMM)
	if err != nil {
		p.commitError(v, err)
		return err
	}
	p.commit(v, res, img, page)
	return nil
}

// SetPage switches the previewed page, re-rasterizing the committed
// layout without re-running the engine.
func (p *Pipeline) SetPage(page int) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return bizdoc.E("preview.SetPage", bizdoc.ErrClosed)
	}
	if res := p.cached; res != nil {
		page = clampPage(page, res.PageCount)
	}
	p.page = page
	res := p.cached
	v := p.version
	zoom := p.zoom
	p.mu.Unlock()

	if res == nil {
		return nil
	}
	img, err := p.rasterize(res, page, zoom)
	if err != nil {
		p.commitError(v, err)
		return err
	}
	p.commit(v, res, img, page)
	return nil
}

// Frame returns the current visible state.
func (p *Pipeline) Frame() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// Close cancels any scheduled or in-flight render. Further Updates
// fail with ErrClosed.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
	}
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Pipeline) stage(v uint64, s string) {
	if p.hook != nil {
		p.hook(v, s)
	}
}
