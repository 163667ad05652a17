package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererKey identifies renderers built from the same options
type rendererKey struct {
	style     string
	width     int
	emoji     bool
	newlines  bool
	tableWrap bool
}

func keyFor(opts Options) rendererKey {
	return rendererKey{
		style:     opts.Style,
		width:     opts.Width,
		emoji:     opts.EnableEmoji,
		newlines:  opts.PreserveNewLines,
		tableWrap: opts.TableWrap,
	}
}

// renderers keeps one pool of glamour renderers per option set.
// A glamour.TermRenderer must not serve two Render calls at once, so each
// caller acquires its own and releases it when done.
type renderers struct {
	mu    sync.Mutex
	pools map[rendererKey]*sync.Pool
}

var shared = newRenderers()

func newRenderers() *renderers {
	return &renderers{pools: make(map[rendererKey]*sync.Pool)}
}

func (r *renderers) pool(opts Options) *sync.Pool {
	key := keyFor(opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[key]
	if !ok {
		p = &sync.Pool{}
		r.pools[key] = p
	}
	return p
}

// acquire returns a pooled renderer for opts or builds a new one
func (r *renderers) acquire(opts Options) (*glamour.TermRenderer, error) {
	if tr, ok := r.pool(opts).Get().(*glamour.TermRenderer); ok {
		return tr, nil
	}
	return newTermRenderer(opts)
}

func (r *renderers) release(opts Options, tr *glamour.TermRenderer) {
	if tr != nil {
		r.pool(opts).Put(tr)
	}
}

// size reports how many distinct option sets have a pool
func (r *renderers) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pools)
}

func newTermRenderer(opts Options) (*glamour.TermRenderer, error) {
	options := []glamour.TermRendererOption{
		styleOption(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
	}
	if opts.EnableEmoji {
		options = append(options, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		options = append(options, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(options...)
}
