// Package browser drives a headless Chrome page as a live autofill document.
package browser

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/form-autofill/internal/dom"
)

// DefaultTimeout bounds navigation and rendering.
const DefaultTimeout = 30 * time.Second

// DefaultSettle is how long to wait after load for client-side rendering.
const DefaultSettle = 2 * time.Second

// Options configures Open.
type Options struct {
	Timeout time.Duration
	Settle  time.Duration
	Verbose bool
}

// evaluator runs a script on the live page and stores its result in out.
type evaluator func(script string, out any) error

// Page is a dom.Document over a live browser tab.
//
// Reads are served from an HTML snapshot taken after the page rendered.
// Writes run on the live element first and are then mirrored into the snapshot,
// so the core reads back what it wrote.
type Page struct {
	url      string
	snapshot *dom.HTMLDocument
	eval     evaluator
	verbose  bool
	html     func() (string, error)
	closers  []context.CancelFunc
}

// Open starts a headless browser, loads url and snapshots the rendered page.
// Requires Chrome/Chromium to be installed on the system.
func Open(ctx context.Context, url string, opts Options) (*Page, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Settle < 0 {
		opts.Settle = 0
	} else if opts.Settle == 0 {
		opts.Settle = DefaultSettle
	}
	if opts.Verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", url)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	loadCtx, cancelLoad := context.WithTimeout(tabCtx, opts.Timeout)
	defer cancelLoad()
	err := chromedp.Run(loadCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(opts.Settle),
	)
	if err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("browser navigation failed: %w", err)
	}

	p := &Page{
		url:     url,
		verbose: opts.Verbose,
		eval: func(script string, out any) error {
			return chromedp.Run(tabCtx, chromedp.Evaluate(script, out))
		},
		html: func() (string, error) {
			var html string
			err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html))
			return html, err
		},
		closers: []context.CancelFunc{cancelTab, cancelAlloc},
	}
	if err := p.Refresh(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// Close shuts down the tab and the browser.
func (p *Page) Close() {
	for _, c := range p.closers {
		c()
	}
	p.closers = nil
}

// URL returns the page URL.
func (p *Page) URL() string {
	return p.url
}

// Refresh stamps new elements and retakes the snapshot.
// Elements obtained before a refresh keep working against the live page.
func (p *Page) Refresh() error {
	var stamped int
	if err := p.eval(stampScript, &stamped); err != nil {
		return fmt.Errorf("failed to tag page elements: %w", err)
	}
	html, err := p.html()
	if err != nil {
		return fmt.Errorf("failed to read page HTML: %w", err)
	}
	snapshot, err := dom.ParseHTMLString(html)
	if err != nil {
		return err
	}
	p.snapshot = snapshot
	if p.verbose {
		log.Printf("[BROWSER] Snapshot of %d elements (%d bytes)", stamped, len(html))
	}
	return nil
}

// HTML returns the live page's current markup.
func (p *Page) HTML() (string, error) {
	return p.html()
}

// QueryAll returns matching elements of the snapshot bound to the live page.
func (p *Page) QueryAll(selector string) ([]dom.Element, error) {
	els, err := p.snapshot.QueryAll(selector)
	if err != nil {
		return nil, err
	}
	out := make([]dom.Element, 0, len(els))
	for _, el := range els {
		out = append(out, p.wrap(el))
	}
	return out, nil
}

// Query returns the first matching element, or nil.
func (p *Page) Query(selector string) (dom.Element, error) {
	el, err := p.snapshot.Query(selector)
	if err != nil || el == nil {
		return nil, err
	}
	return p.wrap(el), nil
}

func (p *Page) wrap(el dom.Element) dom.Element {
	if el == nil {
		return nil
	}
	return &liveElement{Element: el, page: p}
}

// run executes a write script and maps its result to an error.
func (p *Page) run(script string) error {
	var result string
	if err := p.eval(script, &result); err != nil {
		return fmt.Errorf("browser script failed: %w", err)
	}
	switch result {
	case resultOK:
		return nil
	case resultDetached:
		return dom.ErrDetached
	default:
		return fmt.Errorf("unexpected browser script result %q", result)
	}
}

// liveElement reads from the snapshot element it embeds and writes to both.
type liveElement struct {
	dom.Element
	page *Page
}

func (e *liveElement) ref() string {
	return e.Element.Attr(RefAttr)
}

func (e *liveElement) Connected() bool {
	if e.ref() == "" {
		return false
	}
	return e.page.run(connectedScript(e.ref())) == nil
}

func (e *liveElement) Closest(selector string) dom.Element {
	return e.page.wrap(e.Element.Closest(selector))
}

func (e *liveElement) PrevSibling() dom.Element {
	return e.page.wrap(e.Element.PrevSibling())
}

func (e *liveElement) Find(selector string) dom.Element {
	return e.page.wrap(e.Element.Find(selector))
}

func (e *liveElement) Document() dom.Document {
	return e.page
}

func (e *liveElement) write(script string, mirror func() error) error {
	if e.ref() == "" {
		return dom.ErrDetached
	}
	if err := e.page.run(script); err != nil {
		return err
	}
	if err := mirror(); err != nil && e.page.verbose {
		log.Printf("[BROWSER] Snapshot out of sync for ref %s: %v", e.ref(), err)
	}
	return nil
}

func (e *liveElement) SetValue(v string) error {
	return e.write(setValueScript(e.ref(), v), func() error { return e.Element.SetValue(v) })
}

func (e *liveElement) NativeSetValue(v string) error {
	return e.write(nativeSetValueScript(e.ref(), v), func() error { return e.Element.NativeSetValue(v) })
}

func (e *liveElement) SetChecked(checked bool) error {
	return e.write(setCheckedScript(e.ref(), checked), func() error { return e.Element.SetChecked(checked) })
}

func (e *liveElement) SelectOption(index int) error {
	return e.write(selectOptionScript(e.ref(), index), func() error { return e.Element.SelectOption(index) })
}

func (e *liveElement) Dispatch(ev dom.Event) error {
	return e.write(dispatchScript(e.ref(), ev.Type, ev.Bubbles), func() error { return e.Element.Dispatch(ev) })
}
