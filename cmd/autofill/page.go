package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/form-autofill/internal/browser"
	"github.com/jonathan/form-autofill/internal/dom"
	"github.com/jonathan/form-autofill/internal/fetch"
)

// page is a document to scan or fill together with how to read it back.
type page struct {
	doc    dom.Document
	url    string
	render func() (string, error)
	close  func()
}

// pageOptions selects where a page comes from.
type pageOptions struct {
	// Source is a URL or a path to a saved HTML file.
	Source string
	// URL is the address recorded for a saved file; it drives job context detection.
	URL        string
	UseBrowser bool
	Verbose    bool
}

// openPage loads opts.Source. URLs are fetched as static HTML unless a
// browser is requested; a static page with no form controls is a hint that
// the form is rendered client-side.
func openPage(ctx context.Context, opts pageOptions) (*page, error) {
	if !fetch.IsURL(opts.Source) {
		res, err := fetch.File(opts.Source, opts.URL)
		if err != nil {
			return nil, err
		}
		return staticPage(res.HTML, res.URL)
	}

	if opts.UseBrowser {
		p, err := browser.Open(ctx, opts.Source, browser.Options{Verbose: opts.Verbose})
		if err != nil {
			return nil, err
		}
		return &page{doc: p, url: p.URL(), render: p.HTML, close: p.Close}, nil
	}

	res, err := fetch.URL(ctx, opts.Source, nil)
	if err != nil {
		return nil, err
	}
	if fetch.NeedsBrowser(res.HTML) {
		log.Printf("[PAGE] %s has no form controls in its static HTML; try --use-browser", opts.Source)
	}
	return staticPage(res.HTML, res.URL)
}

func staticPage(html, url string) (*page, error) {
	doc, err := dom.ParseHTMLString(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &page{doc: doc, url: url, render: doc.Render, close: func() {}}, nil
}
