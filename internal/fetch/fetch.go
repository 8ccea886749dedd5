// Package fetch retrieves application pages over HTTP or from disk and
// decides whether a page needs a browser to render its form.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; FormAutofill/1.0)"

// MaxBodyBytes caps how much of a response is read.
const MaxBodyBytes = 10 << 20

// Result holds a fetched page.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during page retrieval.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// IsURL reports whether s is an absolute http(s) URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// URL retrieves HTML content from a URL.
// On a non-200 status the result is returned together with the error.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	if !IsURL(urlStr) {
		return nil, &Error{URL: urlStr, Message: "invalid URL"}
	}

	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         resp.Request.URL.String(),
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return result, nil
}

// File reads a saved page from disk. pageURL is recorded as the page's address
// and may be empty.
func File(path, pageURL string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{URL: path, Message: "failed to read file", Cause: err}
	}
	return &Result{URL: pageURL, HTML: string(data), ContentType: "text/html", StatusCode: http.StatusOK}, nil
}

// FormFieldSelector matches the elements that make a page worth filling.
const FormFieldSelector = "input:not([type=hidden]):not([type=submit]):not([type=button]), textarea, select"

// appRootSelectors mark pages whose form is rendered client-side.
var appRootSelectors = []string{
	"#root:empty",
	"#app:empty",
	"#__next",
	"[data-reactroot]",
	"[ng-app]",
}

// CountFormFields returns how many fillable controls the static markup contains.
func CountFormFields(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc.Find(FormFieldSelector).Length(), nil
}

// NeedsBrowser reports whether html must be rendered before it can be filled:
// either it has no form controls at all, or it is an application shell.
func NeedsBrowser(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return true
	}
	if doc.Find(FormFieldSelector).Length() == 0 {
		return true
	}
	for _, selector := range appRootSelectors {
		if doc.Find(selector).Length() > 0 && doc.Find("form").Length() == 0 {
			return true
		}
	}
	return false
}
