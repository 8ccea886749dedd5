package jobcontext

import (
	"log"
	"strings"

	"github.com/jonathan/form-autofill/internal/dom"
	"github.com/jonathan/form-autofill/internal/types"
)

// Source supplies the job context for a page.
type Source interface {
	Extract(doc dom.Document, pageURL string) types.JobContext
}

// Extractor reads the job title and company from a page.
// It tries platform selectors, then the URL, then page metadata, then headings.
type Extractor struct {
	Verbose bool
}

// NewExtractor creates an Extractor.
func NewExtractor(verbose bool) *Extractor {
	return &Extractor{Verbose: verbose}
}

// Extract returns whatever title and company it can find. Missing parts are empty.
func (e *Extractor) Extract(doc dom.Document, pageURL string) types.JobContext {
	var job types.JobContext
	if doc == nil {
		return job
	}

	platform := DetectPlatform(pageURL)
	sel := PlatformSelectors(platform)
	job.Title = e.firstText(doc, sel.Title)
	job.Company = strings.TrimPrefix(e.firstText(doc, sel.Company), "at ")
	if job.Company == "" {
		job.Company = CompanyFromURL(pageURL)
	}

	if job.Title == "" || job.Company == "" {
		title, company := splitHeadline(e.metaContent(doc, "og:title"))
		job = fillMissing(job, title, company)
	}
	if job.Company == "" {
		job.Company = e.metaContent(doc, "og:site_name")
	}
	if job.Title == "" {
		job.Title = e.firstText(doc, []string{"h1"})
	}
	if job.Title == "" || job.Company == "" {
		title, company := splitHeadline(e.firstText(doc, []string{"title"}))
		job = fillMissing(job, title, company)
	}

	if e.Verbose {
		log.Printf("[JOB] Platform %s: title=%q company=%q", platform, job.Title, job.Company)
	}
	return job
}

func fillMissing(job types.JobContext, title, company string) types.JobContext {
	if job.Title == "" {
		job.Title = title
	}
	if job.Company == "" {
		job.Company = company
	}
	return job
}

// firstText returns the text of the first selector that matches a non-empty element.
// Images contribute their alt text.
func (e *Extractor) firstText(doc dom.Document, selectors []string) string {
	for _, selector := range selectors {
		el, err := doc.Query(selector)
		if err != nil {
			if e.Verbose {
				log.Printf("[JOB] Skipping selector %q: %v", selector, err)
			}
			continue
		}
		if el == nil {
			continue
		}
		text := el.Text()
		if el.Tag() == "img" {
			text = dom.CollapseSpace(el.Attr("alt"))
		}
		if text != "" {
			return text
		}
	}
	return ""
}

func (e *Extractor) metaContent(doc dom.Document, property string) string {
	el, err := doc.Query(`meta[property="` + property + `"], meta[name="` + property + `"]`)
	if err != nil || el == nil {
		return ""
	}
	return dom.CollapseSpace(el.Attr("content"))
}

var headlineSeparators = []string{" | ", " - ", " – ", " — "}

// splitHeadline splits headlines such as "Job Application for Engineer at Acme"
// or "Engineer - Acme" into a title and a company.
func splitHeadline(s string) (title, company string) {
	s = dom.CollapseSpace(s)
	if s == "" {
		return "", ""
	}
	for _, prefix := range []string{"Job Application for ", "Application for "} {
		if len(s) > len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = s[len(prefix):]
			break
		}
	}
	if left, right, ok := cutSeparator(s); ok {
		s = left
		// "Engineer - Acme | Careers" keeps only "Acme".
		company, _, _ = cutSeparator(right)
	}
	if i := strings.LastIndex(s, " at "); i > 0 {
		if company == "" {
			company = strings.TrimSpace(s[i+len(" at "):])
		}
		s = s[:i]
	}
	return strings.TrimSpace(s), company
}

// cutSeparator cuts s around the earliest headline separator.
// When there is none, before is all of s.
func cutSeparator(s string) (before, after string, found bool) {
	at, width := -1, 0
	for _, sep := range headlineSeparators {
		if i := strings.Index(s, sep); i >= 0 && (at < 0 || i < at) {
			at, width = i, len(sep)
		}
	}
	if at < 0 {
		return strings.TrimSpace(s), "", false
	}
	return strings.TrimSpace(s[:at]), strings.TrimSpace(s[at+width:]), true
}
