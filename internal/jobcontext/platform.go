// Package jobcontext extracts the job title and company from the page hosting an application form.
package jobcontext

import (
	"net/url"
	"strings"
)

// Platform represents a known applicant tracking system.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformAshby is the Ashby ATS platform
	PlatformAshby Platform = "ashby"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// Selectors lists where a platform renders the job title and company name.
type Selectors struct {
	Title   []string
	Company []string
}

// DetectPlatform identifies the applicant tracking system from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())

	switch {
	case strings.HasSuffix(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.HasSuffix(host, "lever.co"):
		return PlatformLever
	case strings.HasSuffix(host, "workday.com"), strings.HasSuffix(host, "myworkdayjobs.com"):
		return PlatformWorkday
	case strings.HasSuffix(host, "ashbyhq.com"):
		return PlatformAshby
	default:
		return PlatformUnknown
	}
}

// PlatformSelectors returns title and company selectors for a platform, most specific first.
func PlatformSelectors(platform Platform) Selectors {
	switch platform {
	case PlatformGreenhouse:
		return Selectors{
			Title: []string{
				".job__title h1",
				"h1.app-title",
				".app-title",
				"h1.section-header",
			},
			Company: []string{
				".company-name",
				".job__header .company",
			},
		}
	case PlatformLever:
		return Selectors{
			Title: []string{
				".posting-headline h2",
				".posting-header h2",
			},
			Company: []string{
				".main-header-logo img[alt]",
			},
		}
	case PlatformWorkday:
		return Selectors{
			Title: []string{
				"[data-automation-id='jobPostingHeader']",
				"h2[data-automation-id='jobTitle']",
			},
			Company: []string{
				"[data-automation-id='company']",
			},
		}
	case PlatformAshby:
		return Selectors{
			Title: []string{
				"h1.ashby-job-posting-heading",
				"._title_ud4nd_34",
			},
			Company: []string{
				"[class*='_navLogoWordmark'] img[alt]",
			},
		}
	default:
		return Selectors{}
	}
}

// CompanyFromURL derives the company slug some platforms put in the URL.
// Lever and Ashby use the first path segment; Workday uses the subdomain.
func CompanyFromURL(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}

	var slug string
	switch DetectPlatform(urlStr) {
	case PlatformLever, PlatformAshby:
		slug, _, _ = strings.Cut(strings.Trim(parsed.Path, "/"), "/")
	case PlatformGreenhouse:
		// boards.greenhouse.io/<company>/jobs/<id>
		if segs := strings.Split(strings.Trim(parsed.Path, "/"), "/"); len(segs) >= 2 && segs[1] == "jobs" {
			slug = segs[0]
		}
	case PlatformWorkday:
		host := parsed.Hostname()
		if i := strings.Index(host, "."); i > 0 && strings.HasSuffix(host, "myworkdayjobs.com") {
			slug = host[:i]
		}
	}
	return humanizeSlug(slug)
}

// humanizeSlug turns "acme-corp" into "Acme Corp".
func humanizeSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
