package httpapi

import (
	"github.com/microcosm-cc/bluemonday"

	"local_portal/internal/domain"
)

// contentPolicy allows basic formatting, absolute links and https images.
// Links open in a new tab without a referrer.
func contentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"h2", "h3", "h4",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowURLSchemes("https")
	return p
}

func sanitizeArticle(p *bluemonday.Policy, a domain.Article) domain.Article {
	a.Content = p.Sanitize(a.Content)
	return a
}

func sanitizeArticles(p *bluemonday.Policy, items []domain.Article) []domain.Article {
	out := make([]domain.Article, len(items))
	for i, a := range items {
		out[i] = sanitizeArticle(p, a)
	}
	return out
}
