// Package fallback serves the fixed placeholder dataset shown while the
// primary store is unavailable or still empty.
package fallback

import (
	"slices"
	"time"

	"local_portal/internal/domain"
)

const (
	defaultArticleLimit    = 6
	defaultClassifiedLimit = 8
)

// Provider returns copies of the placeholder data, so callers may modify
// what they get.
type Provider struct {
	now func() time.Time
}

func NewProvider() *Provider {
	return &Provider{now: time.Now}
}

func (p *Provider) Articles(opts domain.ArticleListOptions) []domain.Article {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultArticleLimit
	}
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if opts.Featured && !a.Featured {
			continue
		}
		if opts.Category != "" && a.Category.Slug != opts.Category {
			continue
		}
		a.Tags = slices.Clone(a.Tags)
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (p *Provider) Classifieds(opts domain.ClassifiedListOptions) []domain.Classified {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultClassifiedLimit
	}
	out := make([]domain.Classified, 0, len(classifieds))
	for _, c := range classifieds {
		if opts.Featured && !c.Featured {
			continue
		}
		if opts.Category != "" && c.Category.Slug != opts.Category {
			continue
		}
		if opts.City != "" && c.Location.City != opts.City {
			continue
		}
		if opts.PriceMin != nil && (c.Price == nil || *c.Price < *opts.PriceMin) {
			continue
		}
		if opts.PriceMax != nil && (c.Price == nil || *c.Price > *opts.PriceMax) {
			continue
		}
		c.Images = slices.Clone(c.Images)
		if c.Price != nil {
			c.Price = price(*c.Price)
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Ads returns the placeholder ads for a slot, highest priority first. Only
// the hero slider and the sidebar have placeholders. The returned ads are
// active around the current time.
func (p *Provider) Ads(position domain.AdPosition) []domain.Advertisement {
	var src []domain.Advertisement
	switch position {
	case domain.AdPositionHeroSlider:
		src = heroAds
	case domain.AdPositionSidebar:
		src = sidebarAds
	default:
		return []domain.Advertisement{}
	}

	now := p.now().UTC()
	out := make([]domain.Advertisement, len(src))
	for i, ad := range src {
		ad.Position = position
		ad.Status = domain.AdStatusActive
		ad.StartDate = now.AddDate(0, 0, -1)
		ad.EndDate = now.AddDate(0, 0, 30)
		out[i] = ad
	}
	return out
}

// Categories returns the categories the placeholder data uses, by name.
func (p *Provider) Categories() []domain.Category {
	out := []domain.Category{
		categoryRealEstate,
		categoryCity,
		categoryJobs,
		categoryCulture,
		categoryAutomotive,
		categoryElectronics,
		categoryServices,
	}
	slices.SortFunc(out, func(a, b domain.Category) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}
