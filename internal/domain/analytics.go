package domain

import "time"

type AnalyticsType string

const (
	AnalyticsPageView     AnalyticsType = "page_view"
	AnalyticsAdClick      AnalyticsType = "ad_click"
	AnalyticsAdImpression AnalyticsType = "ad_impression"
	AnalyticsSearch       AnalyticsType = "search"
	AnalyticsContact      AnalyticsType = "contact"
)

type Analytics struct {
	ID        string        `json:"id,omitempty"`
	Type      AnalyticsType `json:"type"`
	Data      AnalyticsData `json:"data"`
	UserID    string        `json:"userId,omitempty"`
	SessionID string        `json:"sessionId"`
	Timestamp time.Time     `json:"timestamp"`
}

type AnalyticsData struct {
	URL         string `json:"url,omitempty"`
	AdID        string `json:"adId,omitempty"`
	SearchQuery string `json:"searchQuery,omitempty"`
	UserAgent   string `json:"userAgent,omitempty"`
	Referrer    string `json:"referrer,omitempty"`
	Location    string `json:"location,omitempty"`
}

type SiteSettings struct {
	ID              string       `json:"id,omitempty"`
	SiteName        string       `json:"siteName"`
	SiteDescription string       `json:"siteDescription"`
	LogoURL         string       `json:"logoUrl,omitempty"`
	FaviconURL      string       `json:"faviconUrl,omitempty"`
	PrimaryColor    string       `json:"primaryColor"`
	SecondaryColor  string       `json:"secondaryColor"`
	ContactInfo     ContactInfo  `json:"contactInfo"`
	SEOSettings     SEOSettings  `json:"seoSettings"`
	Monetization    Monetization `json:"monetization"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

type ContactInfo struct {
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	Address     string       `json:"address,omitempty"`
	SocialMedia *SocialMedia `json:"socialMedia,omitempty"`
}

type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

type SEOSettings struct {
	DefaultMetaTitle       string `json:"defaultMetaTitle"`
	DefaultMetaDescription string `json:"defaultMetaDescription"`
	GoogleAnalyticsID      string `json:"googleAnalyticsId,omitempty"`
	FacebookPixelID        string `json:"facebookPixelId,omitempty"`
}

type Monetization struct {
	AdsenseID            string   `json:"adsenseId,omitempty"`
	StripePublishableKey string   `json:"stripePublishableKey,omitempty"`
	PaymentMethods       []string `json:"paymentMethods"`
}
