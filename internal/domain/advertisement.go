package domain

import "time"

type AdPosition string

const (
	AdPositionHeroSlider AdPosition = "hero-slider"
	AdPositionSidebar    AdPosition = "sidebar"
	AdPositionContent    AdPosition = "content"
	AdPositionFooter     AdPosition = "footer"
)

// Valid reports whether p is one of the known slots.
func (p AdPosition) Valid() bool {
	switch p {
	case AdPositionHeroSlider, AdPositionSidebar, AdPositionContent, AdPositionFooter:
		return true
	}
	return false
}

type AdType string

const (
	AdTypeBanner   AdType = "banner"
	AdTypeText     AdType = "text"
	AdTypeVideo    AdType = "video"
	AdTypeCarousel AdType = "carousel"
)

type AdStatus string

const (
	AdStatusActive   AdStatus = "active"
	AdStatusInactive AdStatus = "inactive"
	AdStatusExpired  AdStatus = "expired"
)

type Advertisement struct {
	ID             string          `json:"id,omitempty"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	LinkURL        string          `json:"linkUrl"`
	Position       AdPosition      `json:"position"`
	Type           AdType          `json:"type"`
	Status         AdStatus        `json:"status"`
	Priority       int             `json:"priority"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	Clicks         int64           `json:"clicks"`
	Impressions    int64           `json:"impressions"`
	Budget         *float64        `json:"budget,omitempty"`
	CostPerClick   *float64        `json:"costPerClick,omitempty"`
	TargetAudience *TargetAudience `json:"targetAudience,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type TargetAudience struct {
	AgeMin    *int     `json:"ageMin,omitempty"`
	AgeMax    *int     `json:"ageMax,omitempty"`
	Location  []string `json:"location,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// Eligible reports whether the ad may be shown at t: active status and
// StartDate <= t <= EndDate.
func (a *Advertisement) Eligible(t time.Time) bool {
	return a.Status == AdStatusActive && !t.Before(a.StartDate) && !t.After(a.EndDate)
}

type AdvertisementUpdate struct {
	Title          *string
	Description    *string
	ImageURL       *string
	LinkURL        *string
	Position       *AdPosition
	Type           *AdType
	Status         *AdStatus
	Priority       *int
	StartDate      *time.Time
	EndDate        *time.Time
	Budget         *float64
	CostPerClick   *float64
	TargetAudience *TargetAudience
}

func (u AdvertisementUpdate) Fields() map[string]any {
	f := make(map[string]any)
	if u.Title != nil {
		f["title"] = *u.Title
	}
	if u.Description != nil {
		f["description"] = *u.Description
	}
	if u.ImageURL != nil {
		f["imageUrl"] = *u.ImageURL
	}
	if u.LinkURL != nil {
		f["linkUrl"] = *u.LinkURL
	}
	if u.Position != nil {
		f["position"] = *u.Position
	}
	if u.Type != nil {
		f["type"] = *u.Type
	}
	if u.Status != nil {
		f["status"] = *u.Status
	}
	if u.Priority != nil {
		f["priority"] = *u.Priority
	}
	if u.StartDate != nil {
		f["startDate"] = *u.StartDate
	}
	if u.EndDate != nil {
		f["endDate"] = *u.EndDate
	}
	if u.Budget != nil {
		f["budget"] = *u.Budget
	}
	if u.CostPerClick != nil {
		f["costPerClick"] = *u.CostPerClick
	}
	if u.TargetAudience != nil {
		f["targetAudience"] = *u.TargetAudience
	}
	return f
}
