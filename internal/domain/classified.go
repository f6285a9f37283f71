package domain

import "time"

type ClassifiedStatus string

const (
	ClassifiedStatusActive  ClassifiedStatus = "active"
	ClassifiedStatusSold    ClassifiedStatus = "sold"
	ClassifiedStatusExpired ClassifiedStatus = "expired"
	ClassifiedStatusPending ClassifiedStatus = "pending"
)

type Currency string

const (
	CurrencyPLN Currency = "PLN"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionUsed        Condition = "used"
	ConditionRefurbished Condition = "refurbished"
)

type Classified struct {
	ID          string           `json:"id,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       *float64         `json:"price,omitempty"`
	Currency    Currency         `json:"currency"`
	Category    Category         `json:"category"`
	Subcategory string           `json:"subcategory,omitempty"`
	Location    Location         `json:"location"`
	Images      []string         `json:"images"`
	Contact     Contact          `json:"contact"`
	Features    Features         `json:"features"`
	Status      ClassifiedStatus `json:"status"`
	Featured    bool             `json:"featured"`
	Premium     bool             `json:"premium"`
	Views       int64            `json:"views"`
	Favorites   int64            `json:"favorites"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	ExpiresAt   time.Time        `json:"expiresAt"`
	UserID      string           `json:"userId"`
}

type Location struct {
	City        string       `json:"city"`
	Region      string       `json:"region"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type Features struct {
	Condition Condition `json:"condition,omitempty"`
	Brand     string    `json:"brand,omitempty"`
	Model     string    `json:"model,omitempty"`
	Year      int       `json:"year,omitempty"`
}

// ClassifiedListOptions narrows a classified listing. PriceMin and PriceMax
// are applied to the fetched page only, never pushed to the store.
type ClassifiedListOptions struct {
	Limit    int
	Category string
	Featured bool
	City     string
	PriceMin *float64
	PriceMax *float64
	Cursor   string
}

type ClassifiedUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Currency    *Currency
	Category    *Category
	Subcategory *string
	Location    *Location
	Images      []string
	Contact     *Contact
	Features    *Features
	Status      *ClassifiedStatus
	Featured    *bool
	Premium     *bool
	ExpiresAt   *time.Time
}

func (u ClassifiedUpdate) Fields() map[string]any {
	f := make(map[string]any)
	if u.Title != nil {
		f["title"] = *u.Title
	}
	if u.Description != nil {
		f["description"] = *u.Description
	}
	if u.Price != nil {
		f["price"] = *u.Price
	}
	if u.Currency != nil {
		f["currency"] = *u.Currency
	}
	if u.Category != nil {
		f["category"] = *u.Category
	}
	if u.Subcategory != nil {
		f["subcategory"] = *u.Subcategory
	}
	if u.Location != nil {
		f["location"] = *u.Location
	}
	if u.Images != nil {
		f["images"] = u.Images
	}
	if u.Contact != nil {
		f["contact"] = *u.Contact
	}
	if u.Features != nil {
		f["features"] = *u.Features
	}
	if u.Status != nil {
		f["status"] = *u.Status
	}
	if u.Featured != nil {
		f["featured"] = *u.Featured
	}
	if u.Premium != nil {
		f["premium"] = *u.Premium
	}
	if u.ExpiresAt != nil {
		f["expiresAt"] = *u.ExpiresAt
	}
	return f
}
