package domain

import "time"

// Category is stored in its own collection and embedded by value in
// articles and classifieds.
type Category struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon,omitempty"`
	ParentID    string    `json:"parentId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type NewsletterStatus string

const (
	NewsletterStatusActive       NewsletterStatus = "active"
	NewsletterStatusUnsubscribed NewsletterStatus = "unsubscribed"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

type Newsletter struct {
	ID          string                `json:"id,omitempty"`
	Email       string                `json:"email"`
	Status      NewsletterStatus      `json:"status"`
	Preferences NewsletterPreferences `json:"preferences"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

type NewsletterPreferences struct {
	Categories []string  `json:"categories"`
	Frequency  Frequency `json:"frequency"`
}

// DefaultNewsletterPreferences is applied when a subscriber gives none.
func DefaultNewsletterPreferences() NewsletterPreferences {
	return NewsletterPreferences{
		Categories: []string{},
		Frequency:  FrequencyWeekly,
	}
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleUser   Role = "user"
)

type User struct {
	ID          string    `json:"id,omitempty"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type UserUpdate struct {
	Email       *string
	DisplayName *string
	PhotoURL    *string
	Role        *Role
}

func (u UserUpdate) Fields() map[string]any {
	f := make(map[string]any)
	if u.Email != nil {
		f["email"] = *u.Email
	}
	if u.DisplayName != nil {
		f["displayName"] = *u.DisplayName
	}
	if u.PhotoURL != nil {
		f["photoURL"] = *u.PhotoURL
	}
	if u.Role != nil {
		f["role"] = *u.Role
	}
	return f
}

type CommentStatus string

const (
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusRejected CommentStatus = "rejected"
)

// Comment belongs to either an article or a classified. Deleting the parent
// does not remove its comments.
type Comment struct {
	ID           string        `json:"id,omitempty"`
	Content      string        `json:"content"`
	Author       Author        `json:"author"`
	ParentID     string        `json:"parentId,omitempty"`
	ArticleID    string        `json:"articleId,omitempty"`
	ClassifiedID string        `json:"classifiedId,omitempty"`
	Status       CommentStatus `json:"status"`
	Likes        int64         `json:"likes"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
