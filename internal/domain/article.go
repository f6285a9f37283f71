package domain

import "time"

type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusArchived  ArticleStatus = "archived"
)

type Article struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Excerpt       string        `json:"excerpt"`
	Content       string        `json:"content"`
	FeaturedImage string        `json:"featuredImage,omitempty"`
	Author        Author        `json:"author"`
	Category      Category      `json:"category"`
	Tags          []string      `json:"tags"`
	Status        ArticleStatus `json:"status"`
	Featured      bool          `json:"featured"`
	Views         int64         `json:"views"`
	Likes         int64         `json:"likes"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	PublishedAt   *time.Time    `json:"publishedAt,omitempty"`
	SEO           SEO           `json:"seo"`
}

// Author is a snapshot of the writer embedded in the article document.
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type SEO struct {
	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	MetaKeywords    string `json:"metaKeywords,omitempty"`
}

// ArticleListOptions narrows an article listing. Zero values mean "no filter".
type ArticleListOptions struct {
	Limit    int
	Category string
	Featured bool
	Cursor   string
}

// ArticleUpdate lists the fields an update may change. Nil fields are left as stored.
type ArticleUpdate struct {
	Title         *string
	Slug          *string
	Excerpt       *string
	Content       *string
	FeaturedImage *string
	Author        *Author
	Category      *Category
	Tags          []string
	Status        *ArticleStatus
	Featured      *bool
	PublishedAt   *time.Time
	SEO           *SEO
}

// Fields returns the document fields to merge, keyed by document field name.
func (u ArticleUpdate) Fields() map[string]any {
	f := make(map[string]any)
	if u.Title != nil {
		f["title"] = *u.Title
	}
	if u.Slug != nil {
		f["slug"] = *u.Slug
	}
	if u.Excerpt != nil {
		f["excerpt"] = *u.Excerpt
	}
	if u.Content != nil {
		f["content"] = *u.Content
	}
	if u.FeaturedImage != nil {
		f["featuredImage"] = *u.FeaturedImage
	}
	if u.Author != nil {
		f["author"] = *u.Author
	}
	if u.Category != nil {
		f["category"] = *u.Category
	}
	if u.Tags != nil {
		f["tags"] = u.Tags
	}
	if u.Status != nil {
		f["status"] = *u.Status
	}
	if u.Featured != nil {
		f["featured"] = *u.Featured
	}
	if u.PublishedAt != nil {
		f["publishedAt"] = *u.PublishedAt
	}
	if u.SEO != nil {
		f["seo"] = *u.SEO
	}
	return f
}
