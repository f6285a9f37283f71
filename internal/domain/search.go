package domain

import "errors"

type SearchType string

const (
	SearchArticles    SearchType = "articles"
	SearchClassifieds SearchType = "classifieds"
	SearchAll         SearchType = "all"
)

var ErrInvalidSearchType = errors.New("invalid search type")

// ParseSearchType maps an empty string to SearchAll.
func ParseSearchType(s string) (SearchType, error) {
	switch t := SearchType(s); t {
	case "":
		return SearchAll, nil
	case SearchArticles, SearchClassifieds, SearchAll:
		return t, nil
	}
	return "", ErrInvalidSearchType
}

type SearchResults struct {
	Articles    []Article    `json:"articles"`
	Classifieds []Classified `json:"classifieds"`
}
