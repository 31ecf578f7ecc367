package provider

import (
	"context"
	"slices"

	"github.com/idilsaglam/posts/internal/model"
)

// DefaultPosts is the list a Static provider serves when built without one.
func DefaultPosts() []model.Post {
	return []model.Post{
		{UserID: 1, ID: 1, Title: "one", Body: "one"},
		{UserID: 2, ID: 2, Title: "two", Body: "two"},
	}
}

// Static serves a fixed list of posts from memory. Used for previews, tests
// and offline runs.
type Static struct {
	posts []model.Post
}

// NewStatic returns a provider serving posts. A nil slice selects
// DefaultPosts; an empty non-nil slice is served as is.
func NewStatic(posts []model.Post) *Static {
	if posts == nil {
		return &Static{posts: DefaultPosts()}
	}
	return &Static{posts: slices.Clone(posts)}
}

// FetchPosts returns a copy of the configured list. It never fails.
func (s *Static) FetchPosts(context.Context) ([]model.Post, error) {
	return slices.Clone(s.posts), nil
}
