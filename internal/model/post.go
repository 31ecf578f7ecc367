package model

import (
	"encoding/json"
	"fmt"
)

// Post is one record of the posts resource.
// Field tags follow the wire format of the upstream endpoint.
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// wirePost mirrors Post with pointer fields so missing keys can be told
// apart from zero values.
type wirePost struct {
	UserID *int    `json:"userId"`
	ID     *int    `json:"id"`
	Title  *string `json:"title"`
	Body   *string `json:"body"`
}

// UnmarshalJSON decodes a post and rejects objects missing any of the four
// fields. Unknown keys are ignored.
func (p *Post) UnmarshalJSON(b []byte) error {
	var w wirePost
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch {
	case w.UserID == nil:
		return missingField("userId")
	case w.ID == nil:
		return missingField("id")
	case w.Title == nil:
		return missingField("title")
	case w.Body == nil:
		return missingField("body")
	}
	*p = Post{UserID: *w.UserID, ID: *w.ID, Title: *w.Title, Body: *w.Body}
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("post: missing field %q", name)
}
