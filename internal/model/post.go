package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the ISO-8601 form stored in the sheet (millisecond precision, UTC).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Post is a row of the posts sheet.
//
// AuthorName is copied from the session at creation time and never refreshed.
// UpdatedAt is set once at creation; no operation touches it afterwards.
type Post struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
	Views      int       `json:"views"`
	Likes      int       `json:"likes"`
	Comments   []Comment `json:"comments"`
	IsDeleted  bool      `json:"-"`

	// Row is the sheet row the post was read from (1-based, header is row 1).
	Row int `json:"-"`
}

// CreatedTime parses CreatedAt, returning the zero time for unparseable values.
func (p *Post) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, p.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatTimestamp renders t the way timestamps are stored.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Tags is the write-side tags field. Clients send either "a, b" or ["a", "b"];
// both are kept as a single comma-joined string.
type Tags string

func (t *Tags) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Tags(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or a list of strings")
	}
	*t = Tags(strings.Join(list, ","))
	return nil
}

// ParseTags splits a stored tags cell into trimmed, non-empty tags in order.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    Tags   `json:"tags"`
}

// CreatePostResponse is returned after a post is written.
type CreatePostResponse struct {
	Message string `json:"message"`
	PostID  string `json:"postId"`
}

// LikeResponse carries the like counter after an increment.
type LikeResponse struct {
	Message string `json:"message"`
	Likes   int    `json:"likes"`
}
