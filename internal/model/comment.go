package model

import (
	"encoding/json"
	"fmt"
)

// Comment is embedded in its post's Comments cell as one element of a JSON array.
// Author fields are a snapshot of the session at the time of posting.
type Comment struct {
	ID           string `json:"id"`
	AuthorID     string `json:"authorId"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`
	Text         string `json:"text"`
	CreatedAt    string `json:"createdAt"`
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// CommentResponse is returned after a comment is appended.
type CommentResponse struct {
	Message string  `json:"message"`
	Comment Comment `json:"comment"`
}

// DecodeComments parses a Comments cell. An empty cell is an empty list.
func DecodeComments(raw string) ([]Comment, error) {
	comments := []Comment{}
	if raw == "" {
		return comments, nil
	}
	if err := json.Unmarshal([]byte(raw), &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	if comments == nil {
		comments = []Comment{}
	}
	return comments, nil
}

// EncodeComments serializes comments for the Comments cell, preserving order.
func EncodeComments(comments []Comment) (string, error) {
	if comments == nil {
		comments = []Comment{}
	}
	data, err := json.Marshal(comments)
	if err != nil {
		return "", fmt.Errorf("encode comments: %w", err)
	}
	return string(data), nil
}
