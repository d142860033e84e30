package repository

import (
	"context"

	"egunkari/internal/model"
)

// Every lookup below is a full scan of the sheet; ids are assumed unique.

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// GetByID returns the post whether or not it is soft-deleted; Row is set.
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// ListActive returns non-deleted posts in sheet order.
	ListActive(ctx context.Context) ([]model.Post, error)
	// ListActiveByAuthor returns the author's non-deleted posts in sheet order.
	ListActiveByAuthor(ctx context.Context, authorID string) ([]model.Post, error)

	// Row-addressed cell writes. The caller supplies the full new value.
	SetViews(ctx context.Context, row, views int) error
	SetLikes(ctx context.Context, row, likes int) error
	SetComments(ctx context.Context, row int, comments []model.Comment) error
	MarkDeleted(ctx context.Context, row int) error
}
