package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"egunkari/internal/model"
	"egunkari/internal/repository"
)

// CommentService appends comments to a post's embedded comment list.
type CommentService struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

func NewCommentService(postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		postRepo: postRepo,
		now:      time.Now,
	}
}

// Add appends a comment to an active post. The whole list is rewritten, so a
// concurrent Add on the same post may be lost.
func (s *CommentService) Add(ctx context.Context, claims *model.Claims, postID string, req *model.CreateCommentRequest) (*model.Comment, error) {
	if claims == nil {
		return nil, model.ErrInvalidSession
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, model.ErrCommentRequired
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted {
		return nil, model.ErrPostNotFound
	}

	comment := model.Comment{
		ID:           uuid.New().String(),
		AuthorID:     claims.UserID,
		AuthorName:   claims.Username,
		AuthorAvatar: claims.Avatar,
		Text:         req.Text,
		CreatedAt:    model.FormatTimestamp(s.now()),
	}

	comments := append(post.Comments, comment)
	if err := s.postRepo.SetComments(ctx, post.Row, comments); err != nil {
		log.Printf("[CommentService] Add FAILED: post=%s user=%s err=%v", postID, claims.UserID, err)
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	log.Printf("[CommentService] Add OK: post=%s user=%s comments=%d", postID, claims.UserID, len(comments))
	return &comment, nil
}
