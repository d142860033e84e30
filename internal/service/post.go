package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"egunkari/internal/model"
	"egunkari/internal/repository"
)

// PostService handles post business logic.
//
// Counter and comment updates are read-modify-write against the store with no
// locking: two concurrent views or likes of the same post can both read N and
// both write N+1.
type PostService struct {
	repo repository.PostRepository
	now  func() time.Time
}

func NewPostService(repo repository.PostRepository) *PostService {
	return &PostService{
		repo: repo,
		now:  time.Now,
	}
}

// Create writes a new post authored by the session user and returns its id.
func (s *PostService) Create(ctx context.Context, claims *model.Claims, req *model.CreatePostRequest) (string, error) {
	if claims == nil {
		return "", model.ErrInvalidSession
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return "", model.ErrTitleRequired
	}

	now := model.FormatTimestamp(s.now())
	post := &model.Post{
		ID:         uuid.New().String(),
		AuthorID:   claims.UserID,
		AuthorName: claims.Username,
		Title:      req.Title,
		Content:    req.Content,
		Tags:       model.ParseTags(string(req.Tags)),
		CreatedAt:  now,
		UpdatedAt:  now,
		Comments:   []model.Comment{},
	}

	if err := s.repo.Create(ctx, post); err != nil {
		log.Printf("[PostService] Create FAILED: user=%s err=%v", claims.UserID, err)
		return "", fmt.Errorf("failed to create post: %w", err)
	}

	log.Printf("[PostService] Create OK: post=%s user=%s", post.ID, claims.UserID)
	return post.ID, nil
}

// List returns all active posts, newest first.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	sortNewestFirst(posts)
	return posts, nil
}

// Get returns an active post and counts the read as a view. The returned post
// already carries the incremented counter.
func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.getActive(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Views++
	if err := s.repo.SetViews(ctx, post.Row, post.Views); err != nil {
		log.Printf("[PostService] Get FAILED: post=%s row=%d err=%v", id, post.Row, err)
		return nil, fmt.Errorf("failed to record view: %w", err)
	}
	return post, nil
}

// Like increments the like counter and returns the new value. Repeat likes by
// the same user all count.
func (s *PostService) Like(ctx context.Context, claims *model.Claims, id string) (int, error) {
	if claims == nil {
		return 0, model.ErrInvalidSession
	}

	post, err := s.getActive(ctx, id)
	if err != nil {
		return 0, err
	}

	likes := post.Likes + 1
	if err := s.repo.SetLikes(ctx, post.Row, likes); err != nil {
		log.Printf("[PostService] Like FAILED: post=%s user=%s err=%v", id, claims.UserID, err)
		return 0, fmt.Errorf("failed to like post: %w", err)
	}

	log.Printf("[PostService] Like OK: post=%s user=%s likes=%d", id, claims.UserID, likes)
	return likes, nil
}

// Delete soft-deletes a post. Existence is checked before ownership, and a
// post that is already deleted can be deleted again by its author.
func (s *PostService) Delete(ctx context.Context, claims *model.Claims, id string) error {
	if claims == nil {
		return model.ErrInvalidSession
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != claims.UserID {
		return model.ErrNotPostOwner
	}

	if err := s.repo.MarkDeleted(ctx, post.Row); err != nil {
		log.Printf("[PostService] Delete FAILED: post=%s user=%s err=%v", id, claims.UserID, err)
		return fmt.Errorf("failed to delete post: %w", err)
	}

	log.Printf("[PostService] Delete OK: post=%s user=%s", id, claims.UserID)
	return nil
}

func (s *PostService) getActive(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted {
		return nil, model.ErrPostNotFound
	}
	return post, nil
}

// sortNewestFirst orders posts by createdAt descending; ties keep sheet order.
func sortNewestFirst(posts []model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedTime().After(posts[j].CreatedTime())
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}
