package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"egunkari/internal/model"
	"egunkari/internal/repository"
)

// UserService handles business logic for user operations
type UserService struct {
	repo     repository.UserRepository
	postRepo repository.PostRepository
}

func NewUserService(repo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{
		repo:     repo,
		postRepo: postRepo,
	}
}

// Register creates a new account. Emails are compared exactly as given.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.PublicUser, error) {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, model.ErrMissingRegisterFields
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.New().String(),
		Email:          req.Email,
		Username:       req.Username,
		PasswordHashed: string(hashedPassword),
		Avatar:         model.AvatarURL(req.Username),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[UserService] Register OK: user=%s", user.ID)
	public := user.Public()
	return &public, nil
}

// Login checks the credentials. An unknown email and a wrong password both
// yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.PublicUser, error) {
	if req.Email == "" || req.Password == "" {
		return nil, model.ErrMissingLoginFields
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	public := user.Public()
	return &public, nil
}

// GetProfile returns the user's public fields and active posts, newest first,
// with like and view totals summed over those posts.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.ProfileResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListActiveByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	sortNewestFirst(posts)

	profile := &model.ProfileResponse{
		PublicUser: user.Public(),
		Posts:      posts,
	}
	for _, p := range posts {
		profile.TotalLikes += p.Likes
		profile.TotalViews += p.Views
	}
	return profile, nil
}
