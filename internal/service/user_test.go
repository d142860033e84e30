package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"egunkari/internal/model"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================

type mockUserRepository struct {
	createFn        func(ctx context.Context, user *model.User) error
	getByIDFn       func(ctx context.Context, id string) (*model.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*model.User, error)
	existsByEmailFn func(ctx context.Context, email string) (bool, error)

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

type mockPostRepository struct {
	createFn             func(ctx context.Context, post *model.Post) error
	getByIDFn            func(ctx context.Context, id string) (*model.Post, error)
	listActiveFn         func(ctx context.Context) ([]model.Post, error)
	listActiveByAuthorFn func(ctx context.Context, authorID string) ([]model.Post, error)
	setViewsFn           func(ctx context.Context, row, views int) error
	setLikesFn           func(ctx context.Context, row, likes int) error
	setCommentsFn        func(ctx context.Context, row int, comments []model.Comment) error
	markDeletedFn        func(ctx context.Context, row int) error

	markDeletedCalls []int
}

func (m *mockPostRepository) Create(ctx context.Context, post *model.Post) error {
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) ListActive(ctx context.Context) ([]model.Post, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return []model.Post{}, nil
}

func (m *mockPostRepository) ListActiveByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	if m.listActiveByAuthorFn != nil {
		return m.listActiveByAuthorFn(ctx, authorID)
	}
	return []model.Post{}, nil
}

func (m *mockPostRepository) SetViews(ctx context.Context, row, views int) error {
	if m.setViewsFn != nil {
		return m.setViewsFn(ctx, row, views)
	}
	return nil
}

func (m *mockPostRepository) SetLikes(ctx context.Context, row, likes int) error {
	if m.setLikesFn != nil {
		return m.setLikesFn(ctx, row, likes)
	}
	return nil
}

func (m *mockPostRepository) SetComments(ctx context.Context, row int, comments []model.Comment) error {
	if m.setCommentsFn != nil {
		return m.setCommentsFn(ctx, row, comments)
	}
	return nil
}

func (m *mockPostRepository) MarkDeleted(ctx context.Context, row int) error {
	m.markDeletedCalls = append(m.markDeletedCalls, row)
	if m.markDeletedFn != nil {
		return m.markDeletedFn(ctx, row)
	}
	return nil
}

// =============================================================================
// REGISTER TESTS
// =============================================================================

func TestUserService_Register_Success(t *testing.T) {
	mockRepo := &mockUserRepository{}
	svc := NewUserService(mockRepo, &mockPostRepository{})

	req := &model.RegisterRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "pw1",
	}

	user, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user.ID == "" {
		t.Error("expected a generated id")
	}
	if user.Username != "alice" || user.Email != "a@x.com" {
		t.Errorf("user = %+v, want alice/a@x.com", user)
	}
	if !strings.HasPrefix(user.Avatar, "https://ui-avatars.com/api/?name=alice&") {
		t.Errorf("avatar = %q, want generated avatar", user.Avatar)
	}

	if len(mockRepo.createCalls) != 1 {
		t.Fatalf("Create called %d times, want 1", len(mockRepo.createCalls))
	}
	stored := mockRepo.createCalls[0]
	if stored.PasswordHashed == req.Password {
		t.Error("password should be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHashed), []byte(req.Password)); err != nil {
		t.Error("password hash should be valid bcrypt hash")
	}
	if stored.ID != user.ID {
		t.Errorf("stored id = %q, returned id = %q", stored.ID, user.ID)
	}
}

func TestUserService_Register_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"missing username", model.RegisterRequest{Email: "a@x.com", Password: "pw"}},
		{"blank username", model.RegisterRequest{Username: "  ", Email: "a@x.com", Password: "pw"}},
		{"missing email", model.RegisterRequest{Username: "alice", Password: "pw"}},
		{"missing password", model.RegisterRequest{Username: "alice", Email: "a@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{}
			svc := NewUserService(mockRepo, &mockPostRepository{})

			_, err := svc.Register(context.Background(), &tt.req)
			if !errors.Is(err, model.ErrValidation) {
				t.Errorf("error = %v, want validation error", err)
			}
			if len(mockRepo.createCalls) != 0 {
				t.Error("Create should not be called on invalid input")
			}
		})
	}
}

func TestUserService_Register_EmailExists(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo, &mockPostRepository{})

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "other", Email: "a@x.com", Password: "different",
	})

	if !errors.Is(err, model.ErrEmailExists) {
		t.Errorf("error = %v, want %v", err, model.ErrEmailExists)
	}
	if !errors.Is(err, model.ErrConflict) {
		t.Error("email conflict should be a conflict error")
	}
	if user != nil {
		t.Error("user should be nil when registration fails")
	}
	if len(mockRepo.createCalls) != 0 {
		t.Error("Create should not be called when email exists")
	}
}

func TestUserService_Register_StoreErrors(t *testing.T) {
	storeErr := errors.New("sheets unavailable")

	t.Run("exists check", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
				return false, storeErr
			},
		}
		svc := NewUserService(mockRepo, &mockPostRepository{})

		_, err := svc.Register(context.Background(), &model.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p"})
		if !errors.Is(err, storeErr) {
			t.Errorf("error should wrap original store error, got %v", err)
		}
	})

	t.Run("append", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			createFn: func(ctx context.Context, user *model.User) error {
				return storeErr
			},
		}
		svc := NewUserService(mockRepo, &mockPostRepository{})

		_, err := svc.Register(context.Background(), &model.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p"})
		if !errors.Is(err, storeErr) {
			t.Errorf("error should wrap create error, got %v", err)
		}
	})
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestUserService_Login(t *testing.T) {
	validPassword := "correctpassword"
	validHash, _ := bcrypt.GenerateFromPassword([]byte(validPassword), bcrypt.MinCost)

	testUser := &model.User{
		ID:             "u1",
		Email:          "a@x.com",
		Username:       "alice",
		PasswordHashed: string(validHash),
	}
	storeErr := errors.New("sheets unavailable")

	tests := []struct {
		name         string
		email        string
		password     string
		mockGetEmail func(ctx context.Context, email string) (*model.User, error)
		wantErr      error
		wantUser     bool
	}{
		{
			name:     "successful login",
			email:    "a@x.com",
			password: validPassword,
			mockGetEmail: func(ctx context.Context, email string) (*model.User, error) {
				return testUser, nil
			},
			wantUser: true,
		},
		{
			name:     "unknown email",
			email:    "nobody@x.com",
			password: "anypassword",
			mockGetEmail: func(ctx context.Context, email string) (*model.User, error) {
				return nil, model.ErrUserNotFound
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "wrongpassword",
			mockGetEmail: func(ctx context.Context, email string) (*model.User, error) {
				return testUser, nil
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name:    "missing password",
			email:   "a@x.com",
			wantErr: model.ErrMissingLoginFields,
		},
		{
			name:     "store error",
			email:    "a@x.com",
			password: validPassword,
			mockGetEmail: func(ctx context.Context, email string) (*model.User, error) {
				return nil, storeErr
			},
			wantErr: storeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{getByEmailFn: tt.mockGetEmail}
			svc := NewUserService(mockRepo, &mockPostRepository{})

			user, err := svc.Login(context.Background(), &model.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantUser && user == nil {
				t.Error("expected user, got nil")
			}
			if !tt.wantUser && user != nil {
				t.Error("expected nil user")
			}
		})
	}
}

func TestUserService_Login_UniformFailure(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	mockRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email == "a@x.com" {
				return &model.User{ID: "u1", Email: email, PasswordHashed: string(hash)}, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
	svc := NewUserService(mockRepo, &mockPostRepository{})

	_, wrongPassword := svc.Login(context.Background(), &model.LoginRequest{Email: "a@x.com", Password: "nope"})
	_, unknownEmail := svc.Login(context.Background(), &model.LoginRequest{Email: "b@x.com", Password: "pw1"})

	if wrongPassword == nil || unknownEmail == nil {
		t.Fatal("both logins should fail")
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("failures differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestUserService_Login_AvatarFallback(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	mockRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "u1", Email: email, Username: "bob", PasswordHashed: string(hash)}, nil
		},
	}
	svc := NewUserService(mockRepo, &mockPostRepository{})

	user, err := svc.Login(context.Background(), &model.LoginRequest{Email: "b@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(user.Avatar, "name=bob") {
		t.Errorf("avatar = %q, want derived avatar", user.Avatar)
	}
}

// =============================================================================
// PROFILE TESTS
// =============================================================================

func TestUserService_GetProfile(t *testing.T) {
	mockRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "a@x.com", Username: "alice", Avatar: "http://a", PasswordHashed: "secret"}, nil
		},
	}
	postRepo := &mockPostRepository{
		listActiveByAuthorFn: func(ctx context.Context, authorID string) ([]model.Post, error) {
			return []model.Post{
				{ID: "old", CreatedAt: "2024-01-01T00:00:00.000Z", Likes: 2, Views: 10},
				{ID: "new", CreatedAt: "2024-02-01T00:00:00.000Z", Likes: 3, Views: 5},
			}, nil
		},
	}
	svc := NewUserService(mockRepo, postRepo)

	profile, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.ID != "u1" || profile.Username != "alice" {
		t.Errorf("profile user = %+v", profile.PublicUser)
	}
	if len(profile.Posts) != 2 || profile.Posts[0].ID != "new" {
		t.Errorf("posts should be newest first, got %+v", profile.Posts)
	}
	if profile.TotalLikes != 5 {
		t.Errorf("totalLikes = %d, want 5", profile.TotalLikes)
	}
	if profile.TotalViews != 15 {
		t.Errorf("totalViews = %d, want 15", profile.TotalViews)
	}
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, &mockPostRepository{})

	_, err := svc.GetProfile(context.Background(), "missing")
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}
