package repository

import (
	"context"
	"errors"
	"fmt"

	"egunkari/internal/model"
	"egunkari/internal/sheets"
)

// Users sheet columns (A:E).
const (
	userColID = iota
	userColEmail
	userColUsername
	userColPassword
	userColAvatar
	userColumnCount
)

// UserHeaders is the header row of the users sheet.
var UserHeaders = []string{"ID", "Email", "Username", "Password", "Avatar"}

// userRepository implements UserRepository over a sheets.Store
type userRepository struct {
	store sheets.Store
	sheet string
}

// NewUserRepository creates a new user repository
func NewUserRepository(store sheets.Store, sheet string) UserRepository {
	return &userRepository{store: store, sheet: sheet}
}

func (r *userRepository) dataRange() string {
	return sheets.Rows(r.sheet, userColID, userColumnCount-1, 2)
}

// Create appends a new user row
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	row := []string{u.ID, u.Email, u.Username, u.PasswordHashed, u.Avatar}
	if err := r.store.Append(ctx, r.dataRange(), [][]string{row}); err != nil {
		return fmt.Errorf("failed to append user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(ctx, func(u *model.User) bool { return u.ID == id })
}

// GetByEmail retrieves a user by exact, case-sensitive email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(ctx, func(u *model.User) bool { return u.Email == email })
}

// ExistsByEmail checks if an email is already registered
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepository) find(ctx context.Context, match func(*model.User) bool) (*model.User, error) {
	rows, err := r.store.Get(ctx, r.dataRange())
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	for _, row := range rows {
		u := userFromRow(row)
		if u.ID != "" && match(u) {
			return u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func userFromRow(row []string) *model.User {
	return &model.User{
		ID:             sheets.Value(row, userColID),
		Email:          sheets.Value(row, userColEmail),
		Username:       sheets.Value(row, userColUsername),
		PasswordHashed: sheets.Value(row, userColPassword),
		Avatar:         sheets.Value(row, userColAvatar),
	}
}
