package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/copyforge/internal/common"
	"github.com/bobmcallan/copyforge/internal/interfaces"
	"github.com/bobmcallan/copyforge/internal/models"
)

// userRow is the DB-level representation of a user account.
type userRow struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserStore implements interfaces.UserStore using SurrealDB.
type UserStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *surrealdb.DB, logger *common.Logger) *UserStore {
	return &UserStore{db: db, logger: logger}
}

func (s *UserStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	row, err := surrealdb.Select[userRow](ctx, s.db, surrealmodels.NewRecordID("user", username))
	if err != nil {
		if isNotFoundError(err) {
			return nil, interfaces.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	if row == nil || row.Username == "" {
		return nil, interfaces.ErrUserNotFound
	}
	return &models.User{
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Disabled:     row.Disabled,
		CreatedAt:    row.CreatedAt,
	}, nil
}

func (s *UserStore) SaveUser(ctx context.Context, user *models.User) error {
	sql := `UPSERT $rid SET
		username = $username, email = $email, password_hash = $password_hash,
		disabled = $disabled, created_at = $created_at`
	vars := map[string]any{
		"rid":           surrealmodels.NewRecordID("user", user.Username),
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"disabled":      user.Disabled,
		"created_at":    user.CreatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *UserStore) ListUsers(ctx context.Context) ([]string, error) {
	list, err := surrealdb.Select[[]userRow](ctx, s.db, surrealmodels.Table("user"))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var usernames []string
	if list != nil {
		for _, row := range *list {
			if row.Username != "" {
				usernames = append(usernames, row.Username)
			}
		}
	}
	return usernames, nil
}

var _ interfaces.UserStore = (*UserStore)(nil)
