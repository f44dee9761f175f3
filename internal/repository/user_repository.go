package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/satvik-sharma-05/movieBooking/internal/model"
)

const mysqlDuplicateEntry = 1062

// UserRepo stores users in the MySQL `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// EnsureSchema creates the users table when it does not exist yet.
func (r *UserRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			external_id VARCHAR(191) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
			name        VARCHAR(255) NOT NULL,
			email       VARCHAR(191) NOT NULL,
			image       VARCHAR(1024) NOT NULL,
			created_at  DATETIME(3) NOT NULL,
			updated_at  DATETIME(3) NOT NULL,
			UNIQUE KEY uq_users_external_id (external_id),
			UNIQUE KEY uq_users_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`)
	return err
}

// Upsert inserts the user or overwrites name, email and image of the row with
// the same external id.  created reports whether a new row was inserted.
//
// ON DUPLICATE KEY UPDATE fires for any unique key, so the email owner is
// checked first under a row lock; otherwise a conflicting email would rewrite
// somebody else's row.
func (r *UserRepo) Upsert(ctx context.Context, u model.User) (bool, error) {
	created, err := r.upsertTx(ctx, u)
	if errors.Is(err, errDuplicateExternalID) {
		// a concurrent insert for the same subject won; the retry takes the update path
		created, err = r.upsertTx(ctx, u)
	}
	return created, err
}

func (r *UserRepo) upsertTx(ctx context.Context, u model.User) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var owner string
	err = tx.QueryRowContext(ctx,
		"SELECT external_id FROM users WHERE email=? LIMIT 1 FOR UPDATE", u.Email).Scan(&owner)
	switch {
	case err == nil && owner != u.ExternalID:
		return false, ErrEmailTaken
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("lookup email owner: %w", err)
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (external_id, name, email, image, created_at, updated_at)
		VALUES (?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE name=VALUES(name), email=VALUES(email), image=VALUES(image), updated_at=VALUES(updated_at)`,
		u.ExternalID, u.Name, u.Email, u.Image, now, now)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			if strings.Contains(me.Message, "uq_users_email") {
				return false, ErrEmailTaken
			}
			return false, errDuplicateExternalID
		}
		return false, fmt.Errorf("upsert user %s: %w", u.ExternalID, err)
	}
	// MySQL reports 1 for an insert, 2 for an update and 0 for an unchanged row.
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return n == 1, nil
}

// FindByExternalID fetches a user by subject id.
func (r *UserRepo) FindByExternalID(ctx context.Context, externalID string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT external_id,name,email,image,created_at,updated_at FROM users WHERE external_id=? LIMIT 1",
		externalID).Scan(&u.ExternalID, &u.Name, &u.Email, &u.Image, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// DeleteByExternalID removes the user.  deleted is false when no row matched.
func (r *UserRepo) DeleteByExternalID(ctx context.Context, externalID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE external_id=?", externalID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
