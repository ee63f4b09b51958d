package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/helpdesk/internal/model"
	"github.com/iliyamo/helpdesk/internal/utils"
)

// UserRepo encapsulates all queries against the users table, including the
// e-mail verification and lockout bookkeeping mutated around login.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id,email,password_hash,role,email_verified,
verification_code,verification_code_expires,verification_code_sent_at,
failed_login_attempts,locked_until,created_at,updated_at`

// Create inserts an unverified user with a pending verification code and
// returns its ID.  The password is hashed here so callers never hold the
// hash.  Duplicate e-mails map to ErrConflict.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int, code string, codeExpires time.Time) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, role, email_verified,
		   verification_code, verification_code_expires, verification_code_sent_at)
		 VALUES (?,?,?,0,?,?,UTC_TIMESTAMP())`,
		email, hash, role, code, codeExpires)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) get(ctx context.Context, query string, arg any) (model.User, error) {
	var (
		u           model.User
		verified    int
		code        sql.NullString
		codeExpires sql.NullTime
		codeSentAt  sql.NullTime
		lockedUntil sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &verified,
		&code, &codeExpires, &codeSentAt,
		&u.FailedLoginAttempts, &lockedUntil, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	u.EmailVerified = verified != 0
	if code.Valid {
		u.VerificationCode = &code.String
	}
	if codeExpires.Valid {
		u.VerificationCodeExpires = &codeExpires.Time
	}
	if codeSentAt.Valid {
		u.VerificationCodeSentAt = &codeSentAt.Time
	}
	if lockedUntil.Valid {
		u.LockedUntil = &lockedUntil.Time
	}
	return u, nil
}

// MarkVerified flips email_verified and clears the pending code.
func (r *UserRepo) MarkVerified(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET email_verified=1, verification_code=NULL,
		   verification_code_expires=NULL
		 WHERE id=?`, id)
	return err
}

// SetVerificationCode stores a fresh code for a resend and stamps sent-at.
func (r *UserRepo) SetVerificationCode(ctx context.Context, id uint64, code string, expires time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET verification_code=?, verification_code_expires=?,
		   verification_code_sent_at=UTC_TIMESTAMP()
		 WHERE id=?`, code, expires, id)
	return err
}

// RecordLoginFailure increments the consecutive-failure counter and, once
// it reaches maxFailures, locks the account until now+lockFor.  The
// increment and the conditional lock run as one statement so concurrent
// failures cannot lose updates.
func (r *UserRepo) RecordLoginFailure(ctx context.Context, id uint64, maxFailures int, lockFor time.Duration) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET failed_login_attempts = failed_login_attempts + 1,
		   locked_until = IF(failed_login_attempts + 1 >= ?,
		     DATE_ADD(UTC_TIMESTAMP(), INTERVAL ? SECOND), locked_until)
		 WHERE id=?`,
		maxFailures, int(lockFor.Seconds()), id)
	return err
}

// ResetLoginFailures clears the failure counter and any lockout after a
// successful login.
func (r *UserRepo) ResetLoginFailures(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_login_attempts=0, locked_until=NULL WHERE id=?", id)
	return err
}
