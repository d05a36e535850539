// ABOUTME: Users repository owning note authors.
// ABOUTME: Passwords are bcrypt hashed; deleting a user removes their notes.

package db

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/harper/journal/internal/models"
)

type Users struct {
	q    Querier
	log  *zap.Logger
	opts options
}

func NewUsers(q Querier, log *zap.Logger, opts ...Option) *Users {
	if log == nil {
		log = zap.NewNop()
	}
	return &Users{
		q:    q,
		log:  log.Named("users"),
		opts: buildOptions(newUUID, opts),
	}
}

func (u *Users) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := checkVar("name", name, "required"); err != nil {
		return nil, err
	}
	if err := checkVar("email", email, "required,email"); err != nil {
		return nil, err
	}
	if err := checkVar("password", password, "required"); err != nil {
		return nil, err
	}

	if _, found, err := u.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if found {
		return nil, &ValidationError{Field: "email", Reason: "already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.opts.bcryptCost)
	if err != nil {
		return nil, &ValidationError{Field: "password", Reason: err.Error()}
	}

	user := &models.User{
		ID:        u.opts.newID(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		CreatedAt: u.opts.now().UTC(),
	}
	_, err = u.q.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password, createdAt) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.Password, formatTime(user.CreatedAt),
	)
	if err != nil {
		return nil, storageErr("insert user", err)
	}
	u.log.Debug("user created", zap.String("id", user.ID))
	return user, nil
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	row := u.q.QueryRowContext(ctx,
		`SELECT id, name, email, password, createdAt FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	user := &models.User{}
	var createdAt string
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &createdAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storageErr("get user", err)
	}
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, false, storageErr("get user", err)
	}
	return user, true, nil
}

// Delete removes the user and, through the foreign key, every note they own.
func (u *Users) Delete(ctx context.Context, id string) error {
	res, err := u.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete user", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete user", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}
