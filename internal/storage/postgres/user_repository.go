package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/elmorders/internal/domain"
)

const pgUniqueViolationCode = "23505"

type userRow struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Enabled      bool      `db:"enabled"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Enabled:      r.Enabled,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// userAuthorityRow отражает строку LEFT JOIN пользователя с его ролями.
// authority_name пустой, если ролей у пользователя нет.
type userAuthorityRow struct {
	userRow
	AuthorityName sql.NullString `db:"authority_name"`
}

type userRepository struct {
	store *Store
}

// NewUserRepository создаёт PostgreSQL-реализацию UserRepository.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrUserRequired
	}
	if strings.TrimSpace(user.Username) == "" {
		return domain.ErrUsernameRequired
	}

	return r.store.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if user.ID == 0 {
			err = r.insert(ctx, user)
		} else {
			err = r.update(ctx, user)
		}
		if err != nil {
			return err
		}
		if user.Authorities != nil {
			return r.replaceAuthorities(ctx, user.ID, user.Authorities)
		}
		return nil
	})
}

func (r *userRepository) insert(ctx context.Context, user *domain.User) error {
	var row userRow
	err := r.store.conn(ctx).GetContext(ctx, &row, `
		INSERT INTO users (username, password_hash, enabled)
		VALUES ($1, $2, $3)
		RETURNING id, username, password_hash, enabled, created_at, updated_at
	`, user.Username, user.PasswordHash, user.Enabled)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = row.ID
	user.CreatedAt = row.CreatedAt
	user.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *userRepository) update(ctx context.Context, user *domain.User) error {
	var row userRow
	err := r.store.conn(ctx).GetContext(ctx, &row, `
		UPDATE users
		SET username = $1,
		    password_hash = $2,
		    enabled = $3,
		    updated_at = NOW()
		WHERE id = $4
		RETURNING id, username, password_hash, enabled, created_at, updated_at
	`, user.Username, user.PasswordHash, user.Enabled, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("update user: %w", err)
	}

	user.CreatedAt = row.CreatedAt
	user.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *userRepository) replaceAuthorities(ctx context.Context, userID int64, authorities []domain.Authority) error {
	q := r.store.conn(ctx)
	if _, err := q.ExecContext(ctx, `DELETE FROM user_authorities WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear user authorities: %w", err)
	}

	for _, authority := range domain.NormalizeAuthorities(authorities) {
		name := authority.Name

		var authorityID int64
		// DO UPDATE нужен, чтобы RETURNING вернул id уже существующей роли.
		if err := q.GetContext(ctx, &authorityID, `
			INSERT INTO authorities (name)
			VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, name); err != nil {
			return fmt.Errorf("upsert authority %s: %w", name, err)
		}

		if _, err := q.ExecContext(ctx, `
			INSERT INTO user_authorities (user_id, authority_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, userID, authorityID); err != nil {
			return fmt.Errorf("link authority %s: %w", name, err)
		}
	}

	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	var row userRow
	err := r.store.conn(ctx).GetContext(ctx, &row, `
		SELECT id, username, password_hash, enabled, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	return row.toDomain(), nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	var row userRow
	err := r.store.conn(ctx).GetContext(ctx, &row, `
		SELECT id, username, password_hash, enabled, created_at, updated_at
		FROM users
		WHERE username = $1
	`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, fmt.Errorf("select user by username: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *userRepository) GetUserWithAuthoritiesByUsername(ctx context.Context, username string) (domain.User, bool, error) {
	var rows []userAuthorityRow
	err := r.store.conn(ctx).SelectContext(ctx, &rows, `
		SELECT u.id, u.username, u.password_hash, u.enabled, u.created_at, u.updated_at,
		       a.name AS authority_name
		FROM users u
		LEFT JOIN user_authorities ua ON ua.user_id = u.id
		LEFT JOIN authorities a ON a.id = ua.authority_id
		WHERE u.username = $1
		ORDER BY a.name ASC
	`, username)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("select user with authorities: %w", err)
	}
	if len(rows) == 0 {
		return domain.User{}, false, nil
	}

	user := rows[0].toDomain()
	user.Authorities = make([]domain.Authority, 0, len(rows))
	for _, row := range rows {
		if row.AuthorityName.Valid {
			user.Authorities = append(user.Authorities, domain.Authority{Name: row.AuthorityName.String})
		}
	}
	return user, true, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode
}

var _ domain.UserRepository = (*userRepository)(nil)
