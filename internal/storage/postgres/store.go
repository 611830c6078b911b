package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rgiraldo/mini-user-api/internal/models"
	"github.com/rgiraldo/mini-user-api/internal/storage"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

const userColumns = "id, name, email, age, phone, address, created_at, updated_at"

// Config tunes the connection pool.
type Config struct {
	DatabaseURL    string
	MaxConns       int32
	IdleTimeout    time.Duration
	ConnectTimeout time.Duration
}

// Store provides Postgres-backed persistence for users.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects the pool and bootstraps the schema.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.IdleTimeout > 0 {
		poolCfg.MaxConnIdleTime = cfg.IdleTimeout
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			age INTEGER CHECK (age > 0 AND age < 150),
			phone VARCHAR(20),
			address TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS users_created_at_idx ON users (created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a row and returns it as persisted, with the
// storage-assigned id and timestamps.
func (s *Store) CreateUser(ctx context.Context, input models.NewUser) (models.User, error) {
	const query = `
		INSERT INTO users (name, email, age, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, input.Name, input.Email, input.Age, input.Phone, input.Address)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, classify("insert user", err)
	}
	return user, nil
}

// FindByID fetches a user by id.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.User{}, classify("query user by id", err)
	}
	return user, nil
}

// FindByEmail fetches a user by exact email match.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		return models.User{}, classify("query user by email", err)
	}
	return user, nil
}

// FindAll returns one page of users, newest first. When params.Search is
// non-empty it filters to rows whose name or email contains the term
// case-insensitively.
func (s *Store) FindAll(ctx context.Context, params storage.ListParams) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := make([]any, 0, 3)
	if params.Search != "" {
		query += ` WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+params.Search+"%")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("query users", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, params.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, classify("scan user row", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate users", err)
	}
	return users, nil
}

// Count returns the total row count matching the same predicate as FindAll.
func (s *Store) Count(ctx context.Context, search string) (int, error) {
	query := `SELECT COUNT(*) FROM users`
	args := make([]any, 0, 1)
	if search != "" {
		query += ` WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, classify("count users", err)
	}
	return int(total), nil
}

// UpdateUser applies a partial mutation to the row matching id, refreshing
// updated_at, and returns the updated row. A missing row maps to ErrNotFound.
func (s *Store) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (models.User, error) {
	query, args, err := buildUpdate(id, upd)
	if err != nil {
		return models.User{}, err
	}
	user, err := scanUser(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return models.User{}, classify("update user", err)
	}
	return user, nil
}

// buildUpdate accumulates (column, bound value) pairs for the supplied fields
// and emits a fully parameterized UPDATE ... RETURNING statement.
func buildUpdate(id int64, upd models.UserUpdate) (string, []any, error) {
	assignments := make([]string, 0, 6)
	args := make([]any, 0, 6)
	set := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Email != nil {
		set("email", *upd.Email)
	}
	if upd.Age != nil {
		set("age", *upd.Age)
	}
	if upd.Phone != nil {
		set("phone", *upd.Phone)
	}
	if upd.Address != nil {
		set("address", *upd.Address)
	}
	if len(assignments) == 0 {
		return "", nil, errors.New("update user: no fields supplied")
	}
	assignments = append(assignments, "updated_at = CURRENT_TIMESTAMP")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(assignments, ", "), len(args), userColumns)
	return query, args, nil
}

// DeleteUser removes the row matching id and reports whether a row was
// actually removed.
func (s *Store) DeleteUser(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, classify("delete user", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Age, &user.Phone,
		&user.Address, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// classify translates driver-level failures into the storage error kinds.
// Unrecognized errors are wrapped with the operation for logging.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return storage.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return storage.ErrTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// SQLSTATE reference: https://www.postgresql.org/docs/current/errcodes-appendix.html
		switch {
		case pgErr.Code == "23505":
			return storage.ErrDuplicateEmail
		case pgErr.Code == "23503":
			return storage.ErrInvalidReference
		case pgErr.Code == "23514":
			return storage.ErrCheckViolation
		case pgErr.Code == "57014":
			return storage.ErrTimeout
		case strings.HasPrefix(pgErr.Code, "08"):
			return storage.ErrUnavailable
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return storage.ErrTimeout
		}
		return storage.ErrUnavailable
	}

	return fmt.Errorf("%s: %w", op, err)
}
