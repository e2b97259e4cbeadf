package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/99minutos/identity-gateway/internal/core/domain"
	"github.com/99minutos/identity-gateway/internal/core/ports"
)

const (
	pgUniqueViolation   = "23505"
	pgInvalidTextRepr   = "22P02"
	userColumns         = "id, username, email, first_name, last_name, roles, active, provisioning_status, created_at, updated_at"
	returningUserColumn = " RETURNING " + userColumns
)

var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository stores profile records in PostgreSQL. Every write is a single
// statement.
type UserRepository struct {
	db  DB
	now func() time.Time
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	roles := user.Roles
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}
	now := r.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`+returningUserColumn,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName,
		rolesToText(roles), user.Active, string(user.ProvisioningStatus), user.CreatedAt, user.UpdatedAt,
	)
	created, err := scanUser(row)
	if err != nil {
		if conflict := uniqueViolation(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *UserRepository) findOne(ctx context.Context, column, value string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundOr(err, "get user")
	}
	return u, nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return notFoundOr(err, "delete user")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ReplaceRoles(ctx context.Context, id string, roles []domain.Role) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE users SET roles = $2, updated_at = $3 WHERE id = $1`+returningUserColumn,
		id, rolesToText(roles), r.now(),
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundOr(err, "replace roles")
	}
	return u, nil
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE users SET active = $2, updated_at = $3 WHERE id = $1`+returningUserColumn,
		id, active, r.now(),
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFoundOr(err, "set active")
	}
	return u, nil
}

func (r *UserRepository) SetProvisioningStatus(ctx context.Context, id string, status domain.ProvisioningStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET provisioning_status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), r.now(),
	)
	if err != nil {
		return notFoundOr(err, "set provisioning status")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collectUsers(rows)
}

func (r *UserRepository) ListByProvisioningStatus(ctx context.Context, status domain.ProvisioningStatus, olderThan time.Time) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE provisioning_status = $1 AND updated_at < $2`,
		string(status), olderThan,
	)
	if err != nil {
		return nil, fmt.Errorf("list users by provisioning status: %w", err)
	}
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]*domain.User, error) {
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u      domain.User
		roles  []string
		status string
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&roles, &u.Active, &status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Roles = make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		u.Roles = append(u.Roles, domain.Role(r))
	}
	u.ProvisioningStatus = domain.ProvisioningStatus(status)
	return &u, nil
}

func rolesToText(roles []domain.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

// notFoundOr maps missing rows and malformed UUIDs to domain.ErrUserNotFound.
func notFoundOr(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepr {
		return domain.ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case constraintEmail:
		return domain.ErrEmailTaken
	default:
		return domain.ErrUsernameTaken
	}
}
