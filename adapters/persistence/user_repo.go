package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davitran/profile-hub/internal/domain/user"
	"github.com/davitran/profile-hub/pkg/apperror"
	"github.com/davitran/profile-hub/pkg/logger"
)

const pgUniqueViolation = "23505"

type postgresUserRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresUserRepo(db *pgxpool.Pool, logger logger.Logger) user.Repository {
	return &postgresUserRepo{db: db, logger: logger}
}

var psqlUser = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const userColumns = "id, name, email, password_hash, address, bio, profile_picture_url, created_at, updated_at"

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Address, &u.Bio, &u.ProfilePictureURL,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperror.NewInternal("failed to scan user row", err)
	}
	return u, nil
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, address, bio, profile_picture_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Address, u.Bio, u.ProfilePictureURL,
	).Scan(&u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return user.ErrEmailTaken
		}
		return apperror.NewInternal("failed to insert user", err)
	}
	return nil
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// Update applies only the fields that are set, in one statement.
// Absent fields never appear in the SET clause, so the clear-vs-ignore
// distinction survives all the way to the database.
func (r *postgresUserRepo) Update(ctx context.Context, id uuid.UUID, fields user.UpdateFields) (*user.User, error) {
	builder := psqlUser.Update("users").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns)

	if fields.Name != nil {
		builder = builder.Set("name", *fields.Name)
	}
	if fields.Address != nil {
		builder = builder.Set("address", *fields.Address)
	}
	if fields.Bio != nil {
		builder = builder.Set("bio", *fields.Bio)
	}
	if fields.ProfilePictureURL != nil {
		builder = builder.Set("profile_picture_url", *fields.ProfilePictureURL)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build update query", err)
	}

	return scanUser(r.db.QueryRow(ctx, query, args...))
}
