package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/goverify/internal/identity/entity"
	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
)

const userColumns = `id, email, phone, is_verified, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Email, &u.Phone, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *DB) CreateUser(ctx context.Context, u entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO identity_users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Phone, u.IsVerified, u.CreatedAt, u.UpdatedAt)
	err = s.mapError(err)
	return err
}

func (s *DB) FindUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "FindUserByID")
	defer func() { s.endSpan(span, err) }()

	u, err := scanUser(s.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM identity_users WHERE id = $1`, id))
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return u, nil
}

// FindUserByIdentifier looks a user up by email address or phone number.
func (s *DB) FindUserByIdentifier(ctx context.Context, identifier string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "FindUserByIdentifier")
	defer func() { s.endSpan(span, err) }()

	u, err := scanUser(s.conn.QueryRow(ctx,
		`SELECT `+userColumns+` FROM identity_users WHERE email = $1 OR phone = $1 LIMIT 1`, identifier))
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return u, nil
}

func (s *DB) ListUsers(ctx context.Context, f entity.UserListFilter) (_ []entity.User, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "ListUsers")
	defer func() { s.endSpan(span, err) }()

	pattern := "%"
	if q := strings.TrimSpace(f.Search); q != "" {
		pattern = "%" + strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q) + "%"
	}

	var total int64
	if err = s.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM identity_users WHERE email ILIKE $1 OR phone LIKE $1`, pattern).Scan(&total); err != nil {
		err = s.mapError(err)
		return nil, 0, err
	}

	rows, err := s.conn.Query(ctx,
		`SELECT `+userColumns+` FROM identity_users WHERE email ILIKE $1 OR phone LIKE $1 ORDER BY id DESC LIMIT $2 OFFSET $3`,
		pattern, f.Limit, f.Offset)
	if err != nil {
		err = s.mapError(err)
		return nil, 0, err
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.User, error) {
		u, err := scanUser(row)
		if err != nil {
			return entity.User{}, err
		}
		return *u, nil
	})
	if err != nil {
		err = s.mapError(err)
		return nil, 0, err
	}

	return users, total, nil
}

func (s *DB) SetUserVerified(ctx context.Context, id int64, verified bool) (err error) {
	ctx, span := s.startSpan(ctx, "SetUserVerified")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE identity_users SET is_verified = $2, updated_at = NOW() WHERE id = $1`, id, verified)
	if err != nil {
		err = s.mapError(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
	}

	return err
}

func (s *DB) UpdateUser(ctx context.Context, in entity.UpdateUser) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "UpdateUser")
	defer func() { s.endSpan(span, err) }()

	u, err := scanUser(s.conn.QueryRow(ctx,
		`UPDATE identity_users
		SET email = COALESCE($2, email), phone = COALESCE($3, phone), updated_at = $4,
			is_verified = is_verified
				AND ($2::text IS NULL OR $2::text = email)
				AND ($3::text IS NULL OR $3::text = phone)
		WHERE id = $1
		RETURNING `+userColumns,
		in.ID, in.Email, in.Phone, in.UpdatedAt))
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return u, nil
}

// DeleteUser removes the user and reports whether a row existed.
func (s *DB) DeleteUser(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "DeleteUser")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM identity_users WHERE id = $1`, id)
	if err != nil {
		err = s.mapError(err)
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
