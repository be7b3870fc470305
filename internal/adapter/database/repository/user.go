package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"userapp/internal/adapter/database"
	"userapp/internal/core/domain"
	"userapp/internal/core/port"
	tel "userapp/internal/core/telemetry"
)

const usersTable = "users"

var publicColumns = []string{"id", "name", "email"}

type UserRepository struct {
	db        *database.DB
	hasher    port.PasswordHasher
	scanner   *database.Scanner
	telemetry port.Telemetry
}

func NewUserRepository(db *database.DB, hasher port.PasswordHasher, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		hasher:    hasher,
		scanner:   database.NewScanner(),
		telemetry: telemetry,
	}
}

func (ur *UserRepository) GetAll(ctx context.Context) (users []domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "get_all", usersTable)
	defer func() { op.End(err) }()

	query := ur.db.QueryBuilder.Select(publicColumns...).
		From(usersTable).
		OrderBy("id")

	users = []domain.User{}

	err = ur.db.WithTx(ctx, func(ctx context.Context, tx database.Querier) error {
		return ur.selectAll(ctx, tx, query, &users)
	})

	if err != nil {
		return nil, mapUserError(err)
	}

	return users, nil
}

func (ur *UserRepository) GetByID(ctx context.Context, id int64) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "get_by_id", usersTable, attribute.Int64("user.id", id))
	defer func() { op.End(err) }()

	err = ur.db.WithTx(ctx, func(ctx context.Context, tx database.Querier) error {
		user, err = ur.getByID(ctx, tx, id)
		return err
	})

	if err != nil {
		return domain.User{}, mapUserError(err)
	}

	return user, nil
}

// GetByEmail is the only lookup that loads the password hash.
func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "get_by_email", usersTable)
	defer func() { op.End(err) }()

	query := ur.db.QueryBuilder.Select("id", "name", "email", "password").
		From(usersTable).
		Where(sq.Eq{"email": email}).
		Limit(1)

	err = ur.db.WithTx(ctx, func(ctx context.Context, tx database.Querier) error {
		return ur.selectOne(ctx, tx, query, &user)
	})

	if err != nil {
		return domain.User{}, mapUserError(err)
	}

	return user, nil
}

// SearchByName matches fragment literally anywhere in the name. Case
// sensitivity follows the store's LIKE semantics.
func (ur *UserRepository) SearchByName(ctx context.Context, fragment string) (users []domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "search_by_name", usersTable)
	defer func() { op.End(err) }()

	query := ur.db.QueryBuilder.Select(publicColumns...).
		From(usersTable).
		Where(sq.Expr(`name LIKE ? ESCAPE '\'`, "%"+escapeLike(fragment)+"%")).
		OrderBy("id")

	users = []domain.User{}

	err = ur.db.WithTx(ctx, func(ctx context.Context, tx database.Querier) error {
		return ur.selectAll(ctx, tx, query, &users)
	})

	if err != nil {
		return nil, mapUserError(err)
	}

	return users, nil
}

// Create hashes password and inserts the user. A taken email yields
// domain.ErrEmailAlreadyExists.
func (ur *UserRepository) Create(ctx context.Context, name, email, password string) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "create", usersTable)
	defer func() { op.End(err) }()

	hash, err := ur.hasher.Hash(password)

	if err != nil {
		return domain.User{}, err
	}

	query := ur.db.QueryBuilder.Insert(usersTable).
		Columns("name", "email", "password").
		Values(name, email, hash).
		Suffix("RETURNING id")

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var id int64

	err = ur.db.WithTx(ctx, func(ctx context.Context, tx database.Querier) error {
		return database.MapError(tx.QueryRowContext(ctx, stmt, args...).Scan(&id))
	})

	if err != nil {
		return domain.User{}, mapUserError(err)
	}

	return domain.User{ID: id, Name: name, Email: email}, nil
}

// Update sets only the fields present in fields and returns the stored row.
func (ur *UserRepository) Update(ctx context.Context, id int64, fields domain.UserUpdate) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "update", usersTable, attribute.Int64("user.id", id))
	defer func() { op.End(err) }()

	values := map[string]any{}

	if fields.Name != nil {
		values["name"] = *fields.Name
	}

	if fields.Email != nil {
		values["email"] = *fields.Email
	}

	err = ur.db.WithTx(ctx, func(ctx context.Context, tx database.Querier) error {
		if !fields.IsEmpty() {
			stmt, args, err := ur.db.QueryBuilder.Update(usersTable).
				SetMap(values).
				Where(sq.Eq{"id": id}).
				ToSql()

			if err != nil {
				return err
			}

			result, err := tx.ExecContext(ctx, stmt, args...)

			if err != nil {
				return database.MapError(err)
			}

			affected, err := result.RowsAffected()

			if err != nil {
				return err
			}

			if affected == 0 {
				return domain.ErrUserNotFound
			}
		}

		user, err = ur.getByID(ctx, tx, id)
		return err
	})

	if err != nil {
		return domain.User{}, mapUserError(err)
	}

	return user, nil
}

// Delete reports whether a row was removed.
func (ur *UserRepository) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "delete", usersTable, attribute.Int64("user.id", id))
	defer func() { op.End(err) }()

	stmt, args, err := ur.db.QueryBuilder.Delete(usersTable).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return false, err
	}

	err = ur.db.WithTx(ctx, func(ctx context.Context, tx database.Querier) error {
		result, err := tx.ExecContext(ctx, stmt, args...)

		if err != nil {
			return database.MapError(err)
		}

		affected, err := result.RowsAffected()

		if err != nil {
			return err
		}

		deleted = affected > 0
		return nil
	})

	if err != nil {
		return false, mapUserError(err)
	}

	return deleted, nil
}

func (ur *UserRepository) getByID(ctx context.Context, tx database.Querier, id int64) (domain.User, error) {
	query := ur.db.QueryBuilder.Select(publicColumns...).
		From(usersTable).
		Where(sq.Eq{"id": id}).
		Limit(1)

	var user domain.User

	if err := ur.selectOne(ctx, tx, query, &user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (ur *UserRepository) selectOne(ctx context.Context, tx database.Querier, query sq.SelectBuilder, dest any) error {
	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, stmt, args...)

	if err != nil {
		return database.MapError(err)
	}

	defer rows.Close()

	return database.MapError(ur.scanner.ScanOne(rows, dest))
}

func (ur *UserRepository) selectAll(ctx context.Context, tx database.Querier, query sq.SelectBuilder, dest any) error {
	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, stmt, args...)

	if err != nil {
		return database.MapError(err)
	}

	defer rows.Close()

	return database.MapError(ur.scanner.ScanAll(rows, dest))
}

func mapUserError(err error) error {
	switch {
	case database.IsNotFound(err):
		return fmt.Errorf("%w: %w", domain.ErrUserNotFound, err)
	case database.IsDuplicateKey(err):
		return fmt.Errorf("%w: %w", domain.ErrEmailAlreadyExists, err)
	default:
		return err
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(fragment string) string {
	return likeEscaper.Replace(fragment)
}
