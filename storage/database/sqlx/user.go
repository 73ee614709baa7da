package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/virtuex/arbes/core"
	"github.com/virtuex/arbes/core/user"
)

const userCols = `id, name, last_name, username, email, is_active, roles, room_id, password_hash, created_at, updated_at, last_login`

type dbUser struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	LastName     string         `db:"last_name"`
	Username     sql.NullString `db:"username"`
	Email        sql.NullString `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	RoomID       sql.NullString `db:"room_id"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) pack(usr user.User) dbUser {
	return dbUser{
		ID:           usr.ID,
		Name:         usr.Name,
		LastName:     usr.LastName,
		Username:     nullString(usr.Username),
		Email:        nullString(usr.Email),
		IsActive:     usr.IsActive,
		Roles:        usr.Roles,
		RoomID:       nullString(usr.RoomID),
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
		LastLogin:    nullTime(usr.LastLogin),
	}
}

func (repo userRepository) unpack(u dbUser) user.User {
	return user.User{
		ID:           u.ID,
		Name:         u.Name,
		LastName:     u.LastName,
		Username:     u.Username.String,
		Email:        u.Email.String,
		IsActive:     u.IsActive,
		Roles:        u.Roles,
		RoomID:       u.RoomID.String,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		LastLogin:    u.LastLogin.Time,
	}
}

func (repo userRepository) unpackSlice(slice []dbUser) []user.User {
	users := make([]user.User, 0, len(slice))
	for _, u := range slice {
		users = append(users, repo.unpack(u))
	}
	return users
}

func (repo userRepository) getBy(ctx context.Context, clause string, args ...interface{}) (user.User, error) {
	var u dbUser
	q := `SELECT ` + userCols + ` FROM "user" WHERE ` + clause
	if err := repo.db.GetContext(ctx, &u, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	return repo.unpack(u), nil
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	clauses := []string{"FALSE"}
	args := []interface{}{}
	if username != "" {
		args = append(args, username)
		clauses = append(clauses, "username = $1")
	}
	if email != "" {
		args = append(args, email)
		clauses = append(clauses, "email = $"+itoa(len(args)))
	}

	q := `SELECT username, email FROM "user" WHERE (` + strings.Join(clauses, " OR ") + `)`
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		args = append(args, pq.Array(ids))
		q += ` AND NOT (id = ANY($` + itoa(len(args)) + `))`
	}

	var matches []dbUser
	if err := repo.db.SelectContext(ctx, &matches, q, args...); err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	for _, m := range matches {
		if username != "" && m.Username.String == username {
			return user.ErrUsernameExists
		}
		if email != "" && m.Email.String == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	q := `
	INSERT INTO "user" (` + userCols + `)
	VALUES (:id, :name, :last_name, :username, :email, :is_active, :roles, :room_id, :password_hash, :created_at, :updated_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, q, repo.pack(usr)); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var users []dbUser
	q := `SELECT ` + userCols + ` FROM "user" ORDER BY ` + core.DBOrdering{Field: "created_at"}.String()
	if err := repo.db.SelectContext(ctx, &users, q); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return repo.unpackSlice(users), nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return user.User{}, user.ErrNotFound
	}
	return repo.getBy(ctx, "id = $1", id)
}

func (repo userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return repo.getBy(ctx, "username = $1", username)
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getBy(ctx, "email = $1", email)
}

func (repo userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	return repo.getBy(ctx, "username = $1 OR email = $1", username)
}

func (repo userRepository) GetUsersByRoomID(ctx context.Context, roomID string) ([]user.User, error) {
	var users []dbUser
	q := `SELECT ` + userCols + ` FROM "user" WHERE room_id = $1 ORDER BY name ASC`
	if err := repo.db.SelectContext(ctx, &users, q, roomID); err != nil {
		return nil, errors.Wrap(err, "querying room users")
	}
	return repo.unpackSlice(users), nil
}

func (repo userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	var clauses []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := itoa(len(args))
		clauses = append(clauses,
			"(name ILIKE $"+n+" OR last_name ILIKE $"+n+" OR username ILIKE $"+n+" OR email ILIKE $"+n+")")
	}
	// users with any role that starts with any of the provided roles
	if len(filter.Roles) > 0 {
		roleClauses := make([]string, 0, len(filter.Roles))
		for _, role := range filter.Roles {
			args = append(args, role+"%")
			roleClauses = append(roleClauses,
				"EXISTS (SELECT 1 FROM UNNEST(roles) user_role WHERE user_role ILIKE $"+itoa(len(args))+")")
		}
		clauses = append(clauses, "("+strings.Join(roleClauses, " OR ")+")")
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		clauses = append(clauses, "is_active = $"+itoa(len(args)))
	}
	if filter.RoomID != "" {
		args = append(args, filter.RoomID)
		clauses = append(clauses, "room_id = $"+itoa(len(args)))
	}
	if !filter.CreatedFrom.IsZero() {
		args = append(args, filter.CreatedFrom.UTC())
		clauses = append(clauses, "created_at >= $"+itoa(len(args)))
	}
	if !filter.CreatedTo.IsZero() {
		args = append(args, filter.CreatedTo.UTC())
		clauses = append(clauses, "created_at <= $"+itoa(len(args)))
	}

	q := `SELECT ` + userCols + ` FROM "user"`
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	q += " ORDER BY " + core.DBOrdering{Field: "created_at"}.String()

	var users []dbUser
	if err := repo.db.SelectContext(ctx, &users, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return repo.unpackSlice(users), nil
}

// UpdateUser merges the non-zero fields of usr into the stored row.
// isActive and roomID are applied only when non-nil; an empty roomID
// unassigns the user from their room.
func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool, roomID *string) (user.User, error) {
	curr, err := repo.GetUserByID(ctx, usr.ID)
	if err != nil {
		return user.User{}, err
	}

	if usr.Name != "" {
		curr.Name = usr.Name
	}
	if usr.LastName != "" {
		curr.LastName = usr.LastName
	}
	if usr.Username != "" {
		curr.Username = usr.Username
	}
	if usr.Email != "" {
		curr.Email = usr.Email
	}
	if usr.Roles != nil {
		curr.Roles = usr.Roles
	}
	if len(usr.PasswordHash) > 0 {
		curr.PasswordHash = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		curr.LastLogin = usr.LastLogin
	}
	if isActive != nil {
		curr.IsActive = *isActive
	}
	if roomID != nil {
		curr.RoomID = *roomID
	}
	curr.UpdatedAt = usr.UpdatedAt
	if curr.UpdatedAt.IsZero() {
		curr.UpdatedAt = time.Now().UTC()
	}

	q := `
	UPDATE "user"
	SET name = :name, last_name = :last_name, username = :username, email = :email, is_active = :is_active,
	    roles = :roles, room_id = :room_id, password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
	WHERE id = :id`
	if _, err := repo.db.NamedExecContext(ctx, q, repo.pack(curr)); err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return curr, nil
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	q := `DELETE FROM "user" WHERE id = ANY($1)`
	if _, err := repo.db.ExecContext(ctx, q, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
