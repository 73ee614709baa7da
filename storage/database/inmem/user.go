// Package inmemrepos implements the repositories in process memory; test use only.
package inmemrepos

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/virtuex/arbes/core/user"
)

type userRepository struct {
	mu sync.RWMutex
	t  map[string]user.User
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository() *userRepository {
	return &userRepository{t: make(map[string]user.User)}
}

// Reset empties the store; lets tests start from a clean slate.
func (repo *userRepository) Reset() {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.t = make(map[string]user.User)
}

func (repo *userRepository) query() []user.User {
	res := make([]user.User, 0, len(repo.t))
	for _, u := range repo.t {
		res = append(res, u)
	}
	return res
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	excluded := make(map[string]bool, len(excludedUsers))
	for _, u := range excludedUsers {
		excluded[u.ID] = true
	}
	for _, usr := range repo.t {
		if excluded[usr.ID] {
			continue
		}
		if username != "" && usr.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	usr.ID = uuid.New().String()
	repo.t[usr.ID] = usr
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.query(), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if usr, ok := repo.t[id]; ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, usr := range repo.t {
		if usr.Username == username {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, usr := range repo.t {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, usr := range repo.t {
		if (usr.Username == username) || (usr.Email == username) {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUsersByRoomID(ctx context.Context, roomID string) ([]user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var res []user.User
	for _, usr := range repo.t {
		if usr.RoomID == roomID {
			res = append(res, usr)
		}
	}
	return res, nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var res []user.User
	for _, usr := range repo.t {
		if repo.matches(usr, filter) {
			res = append(res, usr)
		}
	}
	return res, nil
}

func (repo *userRepository) matches(usr user.User, filter user.QueryFilter) bool {
	if filter.Search != "" {
		kw := strings.ToLower(filter.Search)
		if !(strings.Contains(strings.ToLower(usr.Name), kw) ||
			strings.Contains(strings.ToLower(usr.LastName), kw) ||
			strings.Contains(strings.ToLower(usr.Username), kw) ||
			strings.Contains(strings.ToLower(usr.Email), kw)) {
			return false
		}
	}
	if len(filter.Roles) > 0 {
		var found bool
		for _, prefix := range filter.Roles {
			if usr.RoleStartsWith(prefix) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.IsActive != nil && usr.IsActive != *filter.IsActive {
		return false
	}
	if filter.RoomID != "" && usr.RoomID != filter.RoomID {
		return false
	}
	if !filter.CreatedFrom.IsZero() && usr.CreatedAt.Before(filter.CreatedFrom) {
		return false
	}
	if !filter.CreatedTo.IsZero() && usr.CreatedAt.After(filter.CreatedTo) {
		return false
	}
	return true
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool, roomID *string) (user.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	curr, ok := repo.t[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
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
	repo.t[curr.ID] = curr
	return curr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, id := range ids {
		delete(repo.t, id)
	}
	return nil
}
