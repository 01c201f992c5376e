package inmemory

import (
	"context"
	"sync"

	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/repo"
)

type Directory struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

func NewDirectory() *Directory {
	return &Directory{users: make(map[string]*entity.User)}
}

var _ repo.UserDirectory = (*Directory)(nil)

func (d *Directory) AddUser(userName string, roles ...entity.Role) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[userName] = &entity.User{UserName: userName, Roles: roles}
}

func (d *Directory) RemoveUser(userName string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.users, userName)
}

func (d *Directory) FindUserByName(ctx context.Context, userName string) (*entity.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[userName]
	if !ok {
		return nil, entity.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (d *Directory) FindUsersByNames(ctx context.Context, userNames []string) (map[string]*entity.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	result := make(map[string]*entity.User, len(userNames))
	for _, name := range userNames {
		if u, ok := d.users[name]; ok {
			out := *u
			result[name] = &out
		}
	}
	return result, nil
}
