package user

import "sync"

type Repository interface {
	GetUser(id string) (User, bool)
	CreateUser(user User) (User, error)
	UpdateUser(user User) error
}

type inMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

func newInMemoryRepository() *inMemoryRepository {
	return &inMemoryRepository{users: make(map[string]User)}
}

func (ur *inMemoryRepository) GetUser(id string) (User, bool) {
	ur.mu.RLock()
	defer ur.mu.RUnlock()
	u, ok := ur.users[id]
	return u, ok
}

func (ur *inMemoryRepository) CreateUser(user User) (User, error) {
	ur.mu.Lock()
	defer ur.mu.Unlock()
	ur.users[user.ID] = user
	return user, nil
}

func (ur *inMemoryRepository) UpdateUser(user User) error {
	ur.mu.Lock()
	defer ur.mu.Unlock()
	ur.users[user.ID] = user
	return nil
}
