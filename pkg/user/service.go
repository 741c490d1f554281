package user

import "github.com/pkg/errors"

type Service struct {
	repo Repository
}

func NewService() Service {
	return Service{repo: newInMemoryRepository()}
}

func (us Service) GetUser(id string) (User, bool) {
	return us.repo.GetUser(id)
}

func (us Service) CreateUser(user User) (User, error) {
	return us.repo.CreateUser(user)
}

func (us Service) UpdateUser(user User) error {
	return us.repo.UpdateUser(user)
}

// Upsert creates the user on first login and refreshes its properties on
// subsequent ones.
func (us Service) Upsert(user User) (User, error) {
	existing, ok := us.repo.GetUser(user.ID)
	if !ok {
		created, err := us.repo.CreateUser(user)
		if err != nil {
			return created, errors.Wrap(err, "error creating user")
		}
		return created, nil
	}
	existing.Properties = user.Properties
	if err := us.repo.UpdateUser(existing); err != nil {
		return existing, errors.Wrap(err, "error updating user")
	}
	return existing, nil
}
