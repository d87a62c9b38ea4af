package memory

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	db access
}

// NewUserRepository construye el repositorio sobre el store.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{db: store}
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.db.write(func(s *state) error {
		for _, u := range s.users {
			if u.Username == user.Username {
				return domain.Conflict("user '%s' already exists", user.Username)
			}
		}
		s.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.db.read(func(s *state) error {
		for _, u := range s.users {
			if u.Username == username {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}
