package repository

import (
	"context"
	"errors"
	"time"

	"tillpoint/internal/model"
	"tillpoint/internal/store"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, includeInactive bool) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
	SoftDelete(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error
}

type userRepo struct{ state *store.State }

func NewUserRepository(state *store.State) UserRepository {
	return &userRepo{state: state}
}

func (r *userRepo) Create(_ context.Context, u *model.User) error {
	var err error
	r.state.Update(func(d *store.Data) []string {
		for i := range d.Users {
			if d.Users[i].Username == u.Username {
				err = ErrDuplicateUsername
				return nil
			}
		}
		u.CreatedAt = time.Now()
		d.Users = append(d.Users, *u)
		return []string{store.KeyUsers}
	})
	return err
}

func (r *userRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username })
}

func (r *userRepo) find(match func(u *model.User) bool) (*model.User, error) {
	var found *model.User
	r.state.View(func(d *store.Data) {
		for i := range d.Users {
			if match(&d.Users[i]) {
				cp := d.Users[i]
				found = &cp
				return
			}
		}
	})
	if found == nil {
		return nil, ErrUserNotFound
	}
	return found, nil
}

func (r *userRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	r.state.View(func(d *store.Data) {
		for _, u := range d.Users {
			if !includeInactive && !u.Active {
				continue
			}
			out = append(out, u)
		}
	})
	return out, nil
}

func (r *userRepo) Update(_ context.Context, u *model.User) error {
	err := ErrUserNotFound
	r.state.Update(func(d *store.Data) []string {
		for i := range d.Users {
			if d.Users[i].ID == u.ID {
				u.CreatedAt = d.Users[i].CreatedAt
				d.Users[i] = *u
				err = nil
				return []string{store.KeyUsers}
			}
		}
		return nil
	})
	return err
}

func (r *userRepo) RecordLogin(_ context.Context, id string, at time.Time) error {
	err := ErrUserNotFound
	r.state.Update(func(d *store.Data) []string {
		for i := range d.Users {
			if d.Users[i].ID == id {
				t := at
				d.Users[i].LastLogin = &t
				err = nil
				return []string{store.KeyUsers}
			}
		}
		return nil
	})
	return err
}

func (r *userRepo) SoftDelete(_ context.Context, id string) error {
	return r.setActive(id, false)
}

func (r *userRepo) Reactivate(_ context.Context, id string) error {
	return r.setActive(id, true)
}

func (r *userRepo) setActive(id string, active bool) error {
	err := ErrUserNotFound
	r.state.Update(func(d *store.Data) []string {
		for i := range d.Users {
			if d.Users[i].ID == id {
				d.Users[i].Active = active
				err = nil
				return []string{store.KeyUsers}
			}
		}
		return nil
	})
	return err
}
