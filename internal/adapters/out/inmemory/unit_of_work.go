package inmemory

import (
	"context"

	"orders/internal/core/ports"
)

// UnitOfWorkFactory hands out units of work bound to one shared repository.
type UnitOfWorkFactory struct {
	repo *OrderRepository
}

func NewUnitOfWorkFactory(repo *OrderRepository) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{repo: repo}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{repo: f.repo}
}

// UnitOfWork has no transaction: every repository call is applied immediately
// and atomically, and Rollback has nothing to undo.
type UnitOfWork struct {
	repo *OrderRepository
}

func (u *UnitOfWork) Begin(_ context.Context) error    { return nil }
func (u *UnitOfWork) Commit(_ context.Context) error   { return nil }
func (u *UnitOfWork) Rollback(_ context.Context) error { return nil }

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return u.repo
}
