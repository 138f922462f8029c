package unitofwork

import (
	"context"

	"rainier-guide-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ParkPassageRepository() contract.ParkPassageRepository
}
