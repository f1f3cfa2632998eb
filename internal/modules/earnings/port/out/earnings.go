package out

import (
	"context"

	"moneywatch/internal/modules/earnings/domain"
)

type StateStore interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
}
