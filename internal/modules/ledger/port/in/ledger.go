package in

import (
	"context"

	"moneywatch/internal/modules/ledger/dto"
)

type Usecase interface {
	Append(ctx context.Context, input dto.AppendInput) (dto.RecordOutput, error)
	// AppendWithin appends the record and runs apply; if apply fails the
	// record is withdrawn and the error returned.
	AppendWithin(ctx context.Context, input dto.AppendInput, apply func(context.Context) error) (dto.RecordOutput, error)
	QuickAdd(ctx context.Context, input dto.QuickAddInput) (dto.RecordOutput, error)
	List(ctx context.Context) ([]dto.RecordOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
