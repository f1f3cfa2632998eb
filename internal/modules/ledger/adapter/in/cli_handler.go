package in

import (
	"context"

	"moneywatch/internal/modules/ledger/dto"
	ledgerin "moneywatch/internal/modules/ledger/port/in"
)

type CLIHandler struct {
	usecase ledgerin.Usecase
}

func NewCLIHandler(usecase ledgerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) QuickAdd(ctx context.Context, title, category, platform string) (dto.RecordOutput, error) {
	return h.usecase.QuickAdd(ctx, dto.QuickAddInput{Title: title, Category: category, Platform: platform})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.RecordOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Export(ctx context.Context, format string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{Format: format})
}
