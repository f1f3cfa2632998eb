package in

import (
	"context"

	"moneywatch/internal/modules/session/dto"
	sessionin "moneywatch/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, title string) (dto.StartOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{Title: title})
}

func (h CLIHandler) Stop(ctx context.Context) (dto.StopOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) GetActive(ctx context.Context) (dto.ActiveSessionOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) Close() error {
	return h.usecase.Close()
}
