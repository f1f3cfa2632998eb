package dto

import "moneywatch/internal/modules/ledger/domain"

type CategoryOption struct {
	Value string
	Label string
}

// CategoryOptions lists the selectable categories in display order.
func CategoryOptions() []CategoryOption {
	cats := domain.Categories()
	out := make([]CategoryOption, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryOption{Value: string(c), Label: c.Label()})
	}
	return out
}
