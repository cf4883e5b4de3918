package reconciliation

import (
	"context"

	"github.com/radhian/bank-reconciliation/entity"
)

func (u *reconciliationUsecase) ListStatements(ctx context.Context, filter entity.StatementFilter, page entity.Pagination) (*entity.StatementPage, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	page = page.Normalize()

	statements, total, err := u.dao.ListBankStatements(filter, page.Offset(), page.PerPage)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(page.PerPage) - 1) / int64(page.PerPage))
	return &entity.StatementPage{
		Statements: statements,
		Total:      total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: totalPages,
	}, nil
}
