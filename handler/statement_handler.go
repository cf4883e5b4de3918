package handler

import (
	"net/http"

	"github.com/radhian/bank-reconciliation/entity"
)

func (h *ReconciliationHandler) ImportStatement(w http.ResponseWriter, r *http.Request) {
	var req entity.ImportStatementRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, r, err, nil)
		return
	}

	statement, err := h.Usecase.ImportStatement(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.success(w, http.StatusCreated, statement)
}

func (h *ReconciliationHandler) ListStatements(w http.ResponseWriter, r *http.Request) {
	accountID, err := queryInt64(r, "account_id")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	page, err := queryInt(r, "page")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	perPage, err := queryInt(r, "per_page")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}

	filter := entity.StatementFilter{
		BankAccountID: accountID,
		State:         r.URL.Query().Get("state"),
	}
	result, err := h.Usecase.ListStatements(r.Context(), filter, entity.Pagination{Page: page, PerPage: perPage})
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.success(w, http.StatusOK, result)
}

func (h *ReconciliationHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}

	statement, err := h.Usecase.GetStatement(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.success(w, http.StatusOK, statement)
}

func (h *ReconciliationHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}

	summary, err := h.Usecase.GetSummary(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.success(w, http.StatusOK, summary)
}

func (h *ReconciliationHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}

	history, err := h.Usecase.GetStatementHistory(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.success(w, http.StatusOK, history)
}
