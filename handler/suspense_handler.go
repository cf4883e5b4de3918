package handler

import (
	"net/http"

	"github.com/radhian/bank-reconciliation/entity"
)

func (h *ReconciliationHandler) MarkSuspense(w http.ResponseWriter, r *http.Request) {
	var req entity.SuspenseRequest
	if !h.itemRequest(w, r, &req, &req.StatementID, &req.ItemID) {
		return
	}

	item, err := h.Usecase.MarkSuspense(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.success(w, http.StatusOK, item)
}

func (h *ReconciliationHandler) ResolveSuspense(w http.ResponseWriter, r *http.Request) {
	var req entity.ResolveSuspenseRequest
	if !h.itemRequest(w, r, &req, &req.StatementID, &req.ItemID) {
		return
	}

	item, err := h.Usecase.ResolveSuspense(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.success(w, http.StatusOK, item)
}
