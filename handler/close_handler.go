package handler

import (
	"net/http"

	"github.com/radhian/bank-reconciliation/entity"
)

func (h *ReconciliationHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	var req entity.CloseRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, r, err, nil)
		return
	}
	req.StatementID = id

	result, err := h.Usecase.Close(r.Context(), req)
	if err != nil {
		// A refused close still reports the blocking items.
		h.fail(w, r, err, result)
		return
	}
	h.success(w, http.StatusOK, result)
}
