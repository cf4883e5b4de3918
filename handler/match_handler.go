package handler

import (
	"net/http"

	"github.com/radhian/bank-reconciliation/entity"
)

type autoMatchRequest struct {
	Operator string `json:"operator"`
}

func (h *ReconciliationHandler) AutoMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	var req autoMatchRequest
	if err := decodeJSON(r, &req, true); err != nil {
		h.fail(w, r, err, nil)
		return
	}

	result, err := h.Usecase.AutoMatch(r.Context(), id, req.Operator)
	if err != nil {
		h.fail(w, r, err, result)
		return
	}
	h.success(w, http.StatusOK, result)
}

func (h *ReconciliationHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "account_id")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	statementID, err := queryInt64(r, "statement_id")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}

	candidates, err := h.Usecase.Suggest(r.Context(), entity.SuggestRequest{
		BankAccountID: accountID,
		StatementID:   statementID,
		Limit:         limit,
	})
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.success(w, http.StatusOK, candidates)
}

func (h *ReconciliationHandler) UnmatchedMovements(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "account_id")
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	query := r.URL.Query()
	filter, err := entity.ParseMovementFilter(query.Get("from"), query.Get("to"), query.Get("kind"))
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}

	movements, err := h.Usecase.UnmatchedMovements(r.Context(), accountID, filter)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.success(w, http.StatusOK, movements)
}

func (h *ReconciliationHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req entity.MatchRequest
	if !h.itemRequest(w, r, &req, &req.StatementID, &req.ItemID) {
		return
	}

	item, err := h.Usecase.Match(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.success(w, http.StatusOK, item)
}

func (h *ReconciliationHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	var req entity.UnmatchRequest
	if !h.itemRequest(w, r, &req, &req.StatementID, &req.ItemID) {
		return
	}

	item, err := h.Usecase.Unmatch(r.Context(), req)
	if err != nil {
		h.fail(w, r, err, nil)
		return
	}
	h.success(w, http.StatusOK, item)
}

// itemRequest decodes the body into req and fills the statement and item ids
// from the path. It writes the error response itself and reports success.
func (h *ReconciliationHandler) itemRequest(w http.ResponseWriter, r *http.Request, req interface{}, statementID, itemID *int64) bool {
	var err error
	if *statementID, err = pathID(r, "id"); err != nil {
		h.fail(w, r, err, nil)
		return false
	}
	if *itemID, err = pathID(r, "item_id"); err != nil {
		h.fail(w, r, err, nil)
		return false
	}
	if err = decodeJSON(r, req, false); err != nil {
		h.fail(w, r, err, nil)
		return false
	}
	return true
}
