package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/labstack/gommon/log"
	"github.com/radhian/bank-reconciliation/entity"
	"github.com/radhian/bank-reconciliation/middlewares"
	usecase "github.com/radhian/bank-reconciliation/usecase/reconciliation"
	"github.com/unrolled/render"
)

type ReconciliationHandler struct {
	Usecase usecase.ReconciliationUsecase
	render  *render.Render
}

func NewReconciliationHandler(uc usecase.ReconciliationUsecase) *ReconciliationHandler {
	return &ReconciliationHandler{
		Usecase: uc,
		render:  render.New(),
	}
}

type APIResponse struct {
	Status  string      `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func (h *ReconciliationHandler) success(w http.ResponseWriter, status int, data interface{}) {
	h.render.JSON(w, status, APIResponse{
		Status: "success",
		Data:   data,
	})
}

// fail writes err with the status its kind maps to. data is attached for
// business-rule failures that still carry a result.
func (h *ReconciliationHandler) fail(w http.ResponseWriter, r *http.Request, err error, data interface{}) {
	resp := APIResponse{Status: "error", Data: data}

	var domainErr *entity.Error
	if errors.As(err, &domainErr) {
		resp.Code = domainErr.Code
		resp.Message = domainErr.Message
		resp.Detail = domainErr.Detail
	} else {
		log.Errorf("[Handler] %s %s request_id=%s: %v", r.Method, r.URL.Path, middlewares.RequestID(r.Context()), err)
		resp.Message = "internal server error"
	}

	h.render.JSON(w, statusOf(err), resp)
}

func statusOf(err error) int {
	switch entity.KindOf(err) {
	case entity.KindValidation:
		return http.StatusBadRequest
	case entity.KindNotFound:
		return http.StatusNotFound
	case entity.KindConflict:
		return http.StatusConflict
	case entity.KindBusinessRule:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// decodeJSON rejects unknown fields. An empty body is accepted when optional.
func decodeJSON(r *http.Request, v interface{}, optional bool) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return entity.Invalid("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, entity.Invalid("%s must be a positive integer", name)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, entity.Invalid("%s must be an integer", name)
	}
	return v, nil
}

func queryInt64(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, entity.Invalid("%s must be an integer", name)
	}
	return v, nil
}
