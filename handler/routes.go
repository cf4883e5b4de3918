package handler

import (
	"github.com/gorilla/mux"
	"github.com/radhian/bank-reconciliation/middlewares"
)

func RegisterReconciliationRoutes(router *mux.Router, h *ReconciliationHandler) {
	router.Use(middlewares.RecoverMiddleware)
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.LoggingMiddleware)
	router.Use(middlewares.SetContentTypeMiddleware)

	router.HandleFunc("/statements", h.ImportStatement).Methods("POST")
	router.HandleFunc("/statements", h.ListStatements).Methods("GET")
	router.HandleFunc("/statements/{id}", h.GetStatement).Methods("GET")
	router.HandleFunc("/statements/{id}/summary", h.GetSummary).Methods("GET")
	router.HandleFunc("/statements/{id}/history", h.GetHistory).Methods("GET")
	router.HandleFunc("/statements/{id}/auto_match", h.AutoMatch).Methods("POST")
	router.HandleFunc("/statements/{id}/close", h.Close).Methods("POST")

	router.HandleFunc("/statements/{id}/items/{item_id}/match", h.Match).Methods("POST")
	router.HandleFunc("/statements/{id}/items/{item_id}/unmatch", h.Unmatch).Methods("POST")
	router.HandleFunc("/statements/{id}/items/{item_id}/suspense", h.MarkSuspense).Methods("POST")
	router.HandleFunc("/statements/{id}/items/{item_id}/suspense/resolve", h.ResolveSuspense).Methods("POST")

	router.HandleFunc("/accounts/{account_id}/suggestions", h.Suggest).Methods("GET")
	router.HandleFunc("/accounts/{account_id}/unmatched_movements", h.UnmatchedMovements).Methods("GET")
}
