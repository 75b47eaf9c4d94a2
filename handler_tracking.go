package main

import (
	"errors"
	"fmt"
	"net/http"

	"cabops/internal/audit"
	"cabops/internal/models"
	"cabops/internal/response"
	"cabops/internal/tracking"
	"cabops/internal/validation"
)

// writeEngineErr maps engine sentinel errors to HTTP status codes.
func writeEngineErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracking.ErrNotFound):
		response.Err(w, err.Error(), 404)
	case errors.Is(err, tracking.ErrInvalidInput), errors.Is(err, tracking.ErrInvalidTransition):
		response.Err(w, err.Error(), 400)
	default:
		response.Err(w, "Operation failed", 500)
	}
}

func handleGetTracking(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := parseID(idStr)
	if !ok {
		response.Err(w, "Invalid tracking record ID", 400)
		return
	}
	rec, err := engine.GetRecord(id)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	response.JSON(w, rec)
}

func handleGetItems(w http.ResponseWriter, r *http.Request, idStr, category string) {
	id, ok := parseID(idStr)
	if !ok {
		response.Err(w, "Invalid tracking record ID", 400)
		return
	}
	items, err := engine.GetItems(id, category)
	if err != nil {
		writeEngineErr(w, err)
		return
	}
	response.JSON(w, items)
}

func handlePlaceOrder(w http.ResponseWriter, r *http.Request, idStr, category string) {
	id, ok := parseID(idStr)
	if !ok {
		response.Err(w, "Invalid tracking record ID", 400)
		return
	}
	var body struct {
		Items []models.LineItem `json:"items"`
	}
	if err := response.DecodeBody(r, &body); err != nil {
		response.Err(w, "Invalid request body", 400)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.ValidateEnum(ve, "category", category, tracking.Categories)
	for i, it := range body.Items {
		validation.ValidatePositiveInt(ve, fmt.Sprintf("items[%d].quantity", i), it.Quantity)
		validation.ValidateNonNegativeInt(ve, fmt.Sprintf("items[%d].quantity_received", i), it.QuantityReceived)
	}
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	status, err := engine.PlaceOrEditOrder(id, category, body.Items)
	if err != nil {
		writeEngineErr(w, err)
		return
	}

	audit.Log(db, wsHub, audit.Operator(r), audit.ActionOrder, category, id,
		fmt.Sprintf("Order saved with %d items", len(body.Items)))
	wsHub.BroadcastStatus(id, category, string(status))
	response.JSON(w, map[string]string{"status": string(status)})
}

func handleMarkReceived(w http.ResponseWriter, r *http.Request, idStr, category string) {
	id, ok := parseID(idStr)
	if !ok {
		response.Err(w, "Invalid tracking record ID", 400)
		return
	}
	status, err := engine.MarkFullyReceived(id, category)
	if err != nil {
		writeEngineErr(w, err)
		return
	}

	audit.Log(db, wsHub, audit.Operator(r), audit.ActionReceive, category, id, "Marked fully received")
	wsHub.BroadcastStatus(id, category, string(status))
	response.JSON(w, map[string]string{"status": string(status)})
}

func handleReconcile(w http.ResponseWriter, r *http.Request, idStr, category string) {
	id, ok := parseID(idStr)
	if !ok {
		response.Err(w, "Invalid tracking record ID", 400)
		return
	}
	var body struct {
		Updates []tracking.ItemUpdate `json:"updates"`
		Note    string                `json:"note"`
	}
	if err := response.DecodeBody(r, &body); err != nil {
		response.Err(w, "Invalid request body", 400)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.ValidateEnum(ve, "category", category, tracking.Categories)
	for i, u := range body.Updates {
		validation.ValidateNonNegativeInt(ve, fmt.Sprintf("updates[%d].quantity_received", i), u.QuantityReceived)
	}
	if ve.HasErrors() {
		response.Err(w, ve.Error(), 400)
		return
	}

	status, err := engine.ReconcilePartialReceipt(id, category, body.Updates, body.Note)
	if err != nil {
		writeEngineErr(w, err)
		return
	}

	audit.Log(db, wsHub, audit.Operator(r), audit.ActionReconcile, category, id,
		fmt.Sprintf("Reconciled %d items", len(body.Updates)))
	wsHub.BroadcastStatus(id, category, string(status))
	response.JSON(w, map[string]string{"status": string(status)})
}

func handleClear(w http.ResponseWriter, r *http.Request, idStr, category string) {
	id, ok := parseID(idStr)
	if !ok {
		response.Err(w, "Invalid tracking record ID", 400)
		return
	}
	status, err := engine.Clear(id, category)
	if err != nil {
		writeEngineErr(w, err)
		return
	}

	audit.Log(db, wsHub, audit.Operator(r), audit.ActionClear, category, id, "Status cleared")
	wsHub.BroadcastStatus(id, category, string(status))
	response.JSON(w, map[string]string{"status": string(status)})
}

func handleOverwriteJournal(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := parseID(idStr)
	if !ok {
		response.Err(w, "Invalid tracking record ID", 400)
		return
	}
	var body struct {
		Comments string `json:"comments"`
	}
	if err := response.DecodeBody(r, &body); err != nil {
		response.Err(w, "Invalid request body", 400)
		return
	}

	if err := engine.OverwriteJournal(id, body.Comments); err != nil {
		writeEngineErr(w, err)
		return
	}

	audit.Log(db, wsHub, audit.Operator(r), audit.ActionJournalOverwrite, "", id, "Journal overwritten")
	wsHub.BroadcastJournal(id)
	response.JSON(w, map[string]string{"status": "ok"})
}

func handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := 100
	category := r.URL.Query().Get("category")
	if category != "" && !tracking.ValidCategory(category) {
		response.Err(w, "Invalid category", 400)
		return
	}
	entries, err := audit.Recent(db, category, limit)
	if err != nil {
		response.Err(w, "Failed to query audit log", 500)
		return
	}
	response.JSONMeta(w, entries, len(entries), 1, limit)
}
