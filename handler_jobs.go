package main

import (
	"database/sql"
	"fmt"
	"net/http"

	"cabops/internal/database"
	"cabops/internal/models"
	"cabops/internal/response"
	"cabops/internal/tracking"
)

// jobTrackingColumns is the per-category timestamp column list appended to
// job queries so derived statuses can be computed in one pass.
func jobTrackingColumns() string {
	cols := ""
	for _, c := range tracking.Categories {
		cols += fmt.Sprintf(", tr.%[1]s_ordered_at, tr.%[1]s_received_at, tr.%[1]s_received_incomplete_at", c)
	}
	return cols
}

func scanJobTracking(rows interface {
	Scan(dest ...interface{}) error
}) (models.JobTracking, error) {
	var jt models.JobTracking
	var trackingID sql.NullInt64
	var ship sql.NullString
	var ts [12]sql.NullString

	dest := []interface{}{&jt.ID, &jt.JobNumber, &jt.ClientName, &ship, &jt.CreatedAt, &trackingID}
	for i := range ts {
		dest = append(dest, &ts[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return jt, err
	}

	jt.ShipSchedule = ship.String
	if trackingID.Valid {
		jt.TrackingID = trackingID.Int64
	}
	jt.Statuses = make(map[string]string, len(tracking.Categories))
	for i, c := range tracking.Categories {
		ordered := database.SP(ts[i*3])
		received := database.SP(ts[i*3+1])
		incomplete := database.SP(ts[i*3+2])
		jt.Statuses[c] = string(tracking.DeriveStatus(ordered, received, incomplete))
	}
	return jt, nil
}

func handleListJobs(w http.ResponseWriter, r *http.Request) {
	query := `SELECT j.id, j.job_number, j.client_name, j.ship_schedule, j.created_at, tr.id` +
		jobTrackingColumns() + `
		FROM jobs j
		LEFT JOIN tracking_records tr ON tr.job_id = j.id
		ORDER BY j.job_number`

	rows, err := db.Query(query)
	if err != nil {
		response.Err(w, "Failed to query jobs", 500)
		return
	}
	defer rows.Close()

	jobs := []models.JobTracking{}
	for rows.Next() {
		jt, err := scanJobTracking(rows)
		if err != nil {
			response.Err(w, "Failed to scan job", 500)
			return
		}
		jobs = append(jobs, jt)
	}
	response.JSONMeta(w, jobs, len(jobs), 1, len(jobs))
}

func handleGetJob(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := parseID(idStr)
	if !ok {
		response.Err(w, "Invalid job ID", 400)
		return
	}

	query := `SELECT j.id, j.job_number, j.client_name, j.ship_schedule, j.created_at, tr.id` +
		jobTrackingColumns() + `
		FROM jobs j
		LEFT JOIN tracking_records tr ON tr.job_id = j.id
		WHERE j.id = ?`

	jt, err := scanJobTracking(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		response.Err(w, "Job not found", 404)
		return
	}
	if err != nil {
		response.Err(w, "Failed to query job", 500)
		return
	}
	response.JSON(w, jt)
}
