package main

import (
	"fmt"
	"net/http"
	"time"

	"cabops/internal/audit"
	"cabops/internal/export"
	"cabops/internal/response"
	"cabops/internal/tracking"
)

// handleExportTracking streams the full tracking board as CSV or Excel.
// Format is selected with ?format=csv|xlsx (default csv).
func handleExportTracking(w http.ResponseWriter, r *http.Request) {
	query := `SELECT j.job_number, j.client_name, COALESCE(j.ship_schedule,''), COALESCE(tr.id, 0)` +
		jobTrackingColumns() + `
		FROM jobs j
		LEFT JOIN tracking_records tr ON tr.job_id = j.id
		ORDER BY j.job_number`

	dbRows, err := db.Query(query)
	if err != nil {
		response.Err(w, "Failed to query tracking data", 500)
		return
	}
	defer dbRows.Close()

	headers := []string{"Job Number", "Client", "Ship Schedule"}
	for _, c := range tracking.Categories {
		headers = append(headers, c+"_status", c+"_ordered_at", c+"_received_at")
	}

	var rows [][]string
	for dbRows.Next() {
		var jobNumber, clientName, shipSchedule string
		var trackingID int64
		var ts [12]*string
		dest := []interface{}{&jobNumber, &clientName, &shipSchedule, &trackingID}
		for i := range ts {
			dest = append(dest, &ts[i])
		}
		if err := dbRows.Scan(dest...); err != nil {
			response.Err(w, "Failed to scan tracking row", 500)
			return
		}

		row := []string{jobNumber, clientName, shipSchedule}
		for i := range tracking.Categories {
			status := tracking.DeriveStatus(ts[i*3], ts[i*3+1], ts[i*3+2])
			row = append(row, string(status), deref(ts[i*3]), deref(ts[i*3+1]))
		}
		rows = append(rows, row)
	}

	audit.Log(db, wsHub, audit.Operator(r), audit.ActionExport, "", 0,
		fmt.Sprintf("Exported %d jobs", len(rows)))

	filename := fmt.Sprintf("tracking_%s", time.Now().Format("2006-01-02"))
	if r.URL.Query().Get("format") == "xlsx" {
		export.Excel(w, "Tracking", headers, rows)
		return
	}
	export.CSV(w, filename+".csv", headers, rows)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
