package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"cabops/internal/response"
	"cabops/internal/tracking"
	"cabops/internal/websocket"
)

var companyName string

// Global hub and engine instances, wired in main and shared by handlers.
var wsHub = websocket.NewHub()
var engine *tracking.Engine

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal("Config load failed:", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	companyName = cfg.CompanyName
	if v := os.Getenv("CABOPS_COMPANY_NAME"); v != "" {
		companyName = v
	}

	if err := initDB(cfg.DBPath); err != nil {
		log.Fatal("DB init failed:", err)
	}
	seedDB()
	engine = tracking.NewEngine(db)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.Handle(wsHub, w, r)
	})
	mux.Handle("/api/v1/", logging(http.HandlerFunc(routeAPI)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("cabops tracking server starting on http://localhost%s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

// routeAPI dispatches /api/v1/ requests on path segments, in the style of a
// simple table router.
func routeAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/")
	path = strings.TrimSuffix(path, "/")
	parts := strings.Split(path, "/")

	switch {
	// Jobs (read-only registry view)
	case parts[0] == "jobs" && len(parts) == 1 && r.Method == "GET":
		handleListJobs(w, r)
	case parts[0] == "jobs" && len(parts) == 2 && r.Method == "GET":
		handleGetJob(w, r, parts[1])

	// Tracking
	case parts[0] == "tracking" && len(parts) == 2 && parts[1] == "export" && r.Method == "GET":
		handleExportTracking(w, r)
	case parts[0] == "tracking" && len(parts) == 2 && r.Method == "GET":
		handleGetTracking(w, r, parts[1])
	case parts[0] == "tracking" && len(parts) == 4 && parts[2] == "items" && r.Method == "GET":
		handleGetItems(w, r, parts[1], parts[3])
	case parts[0] == "tracking" && len(parts) == 4 && parts[2] == "order" && r.Method == "PUT":
		handlePlaceOrder(w, r, parts[1], parts[3])
	case parts[0] == "tracking" && len(parts) == 4 && parts[2] == "receive" && r.Method == "POST":
		handleMarkReceived(w, r, parts[1], parts[3])
	case parts[0] == "tracking" && len(parts) == 4 && parts[2] == "reconcile" && r.Method == "POST":
		handleReconcile(w, r, parts[1], parts[3])
	case parts[0] == "tracking" && len(parts) == 4 && parts[2] == "clear" && r.Method == "POST":
		handleClear(w, r, parts[1], parts[3])
	case parts[0] == "tracking" && len(parts) == 3 && parts[2] == "journal" && r.Method == "PUT":
		handleOverwriteJournal(w, r, parts[1])

	// Audit
	case parts[0] == "audit" && len(parts) == 1 && r.Method == "GET":
		handleAuditLog(w, r)

	// Config
	case parts[0] == "config" && len(parts) == 1 && r.Method == "GET":
		response.JSON(w, map[string]string{"company_name": companyName})

	default:
		response.Err(w, "not found", 404)
	}
}

// parseID parses a numeric path segment.
func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}
