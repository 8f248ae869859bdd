package quiz

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"capquiz-backend/services/update"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/quiz")

// Service exposes the persisted snapshot to the quiz front end and a
// manual trigger for the update pipeline. it never holds quiz data in
// memory, every request reads the artifact off disk so a finished run
// is visible immediately.
type Service struct {
	dataPath string
	logPath  string
	updater  *update.Service

	// serializes manual runs, the pipeline itself does not guard
	// against overlapping invocations
	runLock sync.Mutex
}

func NewService(dataPath, logPath string, updater *update.Service) *Service {
	return &Service{
		dataPath: dataPath,
		logPath:  logPath,
		updater:  updater,
	}
}

func (s *Service) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/quiz-data", s.handleQuizData).Methods(http.MethodGet)
	r.HandleFunc("/api/trigger-update", s.handleTriggerUpdate).Methods(http.MethodPost)
	r.HandleFunc("/api/update-status", s.handleUpdateStatus).Methods(http.MethodGet)
	return r
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func (s *Service) handleQuizData(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleQuizData")
	defer span.End()

	contents, err := os.ReadFile(s.dataPath)
	if os.IsNotExist(err) {
		writeJson(w, http.StatusNotFound, map[string]string{
			"error": "Quiz data not found. Please run an update first.",
		})
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to read snapshot", "err", err)
		writeJson(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to read quiz data",
		})
		return
	}

	var snapshot update.Snapshot
	err = json.Unmarshal(contents, &snapshot)
	if err != nil {
		slog.ErrorContext(ctx, "snapshot on disk is corrupt", "err", err)
		writeJson(w, http.StatusInternalServerError, map[string]string{
			"error": "quiz data is corrupt",
		})
		return
	}

	writeJson(w, http.StatusOK, snapshot)
}

func (s *Service) handleTriggerUpdate(w http.ResponseWriter, r *http.Request) {
	slog.Info("manual update triggered via API")

	writeJson(w, http.StatusOK, map[string]string{
		"status":  "started",
		"message": "Update started. Check server logs for progress.",
	})

	// runs after the response, the caller polls the status endpoint
	go func() {
		s.runLock.Lock()
		defer s.runLock.Unlock()

		_, err := s.updater.RunUpdate(context.Background())
		if err != nil {
			slog.Error("manual update failed", "err", err)
		}
	}()
}

func (s *Service) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	contents, err := os.ReadFile(s.logPath)
	if os.IsNotExist(err) {
		writeJson(w, http.StatusOK, map[string]string{
			"status":  "no_logs",
			"message": "No update logs found",
		})
		return
	}
	if err != nil {
		writeJson(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to read update log",
		})
		return
	}

	lines := strings.Split(string(contents), "\n")
	if len(lines) > 50 {
		lines = lines[len(lines)-50:]
	}

	writeJson(w, http.StatusOK, map[string]string{
		"status": "success",
		"logs":   strings.Join(lines, "\n"),
	})
}
