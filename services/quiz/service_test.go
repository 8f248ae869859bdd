package quiz

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"capquiz-backend/lib/scrapers/marketcap"
	"capquiz-backend/lib/validators/yahoo"
	"capquiz-backend/services/update"

	"github.com/stretchr/testify/require"
)

func newTestQuiz(t *testing.T, sourceUrl string) (*Service, string, string) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data", "quiz-data.json")
	logPath := filepath.Join(dir, "logs", "update.log")

	updater := update.NewService(
		marketcap.NewClient(marketcap.ClientOptions{BaseUrl: sourceUrl}),
		yahoo.NewClient(yahoo.ClientOptions{}),
		update.Config{DataPath: dataPath, LogPath: logPath},
	)
	return NewService(dataPath, logPath, updater), dataPath, logPath
}

func writeSnapshot(t *testing.T, dataPath string, snapshot update.Snapshot) {
	require.NoError(t, os.MkdirAll(filepath.Dir(dataPath), 0755))
	contents, err := json.Marshal(snapshot)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dataPath, contents, 0644))
}

func TestQuizDataMissing(t *testing.T) {
	service, _, _ := newTestQuiz(t, "")

	rec := httptest.NewRecorder()
	service.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quiz-data", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body["error"], "Quiz data not found")
}

func TestQuizData(t *testing.T) {
	service, dataPath, _ := newTestQuiz(t, "")
	writeSnapshot(t, dataPath, update.Snapshot{
		Companies: []marketcap.Company{
			{Rank: 1, Name: "NVIDIA", Ticker: "NVDA", MarketCap: 3.456e12, Exchange: "NYSE/NASDAQ"},
		},
		LastUpdated:    "2026-08-30T12:00:00Z",
		TotalCompanies: 1,
		Source:         marketcap.Source,
		UpdateDuration: 1.23,
	})

	rec := httptest.NewRecorder()
	service.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quiz-data", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot update.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	require.Len(t, snapshot.Companies, 1)
	require.Equal(t, "NVIDIA", snapshot.Companies[0].Name)
	require.Equal(t, "2026-08-30T12:00:00Z", snapshot.LastUpdated)
}

func TestQuizDataCorrupt(t *testing.T) {
	service, dataPath, _ := newTestQuiz(t, "")
	require.NoError(t, os.MkdirAll(filepath.Dir(dataPath), 0755))
	require.NoError(t, os.WriteFile(dataPath, []byte("{not json"), 0644))

	rec := httptest.NewRecorder()
	service.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/quiz-data", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTriggerUpdate(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table><tbody><tr>
			<td></td>
			<td class="rank-td">1</td>
			<td class="name-td"><div class="company-name">NVIDIA</div><div class="company-code">NVDA</div></td>
			<td data-sort="3456000000000">$3.456 T</td>
			<td>USA</td>
		</tr></tbody></table></body></html>`)
	}))
	defer source.Close()

	service, dataPath, _ := newTestQuiz(t, source.URL)

	rec := httptest.NewRecorder()
	service.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/trigger-update", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "started", body["status"])

	// the update runs in the background after the response
	require.Eventually(t, func() bool {
		_, err := os.Stat(dataPath)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)
}

func TestUpdateStatus(t *testing.T) {
	service, _, logPath := newTestQuiz(t, "")

	rec := httptest.NewRecorder()
	service.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/update-status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "no_logs", body["status"])

	require.NoError(t, os.MkdirAll(filepath.Dir(logPath), 0755))
	var lines string
	for i := 0; i < 60; i++ {
		lines += fmt.Sprintf("[2026-08-30T12:00:%02dZ] SUCCESS - Companies: 100, Duration: 1.00s\n", i)
	}
	require.NoError(t, os.WriteFile(logPath, []byte(lines), 0644))

	rec = httptest.NewRecorder()
	service.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/update-status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "success", body["status"])
	require.Contains(t, body["logs"], "SUCCESS")
}
