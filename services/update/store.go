package update

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func (s *Service) writeSnapshot(snapshot *Snapshot) error {
	err := os.MkdirAll(filepath.Dir(s.config.DataPath), 0755)
	if err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	contents, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	err = os.WriteFile(s.config.DataPath, contents, 0644)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

type auditEntry struct {
	timestamp time.Time
	success   bool
	companies int
	duration  time.Duration
	err       error
}

func (e auditEntry) String() string {
	var line strings.Builder

	status := "FAILED"
	companies := "N/A"
	if e.success {
		status = "SUCCESS"
		companies = fmt.Sprintf("%d", e.companies)
	}

	fmt.Fprintf(
		&line, "[%s] %s - Companies: %s, Duration: %.2fs",
		e.timestamp.Format(time.RFC3339), status, companies, e.duration.Seconds(),
	)
	if e.err != nil {
		fmt.Fprintf(&line, ", Error: %s", e.err.Error())
	}
	return line.String()
}

func (s *Service) appendAudit(entry auditEntry) error {
	err := os.MkdirAll(filepath.Dir(s.config.LogPath), 0755)
	if err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(s.config.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	_, err = f.WriteString(entry.String() + "\n")
	if err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}
