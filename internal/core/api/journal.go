package api

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/beatforge/fieldgate/internal/core/store"
)

// journal appends an edit to <data_dir>/edits/<date>.jsonl.
// Best effort: the journal is a debugging aid, the store is authoritative.
func (s *InspectorService) journal(edit store.Edit) {
	if edit.AppliedAt.IsZero() {
		edit.AppliedAt = time.Now().UTC()
	}
	filename := filepath.Join(s.cfg.DataDir, "edits", edit.AppliedAt.Format("2006-01-02.jsonl"))
	mu := s.getJournalMutex(filename)
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		s.logger.Warn("edit journal unavailable", "file", filename, "error", err)
		return
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(edit); err != nil {
		s.logger.Warn("edit journal write failed", "file", filename, "error", err)
	}
}
