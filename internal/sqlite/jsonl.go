package sqlite

// JSONL export of a match's action log. One record per line, oldest first.

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ActionRecord is one exported line: a log entry tagged with its match.
type ActionRecord struct {
	MatchID string `json:"match_id"`
	types.LogEntry
}

// WriteActionsJSONL writes the rows of matchID to path, oldest first. rows
// are most-recent-first as returned by QueryAll.
func WriteActionsJSONL(path, matchID string, rows []types.LogEntry) error {
	records := make([]json.RawMessage, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		b, err := json.Marshal(ActionRecord{MatchID: matchID, LogEntry: rows[i]})
		if err != nil {
			return fmt.Errorf("encoding action %d: %w", rows[i].ID, err)
		}
		records = append(records, b)
	}
	return writeJSONL(path, records)
}

// ReadActionsJSONL reads an export written by WriteActionsJSONL. Records are
// returned in file order.
func ReadActionsJSONL(path string) ([]ActionRecord, error) {
	raw, err := readJSONL(path)
	if err != nil {
		return nil, err
	}
	out := make([]ActionRecord, 0, len(raw))
	for _, r := range raw {
		var rec ActionRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
