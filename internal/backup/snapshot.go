// Package backup exports sheet contents to object storage.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"egunkari/internal/sheets"
)

const (
	// KeyPrefix is the bucket folder holding all snapshots.
	KeyPrefix = "backups"

	// snapshotColumns bounds the columns read from each sheet.
	snapshotColumns = "A1:Z"

	contentTypeJSON = "application/json"
)

// Uploader stores a single object.
type Uploader interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// Snapshot is the JSON document written per sheet.
type Snapshot struct {
	Sheet   string     `json:"sheet"`
	TakenAt time.Time  `json:"takenAt"`
	Rows    [][]string `json:"rows"`
}

// Snapshotter copies whole sheets, header row included, to an Uploader.
type Snapshotter struct {
	store    sheets.Store
	uploader Uploader
	now      func() time.Time
}

func NewSnapshotter(store sheets.Store, uploader Uploader) *Snapshotter {
	return &Snapshotter{store: store, uploader: uploader, now: time.Now}
}

// Run snapshots each sheet under backups/<UTC timestamp>/<sheet>.json and
// returns the keys written. It stops at the first failure.
func (s *Snapshotter) Run(ctx context.Context, sheetNames ...string) ([]string, error) {
	takenAt := s.now().UTC()
	folder := fmt.Sprintf("%s/%s", KeyPrefix, takenAt.Format("20060102T150405Z"))

	keys := make([]string, 0, len(sheetNames))
	for _, name := range sheetNames {
		startTime := time.Now()
		rows, err := s.store.Get(ctx, fmt.Sprintf("%s!%s", name, snapshotColumns))
		if err != nil {
			log.Printf("[Backup] Snapshot FAILED: sheet=%s err=%v", name, err)
			return keys, fmt.Errorf("read sheet %s: %w", name, err)
		}

		body, err := json.Marshal(Snapshot{Sheet: name, TakenAt: takenAt, Rows: rows})
		if err != nil {
			return keys, fmt.Errorf("encode sheet %s: %w", name, err)
		}

		key := fmt.Sprintf("%s/%s.json", folder, name)
		if err := s.uploader.Put(ctx, key, body, contentTypeJSON); err != nil {
			log.Printf("[Backup] Snapshot FAILED: sheet=%s key=%s err=%v", name, key, err)
			return keys, err
		}

		log.Printf("[Backup] Snapshot OK: sheet=%s key=%s rows=%d duration=%v",
			name, key, len(rows), time.Since(startTime))
		keys = append(keys, key)
	}
	return keys, nil
}
