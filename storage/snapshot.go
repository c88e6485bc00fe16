package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"rentcompare/models"
)

// LoadSnapshot reads a precomputed dataset snapshot from a local JSON file.
func LoadSnapshot(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %q: %w", path, err)
	}
	return decodeSnapshot(data)
}

// FetchSnapshot downloads a snapshot from a known network location.
func FetchSnapshot(url string, timeout time.Duration) (*models.Snapshot, error) {
	client := &http.Client{Timeout: timeout}
	res, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("snapshot: fetch %q: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot: unexpected status %d from %q", res.StatusCode, url)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read body: %w", err)
	}
	return decodeSnapshot(data)
}

// SaveSnapshot writes the record set and its metadata to a local JSON file,
// creating intermediate directories as needed.
func SaveSnapshot(path string, snap *models.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("snapshot: create dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", path, err)
	}
	return nil
}

func decodeSnapshot(data []byte) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if len(snap.Data) == 0 {
		return nil, fmt.Errorf("snapshot: document contains no records")
	}
	return &snap, nil
}
