package statcan

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rentcompare/config"
	"rentcompare/models"
	"rentcompare/utils"
)

// downloadResponse is the web data service's answer to a full-table CSV
// request: a status plus a URL pointing at a ZIP archive.
type downloadResponse struct {
	Status string `json:"status"`
	Object string `json:"object"`
}

// Client fetches the rental-survey table from the StatCan web data service.
type Client struct {
	cfg    *config.Config
	logger *utils.Logger
	http   *http.Client
	retry  *utils.RetryConfig
}

// New creates a ready-to-use StatCan Client.
func New(cfg *config.Config, logger *utils.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
		http: &http.Client{
			Timeout: time.Duration(cfg.FetchTimeout) * time.Second,
		},
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Duration(cfg.RetryDelayMs) * time.Millisecond,
			Logger:      logger,
		},
	}
}

// FetchRaw downloads and parses the full table: web data service → ZIP URL →
// archive download → single CSV → raw records.
func (c *Client) FetchRaw(ctx context.Context) ([]models.RawRecord, error) {
	zipURL, err := c.resolveDownloadURL(ctx)
	if err != nil {
		return nil, err
	}

	c.logger.Info("[statcan] Downloading table archive: %s", zipURL)

	var archive []byte
	err = c.retry.Do(ctx, "statcan archive download", func() error {
		var dlErr error
		archive, dlErr = c.download(ctx, zipURL)
		return dlErr
	})
	if err != nil {
		return nil, err
	}

	csvBytes, err := ExtractCSV(archive)
	if err != nil {
		return nil, err
	}

	rows, err := ParseCSV(csvBytes)
	if err != nil {
		return nil, err
	}

	c.logger.Info("[statcan] Parsed %d raw rows from archive", len(rows))
	return rows, nil
}

// resolveDownloadURL asks the web data service where the table's ZIP lives.
func (c *Client) resolveDownloadURL(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/en", strings.TrimRight(c.cfg.WDSBaseURL, "/"), c.cfg.WDSProductID)

	var resp downloadResponse
	err := c.retry.Do(ctx, "statcan download-url lookup", func() error {
		body, err := c.download(ctx, endpoint)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("statcan: decode response: %w", err)
		}
		if resp.Status != "SUCCESS" || resp.Object == "" {
			return fmt.Errorf("statcan: service returned status %q", resp.Status)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return resp.Object, nil
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("statcan: build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("statcan: request %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("statcan: unexpected status %d from %s", res.StatusCode, url)
	}

	return io.ReadAll(res.Body)
}

// ExtractCSV locates the data CSV inside a downloaded archive. StatCan table
// archives hold the data file plus a *_MetaData.csv; the metadata file is
// skipped.
func ExtractCSV(archive []byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("statcan: open archive: %w", err)
	}

	for _, f := range reader.File {
		name := strings.ToLower(f.Name)
		if !strings.HasSuffix(name, ".csv") || strings.Contains(name, "metadata") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("statcan: open %s in archive: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("statcan: read %s in archive: %w", f.Name, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("statcan: no data CSV in archive")
}

// ParseCSV parses a delimited table with a header row into raw records.
// The header's first cell may carry a UTF-8 BOM, which is stripped.
func ParseCSV(data []byte) ([]models.RawRecord, error) {
	reader := newLooseCSVReader(bytes.NewReader(data))

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("statcan: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows []models.RawRecord
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed lines are dropped, not fatal.
			continue
		}
		row := make(models.RawRecord, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// newLooseCSVReader builds a reader tolerant of the quirks in open-data CSV
// exports: ragged rows and stray quotes.
func newLooseCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}
