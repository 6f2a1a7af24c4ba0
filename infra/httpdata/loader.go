// Package httpdata loads benchmark series from CSV files served over HTTP.
package httpdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/kilianp07/fcbench/auth"
	"github.com/kilianp07/fcbench/core/dataset"
	"github.com/kilianp07/fcbench/core/series"
	"github.com/kilianp07/fcbench/infra/logger"
)

// Config describes a remote CSV dataset.
type Config struct {
	URL         string    `json:"url"`
	BackupURLs  []string  `json:"backup_urls"`
	Column      string    `json:"column"`
	IndexColumn string    `json:"index_column"`
	NoHeader    bool      `json:"no_header"`
	DatasetName string    `json:"name"`
	TimeoutMS   int       `json:"timeout_ms"`
	Auth        auth.Conf `json:"auth"`
	// Cache keeps the first successful download for later loads. Off by
	// default so that every run sees the current remote file.
	Cache bool `json:"cache"`
}

// Loader downloads a CSV series, trying the backup URLs in order when the
// primary URL fails.
type Loader struct {
	cfg    Config
	client *http.Client
	creds  *auth.ClientCred
	log    logger.Logger

	mu     sync.Mutex
	cached *series.Series
}

var _ dataset.Loader = (*Loader)(nil)

// New returns a loader for cfg.
func New(cfg Config) (*Loader, error) {
	if cfg.URL == "" {
		return nil, errors.New("httpdata: url is required")
	}
	timeout := 30 * time.Second
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	l := &Loader{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		log:    logger.New("httpdata"),
	}
	if cfg.Auth.Enabled() {
		l.creds = auth.NewClientCred(cfg.Auth)
	}
	return l, nil
}

// FromMetadata builds a loader for a published CSV dataset. Every Load
// downloads the file again; use New with Config.Cache to keep it.
func FromMetadata(md dataset.ExternalMetadata, column string) (*Loader, error) {
	if err := md.Validate(); err != nil {
		return nil, err
	}
	if md.DownloadFileFormat != dataset.FormatCSV {
		return nil, fmt.Errorf("httpdata: dataset %s: unsupported format %q", md.Name, md.DownloadFileFormat)
	}
	return New(Config{URL: md.URL, BackupURLs: md.BackupURLs, Column: column, DatasetName: md.Name})
}

// Name returns the configured name or the last path element of the URL
// without extension.
func (l *Loader) Name() string {
	if l.cfg.DatasetName != "" {
		return l.cfg.DatasetName
	}
	base := path.Base(strings.SplitN(l.cfg.URL, "?", 2)[0])
	return strings.TrimSuffix(base, path.Ext(base))
}

// Load downloads and parses the series.
func (l *Loader) Load(ctx context.Context) (series.Series, error) {
	if l.cfg.Cache {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.cached != nil {
			return l.cached.Clone(), nil
		}
	}
	var errs []error
	for _, u := range append([]string{l.cfg.URL}, l.cfg.BackupURLs...) {
		s, err := l.fetch(ctx, u)
		if err == nil {
			if l.cfg.Cache {
				c := s.Clone()
				l.cached = &c
			}
			return s, nil
		}
		if ctx.Err() != nil {
			return series.Series{}, ctx.Err()
		}
		l.log.Warnf("download %s failed: %v", u, err)
		errs = append(errs, fmt.Errorf("%s: %w", u, err))
	}
	return series.Series{}, fmt.Errorf("httpdata: all urls failed: %w", errors.Join(errs...))
}

func (l *Loader) fetch(ctx context.Context, url string) (series.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return series.Series{}, err
	}
	req.Header.Set("Accept", "text/csv")
	if l.creds != nil {
		if err := l.creds.SetAuthHeader(req); err != nil {
			return series.Series{}, err
		}
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return series.Series{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return series.Series{}, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return dataset.ReadCSV(resp.Body, l.cfg.Column, l.cfg.IndexColumn, !l.cfg.NoHeader)
}
