// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads the DBLP bibliography archive.
package fetch

import (
	"bufio"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/temoto/robotstxt"

	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

// Defaults for the archive download.
const (
	DefaultURL       = "https://dblp.org/xml/dblp.xml.gz"
	DefaultUserAgent = "reviewer-conflicts/0.1"
)

// Result describes a completed download.
type Result struct {
	Path  string
	Bytes int64
	MD5   string
}

// Archive downloads cfg.URL to cfg.Dest through a temporary file that is
// renamed into place only after the transfer (and, if enabled, the MD5
// check) succeeds. Paths disallowed by the host's robots.txt are refused.
func Archive(ctx context.Context, client *http.Client, cfg types.FetchConfig, w io.Writer) (Result, error) {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Dest == "" {
		cfg.Dest = filepath.Base(cfg.URL)
	}

	allowed, err := robotsAllowed(ctx, client, cfg.URL, cfg.UserAgent)
	if err != nil {
		return Result{}, err
	}
	if !allowed {
		return Result{}, fmt.Errorf("robots.txt disallows fetching %s", cfg.URL)
	}

	var wantSum string
	if cfg.VerifyMD5 {
		wantSum, err = fetchChecksum(ctx, client, cfg)
		if err != nil {
			return Result{}, err
		}
	}

	if dir := filepath.Dir(cfg.Dest); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	fmt.Fprintf(w, "downloading: %s\n", cfg.URL)
	res, err := download(ctx, client, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("downloading %s: %w", cfg.URL, err)
	}

	if wantSum != "" && !strings.EqualFold(wantSum, res.MD5) {
		os.Remove(res.Path)
		return Result{}, fmt.Errorf("checksum mismatch for %s: got %s, want %s", cfg.URL, res.MD5, wantSum)
	}

	if err := os.Rename(res.Path, cfg.Dest); err != nil {
		os.Remove(res.Path)
		return Result{}, fmt.Errorf("renaming temp file: %w", err)
	}
	res.Path = cfg.Dest
	fmt.Fprintf(w, "saved: %s (%d bytes, md5 %s)\n", res.Path, res.Bytes, res.MD5)
	return res, nil
}

func get(ctx context.Context, client *http.Client, rawURL string, cfg types.FetchConfig) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := doWithRetry(ctx, client, req, cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}
	return resp, nil
}

// download streams the archive to a temporary file next to cfg.Dest and
// returns its path; the caller renames or removes it.
func download(ctx context.Context, client *http.Client, cfg types.FetchConfig) (Result, error) {
	resp, err := get(ctx, client, cfg.URL, cfg)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(cfg.Dest), ".fetch-*.tmp")
	if err != nil {
		return Result{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	sum := md5.New()
	n, copyErr := io.Copy(io.MultiWriter(tmpFile, sum), resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return Result{}, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return Result{}, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return Result{Path: tmpPath, Bytes: n, MD5: hex.EncodeToString(sum.Sum(nil))}, nil
}

// fetchChecksum reads the "<hex>  <file>" line published next to the archive.
func fetchChecksum(ctx context.Context, client *http.Client, cfg types.FetchConfig) (string, error) {
	resp, err := get(ctx, client, cfg.URL+".md5", cfg)
	if err != nil {
		return "", fmt.Errorf("fetching checksum: %w", err)
	}
	defer resp.Body.Close()

	line, err := bufio.NewReader(io.LimitReader(resp.Body, 4096)).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading checksum: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 || len(fields[0]) != md5.Size*2 {
		return "", fmt.Errorf("malformed checksum file for %s", cfg.URL)
	}
	return fields[0], nil
}

// robotsAllowed checks rawURL against the host's robots.txt. An unreachable
// or missing robots.txt allows the fetch.
func robotsAllowed(ctx context.Context, client *http.Client, rawURL, userAgent string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse URL: %w", err)
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return true, nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return true, nil
	}
	return data.TestAgent(parsed.Path, userAgent), nil
}
