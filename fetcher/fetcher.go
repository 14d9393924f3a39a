// Package fetcher downloads source filter lists in parallel with
// retries and an on-disk cache, and pre-filters their lines before
// the conversion pipeline sees them.
package fetcher

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"unilist/config"
)

// Result is one successfully fetched source.
type Result struct {
	Source    config.Source
	Lines     []string
	FromCache bool
}

// Fetcher downloads and caches source lists.
type Fetcher struct {
	Client   *http.Client
	CacheDir string
	UseCache bool

	settings config.Settings
	exclude  []*regexp.Regexp
	retry    RetryPolicy
}

// New creates a fetcher from the configuration. Exclude patterns are
// compiled once; an invalid pattern is a configuration error.
func New(cfg *config.Config, cacheDir string, useCache bool) (*Fetcher, error) {
	exclude := make([]*regexp.Regexp, 0, len(cfg.ExcludePatterns))
	for _, pattern := range cfg.ExcludePatterns {
		// Patterns match from the start of a line.
		re, err := regexp.Compile("^(?:" + pattern + ")")
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		exclude = append(exclude, re)
	}

	return &Fetcher{
		Client: &http.Client{
			Timeout: cfg.Settings.Timeout(),
		},
		CacheDir: cacheDir,
		UseCache: useCache,
		settings: cfg.Settings,
		exclude:  exclude,
		retry: RetryPolicy{
			MaxAttempts: cfg.Settings.MaxRetries,
			Delay:       cfg.Settings.RetryDelay(),
		},
	}, nil
}

// FetchAll downloads all sources through a bounded worker pool and
// returns the successful results in input order. Individual source
// failures are not fatal; failed is the count of sources that yielded
// nothing.
func (f *Fetcher) FetchAll(ctx context.Context, sources []config.Source) (results []Result, failed int) {
	if f.UseCache {
		if err := os.MkdirAll(f.CacheDir, 0o755); err != nil {
			log.Printf("Failed to create cache dir %s: %v", f.CacheDir, err)
			f.UseCache = false
		}
	}

	slots := make([]*Result, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	limit := f.settings.ParallelDownloads
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			lines, fromCache, err := f.fetchSource(ctx, src)
			if err != nil {
				log.Printf("Giving up on source '%s': %v", src.Name, err)
				return nil // per-source failure never aborts the run
			}
			slots[i] = &Result{Source: src, Lines: lines, FromCache: fromCache}
			return nil
		})
	}
	_ = g.Wait() // per-source errors are logged, never returned

	for _, r := range slots {
		if r == nil {
			failed++
			continue
		}
		results = append(results, *r)
	}
	return results, failed
}

// fetchSource loads one source, preferring a fresh cache entry, then
// the network with retries, then a stale cache entry as last resort.
func (f *Fetcher) fetchSource(ctx context.Context, src config.Source) ([]string, bool, error) {
	cacheFile := f.cachePath(src.Name)

	if f.UseCache && f.cacheFresh(cacheFile) {
		if lines, err := f.loadCache(cacheFile); err == nil {
			log.Printf("Using cached rules for '%s'", src.Name)
			return lines, true, nil
		}
	}

	var lines []string
	err := f.retry.Do(ctx, func() error {
		fetched, err := f.download(ctx, src.URL)
		if err != nil {
			log.Printf("Fetch of '%s' failed, will retry: %v", src.Name, err)
			return err
		}
		lines = fetched
		return nil
	})
	if err == nil {
		if f.UseCache {
			f.saveCache(cacheFile, lines)
		}
		log.Printf("Fetched %d rules from '%s'", len(lines), src.Name)
		return lines, false, nil
	}

	if f.UseCache {
		if lines, cacheErr := f.loadCache(cacheFile); cacheErr == nil {
			log.Printf("Using expired cache for '%s' after fetch failure", src.Name)
			return lines, true, nil
		}
	}
	return nil, false, err
}

func (f *Fetcher) download(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.settings.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	return f.filterLines(resp.Body)
}

// filterLines trims lines and drops empties and lines matching any
// exclude pattern.
func (f *Fetcher) filterLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || f.excluded(line) {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (f *Fetcher) excluded(line string) bool {
	for _, re := range f.exclude {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func (f *Fetcher) cachePath(sourceName string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, sourceName)
	return filepath.Join(f.CacheDir, safe+".txt")
}

func (f *Fetcher) cacheFresh(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < f.settings.CacheTTL()
}

func (f *Fetcher) loadCache(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return f.filterLines(file)
}

func (f *Fetcher) saveCache(path string, lines []string) {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		log.Printf("Failed to write cache file %s: %v", path, err)
	}
}

// CleanCache removes cached list files from the cache directory.
func (f *Fetcher) CleanCache() error {
	entries, err := os.ReadDir(f.CacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		if err := os.Remove(filepath.Join(f.CacheDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
