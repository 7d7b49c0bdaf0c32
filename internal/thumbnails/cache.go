package thumbnails

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// maxThumbnailBytes caps a downloaded image; catalog thumbnails are well under it.
const maxThumbnailBytes = 5 << 20

var (
	// ErrURLNotAllowed is returned for thumbnail URLs outside the allowed hosts.
	ErrURLNotAllowed = errors.New("thumbnail url not allowed")
	// ErrTooLarge is returned when an image exceeds the size cap.
	ErrTooLarge = errors.New("thumbnail too large")
)

// Cache keeps local copies of drink thumbnails so saved favorites render offline.
type Cache struct {
	cacheDir     string
	httpClient   *http.Client
	allowedHosts map[string]bool
}

// NewCache creates a thumbnail cache at the specified directory.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		cacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Get returns the cached thumbnail for a drink, fetching it first if needed.
// An empty URL yields an empty path and no error.
func (c *Cache) Get(ctx context.Context, drinkID, thumbURL string) (string, error) {
	if thumbURL == "" {
		return "", nil
	}
	if !c.Allowed(thumbURL) {
		return "", fmt.Errorf("%w: %s", ErrURLNotAllowed, thumbURL)
	}

	cachePath := filepath.Join(c.cacheDir, c.filename(drinkID, thumbURL))
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}

	if err := c.fetchAndCache(ctx, thumbURL, cachePath); err != nil {
		return "", err
	}
	return cachePath, nil
}

// AllowHosts restricts fetches to the given hosts. Without any, every http(s)
// URL is accepted.
func (c *Cache) AllowHosts(hosts ...string) {
	c.allowedHosts = make(map[string]bool, len(hosts))
	for _, h := range hosts {
		if h != "" {
			c.allowedHosts[strings.ToLower(h)] = true
		}
	}
}

// Allowed reports whether thumbURL may be fetched or redirected to.
func (c *Cache) Allowed(thumbURL string) bool {
	u, err := url.Parse(thumbURL)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if len(c.allowedHosts) == 0 {
		return true
	}
	return c.allowedHosts[strings.ToLower(u.Host)]
}

// Lookup returns the path of an already cached thumbnail without fetching.
func (c *Cache) Lookup(drinkID, thumbURL string) (string, bool) {
	if thumbURL == "" {
		return "", false
	}
	cachePath := filepath.Join(c.cacheDir, c.filename(drinkID, thumbURL))
	if _, err := os.Stat(cachePath); err != nil {
		return "", false
	}
	return cachePath, true
}

// Invalidate removes every cached thumbnail of a drink.
func (c *Cache) Invalidate(drinkID string) error {
	pattern := filepath.Join(c.cacheDir, "thumb_"+digest(drinkID)+"_*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Purge removes every cached thumbnail whose drink is not in keep.
// It returns the number of files removed.
func (c *Cache) Purge(keep map[string]bool) (int, error) {
	wanted := make(map[string]bool, len(keep))
	for id := range keep {
		wanted[digest(id)] = true
	}

	matches, err := filepath.Glob(filepath.Join(c.cacheDir, "thumb_*"))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, match := range matches {
		parts := strings.SplitN(filepath.Base(match), "_", 3)
		if len(parts) != 3 || wanted[parts[1]] {
			continue
		}
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

// filename derives a stable name from the drink and the image URL, so a new
// image URL for the same drink never serves the old file.
func (c *Cache) filename(drinkID, thumbURL string) string {
	ext := strings.ToLower(filepath.Ext(thumbURL))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		ext = ".jpg"
	}
	return "thumb_" + digest(drinkID) + "_" + digest(thumbURL) + ext
}

func digest(s string) string {
	sum := blake2b.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}

func (c *Cache) fetchAndCache(ctx context.Context, url, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Cocktails/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch thumbnail: status %d", resp.StatusCode)
	}

	// Write to a temp file in the same directory, then rename into place.
	tmpFile, err := os.CreateTemp(c.cacheDir, "tmp_thumb_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	n, err := io.Copy(tmpFile, io.LimitReader(resp.Body, maxThumbnailBytes+1))
	if err != nil {
		return err
	}
	if n > maxThumbnailBytes {
		return fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxThumbnailBytes)
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, cachePath)
}
