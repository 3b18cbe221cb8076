package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"fineops/internal/config"
	"fineops/internal/utils/logger"

	"github.com/disintegration/imaging"
)

const defaultSearchURL = "https://www.googleapis.com/customsearch/v1"

var (
	queryCleanRe = regexp.MustCompile(`[^a-zA-Zа-яА-Я0-9\s\-]`)
	slugRe       = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// ImageService resolves a product query to a locally cached JPEG via an
// image search API. Every step is best-effort: callers must treat an
// empty path as "no image", not as a failure.
type ImageService struct {
	apiKey    string
	cseID     string
	searchURL string
	client    *http.Client
	dir       string
	log       *logger.Logger
}

// NewImageService creates the resolver with a process-lifetime cache
// directory. searchURL is only overridden by tests; pass "" for the
// production endpoint.
func NewImageService(cfg config.SearchConfig, searchURL string) (*ImageService, error) {
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	dir, err := os.MkdirTemp("", "fineops-images-")
	if err != nil {
		return nil, fmt.Errorf("create image cache dir: %w", err)
	}
	return &ImageService{
		apiKey:    cfg.APIKey,
		cseID:     cfg.CSEID,
		searchURL: searchURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		dir:       dir,
		log:       logger.New("images"),
	}, nil
}

// cleanQuery keeps letters (Latin and Cyrillic), digits, spaces and
// hyphens, then truncates to the first 6 tokens.
func cleanQuery(query string) string {
	clean := queryCleanRe.ReplaceAllString(query, "")
	tokens := strings.Fields(clean)
	if len(tokens) > 6 {
		tokens = tokens[:6]
	}
	return strings.Join(tokens, " ")
}

// cacheName derives the JPEG filename: alphanumeric-only slug, first
// 40 characters.
func cacheName(clean string) string {
	slug := slugRe.ReplaceAllString(clean, "_")
	if len(slug) > 40 {
		slug = slug[:40]
	}
	return slug + ".jpg"
}

type searchResponse struct {
	Items []struct {
		Link string `json:"link"`
	} `json:"items"`
}

// Resolve looks up a single top image result for query, downloads it,
// normalizes it to an RGB JPEG and returns the cached file path. An
// empty path with a nil error means the query sanitized to nothing; a
// non-nil error still means "no image" to the caller.
func (s *ImageService) Resolve(ctx context.Context, query string) (string, error) {
	clean := cleanQuery(query)
	if clean == "" {
		return "", nil
	}

	link, err := s.search(ctx, clean)
	if err != nil {
		return "", err
	}
	if link == "" {
		return "", nil
	}

	return s.download(ctx, link, clean)
}

func (s *ImageService) search(ctx context.Context, clean string) (string, error) {
	params := url.Values{}
	params.Set("q", clean)
	params.Set("cx", s.cseID)
	params.Set("key", s.apiKey)
	params.Set("searchType", "image")
	params.Set("num", "1")
	params.Set("safe", "medium")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image search: %w", err)
	}
	defer resp.Body.Close()

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode image search response: %w", err)
	}
	if len(parsed.Items) == 0 {
		return "", nil
	}
	return parsed.Items[0].Link, nil
}

func (s *ImageService) download(ctx context.Context, link, clean string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image download: %w", err)
	}
	defer resp.Body.Close()

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	path := filepath.Join(s.dir, cacheName(clean))
	// Clone forces NRGBA, dropping any alpha-less/paletted source mode.
	if err := imaging.Save(imaging.Clone(img), path, imaging.JPEGQuality(90)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return path, nil
}

// CacheDir exposes the cache directory (diagnostics and tests).
func (s *ImageService) CacheDir() string {
	return s.dir
}
