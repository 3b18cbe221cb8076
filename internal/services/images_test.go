package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fineops/internal/config"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Phone case SKU-1", "Phone case SKU-1"},
		{"??", ""},
		{"!!!@#$", ""},
		{"Чехол для телефона", "Чехол для телефона"},
		{"a b c d e f g h", "a b c d e f"},
		{"  spaced   out  ", "spaced out"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cleanQuery(tc.in), "input %q", tc.in)
	}
}

func TestCacheName(t *testing.T) {
	assert.Equal(t, "Phone_case.jpg", cacheName("Phone case"))

	long := strings.Repeat("abcde12345", 10)
	name := cacheName(long)
	assert.Equal(t, long[:40]+".jpg", name)
}

func TestResolveEmptyQuerySkipsSearch(t *testing.T) {
	searched := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		searched = true
	}))
	defer srv.Close()

	svc, err := NewImageService(config.SearchConfig{APIKey: "k", CSEID: "c"}, srv.URL)
	require.NoError(t, err)

	path, err := svc.Resolve(context.Background(), "??")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.False(t, searched)
}

func TestResolveTruncatesQueryToSixTokens(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	}))
	defer srv.Close()

	svc, err := NewImageService(config.SearchConfig{APIKey: "k", CSEID: "c"}, srv.URL)
	require.NoError(t, err)

	path, err := svc.Resolve(context.Background(), "one two three four five six seven eight")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "one two three four five six", gotQuery)
}

func TestResolveNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	svc, err := NewImageService(config.SearchConfig{}, srv.URL)
	require.NoError(t, err)

	path, err := svc.Resolve(context.Background(), "anything useful")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestResolveDownloadsAndCachesJPEG(t *testing.T) {
	// One mux serves both the search API and the "image host".
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		for x := 0; x < 8; x++ {
			for y := 0; y < 8; y++ {
				img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
			}
		}
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"items": [{"link": %q}]}`, srv.URL+"/image.png")
	})

	svc, err := NewImageService(config.SearchConfig{APIKey: "k", CSEID: "c"}, srv.URL)
	require.NoError(t, err)

	path, err := svc.Resolve(context.Background(), "Phone case")
	require.NoError(t, err)
	require.NotEmpty(t, path)
	assert.True(t, strings.HasSuffix(path, "Phone_case.jpg"), "got %s", path)
	assert.Contains(t, path, svc.CacheDir())

	// The cached file must decode as an image again.
	f, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 8, f.Bounds().Dx())
}

func TestResolveBadImageBody(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not an image"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"items": [{"link": %q}]}`, srv.URL+"/broken")
	})

	svc, err := NewImageService(config.SearchConfig{}, srv.URL)
	require.NoError(t, err)

	path, err := svc.Resolve(context.Background(), "broken thing")
	assert.Error(t, err)
	assert.Empty(t, path)
}
