package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fragrance-scraper/catalog"
	"fragrance-scraper/internal/types"
	"fragrance-scraper/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapResolver answers from a map keyed by brand
type mapResolver struct {
	urls  map[string]string
	calls []types.CatalogEntry
}

func (m *mapResolver) Resolve(_ context.Context, entry types.CatalogEntry) string {
	m.calls = append(m.calls, entry)
	return m.urls[entry.Brand]
}

// mapDownloader answers from a map keyed by URL
type mapDownloader struct {
	paths map[string]string
}

func (m *mapDownloader) Download(_ context.Context, url string, _ types.CatalogEntry) (string, error) {
	if path, ok := m.paths[url]; ok {
		return path, nil
	}
	return "", errors.New("status 403")
}

func TestRun_OneRecordPerEntryInOrder(t *testing.T) {
	entries := []types.CatalogEntry{
		{Brand: "A", Name: "found and saved"},
		{Brand: "B", Name: "found not saved"},
		{Brand: "C", Name: "not found"},
		{Brand: "A", Name: "found and saved"},
	}
	resolver := &mapResolver{urls: map[string]string{"A": "https://a/x.jpg", "B": "https://b/x.jpg"}}
	downloader := &mapDownloader{paths: map[string]string{"https://a/x.jpg": "/images/fragrances/a.jpg"}}
	driver := NewDriver(resolver, downloader, 0, logrus.New())

	results, err := driver.Run(context.Background(), entries)

	require.NoError(t, err)
	require.Len(t, results, len(entries))
	assert.Equal(t, entries, resolver.calls)
	for i, entry := range entries {
		assert.Equal(t, entry.Brand, results[i].Brand)
		assert.Equal(t, entry.Name, results[i].Name)
	}

	require.NotNil(t, results[0].ImageURL)
	require.NotNil(t, results[0].LocalPath)
	assert.Equal(t, "/images/fragrances/a.jpg", *results[0].LocalPath)

	require.NotNil(t, results[1].ImageURL)
	assert.Equal(t, "https://b/x.jpg", *results[1].ImageURL)
	assert.Nil(t, results[1].LocalPath)

	assert.Nil(t, results[2].ImageURL)
	assert.Nil(t, results[2].LocalPath)
}

func TestRun_EmptyCatalog(t *testing.T) {
	driver := NewDriver(&mapResolver{}, &mapDownloader{}, time.Hour, logrus.New())

	results, err := driver.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRun_WaitsBetweenEntries(t *testing.T) {
	entries := []types.CatalogEntry{{Brand: "A"}, {Brand: "B"}, {Brand: "C"}}
	driver := NewDriver(&mapResolver{}, &mapDownloader{}, 20*time.Millisecond, logrus.New())

	start := time.Now()
	results, err := driver.Run(context.Background(), entries)

	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestRun_CancelDuringDelay(t *testing.T) {
	entries := []types.CatalogEntry{{Brand: "A"}, {Brand: "B"}}
	resolver := &mapResolver{}
	driver := NewDriver(resolver, &mapDownloader{}, time.Hour, logrus.New())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	results, err := driver.Run(ctx, entries)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, 1)
	assert.Len(t, resolver.calls, 1)
}

func TestRun_EndToEndDirectPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/perfume/Tom-Ford/Oud-Wood.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><img class="perfume-big" src="https://www.fragrantica.com/images/oudwood.jpg"></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	root := t.TempDir()
	catalogPath := filepath.Join(root, "products.csv")
	require.NoError(t, os.WriteFile(catalogPath, []byte("Brand,Fragrance\nTom Ford,Oud Wood\n"), 0o644))

	config := types.DefaultConfig()
	config.FragranticaBaseURL = server.URL
	config.ImageSearchURL = server.URL + "/images"
	config.ImagesDir = filepath.Join(root, "public", "images", "fragrances")
	config.ManifestPath = filepath.Join(root, "fragrance_images.json")
	config.RequestDelay = 0
	logger := logrus.New()

	client := utils.NewHTTPClient(config, logger)
	defer client.Close()
	streamer := &fakeStreamer{bodies: map[string][]byte{
		"https://www.fragrantica.com/images/oudwood.jpg": []byte("oud-wood-jpeg"),
	}}
	downloader, err := NewDownloader(config, logger, streamer)
	require.NoError(t, err)
	driver := NewDriver(NewResolver(logger, DefaultStrategies(config, logger, client)...), downloader, config.RequestDelay, logger)

	results, err := driver.Run(context.Background(), catalog.Load(catalogPath, logger))
	require.NoError(t, err)
	require.NoError(t, WriteManifest(config.ManifestPath, results))

	manifest, err := ReadManifest(config.ManifestPath)
	require.NoError(t, err)
	require.Len(t, manifest, 1)
	assert.Equal(t, "Tom Ford", manifest[0].Brand)
	assert.Equal(t, "Oud Wood", manifest[0].Name)
	require.NotNil(t, manifest[0].ImageURL)
	assert.Equal(t, "https://www.fragrantica.com/images/oudwood.jpg", *manifest[0].ImageURL)
	require.NotNil(t, manifest[0].LocalPath)
	assert.Equal(t, "/images/fragrances/tom-ford-oud-wood.jpg", *manifest[0].LocalPath)

	data, err := os.ReadFile(filepath.Join(config.ImagesDir, "tom-ford-oud-wood.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "oud-wood-jpeg", string(data))
}

func TestRun_EndToEndEverythingFails(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	deadURL := server.URL
	server.Close()

	config := types.DefaultConfig()
	config.FragranticaBaseURL = deadURL
	config.ImageSearchURL = deadURL + "/search"
	config.ImagesDir = filepath.Join(t.TempDir(), "images")
	logger := logrus.New()

	client := utils.NewHTTPClient(config, logger)
	defer client.Close()
	downloader, err := NewDownloader(config, logger, client)
	require.NoError(t, err)
	driver := NewDriver(NewResolver(logger, DefaultStrategies(config, logger, client)...), downloader, 0, logger)

	results, err := driver.Run(context.Background(), []types.CatalogEntry{oudWood})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].ImageURL)
	assert.Nil(t, results[0].LocalPath)

	summary := Summarize(results)
	assert.Zero(t, summary.Succeeded)
	assert.Len(t, summary.Failed, 1)
}
