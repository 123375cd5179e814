package extractor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"fragrance-scraper/internal/types"
)

// fakeStrategy returns a fixed answer and counts calls
type fakeStrategy struct {
	name  string
	url   string
	err   error
	calls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) FindImage(_ context.Context, _ types.CatalogEntry) (string, error) {
	f.calls++
	return f.url, f.err
}

// fakeStreamer serves bodies by URL; unknown URLs fail
type fakeStreamer struct {
	mu     sync.Mutex
	bodies map[string][]byte
	calls  []string
}

func (f *fakeStreamer) Stream(_ context.Context, url string, w io.Writer) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	body, ok := f.bodies[url]
	if !ok {
		return 0, errors.New("connection refused")
	}
	return io.Copy(w, bytes.NewReader(body))
}
