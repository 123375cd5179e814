package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fragrance-scraper/internal/types"
	"fragrance-scraper/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFragrantica(t *testing.T, handler http.Handler) *FragranticaAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := types.DefaultConfig()
	config.FragranticaBaseURL = server.URL
	logger := logrus.New()
	client := utils.NewHTTPClient(config, logger)
	t.Cleanup(client.Close)

	return NewFragranticaAdapter(config, logger, client)
}

func TestSlugs(t *testing.T) {
	assert.Equal(t, "Tom-Ford", BrandSlug("Tom Ford"))
	assert.Equal(t, "Abercrombie-and-Fitch", BrandSlug("Abercrombie & Fitch"))
	assert.Equal(t, "Oud-Wood", NameSlug("Oud Wood"))
	assert.Equal(t, "No-5-Eau-de-Parfum", NameSlug("No. 5 (Eau de Parfum)"))
}

func TestProductAndSearchURLs(t *testing.T) {
	config := types.DefaultConfig()
	adapter := NewFragranticaAdapter(config, logrus.New(), nil)
	entry := types.CatalogEntry{Brand: "Tom Ford", Name: "Oud Wood"}

	assert.Equal(t, "https://www.fragrantica.com/perfume/Tom-Ford/Oud-Wood.html", adapter.ProductURL(entry))
	assert.Equal(t, "https://www.fragrantica.com/search/?q=Tom%20Ford%20Oud%20Wood", adapter.SearchURL(entry))
}

func TestDirectLookup_SelectorPriority(t *testing.T) {
	adapter := newTestFragrantica(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<img itemprop="image" src="https://www.fragrantica.com/images/schema.jpg">
			<img class="perfume-big" src="https://www.fragrantica.com/images/big.jpg">
			<img class="perfume-presentation" src="https://www.fragrantica.com/images/presentation.jpg">
		</body></html>`))
	}))

	src, err := adapter.DirectLookup().FindImage(context.Background(), types.CatalogEntry{Brand: "Tom Ford", Name: "Oud Wood"})

	require.NoError(t, err)
	assert.Equal(t, "https://www.fragrantica.com/images/presentation.jpg", src)
}

func TestDirectLookup_FallsThroughToSchemaImage(t *testing.T) {
	adapter := newTestFragrantica(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/perfume/Creed/Aventus.html", r.URL.Path)
		w.Write([]byte(`<img class="perfume-big"><img itemprop="image" src="/img/aventus.jpg">`))
	}))

	src, err := adapter.DirectLookup().FindImage(context.Background(), types.CatalogEntry{Brand: "Creed", Name: "Aventus"})

	require.NoError(t, err)
	assert.Equal(t, "/img/aventus.jpg", src)
}

func TestDirectLookup_NoImage(t *testing.T) {
	adapter := newTestFragrantica(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><img class="logo" src="/logo.png"></body></html>`))
	}))

	src, err := adapter.DirectLookup().FindImage(context.Background(), types.CatalogEntry{Brand: "Creed", Name: "Aventus"})

	require.NoError(t, err)
	assert.Empty(t, src)
}

func TestDirectLookup_NotFoundIsError(t *testing.T) {
	adapter := newTestFragrantica(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`<img class="perfume-big" src="https://www.fragrantica.com/images/404.jpg">`))
	}))

	src, err := adapter.DirectLookup().FindImage(context.Background(), types.CatalogEntry{Brand: "Creed", Name: "Aventus"})

	assert.Error(t, err)
	assert.Empty(t, src)
}

func TestSiteSearch_UsesSearchEndpoint(t *testing.T) {
	adapter := newTestFragrantica(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/", r.URL.Path)
		assert.Equal(t, "Creed Aventus", r.URL.Query().Get("q"))
		w.Write([]byte(`<img class="perfume-presentation" src="https://x/ignored.jpg"><img class="perfume-big" src="https://www.fragrantica.com/images/aventus.jpg">`))
	}))

	src, err := adapter.SiteSearch().FindImage(context.Background(), types.CatalogEntry{Brand: "Creed", Name: "Aventus"})

	require.NoError(t, err)
	assert.Equal(t, "https://www.fragrantica.com/images/aventus.jpg", src)
}
