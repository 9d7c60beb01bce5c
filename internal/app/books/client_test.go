package books

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPack(t *testing.T) {
	packs := []string{
		"The Witcher Boxed Set",
		"Dune Trilogy",
		"Complete Set of Narnia",
		"Discworld Collection",
		"An Anthology of Ghost Stories",
		"Harry Potter Books 1-3",
		"Foundation Vol. 1 & 2",
		"3 books in 1",
		"Earthsea OMNIBUS edition",
	}
	for _, title := range packs {
		assert.True(t, isPack(title), title)
	}

	singles := []string{
		"Dune",
		"The Name of the Wind",
		"Fahrenheit 451",
		"1984",
		"Slaughterhouse-Five",
		"Catch-22",
	}
	for _, title := range singles {
		assert.False(t, isPack(title), title)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	client := NewClient("http://localhost:0")

	_, err := client.Search(context.Background(), "   ", 1, 20)
	assert.Error(t, err)
}

func TestSearchFiltersPacksAndMapsDocs(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search.json", r.URL.Path)
		require.Equal(t, "dune", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"numFound": 3,
			"docs": [
				{"key": "/works/OL1W", "title": "Dune", "author_name": ["Frank Herbert"], "first_publish_year": 1965, "cover_i": 111},
				{"key": "/works/OL2W", "title": "Dune Trilogy Boxed Set", "author_name": ["Frank Herbert"]},
				{"key": "/works/OL3W", "title": "Dune Messiah", "author_name": ["Frank Herbert"], "first_publish_year": 1969}
			]
		}`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)
	result, err := client.Search(context.Background(), "dune", 1, 20)
	require.NoError(t, err)

	assert.Equal(t, 3, result.NumFound)
	require.Len(t, result.Books, 2)

	first := result.Books[0]
	assert.Equal(t, "/works/OL1W", first.BookKey)
	assert.Equal(t, "Frank Herbert", first.Author)
	require.NotNil(t, first.FirstPublishYear)
	assert.Equal(t, 1965, *first.FirstPublishYear)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/111-M.jpg", first.CoverURL)

	second := result.Books[1]
	assert.Equal(t, "Dune Messiah", second.Title)
	assert.Empty(t, second.CoverURL)
}

func TestSearchTruncatesToLimit(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"numFound": 3,
			"docs": [
				{"key": "/works/OL1W", "title": "A"},
				{"key": "/works/OL2W", "title": "B"},
				{"key": "/works/OL3W", "title": "C"}
			]
		}`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)
	result, err := client.Search(context.Background(), "x", 1, 2)
	require.NoError(t, err)
	assert.Len(t, result.Books, 2)
}

func TestSearchUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)
	_, err := client.Search(context.Background(), "dune", 1, 20)
	assert.Error(t, err)
}

func TestGetWork(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/works/OL45883W.json", r.URL.Path)
		w.Write([]byte(`{
			"key": "/works/OL45883W",
			"title": "Dune",
			"description": {"type": "/type/text", "value": "Desert planet."},
			"covers": [222]
		}`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)
	work, err := client.GetWork(context.Background(), "/works/OL45883W")
	require.NoError(t, err)

	assert.Equal(t, "Dune", work.Title)
	assert.Equal(t, "Desert planet.", work.Description)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/222-M.jpg", work.CoverURL)
}

func TestGetWorkNotFound(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	defer upstream.Close()

	client := NewClient(upstream.URL)
	_, err := client.GetWork(context.Background(), "/works/OL404W")
	assert.Error(t, err)
}

func TestGetWorkRejectsBadKey(t *testing.T) {
	client := NewClient("http://localhost:0")

	_, err := client.GetWork(context.Background(), "OL45883W")
	assert.Error(t, err)
}
