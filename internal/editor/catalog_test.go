package editor

import (
	"context"
	"testing"

	"practica/internal/client"
	"practica/internal/models"
)

// heldFetcher parks each search instead of answering it, so responses can be
// delivered later in any order.
type heldFetcher struct {
	pending []func([]models.Piece)
}

func (f *heldFetcher) GetPieces(ctx context.Context, filter client.PieceFilter, onSuccess func([]models.Piece), onError func(string)) {
	f.pending = append(f.pending, onSuccess)
}

func TestStaleResponseDiscarded(t *testing.T) {
	fetcher := &heldFetcher{}
	cache := NewCatalogCache(fetcher)
	noErr := func(msg string) { t.Fatalf("unexpected error: %s", msg) }

	cache.SetFilter(context.Background(), client.PieceFilter{Composer: "ba"}, noErr)
	cache.SetFilter(context.Background(), client.PieceFilter{Composer: "bach"}, noErr)
	if len(fetcher.pending) != 2 {
		t.Fatalf("expected 2 in-flight searches, got %d", len(fetcher.pending))
	}

	// The newer filter's response lands first; the older one trails in.
	fetcher.pending[1]([]models.Piece{{PieceID: 1, Composer: "Bach", Title: "Fugue"}})
	fetcher.pending[0]([]models.Piece{
		{PieceID: 1, Composer: "Bach", Title: "Fugue"},
		{PieceID: 2, Composer: "Barber", Title: "Adagio"},
	})

	results := cache.Results()
	if len(results) != 1 || results[0].Composer != "Bach" {
		t.Fatalf("expected the newer filter's results to stand, got %v", results)
	}
}

func TestClearSupersedesInFlightSearch(t *testing.T) {
	fetcher := &heldFetcher{}
	cache := NewCatalogCache(fetcher)
	noErr := func(msg string) { t.Fatalf("unexpected error: %s", msg) }

	cache.SetFilter(context.Background(), client.PieceFilter{Composer: "ba"}, noErr)
	// Clearing the filter empties the cache immediately, without a request.
	cache.SetFilter(context.Background(), client.PieceFilter{}, noErr)

	if len(fetcher.pending) != 1 {
		t.Fatalf("expected only the non-empty filter to search, got %d", len(fetcher.pending))
	}

	fetcher.pending[0]([]models.Piece{{PieceID: 2, Composer: "Barber", Title: "Adagio"}})
	if len(cache.Results()) != 0 {
		t.Fatalf("expected the cleared cache to stay empty, got %v", cache.Results())
	}
}
