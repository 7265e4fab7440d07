package editor

import (
	"context"

	"practica/internal/client"
	"practica/internal/models"
)

// pieceFetcher is the slice of the API client the cache needs.
type pieceFetcher interface {
	GetPieces(ctx context.Context, filter client.PieceFilter, onSuccess func([]models.Piece), onError func(string))
}

// CatalogCache holds the pieces matching the current search filter. The
// result set is replaced wholesale on every filter change, never merged.
type CatalogCache struct {
	api     pieceFetcher
	filter  client.PieceFilter
	results []models.Piece

	// Monotonic fetch counter so a slow response for an old filter cannot
	// clobber the results of a newer one.
	nextSeq uint64
	applied uint64
}

func NewCatalogCache(api pieceFetcher) *CatalogCache {
	return &CatalogCache{api: api}
}

// SetFilter updates the filter and revalidates the result set. When both
// filter fields are empty the cache empties without issuing a request, so an
// unfiltered search never lists the entire catalog.
func (c *CatalogCache) SetFilter(ctx context.Context, filter client.PieceFilter, onError func(string)) {
	c.filter = filter
	c.nextSeq++
	seq := c.nextSeq

	if filter.IsEmpty() {
		c.store(seq, nil)
		return
	}

	c.api.GetPieces(ctx, filter, func(pieces []models.Piece) {
		c.store(seq, pieces)
	}, onError)
}

func (c *CatalogCache) store(seq uint64, pieces []models.Piece) {
	if seq < c.applied {
		return
	}
	c.applied = seq
	c.results = pieces
}

func (c *CatalogCache) Filter() client.PieceFilter {
	return c.filter
}

// Results returns the current result set in server-provided order.
func (c *CatalogCache) Results() []models.Piece {
	return c.results
}
