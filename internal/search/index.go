// Package search wraps the hosted Algolia index that mirrors the media
// catalog. The index is a derived projection of the catalog store keyed by
// the store's synthetic record ID; it is written on ingestion and queried
// with typo tolerance for free-text title lookups.
//
// The package exposes a small Index interface so services stay decoupled
// from the concrete client:
//
//   - No logging in the library (callers decide how/what to log)
//   - Context-aware calls; the client enforces its own request timeouts
//   - Hits carry only what the bot renders: the title and the channel
//     post ID the access link is formatted from
package search

import (
	"context"
	"strconv"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	algoliasearch "github.com/algolia/algoliasearch-client-go/v3/algolia/search"
)

// DefaultMaxHits caps a single query's result set.
const DefaultMaxHits = 20

// Document is the indexed projection of one catalog record.
type Document struct {
	ObjectID string `json:"objectID"`
	Title    string `json:"title"`
	PostID   int64  `json:"post_id"`
}

// Hit is one search result: the catalog title and the channel post it
// resolves to.
type Hit struct {
	Title  string `json:"title"`
	PostID int64  `json:"post_id"`
}

// Index is the minimal interface implemented by the hosted search index.
type Index interface {
	// Search returns up to limit typo-tolerant matches for query.
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
	// Save upserts a document keyed by its ObjectID.
	Save(ctx context.Context, doc Document) error
	// Ping verifies the index is reachable.
	Ping(ctx context.Context) error
}

// ObjectID formats a catalog record ID as the index object key.
func ObjectID(recordID int64) string { return strconv.FormatInt(recordID, 10) }

// AlgoliaIndex implements Index on top of the Algolia v3 client.
type AlgoliaIndex struct {
	index *algoliasearch.Index
}

// NewAlgolia connects the given application credentials to indexName.
// The constructor performs no network I/O; use Ping to verify reachability.
func NewAlgolia(appID, apiKey, indexName string) *AlgoliaIndex {
	client := algoliasearch.NewClient(appID, apiKey)
	return &AlgoliaIndex{index: client.InitIndex(indexName)}
}

// Search queries the hosted index with typo tolerance enabled, retrieving
// only the title and post_id attributes. A non-positive limit falls back to
// DefaultMaxHits.
func (a *AlgoliaIndex) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	res, err := a.index.Search(query,
		ctx,
		opt.HitsPerPage(clampHits(limit)),
		opt.TypoTolerance(true),
		opt.AttributesToRetrieve("title", "post_id"),
	)
	if err != nil {
		return nil, err
	}
	var hits []Hit
	if err := res.UnmarshalHits(&hits); err != nil {
		return nil, err
	}
	return hits, nil
}

// Save upserts doc into the hosted index.
func (a *AlgoliaIndex) Save(ctx context.Context, doc Document) error {
	_, err := a.index.SaveObject(doc, ctx)
	return err
}

// Ping issues a cheap settings read to verify connectivity and credentials.
func (a *AlgoliaIndex) Ping(ctx context.Context) error {
	_, err := a.index.GetSettings(ctx)
	return err
}

func clampHits(limit int) int {
	if limit <= 0 || limit > DefaultMaxHits {
		return DefaultMaxHits
	}
	return limit
}
