package lambdadb

import (
	"context"
	"fmt"
	"iter"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// CollectionDocs groups the document operations of one collection.
// Obtain it with Collection.Docs.
type CollectionDocs struct {
	client     *LambdaDBClient
	collection string
}

// CollectionName returns the collection the operations apply to.
func (d *CollectionDocs) CollectionName() string {
	return d.collection
}

// List returns one page of documents. size is capped by the service at
// MaxListPageSize; pageToken is empty for the first page. Out-of-band pages
// are downloaded before List returns.
func (d *CollectionDocs) List(ctx context.Context, size int, pageToken string, opts ...CallOption) (*ListDocsResponse, error) {
	return d.list(ctx, size, pageToken, resolveOptions(opts))
}

func (d *CollectionDocs) list(ctx context.Context, size int, pageToken string, opts RequestOptions) (*ListDocsResponse, error) {
	path, err := collectionPath(d.collection, "/docs")
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: size must not be negative", ErrInvalidArgument)
	}

	var resp ListDocsResponse
	err = d.client.call(ctx, apiCall{
		operation:  "list_docs",
		collection: d.collection,
		method:     http.MethodGet,
		path:       path,
		query:      pageQuery(size, pageToken),
	}, opts, &resp)
	if err != nil {
		return nil, err
	}

	resp.DocsEnvelope, err = resolveDocs(ctx, d.client, "list_docs", d.collection, resp.DocsEnvelope, opts)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListPages returns a pager over all documents, in pages of size normalized
// documents. A size of zero uses the configured default page size.
func (d *CollectionDocs) ListPages(size int, opts ...CallOption) (*Pager[Document], error) {
	if size == 0 {
		size = d.client.cfg.DefaultPageSize
	}
	options := resolveOptions(opts)
	return NewPager(size, func(ctx context.Context, n int, token string) ([]Document, string, error) {
		resp, err := d.list(ctx, n, token, options)
		if err != nil {
			return nil, "", err
		}
		return resp.Documents(), resp.NextPageToken, nil
	})
}

// All iterates over every document of the collection, fetching pages of
// pageSize documents as it goes.
//
// Example:
//
//	for doc, err := range client.Collection("articles").Docs().All(ctx, 0) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(doc["id"])
//	}
func (d *CollectionDocs) All(ctx context.Context, pageSize int, opts ...CallOption) iter.Seq2[Document, error] {
	pager, err := d.ListPages(pageSize, opts...)
	if err != nil {
		return errorSeq[Document](err)
	}
	return pager.Items(ctx)
}

// Upsert inserts or replaces docs. The encoded request must not exceed
// MaxUpsertPayloadSize; use BulkUpsertDocs for larger sets.
func (d *CollectionDocs) Upsert(ctx context.Context, docs []Document, opts ...CallOption) (*MessageResponse, error) {
	return d.writeDocs(ctx, "upsert_docs", "/docs/upsert", docs, resolveOptions(opts))
}

// Update partially updates docs. Every document must carry an "id".
func (d *CollectionDocs) Update(ctx context.Context, docs []Document, opts ...CallOption) (*MessageResponse, error) {
	for i, doc := range docs {
		if id, ok := doc["id"]; !ok || id == nil || id == "" {
			return nil, fmt.Errorf("%w: document %d has no id", ErrInvalidArgument, i)
		}
	}
	return d.writeDocs(ctx, "update_docs", "/docs/update", docs, resolveOptions(opts))
}

func (d *CollectionDocs) writeDocs(ctx context.Context, operation, suffix string, docs []Document, opts RequestOptions) (*MessageResponse, error) {
	c := d.client
	path, err := collectionPath(d.collection, suffix)
	if err != nil {
		return nil, err
	}
	req := UpsertDocsRequest{Docs: docs}
	if err := c.validateStruct(req); err != nil {
		return nil, err
	}
	if size := encodedSize(req); size > MaxUpsertPayloadSize {
		return nil, &PayloadTooLargeError{Size: size, Limit: MaxUpsertPayloadSize}
	}

	var resp MessageResponse
	err = c.call(ctx, apiCall{
		operation:  operation,
		collection: d.collection,
		method:     http.MethodPost,
		path:       path,
		body:       req,
	}, opts, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes documents by id or by query filter. Exactly the documents
// matching ids, or filter when ids is empty, are deleted.
func (d *CollectionDocs) Delete(ctx context.Context, req DeleteDocsRequest, opts ...CallOption) (*MessageResponse, error) {
	c := d.client
	path, err := collectionPath(d.collection, "/docs/delete")
	if err != nil {
		return nil, err
	}
	if err := c.validateStruct(req); err != nil {
		return nil, err
	}

	var resp MessageResponse
	err = c.call(ctx, apiCall{
		operation:  "delete_docs",
		collection: d.collection,
		method:     http.MethodPost,
		path:       path,
		body:       req,
	}, resolveOptions(opts), &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Fetch returns the documents with the given ids, at most MaxFetchIDs per
// call. Out-of-band results are downloaded before Fetch returns.
func (d *CollectionDocs) Fetch(ctx context.Context, req FetchRequest, opts ...CallOption) (*FetchResponse, error) {
	return d.fetch(ctx, req, resolveOptions(opts))
}

func (d *CollectionDocs) fetch(ctx context.Context, req FetchRequest, opts RequestOptions) (*FetchResponse, error) {
	c := d.client
	path, err := collectionPath(d.collection, "/docs/fetch")
	if err != nil {
		return nil, err
	}
	if err := c.validateStruct(req); err != nil {
		return nil, err
	}

	var resp FetchResponse
	err = c.call(ctx, apiCall{
		operation:  "fetch_docs",
		collection: d.collection,
		method:     http.MethodPost,
		path:       path,
		body:       req,
	}, opts, &resp)
	if err != nil {
		return nil, err
	}

	resp.DocsEnvelope, err = resolveDocs(ctx, c, "fetch_docs", d.collection, resp.DocsEnvelope, opts)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchAll fetches any number of ids by splitting them into chunks of
// MaxFetchIDs fetched concurrently. Results keep the chunk order; Total is
// summed and Took is the slowest chunk. The first failing chunk cancels the
// others and its error is returned.
func (d *CollectionDocs) FetchAll(ctx context.Context, req FetchRequest, opts ...CallOption) (*FetchResponse, error) {
	if len(req.IDs) <= MaxFetchIDs {
		return d.Fetch(ctx, req, opts...)
	}

	options := resolveOptions(opts)
	chunks := chunkIDs(req.IDs, MaxFetchIDs)
	results := make([]*FetchResponse, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultFetchConcurrency)
	for i, ids := range chunks {
		chunkReq := req
		chunkReq.IDs = ids
		g.Go(func() error {
			resp, err := d.fetch(gctx, chunkReq, options)
			if err != nil {
				return err
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &FetchResponse{DocsEnvelope: DocsEnvelope[FetchHit]{IsDocsInline: true, Docs: []FetchHit{}}}
	for _, r := range results {
		merged.Total += r.Total
		merged.Took = max(merged.Took, r.Took)
		merged.Docs = append(merged.Docs, r.Docs...)
	}
	return merged, nil
}

// GetBulkUpsert requests an upload ticket for a bulk upsert.
func (d *CollectionDocs) GetBulkUpsert(ctx context.Context, opts ...CallOption) (*BulkUpsertInfo, error) {
	return d.getBulkUpsert(ctx, resolveOptions(opts))
}

func (d *CollectionDocs) getBulkUpsert(ctx context.Context, opts RequestOptions) (*BulkUpsertInfo, error) {
	path, err := collectionPath(d.collection, "/docs/bulk-upsert")
	if err != nil {
		return nil, err
	}

	var info BulkUpsertInfo
	err = d.client.call(ctx, apiCall{
		operation:  "get_bulk_upsert",
		collection: d.collection,
		method:     http.MethodGet,
		path:       path,
	}, opts, &info)
	if err != nil {
		return nil, err
	}
	if info.URL == "" || info.ObjectKey == "" {
		return nil, fmt.Errorf("lambdadb: bulk upsert ticket is missing url or objectKey")
	}
	return &info, nil
}

// BulkUpsert confirms a bulk upsert of an object previously uploaded with a
// ticket from GetBulkUpsert.
func (d *CollectionDocs) BulkUpsert(ctx context.Context, objectKey string, opts ...CallOption) (*MessageResponse, error) {
	return d.bulkUpsert(ctx, objectKey, resolveOptions(opts))
}

func (d *CollectionDocs) bulkUpsert(ctx context.Context, objectKey string, opts RequestOptions) (*MessageResponse, error) {
	c := d.client
	path, err := collectionPath(d.collection, "/docs/bulk-upsert")
	if err != nil {
		return nil, err
	}
	req := bulkUpsertRequest{ObjectKey: objectKey}
	if err := c.validateStruct(req); err != nil {
		return nil, err
	}

	var resp MessageResponse
	err = c.call(ctx, apiCall{
		operation:  "bulk_upsert",
		collection: d.collection,
		method:     http.MethodPost,
		path:       path,
		body:       req,
	}, opts, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func chunkIDs(ids []string, size int) [][]string {
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		chunks = append(chunks, ids[start:min(start+size, len(ids))])
	}
	return chunks
}
