package lambdadb

import (
	"context"
	"encoding/json"
	"net/http"
)

// Collection is a handle on one collection. It holds no state beyond the
// name and is cheap to create.
type Collection struct {
	client *LambdaDBClient
	name   string
	docs   *CollectionDocs
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Docs returns the document operations of the collection.
func (c *Collection) Docs() *CollectionDocs {
	return c.docs
}

// Get returns the collection description.
func (c *Collection) Get(ctx context.Context, opts ...CallOption) (*CollectionResponse, error) {
	return c.client.collections.Get(ctx, c.name, opts...)
}

// Query searches the collection with a vector, keyword or hybrid query.
// Out-of-band results are downloaded before Query returns.
//
// Example:
//
//	resp, err := client.Collection("articles").Query(ctx, lambdadb.QueryRequest{
//	    Query: map[string]any{"queryString": map[string]any{"query": "title:go"}},
//	    Size:  10,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, doc := range resp.Documents() {
//	    fmt.Println(doc["title"])
//	}
func (c *Collection) Query(ctx context.Context, req QueryRequest, opts ...CallOption) (*QueryResponse, error) {
	client := c.client
	path, err := collectionPath(c.name, "/query")
	if err != nil {
		return nil, err
	}
	if err := client.validateStruct(req); err != nil {
		return nil, err
	}

	options := resolveOptions(opts)

	var resp QueryResponse
	err = client.call(ctx, apiCall{
		operation:  "query",
		collection: c.name,
		method:     http.MethodPost,
		path:       path,
		body:       req,
	}, options, &resp)
	if err != nil {
		return nil, err
	}

	resp.DocsEnvelope, err = resolveDocs(ctx, client, "query", c.name, resp.DocsEnvelope, options)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func encodedSize(v any) int64 {
	data, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return int64(len(data))
}
