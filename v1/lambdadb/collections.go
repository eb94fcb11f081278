package lambdadb

import (
	"context"
	"iter"
	"net/http"
)

// Collections groups the project-level collection operations.
// Obtain it with LambdaDBClient.Collections.
type Collections struct {
	client *LambdaDBClient
}

// List returns one page of collections.
func (s *Collections) List(ctx context.Context, size int, pageToken string, opts ...CallOption) (*ListCollectionsResponse, error) {
	return s.list(ctx, size, pageToken, resolveOptions(opts))
}

func (s *Collections) list(ctx context.Context, size int, pageToken string, opts RequestOptions) (*ListCollectionsResponse, error) {
	var resp ListCollectionsResponse
	err := s.client.call(ctx, apiCall{
		operation: "list_collections",
		method:    http.MethodGet,
		path:      "/collections",
		query:     pageQuery(size, pageToken),
	}, opts, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListPages returns a pager over all collections of the project. A size of
// zero uses the configured default page size.
func (s *Collections) ListPages(size int, opts ...CallOption) (*Pager[CollectionResponse], error) {
	if size == 0 {
		size = s.client.cfg.DefaultPageSize
	}
	options := resolveOptions(opts)
	return NewPager(size, func(ctx context.Context, n int, token string) ([]CollectionResponse, string, error) {
		resp, err := s.list(ctx, n, token, options)
		if err != nil {
			return nil, "", err
		}
		return resp.Collections, resp.NextPageToken, nil
	})
}

// All iterates over every collection of the project.
func (s *Collections) All(ctx context.Context, pageSize int, opts ...CallOption) iter.Seq2[CollectionResponse, error] {
	pager, err := s.ListPages(pageSize, opts...)
	if err != nil {
		return errorSeq[CollectionResponse](err)
	}
	return pager.Items(ctx)
}

// Create creates a collection and returns its description.
func (s *Collections) Create(ctx context.Context, req CreateCollectionRequest, opts ...CallOption) (*CollectionResponse, error) {
	if err := s.client.validateStruct(req); err != nil {
		return nil, err
	}

	var resp collectionEnvelope
	err := s.client.call(ctx, apiCall{
		operation:  "create_collection",
		collection: req.CollectionName,
		method:     http.MethodPost,
		path:       "/collections",
		body:       req,
	}, resolveOptions(opts), &resp)
	if err != nil {
		return nil, err
	}

	s.client.logInfo(ctx, "Collection created", map[string]interface{}{
		"collection": req.CollectionName,
	})
	return &resp.Collection, nil
}

// Get returns the description of the named collection.
func (s *Collections) Get(ctx context.Context, name string, opts ...CallOption) (*CollectionResponse, error) {
	path, err := s.collectionPath(name)
	if err != nil {
		return nil, err
	}

	var resp collectionEnvelope
	err = s.client.call(ctx, apiCall{
		operation:  "get_collection",
		collection: name,
		method:     http.MethodGet,
		path:       path,
	}, resolveOptions(opts), &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Collection, nil
}

// Update replaces the index configuration of the named collection.
func (s *Collections) Update(ctx context.Context, name string, req UpdateCollectionRequest, opts ...CallOption) (*CollectionResponse, error) {
	path, err := s.collectionPath(name)
	if err != nil {
		return nil, err
	}
	if err := s.client.validateStruct(req); err != nil {
		return nil, err
	}

	var resp collectionEnvelope
	err = s.client.call(ctx, apiCall{
		operation:  "update_collection",
		collection: name,
		method:     http.MethodPatch,
		path:       path,
		body:       req,
	}, resolveOptions(opts), &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Collection, nil
}

// Delete deletes the named collection and all of its documents.
func (s *Collections) Delete(ctx context.Context, name string, opts ...CallOption) (*MessageResponse, error) {
	path, err := s.collectionPath(name)
	if err != nil {
		return nil, err
	}

	var resp MessageResponse
	err = s.client.call(ctx, apiCall{
		operation:  "delete_collection",
		collection: name,
		method:     http.MethodDelete,
		path:       path,
	}, resolveOptions(opts), &resp)
	if err != nil {
		return nil, err
	}

	s.client.logInfo(ctx, "Collection deleted", map[string]interface{}{
		"collection": name,
	})
	return &resp, nil
}

func (s *Collections) collectionPath(name string) (string, error) {
	if err := s.client.validateCollectionName(name); err != nil {
		return "", err
	}
	return collectionPath(name, "")
}
