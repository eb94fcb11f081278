package lambdadb

import (
	"time"
)

// Document is a single stored document as it travels over the wire.
type Document = map[string]any

// PartitionFilter restricts an operation to the partitions matching the filter.
type PartitionFilter = map[string]any

// IndexConfig describes how a single field of a collection is indexed.
type IndexConfig struct {
	// Type is the index type, e.g. "keyword", "text", "long", "vector".
	Type string `json:"type"`

	// Dimensions is required for vector indexes.
	Dimensions int `json:"dimensions,omitempty"`

	// Similarity is the vector similarity metric, e.g. "cosine".
	Similarity string `json:"similarity,omitempty"`

	// Analyzers lists the text analyzers for text indexes.
	Analyzers []string `json:"analyzers,omitempty"`
}

// FieldsSelector limits the document fields returned by fetch and query.
type FieldsSelector struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// MessageResponse is returned by operations that only acknowledge a request.
type MessageResponse struct {
	Message string `json:"message"`
}

// DocsEnvelope is the part shared by responses whose documents may be
// delivered out of band. When IsDocsInline is false and DocsURL is set, Docs
// is empty on the wire and the documents live behind DocsURL. Responses
// returned by this package always have Docs populated.
type DocsEnvelope[T any] struct {
	Docs         []T    `json:"docs"`
	IsDocsInline bool   `json:"isDocsInline"`
	DocsURL      string `json:"docsUrl,omitempty"`
}

// outOfBand reports whether the documents must be fetched from DocsURL.
func (e DocsEnvelope[T]) outOfBand() bool {
	return !e.IsDocsInline && e.DocsURL != ""
}

// CollectionResponse describes a collection.
type CollectionResponse struct {
	ProjectName          string                 `json:"projectName"`
	CollectionName       string                 `json:"collectionName"`
	IndexConfigs         map[string]IndexConfig `json:"indexConfigs,omitempty"`
	NumPartitions        int                    `json:"numPartitions"`
	NumDocs              int64                  `json:"numDocs"`
	CollectionStatus     string                 `json:"collectionStatus"`
	SourceProjectName    string                 `json:"sourceProjectName,omitempty"`
	SourceCollectionName string                 `json:"sourceCollectionName,omitempty"`

	// CreatedAt, UpdatedAt and DataUpdatedAt are unix timestamps in seconds.
	CreatedAt     int64 `json:"createdAt"`
	UpdatedAt     int64 `json:"updatedAt"`
	DataUpdatedAt int64 `json:"dataUpdatedAt"`
}

// CreatedAtTime returns CreatedAt as a UTC time.
func (c CollectionResponse) CreatedAtTime() time.Time {
	return time.Unix(c.CreatedAt, 0).UTC()
}

// UpdatedAtTime returns UpdatedAt as a UTC time.
func (c CollectionResponse) UpdatedAtTime() time.Time {
	return time.Unix(c.UpdatedAt, 0).UTC()
}

// DataUpdatedAtTime returns DataUpdatedAt as a UTC time.
func (c CollectionResponse) DataUpdatedAtTime() time.Time {
	return time.Unix(c.DataUpdatedAt, 0).UTC()
}

type collectionEnvelope struct {
	Collection CollectionResponse `json:"collection"`
}

// ListCollectionsResponse is one page of collections.
type ListCollectionsResponse struct {
	Collections   []CollectionResponse `json:"collections"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}

// CreateCollectionRequest is the body of Collections.Create.
type CreateCollectionRequest struct {
	CollectionName string                 `json:"collectionName" validate:"required"`
	IndexConfigs   map[string]IndexConfig `json:"indexConfigs,omitempty"`

	// SourceProjectName, SourceCollectionName and SourceDatetime create the
	// collection as a copy of an existing one.
	SourceProjectName    string `json:"sourceProjectName,omitempty"`
	SourceCollectionName string `json:"sourceCollectionName,omitempty"`
	SourceDatetime       string `json:"sourceDatetime,omitempty"`
}

// UpdateCollectionRequest is the body of Collections.Update.
type UpdateCollectionRequest struct {
	IndexConfigs map[string]IndexConfig `json:"indexConfigs" validate:"required"`
}

// QueryRequest is the body of Collection.Query.
type QueryRequest struct {
	Query           map[string]any   `json:"query" validate:"required"`
	Size            int              `json:"size,omitempty" validate:"gte=0"`
	ConsistentRead  bool             `json:"consistentRead,omitempty"`
	IncludeVectors  bool             `json:"includeVectors,omitempty"`
	Sort            []map[string]any `json:"sort,omitempty"`
	Fields          *FieldsSelector  `json:"fields,omitempty"`
	PartitionFilter PartitionFilter  `json:"partitionFilter,omitempty"`
}

// QueryHit is one ranked query result.
type QueryHit struct {
	Collection string   `json:"collection,omitempty"`
	Doc        Document `json:"doc"`
	Score      *float64 `json:"score,omitempty"`
}

// QueryResponse is the result of Collection.Query.
type QueryResponse struct {
	Took     int64    `json:"took"`
	Total    int64    `json:"total"`
	MaxScore *float64 `json:"maxScore,omitempty"`
	DocsEnvelope[QueryHit]
}

// Results returns the ranked hits.
func (r *QueryResponse) Results() []QueryHit {
	return r.Docs
}

// Documents returns the documents of the hits, in rank order.
func (r *QueryResponse) Documents() []Document {
	docs := make([]Document, 0, len(r.Docs))
	for _, hit := range r.Docs {
		docs = append(docs, documentOrEmpty(hit.Doc))
	}
	return docs
}

// FetchRequest is the body of CollectionDocs.Fetch.
type FetchRequest struct {
	IDs             []string        `json:"ids" validate:"required,min=1,max=100,dive,required"`
	ConsistentRead  bool            `json:"consistentRead,omitempty"`
	IncludeVectors  bool            `json:"includeVectors,omitempty"`
	Fields          *FieldsSelector `json:"fields,omitempty"`
	PartitionFilter PartitionFilter `json:"partitionFilter,omitempty"`
}

// FetchHit is one fetched document.
type FetchHit struct {
	Collection string   `json:"collection,omitempty"`
	Doc        Document `json:"doc"`
}

// FetchResponse is the result of CollectionDocs.Fetch.
type FetchResponse struct {
	Total int64 `json:"total"`
	Took  int64 `json:"took"`
	DocsEnvelope[FetchHit]
}

// Results returns the fetched entries.
func (r *FetchResponse) Results() []FetchHit {
	return r.Docs
}

// Documents returns the fetched documents.
func (r *FetchResponse) Documents() []Document {
	docs := make([]Document, 0, len(r.Docs))
	for _, hit := range r.Docs {
		docs = append(docs, documentOrEmpty(hit.Doc))
	}
	return docs
}

// ListDocsResponse is one page of CollectionDocs.List. Items are kept as
// decoded JSON values; use NormalizeDocument or Documents to read them.
type ListDocsResponse struct {
	Total         int64  `json:"total,omitempty"`
	NextPageToken string `json:"nextPageToken,omitempty"`
	DocsEnvelope[any]
}

// Results returns the raw items of the page.
func (r *ListDocsResponse) Results() []any {
	return r.Docs
}

// Documents returns the normalized documents of the page.
func (r *ListDocsResponse) Documents() []Document {
	docs := make([]Document, 0, len(r.Docs))
	for _, item := range r.Docs {
		docs = append(docs, NormalizeDocument(item))
	}
	return docs
}

// UpsertDocsRequest is the body of CollectionDocs.Upsert and CollectionDocs.Update.
type UpsertDocsRequest struct {
	Docs []Document `json:"docs" validate:"required,min=1"`
}

// DeleteDocsRequest is the body of CollectionDocs.Delete. Either IDs or
// Filter must be set.
type DeleteDocsRequest struct {
	IDs             []string        `json:"ids,omitempty" validate:"required_without=Filter"`
	Filter          map[string]any  `json:"filter,omitempty" validate:"required_without=IDs"`
	PartitionFilter PartitionFilter `json:"partitionFilter,omitempty"`
}

// BulkUpsertInfo is the upload ticket returned by CollectionDocs.GetBulkUpsert.
type BulkUpsertInfo struct {
	// URL is a short-lived presigned URL the payload is uploaded to.
	URL string `json:"url"`

	// Type is the content type the upload must declare.
	Type string `json:"type,omitempty"`

	// HTTPMethod is the method the upload must use, normally PUT.
	HTTPMethod string `json:"httpMethod,omitempty"`

	// ObjectKey references the uploaded object in CollectionDocs.BulkUpsert.
	ObjectKey string `json:"objectKey"`

	// SizeLimitBytes is the largest accepted payload, when the service declares one.
	SizeLimitBytes *int64 `json:"sizeLimitBytes,omitempty"`
}

type bulkUpsertRequest struct {
	ObjectKey string `json:"objectKey" validate:"required"`
}

// bulkPayload is the object-storage encoding of a bulk upsert.
type bulkPayload struct {
	Docs []Document `json:"docs"`
}

// NormalizeDocument turns a list item into a document. An object with a "doc"
// key yields that value, any other object is returned as is, and everything
// else yields an empty document.
func NormalizeDocument(item any) Document {
	m, ok := item.(map[string]any)
	if !ok {
		return Document{}
	}
	if inner, ok := m["doc"]; ok {
		if doc, ok := inner.(map[string]any); ok {
			return doc
		}
		return Document{}
	}
	return m
}

func documentOrEmpty(doc Document) Document {
	if doc == nil {
		return Document{}
	}
	return doc
}
