package lambdadb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// BulkUpsertDocs upserts docs through object storage in three steps: it
// requests an upload ticket, uploads the encoded documents to the ticket URL
// and confirms the upload with BulkUpsert.
//
// The encoded payload is checked against the ticket's size limit, or the
// configured fallback when the ticket has none, before anything is uploaded;
// an oversized payload fails with *PayloadTooLargeError. A non-2xx upload
// fails with *UploadFailedError and the upsert is not confirmed. The same
// call options apply to all three requests.
//
// The steps are not atomic: if the confirmation fails after a successful
// upload, the object stays in storage unconfirmed and is not retried here.
//
// Example:
//
//	resp, err := client.Collection("articles").Docs().BulkUpsertDocs(ctx, docs)
//	if lambdadb.IsPayloadTooLargeError(err) {
//	    // split docs and retry
//	}
func (d *CollectionDocs) BulkUpsertDocs(ctx context.Context, docs []Document, opts ...CallOption) (*MessageResponse, error) {
	c := d.client
	if c.transport == nil {
		return nil, ErrTransportUnavailable
	}
	if err := c.validateCollectionName(d.collection); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []Document{}
	}

	options := resolveOptions(opts)
	start := time.Now()

	ticket, err := d.getBulkUpsert(ctx, options)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(bulkPayload{Docs: docs})
	if err != nil {
		return nil, fmt.Errorf("lambdadb: failed to encode bulk payload: %w", err)
	}

	limit := c.cfg.BulkUploadSizeLimitBytes()
	if ticket.SizeLimitBytes != nil {
		limit = *ticket.SizeLimitBytes
	}
	if size := int64(len(payload)); size > limit {
		err := &PayloadTooLargeError{Size: size, Limit: limit}
		c.logWarn(ctx, "Bulk payload exceeds upload limit", err, map[string]interface{}{
			"collection": d.collection,
			"docs":       len(docs),
		})
		return nil, err
	}

	if err := d.upload(ctx, ticket, payload, options); err != nil {
		return nil, err
	}

	resp, err := d.bulkUpsert(ctx, ticket.ObjectKey, options)
	if err != nil {
		return nil, err
	}

	c.logInfo(ctx, "Bulk upsert completed", map[string]interface{}{
		"collection":  d.collection,
		"docs":        len(docs),
		"bytes":       len(payload),
		"object_key":  ticket.ObjectKey,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return resp, nil
}

// upload writes payload to the presigned ticket URL. The API key is not sent.
func (d *CollectionDocs) upload(ctx context.Context, ticket *BulkUpsertInfo, payload []byte, opts RequestOptions) error {
	method := ticket.HTTPMethod
	if method == "" {
		method = http.MethodPut
	}

	header := http.Header{}
	header.Set("Content-Type", contentTypeJSON)

	_, err := d.client.do(ctx, exchange{
		operation:   "bulk_upload",
		collection:  d.collection,
		subResource: ticket.ObjectKey,
		method:      method,
		url:         ticket.URL,
		header:      header,
		body:        payload,
		failure: func(r *Response) error {
			return &UploadFailedError{StatusCode: r.StatusCode, Body: r.Text()}
		},
	}, opts)
	return err
}
