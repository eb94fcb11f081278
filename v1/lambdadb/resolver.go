package lambdadb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// resolveDocs returns env with Docs populated. Inline envelopes, and
// envelopes without a DocsURL, are returned unchanged without any request.
// Otherwise DocsURL is downloaded and must hold a JSON array whose elements
// decode into T; any failure returns an error and no documents. Only Docs is
// replaced in the result.
func resolveDocs[T any](ctx context.Context, c *LambdaDBClient, operation, collection string, env DocsEnvelope[T], opts RequestOptions) (DocsEnvelope[T], error) {
	if !env.outOfBand() {
		return env, nil
	}

	resp, err := c.do(ctx, exchange{
		operation:  operation + "_docs_url",
		collection: collection,
		method:     http.MethodGet,
		url:        env.DocsURL,
		failure: func(r *Response) error {
			return &RemoteFetchError{StatusCode: r.StatusCode, Body: r.Text()}
		},
	}, opts)
	if err != nil {
		return DocsEnvelope[T]{}, err
	}

	docs, err := decodeDocsArray[T](resp.Body)
	if err != nil {
		c.logError(ctx, "Failed to decode out-of-band docs", err, map[string]interface{}{
			"operation":  operation,
			"collection": collection,
			"size":       len(resp.Body),
		})
		return DocsEnvelope[T]{}, err
	}

	c.logDebug(ctx, "Resolved out-of-band docs", map[string]interface{}{
		"operation":  operation,
		"collection": collection,
		"count":      len(docs),
	})

	resolved := env
	resolved.Docs = docs
	return resolved, nil
}

var errNotArray = errors.New("payload is not a JSON array")

// decodeDocsArray decodes a JSON array element by element into T.
func decodeDocsArray[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &MalformedPayloadError{Index: -1, Err: errNotArray}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &MalformedPayloadError{Index: -1, Err: err}
	}

	docs := make([]T, 0, len(raw))
	for i, element := range raw {
		var doc T
		if err := json.Unmarshal(element, &doc); err != nil {
			return nil, &MalformedPayloadError{Index: i, Err: err}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
