// Package lambdadb provides a client for the LambdaDB vector and document
// database service.
//
// The lambdadb package wraps the LambdaDB HTTP API and adds the behavior the
// raw endpoints leave to the caller: transparent download of large result
// sets delivered out of band, fixed-size pagination over token-paginated
// listings, and a bulk upsert saga through presigned object storage URLs.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - Client interface: Defines the top-level contract
//   - LambdaDBClient struct: Concrete implementation of the Client interface
//   - NewClient constructor: Returns *LambdaDBClient (concrete type)
//   - Transport interface: The HTTP seam; HTTPTransport is the default
//   - FX module: Provides both *LambdaDBClient and Client for dependency injection
//
// Operations are grouped in three handles:
//   - Collections: project-level collection management (List, Create, Get, Update, Delete)
//   - Collection: one collection and its Query operation
//   - CollectionDocs: the documents of one collection (List, Upsert, Fetch, BulkUpsertDocs, ...)
//
// # Direct Usage (Without FX)
//
//	cfg := lambdadb.DefaultConfig().
//		WithProjectAPIKey(os.Getenv("LAMBDADB_PROJECT_API_KEY")).
//		WithProjectName("playground")
//
//	client, err := lambdadb.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	docs := client.Collection("articles").Docs()
//	resp, err := docs.Fetch(ctx, lambdadb.FetchRequest{IDs: []string{"a1", "a2"}})
//	if err != nil {
//		return err
//	}
//	for _, doc := range resp.Documents() {
//		fmt.Println(doc["title"])
//	}
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		metrics.FXModule,
//		lambdadb.FXModule,
//		fx.Provide(
//			func() logger.Config { return logger.Config{Level: logger.Info} },
//			func() metrics.Config { return metrics.Config{ServiceName: "search-api"} },
//			lambdadb.NewConfig,
//		),
//		fx.Invoke(func(c lambdadb.Client) {
//			// use the client
//		}),
//	)
//
// # Out-of-band Results
//
// Query, Fetch and List responses carry either their documents inline or a
// short-lived docsUrl pointing to a JSON array. In the second case the client
// downloads and decodes the array before returning, so callers always see a
// populated Docs slice. A failed download returns *RemoteFetchError; a body
// that is not a JSON array, or an element that does not decode, returns
// *MalformedPayloadError. Partial results are never returned.
//
// # Pagination
//
// CollectionDocs.ListPages and Collections.ListPages return a Pager that
// regroups the service's pages into pages of exactly the requested size
// (the last one may be shorter). Empty pages are never produced. Use
// Pager.Next in a loop, or range over Pager.Pages and Pager.Items. The All
// helpers iterate over every item directly.
//
// # Bulk Upsert
//
// CollectionDocs.BulkUpsertDocs requests an upload ticket, checks the
// encoded payload against the ticket's size limit, uploads it to the
// presigned URL without the API key, and confirms it. See its documentation
// for the failure modes.
//
// # Request Options
//
// Every operation accepts CallOption values overriding the client defaults
// for that call: WithTimeoutMs, WithServerURL, WithRetries, WithHTTPHeaders,
// or all of them at once with WithRequestOptions. Fields set in the
// consolidated RequestOptions win over individually given ones. Options given
// to a composite operation (BulkUpsertDocs, FetchAll, out-of-band downloads)
// apply to every request it sends.
//
// # Blocking and Cancellation
//
// All operations block until complete and honor ctx cancellation and
// deadlines. There is no separate asynchronous API: run an operation in a
// goroutine to overlap it with other work. Results and errors are the same
// either way.
//
// # Error Handling
//
// Service errors are returned as *APIError, which matches the status
// sentinels with errors.Is:
//
//	_, err := client.Collections().Get(ctx, "missing")
//	if lambdadb.IsNotFoundError(err) {
//		// handle 404
//	}
//
// Parameter validation failures match ErrInvalidArgument and are reported
// before any request is sent. A client whose transport was set to nil fails
// every network operation with ErrTransportUnavailable.
//
// # Observability
//
// Attach an observability.Observer with WithObserver (metrics.Metrics
// implements it), a Logger with WithLogger and a Tracer with WithTracer. The
// observer sees one OperationContext per HTTP exchange, including out-of-band
// downloads ("<operation>_docs_url") and bulk uploads ("bulk_upload").
//
// # Thread Safety
//
// LambdaDBClient and its handles are safe for concurrent use. A Pager is not.
package lambdadb
