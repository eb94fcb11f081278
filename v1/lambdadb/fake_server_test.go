package lambdadb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-units"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// fakeLambdaDB is an in-memory LambdaDB service with a presigned object
// store under /storage.
type fakeLambdaDB struct {
	t      *testing.T
	server *httptest.Server

	mu          sync.Mutex
	collections map[string]*fakeCollection
	objects     map[string][]byte
	requests    []recordedRequest
	nextObject  int

	// outOfBand makes list, fetch and query deliver docs through /storage.
	outOfBand bool
}

type fakeCollection struct {
	info CollectionResponse
	docs []Document
}

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
}

func newFakeLambdaDB(t *testing.T) *fakeLambdaDB {
	t.Helper()
	f := &fakeLambdaDB{
		t:           t,
		collections: map[string]*fakeCollection{},
		objects:     map[string][]byte{},
	}

	r := mux.NewRouter()
	r.Use(f.record)

	storage := r.PathPrefix("/storage").Subrouter()
	storage.HandleFunc("/{key}", f.putObject).Methods(http.MethodPut)
	storage.HandleFunc("/{key}", f.getObject).Methods(http.MethodGet)

	api := r.PathPrefix("/projects/{project}").Subrouter()
	api.Use(f.authenticate)
	api.HandleFunc("/collections", f.listCollections).Methods(http.MethodGet)
	api.HandleFunc("/collections", f.createCollection).Methods(http.MethodPost)
	api.HandleFunc("/collections/{name}", f.getCollection).Methods(http.MethodGet)
	api.HandleFunc("/collections/{name}", f.updateCollection).Methods(http.MethodPatch)
	api.HandleFunc("/collections/{name}", f.deleteCollection).Methods(http.MethodDelete)
	api.HandleFunc("/collections/{name}/query", f.query).Methods(http.MethodPost)
	api.HandleFunc("/collections/{name}/docs", f.listDocs).Methods(http.MethodGet)
	api.HandleFunc("/collections/{name}/docs/upsert", f.upsertDocs).Methods(http.MethodPost)
	api.HandleFunc("/collections/{name}/docs/update", f.upsertDocs).Methods(http.MethodPost)
	api.HandleFunc("/collections/{name}/docs/delete", f.deleteDocs).Methods(http.MethodPost)
	api.HandleFunc("/collections/{name}/docs/fetch", f.fetchDocs).Methods(http.MethodPost)
	api.HandleFunc("/collections/{name}/docs/bulk-upsert", f.getBulkUpsert).Methods(http.MethodGet)
	api.HandleFunc("/collections/{name}/docs/bulk-upsert", f.bulkUpsert).Methods(http.MethodPost)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// client returns a client pointed at project "demo" of the fake.
func (f *fakeLambdaDB) client() *LambdaDBClient {
	f.t.Helper()
	cfg := testConfig(f.t).WithServerURL("").WithBaseURL(f.server.URL).WithProjectName("demo")
	client, err := NewClient(cfg)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { _ = client.Close() })
	return client
}

func (f *fakeLambdaDB) addCollection(name string, docs ...Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[name] = &fakeCollection{
		info: CollectionResponse{
			ProjectName:      "demo",
			CollectionName:   name,
			CollectionStatus: "ACTIVE",
			NumDocs:          int64(len(docs)),
			CreatedAt:        time.Now().Unix(),
		},
		docs: docs,
	}
}

func (f *fakeLambdaDB) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.requests)
}

func (f *fakeLambdaDB) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()})
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *fakeLambdaDB) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(apiKeyHeader) != "test-key" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid api key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeLambdaDB) collection(w http.ResponseWriter, r *http.Request) (*fakeCollection, bool) {
	name := mux.Vars(r)["name"]
	c, ok := f.collections[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": fmt.Sprintf("collection %s not found", name)})
	}
	return c, ok
}

func (f *fakeLambdaDB) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return false
	}
	return true
}

// page slices items by the size and pageToken query parameters. The service
// never returns more than MaxListPageSize items.
func page[T any](r *http.Request, items []T) ([]T, string) {
	size := MaxListPageSize
	if v := r.URL.Query().Get("size"); v != "" {
		size, _ = strconv.Atoi(v)
	}
	size = min(size, MaxListPageSize)
	start, _ := strconv.Atoi(r.URL.Query().Get("pageToken"))
	start = min(start, len(items))
	end := min(start+size, len(items))
	next := ""
	if end < len(items) {
		next = strconv.Itoa(end)
	}
	return items[start:end], next
}

// envelope returns the docs fields of a response, storing docs in the object
// store when outOfBand is set.
func (f *fakeLambdaDB) envelope(docs any) map[string]any {
	if !f.outOfBand {
		return map[string]any{"docs": docs, "isDocsInline": true}
	}
	data, _ := json.Marshal(docs)
	f.nextObject++
	key := fmt.Sprintf("results-%d.json", f.nextObject)
	f.objects[key] = data
	return map[string]any{"docs": []any{}, "isDocsInline": false, "docsUrl": f.server.URL + "/storage/" + key}
}

func (f *fakeLambdaDB) listCollections(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.collections))
	for name := range f.collections {
		names = append(names, name)
	}
	slices.Sort(names)

	items := make([]CollectionResponse, 0, len(names))
	for _, name := range names {
		items = append(items, f.collections[name].info)
	}
	collections, next := page(r, items)
	writeJSON(w, http.StatusOK, ListCollectionsResponse{Collections: collections, NextPageToken: next})
}

func (f *fakeLambdaDB) createCollection(w http.ResponseWriter, r *http.Request) {
	var req CreateCollectionRequest
	if !f.decode(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.collections[req.CollectionName]; exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "collection already exists"})
		return
	}
	c := &fakeCollection{info: CollectionResponse{
		ProjectName:      mux.Vars(r)["project"],
		CollectionName:   req.CollectionName,
		IndexConfigs:     req.IndexConfigs,
		CollectionStatus: "CREATING",
		CreatedAt:        time.Now().Unix(),
	}}
	f.collections[req.CollectionName] = c
	writeJSON(w, http.StatusAccepted, collectionEnvelope{Collection: c.info})
}

func (f *fakeLambdaDB) getCollection(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collection(w, r)
	if !ok {
		return
	}
	c.info.NumDocs = int64(len(c.docs))
	writeJSON(w, http.StatusOK, collectionEnvelope{Collection: c.info})
}

func (f *fakeLambdaDB) updateCollection(w http.ResponseWriter, r *http.Request) {
	var req UpdateCollectionRequest
	if !f.decode(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collection(w, r)
	if !ok {
		return
	}
	c.info.IndexConfigs = req.IndexConfigs
	c.info.UpdatedAt = time.Now().Unix()
	writeJSON(w, http.StatusOK, collectionEnvelope{Collection: c.info})
}

func (f *fakeLambdaDB) deleteCollection(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.collection(w, r); !ok {
		return
	}
	delete(f.collections, mux.Vars(r)["name"])
	writeJSON(w, http.StatusAccepted, MessageResponse{Message: "Collection delete request is accepted"})
}

func (f *fakeLambdaDB) query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !f.decode(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collection(w, r)
	if !ok {
		return
	}

	size := req.Size
	if size == 0 {
		size = 10
	}
	hits := make([]QueryHit, 0, size)
	for i, doc := range c.docs[:min(size, len(c.docs))] {
		score := 1.0 / float64(i+1)
		hits = append(hits, QueryHit{Collection: c.info.CollectionName, Doc: doc, Score: &score})
	}

	resp := f.envelope(hits)
	resp["took"] = 3
	resp["total"] = len(hits)
	writeJSON(w, http.StatusOK, resp)
}

func (f *fakeLambdaDB) listDocs(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collection(w, r)
	if !ok {
		return
	}

	items := make([]map[string]any, 0, len(c.docs))
	for _, doc := range c.docs {
		items = append(items, map[string]any{"collection": c.info.CollectionName, "doc": doc})
	}
	docs, next := page(r, items)

	resp := f.envelope(docs)
	resp["total"] = len(c.docs)
	if next != "" {
		resp["nextPageToken"] = next
	}
	writeJSON(w, http.StatusOK, resp)
}

func (f *fakeLambdaDB) upsert(c *fakeCollection, docs []Document) {
	for _, doc := range docs {
		i := slices.IndexFunc(c.docs, func(d Document) bool { return d["id"] == doc["id"] })
		if i < 0 {
			c.docs = append(c.docs, doc)
			continue
		}
		c.docs[i] = doc
	}
}

func (f *fakeLambdaDB) upsertDocs(w http.ResponseWriter, r *http.Request) {
	var req UpsertDocsRequest
	if !f.decode(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collection(w, r)
	if !ok {
		return
	}
	f.upsert(c, req.Docs)
	writeJSON(w, http.StatusAccepted, MessageResponse{Message: "Upsert request is accepted"})
}

func (f *fakeLambdaDB) deleteDocs(w http.ResponseWriter, r *http.Request) {
	var req DeleteDocsRequest
	if !f.decode(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collection(w, r)
	if !ok {
		return
	}
	c.docs = slices.DeleteFunc(c.docs, func(d Document) bool {
		id, _ := d["id"].(string)
		return slices.Contains(req.IDs, id)
	})
	writeJSON(w, http.StatusAccepted, MessageResponse{Message: "Delete request is accepted"})
}

func (f *fakeLambdaDB) fetchDocs(w http.ResponseWriter, r *http.Request) {
	var req FetchRequest
	if !f.decode(w, r, &req) {
		return
	}
	if len(req.IDs) > MaxFetchIDs {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "too many ids"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collection(w, r)
	if !ok {
		return
	}

	hits := []FetchHit{}
	for _, id := range req.IDs {
		i := slices.IndexFunc(c.docs, func(d Document) bool { return d["id"] == id })
		if i >= 0 {
			hits = append(hits, FetchHit{Collection: c.info.CollectionName, Doc: c.docs[i]})
		}
	}

	resp := f.envelope(hits)
	resp["total"] = len(hits)
	resp["took"] = len(req.IDs)
	writeJSON(w, http.StatusOK, resp)
}

func (f *fakeLambdaDB) getBulkUpsert(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.collection(w, r); !ok {
		return
	}
	f.nextObject++
	key := fmt.Sprintf("bulk-%d.json", f.nextObject)
	limit := int64(200 * units.KiB)
	writeJSON(w, http.StatusOK, BulkUpsertInfo{
		URL:            f.server.URL + "/storage/" + key,
		Type:           contentTypeJSON,
		HTTPMethod:     http.MethodPut,
		ObjectKey:      key,
		SizeLimitBytes: &limit,
	})
}

func (f *fakeLambdaDB) bulkUpsert(w http.ResponseWriter, r *http.Request) {
	var req bulkUpsertRequest
	if !f.decode(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.collection(w, r)
	if !ok {
		return
	}
	data, ok := f.objects[req.ObjectKey]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "object not uploaded"})
		return
	}
	var payload bulkPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	f.upsert(c, payload.Docs)
	writeJSON(w, http.StatusAccepted, MessageResponse{Message: "Bulk upsert request is accepted"})
}

func (f *fakeLambdaDB) putObject(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.objects[mux.Vars(r)["key"]] = data
	f.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (f *fakeLambdaDB) getObject(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	data, ok := f.objects[mux.Vars(r)["key"]]
	f.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	_, _ = w.Write(data)
}
