package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/autom8ter/arango"
	"github.com/autom8ter/arango/transport"
	"github.com/gorilla/mux"
	"github.com/segmentio/ksuid"
)

type mockCollection struct {
	id         string
	name       string
	typ        int
	revCounter int
	docs       map[string]map[string]any
}

type mockCursor struct {
	results []map[string]any
	pos     int
	batch   int
	count   bool
}

type mockTransaction struct {
	id     string
	status string
	// staged inserts, collection name to key to document. Only inserts are
	// staged, which is as much isolation as the tests need.
	staged map[string]map[string]map[string]any
}

type mockDatabase struct {
	id           string
	name         string
	collections  map[string]*mockCollection
	cursors      map[string]*mockCursor
	transactions map[string]*mockTransaction
	indexes      map[string]map[string]any
	views        map[string]map[string]any
	analyzers    map[string]map[string]any
	graphs       map[string]map[string]any
	indexSeq     int
}

// MockServer is an in memory stand-in for a single server endpoint, complete
// enough to run the client end to end over real HTTP.
type MockServer struct {
	mu        sync.Mutex
	srv       *httptest.Server
	databases map[string]*mockDatabase
	users     map[string]map[string]any
	grants    map[string]map[string]arango.Permission
	seq       int
}

func NewMockServer() *MockServer {
	m := &MockServer{
		databases: map[string]*mockDatabase{},
		users: map[string]map[string]any{
			"root": {"user": "root", "active": true},
		},
		grants: map[string]map[string]arango.Permission{},
	}
	m.ensureDatabase("_system")

	r := mux.NewRouter()
	r.Use(m.serverHeaders, m.requireAuth)
	r.HandleFunc("/", m.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/_open/auth", m.handleAuth).Methods(http.MethodPost)
	r.HandleFunc("/_api/version", m.handleVersion).Methods(http.MethodGet)
	r.HandleFunc("/_admin/server/role", m.handleRole).Methods(http.MethodGet)
	r.HandleFunc("/_admin/cluster/health", m.handleClusterHealth).Methods(http.MethodGet)
	r.HandleFunc("/_api/user", m.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/_api/user", m.createUser).Methods(http.MethodPost)
	r.HandleFunc("/_api/user/{user}", m.getUser).Methods(http.MethodGet)
	r.HandleFunc("/_api/user/{user}", m.updateUser).Methods(http.MethodPatch)
	r.HandleFunc("/_api/user/{user}", m.removeUser).Methods(http.MethodDelete)
	r.HandleFunc("/_api/user/{user}/database", m.userDatabases).Methods(http.MethodGet)
	r.HandleFunc("/_api/user/{user}/database/{database}", m.grantDatabase).Methods(http.MethodPut)
	r.HandleFunc("/_api/database", m.createDatabase).Methods(http.MethodPost)
	r.HandleFunc("/_api/database/{name}", m.dropDatabase).Methods(http.MethodDelete)

	db := r.PathPrefix("/_db/{db}").Subrouter()
	db.HandleFunc("/_api/version", m.handleVersion).Methods(http.MethodGet)
	db.HandleFunc("/_api/database/current", m.currentDatabase).Methods(http.MethodGet)
	db.HandleFunc("/_api/collection", m.listCollections).Methods(http.MethodGet)
	db.HandleFunc("/_api/collection", m.createCollection).Methods(http.MethodPost)
	db.HandleFunc("/_api/collection/{collection}", m.getCollection).Methods(http.MethodGet)
	db.HandleFunc("/_api/collection/{collection}", m.dropCollection).Methods(http.MethodDelete)
	db.HandleFunc("/_api/collection/{collection}/{action}", m.collectionAction).Methods(http.MethodGet, http.MethodPut)
	db.HandleFunc("/_api/document/{collection}", m.createDocument).Methods(http.MethodPost)
	db.HandleFunc("/_api/document/{collection}/{key}", m.getDocument).Methods(http.MethodGet)
	db.HandleFunc("/_api/document/{collection}/{key}", m.updateDocument).Methods(http.MethodPatch)
	db.HandleFunc("/_api/document/{collection}/{key}", m.replaceDocument).Methods(http.MethodPut)
	db.HandleFunc("/_api/document/{collection}/{key}", m.removeDocument).Methods(http.MethodDelete)
	db.HandleFunc("/_api/cursor", m.createCursor).Methods(http.MethodPost)
	db.HandleFunc("/_api/cursor/{id}", m.cursorNextBatch).Methods(http.MethodPut)
	db.HandleFunc("/_api/cursor/{id}", m.deleteCursor).Methods(http.MethodDelete)
	db.HandleFunc("/_api/transaction/begin", m.beginTransaction).Methods(http.MethodPost)
	db.HandleFunc("/_api/transaction", m.listTransactions).Methods(http.MethodGet)
	db.HandleFunc("/_api/transaction/{id}", m.commitTransaction).Methods(http.MethodPut)
	db.HandleFunc("/_api/transaction/{id}", m.abortTransaction).Methods(http.MethodDelete)
	db.HandleFunc("/_api/index", m.listIndexes).Methods(http.MethodGet)
	db.HandleFunc("/_api/index", m.createIndex).Methods(http.MethodPost)
	db.HandleFunc("/_api/index/{collection}/{id}", m.getIndex).Methods(http.MethodGet)
	db.HandleFunc("/_api/index/{collection}/{id}", m.deleteIndex).Methods(http.MethodDelete)
	db.HandleFunc("/_api/view", m.listViews).Methods(http.MethodGet)
	db.HandleFunc("/_api/view", m.createView).Methods(http.MethodPost)
	db.HandleFunc("/_api/view/{name}", m.getView).Methods(http.MethodGet)
	db.HandleFunc("/_api/view/{name}", m.dropView).Methods(http.MethodDelete)
	db.HandleFunc("/_api/view/{name}/properties", m.viewProperties).Methods(http.MethodGet)
	db.HandleFunc("/_api/view/{name}/properties", m.setViewProperties).Methods(http.MethodPut, http.MethodPatch)
	db.HandleFunc("/_api/analyzer", m.listAnalyzers).Methods(http.MethodGet)
	db.HandleFunc("/_api/analyzer", m.createAnalyzer).Methods(http.MethodPost)
	db.HandleFunc("/_api/analyzer/{name}", m.getAnalyzer).Methods(http.MethodGet)
	db.HandleFunc("/_api/analyzer/{name}", m.dropAnalyzer).Methods(http.MethodDelete)
	db.HandleFunc("/_api/gharial", m.listGraphs).Methods(http.MethodGet)
	db.HandleFunc("/_api/gharial", m.createGraph).Methods(http.MethodPost)
	db.HandleFunc("/_api/gharial/{name}", m.getGraph).Methods(http.MethodGet)
	db.HandleFunc("/_api/gharial/{name}", m.dropGraph).Methods(http.MethodDelete)

	m.srv = httptest.NewServer(r)
	return m
}

// URL returns the endpoint the mock listens on
func (m *MockServer) URL() string {
	return m.srv.URL
}

func (m *MockServer) Close() {
	m.srv.Close()
}

// Seed writes documents straight into a collection, creating the database and
// the collection on the way if needed
func (m *MockServer) Seed(database, collection string, docs ...*arango.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db := m.ensureDatabase(database)
	col, ok := db.collections[collection]
	if !ok {
		col = &mockCollection{id: m.nextID(), name: collection, typ: 2, docs: map[string]map[string]any{}}
		db.collections[collection] = col
	}
	for _, doc := range docs {
		data := doc.Value()
		key, _ := data["_key"].(string)
		if key == "" {
			key = ksuid.New().String()
		}
		data["_key"] = key
		data["_id"] = collection + "/" + key
		data["_rev"] = newRev()
		col.docs[key] = data
		col.revCounter++
	}
}

func (m *MockServer) ensureDatabase(name string) *mockDatabase {
	db, ok := m.databases[name]
	if !ok {
		db = &mockDatabase{
			id:           m.nextID(),
			name:         name,
			collections:  map[string]*mockCollection{},
			cursors:      map[string]*mockCursor{},
			transactions: map[string]*mockTransaction{},
			indexes:      map[string]map[string]any{},
			views:        map[string]map[string]any{},
			analyzers:    map[string]map[string]any{},
			graphs:       map[string]map[string]any{},
		}
		m.databases[name] = db
	}
	return db
}

func (m *MockServer) nextID() string {
	m.seq++
	return strconv.Itoa(100 + m.seq)
}

func newRev() string {
	return "_" + ksuid.New().String()
}

func (m *MockServer) serverHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "ArangoDB")
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (m *MockServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "/_open/auth" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") == "" {
			writeError(w, http.StatusUnauthorized, 11, "not authorized to execute this request")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status, errorNum int, format string, args ...any) {
	writeJSON(w, status, map[string]any{
		"error":        true,
		"code":         status,
		"errorNum":     errorNum,
		"errorMessage": fmt.Sprintf(format, args...),
	})
}

func writeResult(w http.ResponseWriter, status int, result any) {
	writeJSON(w, status, map[string]any{"error": false, "code": status, "result": result})
}

func readBody(r *http.Request) (map[string]any, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (m *MockServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (m *MockServer) handleAuth(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	if username, _ := body["username"].(string); username == "" {
		writeError(w, http.StatusUnauthorized, 401, "wrong credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jwt": "mock." + ksuid.New().String()})
}

func (m *MockServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"server":  "arango",
		"license": "community",
		"version": "3.10.2",
	})
}

func (m *MockServer) handleRole(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200, "role": "SINGLE"})
}

func (m *MockServer) handleClusterHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"error":     false,
		"code":      200,
		"ClusterId": "mock-cluster",
		"Health": map[string]any{
			"SNGL-1": map[string]any{
				"Endpoint": m.srv.URL,
				"Role":     "Single",
				"Status":   "GOOD",
				"Engine":   "rocksdb",
				"Version":  "3.10.2",
			},
		},
	})
}

func (m *MockServer) listUsers(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.users))
	for name := range m.users {
		names = append(names, name)
	}
	sort.Strings(names)
	users := make([]map[string]any, 0, len(names))
	for _, name := range names {
		users = append(users, m.users[name])
	}
	writeResult(w, http.StatusOK, users)
}

func (m *MockServer) createUser(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	name, _ := body["user"].(string)
	if name == "" {
		writeError(w, http.StatusBadRequest, 1700, "invalid user name")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[name]; ok {
		writeError(w, http.StatusConflict, 1702, "duplicate user")
		return
	}
	delete(body, "passwd")
	if _, ok := body["active"]; !ok {
		body["active"] = true
	}
	m.users[name] = body
	out := map[string]any{"error": false, "code": 201}
	for k, v := range body {
		out[k] = v
	}
	writeJSON(w, http.StatusCreated, out)
}

func (m *MockServer) getUser(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[mux.Vars(r)["user"]]
	if !ok {
		writeError(w, http.StatusNotFound, 1703, "user not found")
		return
	}
	out := map[string]any{"error": false, "code": 200}
	for k, v := range user {
		out[k] = v
	}
	writeJSON(w, http.StatusOK, out)
}

func (m *MockServer) updateUser(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[mux.Vars(r)["user"]]
	if !ok {
		writeError(w, http.StatusNotFound, 1703, "user not found")
		return
	}
	delete(body, "passwd")
	for k, v := range body {
		user[k] = v
	}
	out := map[string]any{"error": false, "code": 200}
	for k, v := range user {
		out[k] = v
	}
	writeJSON(w, http.StatusOK, out)
}

func (m *MockServer) removeUser(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := mux.Vars(r)["user"]
	if _, ok := m.users[name]; !ok {
		writeError(w, http.StatusNotFound, 1703, "user not found")
		return
	}
	delete(m.users, name)
	writeJSON(w, http.StatusAccepted, map[string]any{"error": false, "code": 202})
}

func (m *MockServer) userDatabases(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := mux.Vars(r)["user"]
	if _, ok := m.users[name]; !ok {
		writeError(w, http.StatusNotFound, 1703, "user not found")
		return
	}
	out := map[string]arango.Permission{}
	if name == "root" {
		for db := range m.databases {
			out[db] = arango.PermissionReadWrite
		}
	} else {
		for db, perm := range m.grants[name] {
			out[db] = perm
		}
	}
	writeResult(w, http.StatusOK, out)
}

func (m *MockServer) grantDatabase(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	grant, _ := body["grant"].(string)
	m.mu.Lock()
	defer m.mu.Unlock()
	vars := mux.Vars(r)
	if _, ok := m.users[vars["user"]]; !ok {
		writeError(w, http.StatusNotFound, 1703, "user not found")
		return
	}
	if m.grants[vars["user"]] == nil {
		m.grants[vars["user"]] = map[string]arango.Permission{}
	}
	m.grants[vars["user"]][vars["database"]] = arango.Permission(grant)
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200})
}

func (m *MockServer) createDatabase(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	name, _ := body["name"].(string)
	if name == "" {
		writeError(w, http.StatusBadRequest, 1229, "database name invalid")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.databases[name]; ok {
		writeError(w, http.StatusConflict, 1207, "duplicate name")
		return
	}
	m.ensureDatabase(name)
	writeResult(w, http.StatusCreated, true)
}

func (m *MockServer) dropDatabase(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := mux.Vars(r)["name"]
	if name == "_system" {
		writeError(w, http.StatusForbidden, 1230, "cannot drop the _system database")
		return
	}
	if _, ok := m.databases[name]; !ok {
		writeError(w, http.StatusNotFound, 1228, "database not found")
		return
	}
	delete(m.databases, name)
	writeResult(w, http.StatusOK, true)
}

// database resolves the {db} route variable, the caller must hold the lock
func (m *MockServer) database(w http.ResponseWriter, r *http.Request) (*mockDatabase, bool) {
	db, ok := m.databases[mux.Vars(r)["db"]]
	if !ok {
		writeError(w, http.StatusNotFound, 1228, "database not found")
		return nil, false
	}
	return db, true
}

func (m *MockServer) currentDatabase(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	writeResult(w, http.StatusOK, map[string]any{
		"name":     db.name,
		"id":       db.id,
		"path":     "none",
		"isSystem": db.name == "_system",
	})
}

func collectionInfo(col *mockCollection) map[string]any {
	return map[string]any{
		"error":            false,
		"code":             200,
		"id":               col.id,
		"name":             col.name,
		"globallyUniqueId": "h" + col.id,
		"status":           3,
		"type":             col.typ,
		"isSystem":         false,
	}
}

func collectionProperties(col *mockCollection) map[string]any {
	out := collectionInfo(col)
	out["statusString"] = "loaded"
	out["waitForSync"] = false
	out["writeConcern"] = 1
	out["keyOptions"] = map[string]any{"allowUserKeys": true, "type": "traditional", "lastValue": 0}
	return out
}

// collection resolves the {collection} route variable, the caller must hold
// the lock
func (m *MockServer) collection(w http.ResponseWriter, r *http.Request, db *mockDatabase) (*mockCollection, bool) {
	col, ok := db.collections[mux.Vars(r)["collection"]]
	if !ok {
		writeError(w, http.StatusNotFound, 1203, "collection or view not found")
		return nil, false
	}
	return col, true
}

func (m *MockServer) listCollections(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	names := make([]string, 0, len(db.collections))
	for name := range db.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	infos := make([]map[string]any, 0, len(names))
	for _, name := range names {
		infos = append(infos, collectionInfo(db.collections[name]))
	}
	writeResult(w, http.StatusOK, infos)
}

func (m *MockServer) createCollection(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	name, _ := body["name"].(string)
	if name == "" {
		writeError(w, http.StatusBadRequest, 1208, "illegal name")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	if _, ok := db.collections[name]; ok {
		writeError(w, http.StatusConflict, 1207, "duplicate name")
		return
	}
	typ := 2
	if t, ok := body["type"].(float64); ok && t != 0 {
		typ = int(t)
	}
	col := &mockCollection{id: m.nextID(), name: name, typ: typ, docs: map[string]map[string]any{}}
	db.collections[name] = col
	writeJSON(w, http.StatusOK, collectionInfo(col))
}

func (m *MockServer) getCollection(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	col, ok := m.collection(w, r, db)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, collectionInfo(col))
}

func (m *MockServer) dropCollection(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	col, ok := m.collection(w, r, db)
	if !ok {
		return
	}
	delete(db.collections, col.name)
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200, "id": col.id})
}

func (m *MockServer) collectionAction(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	col, ok := m.collection(w, r, db)
	if !ok {
		return
	}
	switch mux.Vars(r)["action"] {
	case "properties":
		out := collectionProperties(col)
		if r.Method == http.MethodPut {
			if v, ok := body["waitForSync"].(bool); ok {
				out["waitForSync"] = v
			}
		}
		writeJSON(w, http.StatusOK, out)
	case "count":
		out := collectionProperties(col)
		out["count"] = len(col.docs)
		writeJSON(w, http.StatusOK, out)
	case "figures":
		out := collectionProperties(col)
		out["count"] = len(col.docs)
		out["figures"] = map[string]any{"indexes": map[string]any{"count": 1, "size": 0}}
		writeJSON(w, http.StatusOK, out)
	case "revision":
		out := collectionProperties(col)
		out["revision"] = strconv.Itoa(col.revCounter)
		writeJSON(w, http.StatusOK, out)
	case "checksum":
		out := collectionInfo(col)
		out["revision"] = strconv.Itoa(col.revCounter)
		out["checksum"] = strconv.Itoa(len(col.docs))
		writeJSON(w, http.StatusOK, out)
	case "truncate":
		col.docs = map[string]map[string]any{}
		col.revCounter++
		writeJSON(w, http.StatusOK, collectionInfo(col))
	case "load":
		out := collectionInfo(col)
		out["count"] = len(col.docs)
		writeJSON(w, http.StatusOK, out)
	case "unload":
		writeJSON(w, http.StatusOK, collectionInfo(col))
	case "loadIndexesIntoMemory":
		writeResult(w, http.StatusOK, true)
	case "rename":
		name, _ := body["name"].(string)
		if name == "" {
			writeError(w, http.StatusBadRequest, 1208, "illegal name")
			return
		}
		delete(db.collections, col.name)
		col.name = name
		db.collections[name] = col
		writeJSON(w, http.StatusOK, collectionInfo(col))
	default:
		writeError(w, http.StatusNotFound, 404, "unknown collection action %s", mux.Vars(r)["action"])
	}
}

// transaction resolves the transaction header if one was sent. A nil
// transaction with ok means the request runs outside any transaction.
func (m *MockServer) transaction(w http.ResponseWriter, r *http.Request, db *mockDatabase) (*mockTransaction, bool) {
	id := r.Header.Get(transport.TransactionHeader)
	if id == "" {
		return nil, true
	}
	trx, ok := db.transactions[id]
	if !ok {
		writeError(w, http.StatusNotFound, 1655, "transaction not found")
		return nil, false
	}
	if trx.status != "running" {
		writeError(w, http.StatusBadRequest, 1653, "transaction is not running")
		return nil, false
	}
	return trx, true
}

func documentMeta(doc map[string]any) map[string]any {
	return map[string]any{"_id": doc["_id"], "_key": doc["_key"], "_rev": doc["_rev"]}
}

func (m *MockServer) createDocument(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	col, ok := m.collection(w, r, db)
	if !ok {
		return
	}
	trx, ok := m.transaction(w, r, db)
	if !ok {
		return
	}
	q := r.URL.Query()
	key, _ := data["_key"].(string)
	if key == "" {
		key = ksuid.New().String()
	}
	existing := col.docs[key]
	if existing == nil && trx != nil {
		existing = trx.staged[col.name][key]
	}
	if existing != nil && q.Get("overwrite") != "true" && q.Get("overwriteMode") == "" {
		writeError(w, http.StatusConflict, 1210, "unique constraint violated - in index primary of type primary over '_key'")
		return
	}
	data["_key"] = key
	data["_id"] = col.name + "/" + key
	data["_rev"] = newRev()
	if trx != nil {
		if trx.staged[col.name] == nil {
			trx.staged[col.name] = map[string]map[string]any{}
		}
		trx.staged[col.name][key] = data
	} else {
		col.docs[key] = data
		col.revCounter++
	}
	if q.Get("silent") == "true" {
		writeJSON(w, http.StatusAccepted, map[string]any{})
		return
	}
	meta := documentMeta(data)
	if existing != nil {
		meta["_old_rev"] = existing["_rev"]
		if q.Get("returnOld") == "true" {
			meta["old"] = existing
		}
	}
	if q.Get("returnNew") == "true" {
		meta["new"] = data
	}
	writeJSON(w, http.StatusAccepted, meta)
}

// lookupDocument checks staged transaction inserts before committed data,
// the caller must hold the lock
func lookupDocument(col *mockCollection, trx *mockTransaction, key string) map[string]any {
	if trx != nil {
		if doc, ok := trx.staged[col.name][key]; ok {
			return doc
		}
	}
	return col.docs[key]
}

func (m *MockServer) getDocument(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	col, ok := m.collection(w, r, db)
	if !ok {
		return
	}
	trx, ok := m.transaction(w, r, db)
	if !ok {
		return
	}
	doc := lookupDocument(col, trx, mux.Vars(r)["key"])
	if doc == nil {
		writeError(w, http.StatusNotFound, 1202, "document not found")
		return
	}
	rev, _ := doc["_rev"].(string)
	if match := r.Header.Get("If-Match"); match != "" && match != rev {
		writeError(w, http.StatusPreconditionFailed, 1200, "conflict, _rev values do not match")
		return
	}
	if noneMatch := r.Header.Get("If-None-Match"); noneMatch != "" && noneMatch == rev {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (m *MockServer) updateDocument(w http.ResponseWriter, r *http.Request) {
	patch, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	col, ok := m.collection(w, r, db)
	if !ok {
		return
	}
	key := mux.Vars(r)["key"]
	existing := col.docs[key]
	if existing == nil {
		writeError(w, http.StatusNotFound, 1202, "document not found")
		return
	}
	q := r.URL.Query()
	merged := map[string]any{}
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range patch {
		if k == "_id" || k == "_key" || k == "_rev" {
			continue
		}
		if v == nil && q.Get("keepNull") == "false" {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	merged["_rev"] = newRev()
	col.docs[key] = merged
	col.revCounter++
	if q.Get("silent") == "true" {
		writeJSON(w, http.StatusAccepted, map[string]any{})
		return
	}
	meta := documentMeta(merged)
	meta["_old_rev"] = existing["_rev"]
	if q.Get("returnOld") == "true" {
		meta["old"] = existing
	}
	if q.Get("returnNew") == "true" {
		meta["new"] = merged
	}
	writeJSON(w, http.StatusAccepted, meta)
}

func (m *MockServer) replaceDocument(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	col, ok := m.collection(w, r, db)
	if !ok {
		return
	}
	key := mux.Vars(r)["key"]
	existing := col.docs[key]
	if existing == nil {
		writeError(w, http.StatusNotFound, 1202, "document not found")
		return
	}
	rev, _ := existing["_rev"].(string)
	if match := r.Header.Get("If-Match"); match != "" && match != rev {
		writeError(w, http.StatusPreconditionFailed, 1200, "conflict, _rev values do not match")
		return
	}
	q := r.URL.Query()
	data["_key"] = key
	data["_id"] = col.name + "/" + key
	data["_rev"] = newRev()
	col.docs[key] = data
	col.revCounter++
	if q.Get("silent") == "true" {
		writeJSON(w, http.StatusAccepted, map[string]any{})
		return
	}
	meta := documentMeta(data)
	meta["_old_rev"] = existing["_rev"]
	if q.Get("returnOld") == "true" {
		meta["old"] = existing
	}
	if q.Get("returnNew") == "true" {
		meta["new"] = data
	}
	writeJSON(w, http.StatusAccepted, meta)
}

func (m *MockServer) removeDocument(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	col, ok := m.collection(w, r, db)
	if !ok {
		return
	}
	key := mux.Vars(r)["key"]
	existing := col.docs[key]
	if existing == nil {
		writeError(w, http.StatusNotFound, 1202, "document not found")
		return
	}
	rev, _ := existing["_rev"].(string)
	if match := r.Header.Get("If-Match"); match != "" && match != rev {
		writeError(w, http.StatusPreconditionFailed, 1200, "conflict, _rev values do not match")
		return
	}
	delete(col.docs, key)
	col.revCounter++
	q := r.URL.Query()
	if q.Get("silent") == "true" {
		writeJSON(w, http.StatusAccepted, map[string]any{})
		return
	}
	meta := documentMeta(existing)
	if q.Get("returnOld") == "true" {
		meta["old"] = existing
	}
	writeJSON(w, http.StatusAccepted, meta)
}

var forInPattern = regexp.MustCompile(`(?i)FOR\s+\w+\s+IN\s+(\w+)`)

// queryCollection pulls the collection out of a FOR .. IN .. query, falling
// back to an @collection bind var
func queryCollection(query string, bindVars map[string]any) string {
	if match := forInPattern.FindStringSubmatch(query); match != nil {
		return match[1]
	}
	if name, ok := bindVars["@collection"].(string); ok {
		return name
	}
	return ""
}

func (m *MockServer) createCursor(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	query, _ := body["query"].(string)
	if query == "" {
		writeError(w, http.StatusBadRequest, 1501, "query is empty")
		return
	}
	bindVars, _ := body["bindVars"].(map[string]any)
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	var results []map[string]any
	if col, ok := db.collections[queryCollection(query, bindVars)]; ok {
		keys := make([]string, 0, len(col.docs))
		for key := range col.docs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			results = append(results, col.docs[key])
		}
	}
	batch := len(results)
	if b, ok := body["batchSize"].(float64); ok && int(b) > 0 {
		batch = int(b)
	}
	wantCount, _ := body["count"].(bool)
	cursor := &mockCursor{results: results, batch: batch, count: wantCount}
	m.serveCursorBatch(w, db, cursor, "")
}

func (m *MockServer) serveCursorBatch(w http.ResponseWriter, db *mockDatabase, cursor *mockCursor, id string) {
	end := cursor.pos + cursor.batch
	if end > len(cursor.results) {
		end = len(cursor.results)
	}
	rows := cursor.results[cursor.pos:end]
	if rows == nil {
		rows = []map[string]any{}
	}
	cursor.pos = end
	hasMore := cursor.pos < len(cursor.results)
	out := map[string]any{
		"error":   false,
		"code":    201,
		"result":  rows,
		"hasMore": hasMore,
		"cached":  false,
		"extra": map[string]any{
			"stats": map[string]any{
				"writesExecuted": 0,
				"writesIgnored":  0,
				"scannedFull":    len(cursor.results),
				"scannedIndex":   0,
				"filtered":       0,
				"httpRequests":   0,
				"executionTime":  0.0001,
			},
		},
	}
	if cursor.count {
		out["count"] = len(cursor.results)
	}
	if hasMore {
		if id == "" {
			id = ksuid.New().String()
			db.cursors[id] = cursor
		}
		out["id"] = id
	} else if id != "" {
		delete(db.cursors, id)
	}
	writeJSON(w, http.StatusCreated, out)
}

func (m *MockServer) cursorNextBatch(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	cursor, ok := db.cursors[id]
	if !ok {
		writeError(w, http.StatusNotFound, 1600, "cursor not found")
		return
	}
	m.serveCursorBatch(w, db, cursor, id)
}

func (m *MockServer) deleteCursor(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if _, ok := db.cursors[id]; !ok {
		writeError(w, http.StatusNotFound, 1600, "cursor not found")
		return
	}
	delete(db.cursors, id)
	writeJSON(w, http.StatusAccepted, map[string]any{"error": false, "code": 202, "id": id})
}

func (m *MockServer) beginTransaction(w http.ResponseWriter, r *http.Request) {
	if _, err := readBody(r); err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	trx := &mockTransaction{
		id:     ksuid.New().String(),
		status: "running",
		staged: map[string]map[string]map[string]any{},
	}
	db.transactions[trx.id] = trx
	writeResult(w, http.StatusCreated, map[string]any{"id": trx.id, "status": trx.status})
}

func (m *MockServer) listTransactions(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	ids := make([]string, 0, len(db.transactions))
	for id := range db.transactions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	transactions := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		transactions = append(transactions, map[string]any{"id": id, "state": db.transactions[id].status})
	}
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200, "transactions": transactions})
}

func (m *MockServer) commitTransaction(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	trx, ok := db.transactions[mux.Vars(r)["id"]]
	if !ok {
		writeError(w, http.StatusNotFound, 1655, "transaction not found")
		return
	}
	if trx.status != "running" {
		writeError(w, http.StatusBadRequest, 1653, "transaction is not running")
		return
	}
	for colName, staged := range trx.staged {
		col, ok := db.collections[colName]
		if !ok {
			col = &mockCollection{id: m.nextID(), name: colName, typ: 2, docs: map[string]map[string]any{}}
			db.collections[colName] = col
		}
		for key, doc := range staged {
			col.docs[key] = doc
			col.revCounter++
		}
	}
	trx.status = "committed"
	writeResult(w, http.StatusOK, map[string]any{"id": trx.id, "status": trx.status})
}

func (m *MockServer) abortTransaction(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	trx, ok := db.transactions[mux.Vars(r)["id"]]
	if !ok {
		writeError(w, http.StatusNotFound, 1655, "transaction not found")
		return
	}
	if trx.status != "running" {
		writeError(w, http.StatusBadRequest, 1653, "transaction is not running")
		return
	}
	trx.staged = map[string]map[string]map[string]any{}
	trx.status = "aborted"
	writeResult(w, http.StatusOK, map[string]any{"id": trx.id, "status": trx.status})
}

func (m *MockServer) listIndexes(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	colName := r.URL.Query().Get("collection")
	if _, ok := db.collections[colName]; !ok {
		writeError(w, http.StatusNotFound, 1203, "collection or view not found")
		return
	}
	indexes := []map[string]any{{
		"id":     colName + "/0",
		"name":   "primary",
		"type":   "primary",
		"fields": []string{"_key"},
		"unique": true,
		"sparse": false,
	}}
	ids := make([]string, 0, len(db.indexes))
	for id := range db.indexes {
		if strings.HasPrefix(id, colName+"/") {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		indexes = append(indexes, db.indexes[id])
	}
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200, "indexes": indexes})
}

func (m *MockServer) createIndex(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	colName := r.URL.Query().Get("collection")
	if _, ok := db.collections[colName]; !ok {
		writeError(w, http.StatusNotFound, 1203, "collection or view not found")
		return
	}
	db.indexSeq++
	body["id"] = fmt.Sprintf("%s/%d", colName, db.indexSeq)
	db.indexes[body["id"].(string)] = body
	out := map[string]any{"error": false, "code": 201, "isNewlyCreated": true}
	for k, v := range body {
		out[k] = v
	}
	writeJSON(w, http.StatusCreated, out)
}

func (m *MockServer) getIndex(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["collection"] + "/" + vars["id"]
	index, ok := db.indexes[id]
	if !ok {
		writeError(w, http.StatusNotFound, 1212, "index not found")
		return
	}
	out := map[string]any{"error": false, "code": 200}
	for k, v := range index {
		out[k] = v
	}
	writeJSON(w, http.StatusOK, out)
}

func (m *MockServer) deleteIndex(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["collection"] + "/" + vars["id"]
	if _, ok := db.indexes[id]; !ok {
		writeError(w, http.StatusNotFound, 1212, "index not found")
		return
	}
	delete(db.indexes, id)
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200, "id": id})
}

func viewDescription(view map[string]any) map[string]any {
	return map[string]any{
		"globallyUniqueId": view["globallyUniqueId"],
		"id":               view["id"],
		"name":             view["name"],
		"type":             view["type"],
	}
}

func (m *MockServer) listViews(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	names := make([]string, 0, len(db.views))
	for name := range db.views {
		names = append(names, name)
	}
	sort.Strings(names)
	views := make([]map[string]any, 0, len(names))
	for _, name := range names {
		views = append(views, viewDescription(db.views[name]))
	}
	writeResult(w, http.StatusOK, views)
}

func (m *MockServer) createView(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	name, _ := body["name"].(string)
	if name == "" {
		writeError(w, http.StatusBadRequest, 1208, "illegal name")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	if _, ok := db.views[name]; ok {
		writeError(w, http.StatusConflict, 1207, "duplicate name")
		return
	}
	id := m.nextID()
	body["id"] = id
	body["globallyUniqueId"] = "hV" + id
	if body["type"] == nil {
		body["type"] = "arangosearch"
	}
	db.views[name] = body
	out := map[string]any{"error": false, "code": 201}
	for k, v := range body {
		out[k] = v
	}
	writeJSON(w, http.StatusCreated, out)
}

// view resolves the {name} route variable, the caller must hold the lock
func (m *MockServer) view(w http.ResponseWriter, r *http.Request, db *mockDatabase) (map[string]any, bool) {
	view, ok := db.views[mux.Vars(r)["name"]]
	if !ok {
		writeError(w, http.StatusNotFound, 1203, "collection or view not found")
		return nil, false
	}
	return view, true
}

func (m *MockServer) getView(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	view, ok := m.view(w, r, db)
	if !ok {
		return
	}
	out := map[string]any{"error": false, "code": 200}
	for k, v := range viewDescription(view) {
		out[k] = v
	}
	writeJSON(w, http.StatusOK, out)
}

func (m *MockServer) viewProperties(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	view, ok := m.view(w, r, db)
	if !ok {
		return
	}
	out := map[string]any{"error": false, "code": 200}
	for k, v := range view {
		out[k] = v
	}
	writeJSON(w, http.StatusOK, out)
}

func (m *MockServer) setViewProperties(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	view, ok := m.view(w, r, db)
	if !ok {
		return
	}
	if r.Method == http.MethodPut {
		replaced := viewDescription(view)
		for k, v := range body {
			replaced[k] = v
		}
		db.views[mux.Vars(r)["name"]] = replaced
		view = replaced
	} else {
		for k, v := range body {
			view[k] = v
		}
	}
	out := map[string]any{"error": false, "code": 200}
	for k, v := range view {
		out[k] = v
	}
	writeJSON(w, http.StatusOK, out)
}

func (m *MockServer) dropView(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	if _, ok := m.view(w, r, db); !ok {
		return
	}
	delete(db.views, mux.Vars(r)["name"])
	writeResult(w, http.StatusOK, true)
}

func (m *MockServer) listAnalyzers(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	names := make([]string, 0, len(db.analyzers))
	for name := range db.analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	analyzers := make([]map[string]any, 0, len(names))
	for _, name := range names {
		analyzers = append(analyzers, db.analyzers[name])
	}
	writeResult(w, http.StatusOK, analyzers)
}

func (m *MockServer) createAnalyzer(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	name, _ := body["name"].(string)
	if name == "" {
		writeError(w, http.StatusBadRequest, 1208, "illegal name")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	db.analyzers[name] = body
	out := map[string]any{"error": false, "code": 201}
	for k, v := range body {
		out[k] = v
	}
	writeJSON(w, http.StatusCreated, out)
}

func (m *MockServer) getAnalyzer(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	analyzer, ok := db.analyzers[mux.Vars(r)["name"]]
	if !ok {
		writeError(w, http.StatusNotFound, 1203, "analyzer not found")
		return
	}
	out := map[string]any{"error": false, "code": 200}
	for k, v := range analyzer {
		out[k] = v
	}
	writeJSON(w, http.StatusOK, out)
}

func (m *MockServer) dropAnalyzer(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	name := mux.Vars(r)["name"]
	if _, ok := db.analyzers[name]; !ok {
		writeError(w, http.StatusNotFound, 1203, "analyzer not found")
		return
	}
	delete(db.analyzers, name)
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200, "name": name})
}

func (m *MockServer) listGraphs(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	names := make([]string, 0, len(db.graphs))
	for name := range db.graphs {
		names = append(names, name)
	}
	sort.Strings(names)
	graphs := make([]map[string]any, 0, len(names))
	for _, name := range names {
		graphs = append(graphs, db.graphs[name])
	}
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200, "graphs": graphs})
}

func (m *MockServer) createGraph(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid json")
		return
	}
	name, _ := body["name"].(string)
	if name == "" {
		writeError(w, http.StatusBadRequest, 1208, "illegal name")
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	if _, ok := db.graphs[name]; ok {
		writeError(w, http.StatusConflict, 1925, "graph already exists")
		return
	}
	db.graphs[name] = body
	writeJSON(w, http.StatusAccepted, map[string]any{"error": false, "code": 202, "graph": body})
}

func (m *MockServer) getGraph(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	graph, ok := db.graphs[mux.Vars(r)["name"]]
	if !ok {
		writeError(w, http.StatusNotFound, 1924, "graph not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200, "graph": graph})
}

func (m *MockServer) dropGraph(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, ok := m.database(w, r)
	if !ok {
		return
	}
	name := mux.Vars(r)["name"]
	if _, ok := db.graphs[name]; !ok {
		writeError(w, http.StatusNotFound, 1924, "graph not found")
		return
	}
	delete(db.graphs, name)
	writeJSON(w, http.StatusAccepted, map[string]any{"error": false, "code": 202, "removed": true})
}

// TestConnection spins up a MockServer, connects to it over real HTTP and
// hands the connection to fn. The server is torn down when fn returns.
func TestConnection(fn func(ctx context.Context, c *arango.Connection, srv *MockServer)) error {
	srv := NewMockServer()
	defer srv.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	c, err := arango.Connect(ctx, arango.Config{
		URL: srv.URL(),
		Auth: arango.AuthConfig{
			Method:   arango.AuthJwt,
			Username: "root",
			Password: "root",
		},
	})
	if err != nil {
		return err
	}
	fn(ctx, c, srv)
	return nil
}
