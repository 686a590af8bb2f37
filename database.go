package arango

import (
	"context"
	"encoding/json"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
	"github.com/autom8ter/arango/util"
)

// Database is a handle to a single database. Handles are cheap to create and
// hold no state beyond the session they were opened with.
type Database struct {
	name    string
	baseURL string
	session transport.Client
	logger  Logger
}

// Name returns the database name
func (db *Database) Name() string {
	return db.name
}

// URL returns the database scoped base url
func (db *Database) URL() string {
	return db.baseURL
}

// Session returns the transport session requests are dispatched through
func (db *Database) Session() transport.Client {
	return db.session
}

// Info fetches information about the database
func (db *Database) Info(ctx context.Context) (DatabaseInfo, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/database/current", nil)
	if err != nil {
		return DatabaseInfo{}, err
	}
	return deserializeResult[DatabaseInfo](resp.Body)
}

// Version fetches the server version through this database
func (db *Database) Version(ctx context.Context) (Version, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/version", nil)
	if err != nil {
		return Version{}, err
	}
	return deserializeResponse[Version](resp.Body)
}

// AccessibleCollections lists the collections of the database
func (db *Database) AccessibleCollections(ctx context.Context) ([]CollectionInfo, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/collection", nil)
	if err != nil {
		return nil, err
	}
	return deserializeResult[[]CollectionInfo](resp.Body)
}

// Collection returns a handle to the named collection after verifying it exists
func (db *Database) Collection(ctx context.Context, name string) (*Collection, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/collection/"+name, nil)
	if err != nil {
		return nil, err
	}
	info, err := deserializeResponse[CollectionInfo](resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, 0, "open collection %s", name)
	}
	return db.collectionFromInfo(info), nil
}

// CreateCollection creates a document collection with server default settings
// and returns a handle to it
func (db *Database) CreateCollection(ctx context.Context, name string) (*Collection, error) {
	return db.CreateCollectionWithOptions(ctx, CreateCollectionOptions{Name: name}, CreateCollectionParameters{})
}

// CreateCollectionWithOptions creates a collection and returns a handle to it
func (db *Database) CreateCollectionWithOptions(ctx context.Context, options CreateCollectionOptions, parameters CreateCollectionParameters) (*Collection, error) {
	if err := util.ValidateStruct(&options); err != nil {
		return nil, err
	}
	body, err := json.Marshal(options)
	if err != nil {
		return nil, errors.Wrap(err, errors.Serde, "encode create collection")
	}
	qs, err := util.QueryString(parameters)
	if err != nil {
		return nil, err
	}
	createURL := db.baseURL + "_api/collection"
	if qs != "" {
		createURL += "?" + qs
	}
	resp, err := transport.Post(ctx, db.session, createURL, body)
	if err != nil {
		return nil, err
	}
	info, err := deserializeResponse[CollectionInfo](resp.Body)
	if err != nil {
		return nil, err
	}
	db.logger.Info(ctx, "collection created", map[string]any{"name": info.Name, "database": db.name})
	return db.collectionFromInfo(info), nil
}

// DropCollection drops the named collection
func (db *Database) DropCollection(ctx context.Context, name string) error {
	resp, err := transport.Delete(ctx, db.session, db.baseURL+"_api/collection/"+name, nil)
	if err != nil {
		return err
	}
	if _, err := deserializeResponse[struct {
		ID string `json:"id"`
	}](resp.Body); err != nil {
		return err
	}
	db.logger.Info(ctx, "collection dropped", map[string]any{"name": name, "database": db.name})
	return nil
}

// QueryBatch starts an AQL query and returns its first batch of results
func (db *Database) QueryBatch(ctx context.Context, aql AqlQuery) (*Cursor, error) {
	if err := util.ValidateStruct(&aql); err != nil {
		return nil, err
	}
	body, err := json.Marshal(aql)
	if err != nil {
		return nil, errors.Wrap(err, errors.Serde, "encode query")
	}
	resp, err := transport.Post(ctx, db.session, db.baseURL+"_api/cursor", body)
	if err != nil {
		return nil, err
	}
	cursor, err := deserializeResponse[Cursor](resp.Body)
	if err != nil {
		return nil, err
	}
	db.logger.Debug(ctx, "query batch", map[string]any{"rows": len(cursor.Result), "hasMore": cursor.HasMore})
	return &cursor, nil
}

// NextBatch fetches the next batch of an open cursor
func (db *Database) NextBatch(ctx context.Context, cursorID string) (*Cursor, error) {
	resp, err := transport.Put(ctx, db.session, db.baseURL+"_api/cursor/"+cursorID, nil)
	if err != nil {
		return nil, err
	}
	cursor, err := deserializeResponse[Cursor](resp.Body)
	if err != nil {
		return nil, err
	}
	db.logger.Debug(ctx, "cursor batch", map[string]any{"rows": len(cursor.Result), "hasMore": cursor.HasMore})
	return &cursor, nil
}

// DeleteCursor discards an open cursor before it is exhausted
func (db *Database) DeleteCursor(ctx context.Context, cursorID string) error {
	resp, err := transport.Delete(ctx, db.session, db.baseURL+"_api/cursor/"+cursorID, nil)
	if err != nil {
		return err
	}
	return checkServerError(resp.Body)
}

// Query runs an AQL query to completion, draining the cursor and returning
// every row in order
func (db *Database) Query(ctx context.Context, aql AqlQuery) (Documents, error) {
	cursor, err := db.QueryBatch(ctx, aql)
	if err != nil {
		return nil, err
	}
	results := append(Documents{}, cursor.Result...)
	for cursor.HasMore {
		if cursor.ID == "" {
			return nil, errors.New(errors.Internal, "cursor reports more results but carries no id")
		}
		cursor, err = db.NextBatch(ctx, cursor.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, cursor.Result...)
	}
	return results, nil
}

// QueryStr runs a plain AQL string to completion
func (db *Database) QueryStr(ctx context.Context, query string) (Documents, error) {
	return db.Query(ctx, AqlQuery{Query: query})
}

// QueryWithVars runs an AQL string with bind vars to completion
func (db *Database) QueryWithVars(ctx context.Context, query string, bindVars map[string]any) (Documents, error) {
	return db.Query(ctx, AqlQuery{Query: query, BindVars: bindVars})
}

func (db *Database) collectionFromInfo(info CollectionInfo) *Collection {
	return &Collection{
		id:             info.ID,
		name:           info.Name,
		collectionType: info.Type,
		baseURL:        db.baseURL + "_api/collection/" + info.Name + "/",
		documentURL:    db.baseURL + "_api/document/" + info.Name + "/",
		session:        db.session,
		logger:         db.logger,
		db:             db,
	}
}
