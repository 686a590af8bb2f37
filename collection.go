package arango

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
	"github.com/autom8ter/arango/util"
	"golang.org/x/sync/errgroup"
)

// CollectionType distinguishes document and edge collections
type CollectionType int

const (
	// CollectionTypeDocument is a regular document collection
	CollectionTypeDocument CollectionType = 2
	// CollectionTypeEdge is an edge collection
	CollectionTypeEdge CollectionType = 3
)

// CollectionStatus is the lifecycle state of a collection
type CollectionStatus int

const (
	CollectionStatusNewBorn CollectionStatus = iota + 1
	CollectionStatusUnloaded
	CollectionStatusLoaded
	CollectionStatusUnloading
	CollectionStatusDeleted
	CollectionStatusLoading
)

// CollectionInfo is the basic description of a collection
type CollectionInfo struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	GloballyUniqueID string           `json:"globallyUniqueId"`
	IsSystem         bool             `json:"isSystem"`
	Status           CollectionStatus `json:"status"`
	Type             CollectionType   `json:"type"`
	Count            *int             `json:"count,omitempty"`
}

// CollectionDetails are the settings reported alongside collection properties
type CollectionDetails struct {
	StatusString string     `json:"statusString"`
	KeyOptions   KeyOptions `json:"keyOptions"`
	WaitForSync  bool       `json:"waitForSync"`
	WriteConcern int        `json:"writeConcern"`
}

// CollectionProperties is a collection description with its settings
type CollectionProperties struct {
	CollectionInfo
	CollectionDetails
}

// IndexFigures reports the count and memory footprint of a collection's indexes
type IndexFigures struct {
	Count *int `json:"count,omitempty"`
	Size  *int `json:"size,omitempty"`
}

// CollectionFigures carries collection statistics
type CollectionFigures struct {
	Indexes IndexFigures `json:"indexes"`
}

// CollectionStatistics is a collection description with statistics
type CollectionStatistics struct {
	CollectionProperties
	Figures *CollectionFigures `json:"figures,omitempty"`
}

// CollectionRevision is a collection description with its revision
type CollectionRevision struct {
	CollectionProperties
	Revision string `json:"revision"`
}

// CollectionChecksum is a collection description with its checksum
type CollectionChecksum struct {
	CollectionInfo
	Revision string `json:"revision"`
	Checksum string `json:"checksum"`
}

// Collection is a handle to a collection and its documents
type Collection struct {
	id             string
	name           string
	collectionType CollectionType
	baseURL        string
	documentURL    string
	session        transport.Client
	logger         Logger
	db             *Database
}

// ID returns the collection id
func (c *Collection) ID() string {
	return c.id
}

// Name returns the collection name
func (c *Collection) Name() string {
	return c.name
}

// Type returns whether the collection holds documents or edges
func (c *Collection) Type() CollectionType {
	return c.collectionType
}

// URL returns the collection scoped base url
func (c *Collection) URL() string {
	return c.baseURL
}

// DocumentURL returns the base url document operations dispatch against
func (c *Collection) DocumentURL() string {
	return c.documentURL
}

// Session returns the transport session requests are dispatched through
func (c *Collection) Session() transport.Client {
	return c.session
}

// Database returns the database the collection belongs to
func (c *Collection) Database() *Database {
	return c.db
}

// WithTransaction returns a copy of the collection whose requests run inside
// the given transaction. The receiver is left untouched.
func (c *Collection) WithTransaction(id string) *Collection {
	session := c.session.WithTransaction(id)
	db := *c.db
	db.session = session
	clone := *c
	clone.session = session
	clone.db = &db
	return &clone
}

func (c *Collection) rootURL() string {
	return strings.TrimSuffix(c.baseURL, "/")
}

// Drop drops the collection
func (c *Collection) Drop(ctx context.Context) error {
	resp, err := transport.Delete(ctx, c.session, c.rootURL(), nil)
	if err != nil {
		return err
	}
	if _, err := deserializeResponse[struct {
		ID string `json:"id"`
	}](resp.Body); err != nil {
		return err
	}
	c.logger.Info(ctx, "collection dropped", map[string]any{"name": c.name})
	return nil
}

// Truncate removes every document but keeps the collection and its indexes
func (c *Collection) Truncate(ctx context.Context) (CollectionInfo, error) {
	resp, err := transport.Put(ctx, c.session, c.baseURL+"truncate", nil)
	if err != nil {
		return CollectionInfo{}, err
	}
	return deserializeResponse[CollectionInfo](resp.Body)
}

// Properties fetches the collection's settings
func (c *Collection) Properties(ctx context.Context) (CollectionProperties, error) {
	resp, err := transport.Get(ctx, c.session, c.baseURL+"properties", nil)
	if err != nil {
		return CollectionProperties{}, err
	}
	return deserializeResponse[CollectionProperties](resp.Body)
}

// DocumentCount fetches the collection's settings along with its document count
func (c *Collection) DocumentCount(ctx context.Context) (CollectionProperties, error) {
	resp, err := transport.Get(ctx, c.session, c.baseURL+"count", nil)
	if err != nil {
		return CollectionProperties{}, err
	}
	return deserializeResponse[CollectionProperties](resp.Body)
}

// Statistics fetches the collection's settings along with figures
func (c *Collection) Statistics(ctx context.Context) (CollectionStatistics, error) {
	resp, err := transport.Get(ctx, c.session, c.baseURL+"figures", nil)
	if err != nil {
		return CollectionStatistics{}, err
	}
	return deserializeResponse[CollectionStatistics](resp.Body)
}

// RevisionID fetches the collection's revision
func (c *Collection) RevisionID(ctx context.Context) (CollectionRevision, error) {
	resp, err := transport.Get(ctx, c.session, c.baseURL+"revision", nil)
	if err != nil {
		return CollectionRevision{}, err
	}
	return deserializeResponse[CollectionRevision](resp.Body)
}

// Checksum calculates a checksum over the collection's contents
func (c *Collection) Checksum(ctx context.Context, options ChecksumOptions) (CollectionChecksum, error) {
	qs, err := util.QueryString(options)
	if err != nil {
		return CollectionChecksum{}, err
	}
	checksumURL := c.baseURL + "checksum"
	if qs != "" {
		checksumURL += "?" + qs
	}
	resp, err := transport.Get(ctx, c.session, checksumURL, nil)
	if err != nil {
		return CollectionChecksum{}, err
	}
	return deserializeResponse[CollectionChecksum](resp.Body)
}

// Load loads the collection into memory. When count is true the returned info
// includes the document count, which is slower.
func (c *Collection) Load(ctx context.Context, count bool) (CollectionInfo, error) {
	body, err := json.Marshal(map[string]bool{"count": count})
	if err != nil {
		return CollectionInfo{}, errors.Wrap(err, errors.Serde, "encode load request")
	}
	resp, err := transport.Put(ctx, c.session, c.baseURL+"load", body)
	if err != nil {
		return CollectionInfo{}, err
	}
	return deserializeResponse[CollectionInfo](resp.Body)
}

// Unload evicts the collection from memory
func (c *Collection) Unload(ctx context.Context) (CollectionInfo, error) {
	resp, err := transport.Put(ctx, c.session, c.baseURL+"unload", nil)
	if err != nil {
		return CollectionInfo{}, err
	}
	return deserializeResponse[CollectionInfo](resp.Body)
}

// LoadIndexes loads the collection's indexes into memory
func (c *Collection) LoadIndexes(ctx context.Context) (bool, error) {
	resp, err := transport.Put(ctx, c.session, c.baseURL+"loadIndexesIntoMemory", nil)
	if err != nil {
		return false, err
	}
	return deserializeResult[bool](resp.Body)
}

// ChangeProperties updates the collection's changeable settings
func (c *Collection) ChangeProperties(ctx context.Context, options PropertiesOptions) (CollectionProperties, error) {
	body, err := json.Marshal(options)
	if err != nil {
		return CollectionProperties{}, errors.Wrap(err, errors.Serde, "encode properties")
	}
	resp, err := transport.Put(ctx, c.session, c.baseURL+"properties", body)
	if err != nil {
		return CollectionProperties{}, err
	}
	return deserializeResponse[CollectionProperties](resp.Body)
}

// Rename renames the collection and repoints the handle at the new name
func (c *Collection) Rename(ctx context.Context, name string) (CollectionInfo, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return CollectionInfo{}, errors.Wrap(err, errors.Serde, "encode rename request")
	}
	resp, err := transport.Put(ctx, c.session, c.baseURL+"rename", body)
	if err != nil {
		return CollectionInfo{}, err
	}
	info, err := deserializeResponse[CollectionInfo](resp.Body)
	if err != nil {
		return CollectionInfo{}, err
	}
	c.logger.Info(ctx, "collection renamed", map[string]any{"from": c.name, "to": info.Name})
	c.name = info.Name
	c.baseURL = c.db.baseURL + "_api/collection/" + info.Name + "/"
	c.documentURL = c.db.baseURL + "_api/document/" + info.Name + "/"
	return info, nil
}

// CreateDocument inserts the document into the collection
func (c *Collection) CreateDocument(ctx context.Context, doc *Document, options InsertOptions) (*DocumentResponse, error) {
	qs, err := util.QueryString(options)
	if err != nil {
		return nil, err
	}
	insertURL := strings.TrimSuffix(c.documentURL, "/")
	if qs != "" {
		insertURL += "?" + qs
	}
	resp, err := transport.Post(ctx, c.session, insertURL, doc.Bytes())
	if err != nil {
		return nil, err
	}
	out, err := decodeDocumentResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug(ctx, "document created", map[string]any{"collection": c.name, "key": out.Header().Key})
	return out, nil
}

// Document fetches a single document by key. The zero ReadOptions reads
// unconditionally.
func (c *Collection) Document(ctx context.Context, key string, options ReadOptions) (*Document, error) {
	resp, err := c.session.Do(ctx, &transport.Request{
		Method: http.MethodGet,
		URL:    c.documentURL + key,
		Header: options.header(),
	})
	if err != nil {
		return nil, err
	}
	if err := checkServerError(resp.Body); err != nil {
		return nil, err
	}
	doc, err := NewDocumentFromBytes(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.Serde, "decode document %s", key)
	}
	return doc, nil
}

// DocumentHeader fetches only the _id, _key and _rev of a document by key
func (c *Collection) DocumentHeader(ctx context.Context, key string, options ReadOptions) (DocumentHeader, error) {
	resp, err := c.session.Do(ctx, &transport.Request{
		Method: http.MethodGet,
		URL:    c.documentURL + key,
		Header: options.header(),
	})
	if err != nil {
		return DocumentHeader{}, err
	}
	out, err := deserializeResponse[DocumentHeader](resp.Body)
	if err != nil {
		return DocumentHeader{}, err
	}
	if out.ID == "" || out.Key == "" || out.Rev == "" {
		return DocumentHeader{}, errors.New(errors.Serde, "document header missing fields: %s", string(resp.Body))
	}
	return out, nil
}

// Documents fetches several documents by key concurrently, preserving key order
func (c *Collection) Documents(ctx context.Context, keys ...string) (Documents, error) {
	results := make(Documents, len(keys))
	g, ctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			doc, err := c.Document(ctx, key, ReadOptions{})
			if err != nil {
				return errors.Wrap(err, 0, "get document %s", key)
			}
			results[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateDocument patches the document stored under key
func (c *Collection) UpdateDocument(ctx context.Context, key string, patch *Document, options UpdateOptions) (*DocumentResponse, error) {
	qs, err := util.QueryString(options)
	if err != nil {
		return nil, err
	}
	updateURL := c.documentURL + key
	if qs != "" {
		updateURL += "?" + qs
	}
	resp, err := transport.Patch(ctx, c.session, updateURL, patch.Bytes())
	if err != nil {
		return nil, err
	}
	out, err := decodeDocumentResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug(ctx, "document updated", map[string]any{"collection": c.name, "key": key})
	return out, nil
}

// ReplaceDocument replaces the document stored under key. A non empty ifMatch
// makes the replace conditional on the current revision.
func (c *Collection) ReplaceDocument(ctx context.Context, key string, doc *Document, options ReplaceOptions, ifMatch string) (*DocumentResponse, error) {
	qs, err := util.QueryString(options)
	if err != nil {
		return nil, err
	}
	replaceURL := c.documentURL + key
	if qs != "" {
		replaceURL += "?" + qs
	}
	header := http.Header{}
	if ifMatch != "" {
		header.Set("If-Match", ifMatch)
	}
	resp, err := c.session.Do(ctx, &transport.Request{
		Method: http.MethodPut,
		URL:    replaceURL,
		Header: header,
		Body:   doc.Bytes(),
	})
	if err != nil {
		return nil, err
	}
	out, err := decodeDocumentResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug(ctx, "document replaced", map[string]any{"collection": c.name, "key": key})
	return out, nil
}

// RemoveDocument removes the document stored under key. A non empty ifMatch
// makes the removal conditional on the current revision.
func (c *Collection) RemoveDocument(ctx context.Context, key string, options RemoveOptions, ifMatch string) (*DocumentResponse, error) {
	qs, err := util.QueryString(options)
	if err != nil {
		return nil, err
	}
	removeURL := c.documentURL + key
	if qs != "" {
		removeURL += "?" + qs
	}
	header := http.Header{}
	if ifMatch != "" {
		header.Set("If-Match", ifMatch)
	}
	resp, err := c.session.Do(ctx, &transport.Request{
		Method: http.MethodDelete,
		URL:    removeURL,
		Header: header,
	})
	if err != nil {
		return nil, err
	}
	out, err := decodeDocumentResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug(ctx, "document removed", map[string]any{"collection": c.name, "key": key})
	return out, nil
}
