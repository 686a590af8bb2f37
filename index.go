package arango

import (
	"context"
	"encoding/json"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
)

// IndexType is the type of a collection index
type IndexType string

const (
	IndexTypePrimary    IndexType = "primary"
	IndexTypeFulltext   IndexType = "fulltext"
	IndexTypeGeo        IndexType = "geo"
	IndexTypeHash       IndexType = "hash"
	IndexTypePersistent IndexType = "persistent"
	IndexTypeSkiplist   IndexType = "skiplist"
	IndexTypeTTL        IndexType = "ttl"
)

// Index describes a collection index. Creation sends only the fields the
// index type understands; responses fill in the server assigned ones.
type Index struct {
	ID                  string    `json:"id,omitempty"`
	Name                string    `json:"name,omitempty"`
	Type                IndexType `json:"type,omitempty"`
	Fields              []string  `json:"fields"`
	Unique              *bool     `json:"unique,omitempty"`
	Sparse              *bool     `json:"sparse,omitempty"`
	Deduplicate         *bool     `json:"deduplicate,omitempty"`
	MinLength           *int      `json:"minLength,omitempty"`
	GeoJSON             *bool     `json:"geoJson,omitempty"`
	ExpireAfter         *int      `json:"expireAfter,omitempty"`
	InBackground        *bool     `json:"inBackground,omitempty"`
	SelectivityEstimate *float64  `json:"selectivityEstimate,omitempty"`
	IsNewlyCreated      *bool     `json:"isNewlyCreated,omitempty"`
	Error               *bool     `json:"error,omitempty"`
	Code                *int      `json:"code,omitempty"`
}

// WithName names the index
func (i Index) WithName(name string) Index {
	i.Name = name
	return i
}

// CreateInBackground keeps the collection writable while the index builds
func (i Index) CreateInBackground(inBackground bool) Index {
	i.InBackground = &inBackground
	return i
}

// NewPersistentIndex describes a persistent index over the given fields
func NewPersistentIndex(fields []string, unique, sparse, deduplicate bool) Index {
	return Index{
		Type:        IndexTypePersistent,
		Fields:      fields,
		Unique:      &unique,
		Sparse:      &sparse,
		Deduplicate: &deduplicate,
	}
}

// NewHashIndex describes a hash index over the given fields
func NewHashIndex(fields []string, unique, sparse, deduplicate bool) Index {
	return Index{
		Type:        IndexTypeHash,
		Fields:      fields,
		Unique:      &unique,
		Sparse:      &sparse,
		Deduplicate: &deduplicate,
	}
}

// NewSkiplistIndex describes a skiplist index over the given fields
func NewSkiplistIndex(fields []string, unique, sparse, deduplicate bool) Index {
	return Index{
		Type:        IndexTypeSkiplist,
		Fields:      fields,
		Unique:      &unique,
		Sparse:      &sparse,
		Deduplicate: &deduplicate,
	}
}

// NewTTLIndex describes a ttl index expiring documents expireAfter seconds
// after the indexed timestamp
func NewTTLIndex(fields []string, expireAfter int) Index {
	return Index{
		Type:        IndexTypeTTL,
		Fields:      fields,
		ExpireAfter: &expireAfter,
	}
}

// NewGeoIndex describes a geo index over the given fields
func NewGeoIndex(fields []string) Index {
	return Index{
		Type:   IndexTypeGeo,
		Fields: fields,
	}
}

// NewFulltextIndex describes a fulltext index over the given fields, indexing
// words of at least minLength characters
func NewFulltextIndex(fields []string, minLength int) Index {
	return Index{
		Type:      IndexTypeFulltext,
		Fields:    fields,
		MinLength: &minLength,
	}
}

// IndexCollection lists the indexes of a collection
type IndexCollection struct {
	Error   bool    `json:"error"`
	Code    int     `json:"code"`
	Indexes []Index `json:"indexes"`
}

// DeleteIndexResponse reports the id of a deleted index
type DeleteIndexResponse struct {
	ID    string `json:"id"`
	Error bool   `json:"error"`
	Code  int    `json:"code"`
}

// Indexes lists every index of the named collection
func (db *Database) Indexes(ctx context.Context, collection string) (IndexCollection, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/index?collection="+collection, nil)
	if err != nil {
		return IndexCollection{}, err
	}
	return deserializeResponse[IndexCollection](resp.Body)
}

// Index fetches a single index by its id (collection/number)
func (db *Database) Index(ctx context.Context, id string) (Index, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/index/"+id, nil)
	if err != nil {
		return Index{}, err
	}
	return deserializeResponse[Index](resp.Body)
}

// CreateIndex creates an index on the named collection
func (db *Database) CreateIndex(ctx context.Context, collection string, index Index) (Index, error) {
	body, err := json.Marshal(index)
	if err != nil {
		return Index{}, errors.Wrap(err, errors.Serde, "encode index")
	}
	resp, err := transport.Post(ctx, db.session, db.baseURL+"_api/index?collection="+collection, body)
	if err != nil {
		return Index{}, err
	}
	out, err := deserializeResponse[Index](resp.Body)
	if err != nil {
		return Index{}, err
	}
	db.logger.Info(ctx, "index created", map[string]any{"collection": collection, "id": out.ID})
	return out, nil
}

// DeleteIndex deletes the index with the given id
func (db *Database) DeleteIndex(ctx context.Context, id string) (DeleteIndexResponse, error) {
	resp, err := transport.Delete(ctx, db.session, db.baseURL+"_api/index/"+id, nil)
	if err != nil {
		return DeleteIndexResponse{}, err
	}
	out, err := deserializeResponse[DeleteIndexResponse](resp.Body)
	if err != nil {
		return DeleteIndexResponse{}, err
	}
	db.logger.Info(ctx, "index deleted", map[string]any{"id": id})
	return out, nil
}
