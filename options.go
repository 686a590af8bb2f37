package arango

import (
	"encoding/json"
	"net/http"

	"github.com/samber/lo"
)

// OverwriteMode controls what an insert does when the key already exists
type OverwriteMode string

const (
	// OverwriteModeIgnore keeps the existing document untouched
	OverwriteModeIgnore OverwriteMode = "ignore"
	// OverwriteModeReplace replaces the existing document
	OverwriteModeReplace OverwriteMode = "replace"
	// OverwriteModeUpdate patches the existing document
	OverwriteModeUpdate OverwriteMode = "update"
	// OverwriteModeConflict rejects the write with a conflict error
	OverwriteModeConflict OverwriteMode = "conflict"
)

// InsertOptions customize a document insert. Unset fields fall back to the
// server defaults.
type InsertOptions struct {
	WaitForSync   *bool          `json:"waitForSync,omitempty"`
	ReturnNew     *bool          `json:"returnNew,omitempty"`
	ReturnOld     *bool          `json:"returnOld,omitempty"`
	Silent        *bool          `json:"silent,omitempty"`
	Overwrite     *bool          `json:"overwrite,omitempty"`
	OverwriteMode *OverwriteMode `json:"overwriteMode,omitempty"`
	KeepNull      *bool          `json:"keepNull,omitempty"`
	MergeObjects  *bool          `json:"mergeObjects,omitempty"`
}

// UpdateOptions customize a document update
type UpdateOptions struct {
	KeepNull     *bool `json:"keepNull,omitempty"`
	MergeObjects *bool `json:"mergeObjects,omitempty"`
	WaitForSync  *bool `json:"waitForSync,omitempty"`
	IgnoreRevs   *bool `json:"ignoreRevs,omitempty"`
	ReturnNew    *bool `json:"returnNew,omitempty"`
	ReturnOld    *bool `json:"returnOld,omitempty"`
	Silent       *bool `json:"silent,omitempty"`
}

// ReplaceOptions customize a document replace
type ReplaceOptions struct {
	WaitForSync *bool `json:"waitForSync,omitempty"`
	IgnoreRevs  *bool `json:"ignoreRevs,omitempty"`
	ReturnNew   *bool `json:"returnNew,omitempty"`
	ReturnOld   *bool `json:"returnOld,omitempty"`
	Silent      *bool `json:"silent,omitempty"`
}

// RemoveOptions customize a document removal
type RemoveOptions struct {
	WaitForSync *bool `json:"waitForSync,omitempty"`
	ReturnOld   *bool `json:"returnOld,omitempty"`
	Silent      *bool `json:"silent,omitempty"`
}

// ReadOptions condition a document read on its revision. At most one
// conditional header is ever sent: construct with IfMatch or IfNoneMatch, the
// zero value reads unconditionally.
type ReadOptions struct {
	ifMatch     string
	ifNoneMatch string
}

// IfMatch reads the document only if its current revision is rev
func IfMatch(rev string) ReadOptions {
	return ReadOptions{ifMatch: rev}
}

// IfNoneMatch reads the document only if its current revision differs from rev
func IfNoneMatch(rev string) ReadOptions {
	return ReadOptions{ifNoneMatch: rev}
}

func (r ReadOptions) header() http.Header {
	header := http.Header{}
	if r.ifMatch != "" {
		header.Set("If-Match", r.ifMatch)
	} else if r.ifNoneMatch != "" {
		header.Set("If-None-Match", r.ifNoneMatch)
	}
	return header
}

// KeyOptions configure how document keys are generated for a collection
type KeyOptions struct {
	// AllowUserKeys permits caller supplied keys. The server default is true.
	AllowUserKeys *bool `json:"allowUserKeys,omitempty"`
	// Type is the key generator (traditional, autoincrement, uuid, padded)
	Type      *string `json:"type,omitempty"`
	Increment *int    `json:"increment,omitempty"`
	Offset    *int    `json:"offset,omitempty"`
	// LastValue is reported by the server and not meant to be sent
	LastValue uint64 `json:"lastValue,omitempty"`
}

// CreateCollectionOptions is the body of a collection create request
type CreateCollectionOptions struct {
	// Name of the collection to create
	Name string `json:"name" validate:"required"`
	// Type of the collection, document or edge. Zero lets the server default to document.
	Type             CollectionType `json:"type,omitempty"`
	WaitForSync      *bool          `json:"waitForSync,omitempty"`
	IsSystem         *bool          `json:"isSystem,omitempty"`
	KeyOptions       *KeyOptions    `json:"keyOptions,omitempty"`
	Schema           *Document      `json:"schema,omitempty"`
	ShardingStrategy *string        `json:"shardingStrategy,omitempty"`
}

// CreateCollectionParameters are query parameters accepted by collection
// creation in a cluster. Both flags go over the wire as 1 or 0.
type CreateCollectionParameters struct {
	WaitForSyncReplication   *bool `json:"-"`
	EnforceReplicationFactor *bool `json:"-"`
}

// MarshalJSON satisfies the json Marshaler interface
func (c CreateCollectionParameters) MarshalJSON() ([]byte, error) {
	out := map[string]int{}
	if c.WaitForSyncReplication != nil {
		out["waitForSyncReplication"] = lo.Ternary(*c.WaitForSyncReplication, 1, 0)
	}
	if c.EnforceReplicationFactor != nil {
		out["enforceReplicationFactor"] = lo.Ternary(*c.EnforceReplicationFactor, 1, 0)
	}
	return json.Marshal(out)
}

// ChecksumOptions customize a collection checksum calculation
type ChecksumOptions struct {
	WithRevision *bool `json:"withRevision,omitempty"`
	WithData     *bool `json:"withData,omitempty"`
}

// PropertiesOptions are the changeable collection properties
type PropertiesOptions struct {
	WaitForSync *bool `json:"waitForSync,omitempty"`
}

// DatabaseUser is an account granted access to a database at creation time
type DatabaseUser struct {
	Username string `json:"username"`
	// Password is only ever sent, the server never returns it
	Password string         `json:"passwd,omitempty"`
	Active   *bool          `json:"active,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// CreateDatabaseOptions are the optional cluster settings of a new database.
// Users travel at the top level of the create request, not inside options.
type CreateDatabaseOptions struct {
	Sharding          *string        `json:"sharding,omitempty"`
	ReplicationFactor *int           `json:"replicationFactor,omitempty"`
	WriteConcern      *int           `json:"writeConcern,omitempty"`
	Users             []DatabaseUser `json:"-"`
}
