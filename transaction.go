package arango

import (
	"context"
	"encoding/json"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
	"github.com/autom8ter/arango/util"
)

// TransactionStatus is the lifecycle state of a stream transaction
type TransactionStatus string

const (
	TransactionRunning   TransactionStatus = "running"
	TransactionCommitted TransactionStatus = "committed"
	TransactionAborted   TransactionStatus = "aborted"
)

// TransactionCollections declares which collections a transaction touches.
// Write access must be declared up front.
type TransactionCollections struct {
	Read  []string `json:"read,omitempty"`
	Write []string `json:"write" validate:"required"`
}

// TransactionSettings configure a stream transaction
type TransactionSettings struct {
	Collections TransactionCollections `json:"collections"`
	WaitForSync *bool                  `json:"waitForSync,omitempty"`
	// AllowImplicit lets the transaction read collections it did not declare
	AllowImplicit      bool `json:"allowImplicit"`
	LockTimeout        *int `json:"lockTimeout,omitempty"`
	MaxTransactionSize *int `json:"maxTransactionSize,omitempty"`
}

// TransactionSettingsBuilder is a utility for creating transaction settings
// via chainable methods
type TransactionSettingsBuilder struct {
	settings *TransactionSettings
}

// NewTransactionSettingsBuilder creates a new TransactionSettingsBuilder
// declaring the collections written to. Implicit reads are allowed unless
// switched off.
func NewTransactionSettingsBuilder(write ...string) *TransactionSettingsBuilder {
	return &TransactionSettingsBuilder{settings: &TransactionSettings{
		Collections:   TransactionCollections{Write: write},
		AllowImplicit: true,
	}}
}

// Settings returns the built settings
func (t *TransactionSettingsBuilder) Settings() TransactionSettings {
	return *t.settings
}

// Read declares the collections read from
func (t *TransactionSettingsBuilder) Read(read ...string) *TransactionSettingsBuilder {
	t.settings.Collections.Read = append(t.settings.Collections.Read, read...)
	return t
}

// WaitForSync adds the wait for sync flag to the settings
func (t *TransactionSettingsBuilder) WaitForSync(wait bool) *TransactionSettingsBuilder {
	t.settings.WaitForSync = &wait
	return t
}

// AllowImplicit toggles implicit read access to undeclared collections
func (t *TransactionSettingsBuilder) AllowImplicit(allow bool) *TransactionSettingsBuilder {
	t.settings.AllowImplicit = allow
	return t
}

// LockTimeout adds the lock timeout, in seconds, to the settings
func (t *TransactionSettingsBuilder) LockTimeout(seconds int) *TransactionSettingsBuilder {
	t.settings.LockTimeout = &seconds
	return t
}

// MaxTransactionSize adds the transaction size limit, in bytes, to the settings
func (t *TransactionSettingsBuilder) MaxTransactionSize(size int) *TransactionSettingsBuilder {
	t.settings.MaxTransactionSize = &size
	return t
}

// TransactionState identifies a transaction as listed by the server
type TransactionState struct {
	ID    string            `json:"id"`
	State TransactionStatus `json:"state"`
}

type transactionBody struct {
	ID     string            `json:"id"`
	Status TransactionStatus `json:"status"`
}

// Transaction is a server side stream transaction. Every operation made
// through its database handle carries the transaction id; the session the
// transaction was started from stays untouched.
type Transaction struct {
	id     string
	status TransactionStatus
	db     *Database
}

// BeginTransaction starts a stream transaction over the declared collections
// and returns a handle bound to it
func (db *Database) BeginTransaction(ctx context.Context, settings TransactionSettings) (*Transaction, error) {
	if err := util.ValidateStruct(&settings); err != nil {
		return nil, err
	}
	body, err := json.Marshal(settings)
	if err != nil {
		return nil, errors.Wrap(err, errors.Serde, "encode transaction settings")
	}
	resp, err := transport.Post(ctx, db.session, db.baseURL+"_api/transaction/begin", body)
	if err != nil {
		return nil, err
	}
	tx, err := deserializeResult[transactionBody](resp.Body)
	if err != nil {
		return nil, err
	}
	bound := *db
	bound.session = db.session.WithTransaction(tx.ID)
	db.logger.Info(ctx, "transaction started", map[string]any{"id": tx.ID, "database": db.name})
	return &Transaction{
		id:     tx.ID,
		status: tx.Status,
		db:     &bound,
	}, nil
}

// Transactions lists the transactions currently known to the server
func (db *Database) Transactions(ctx context.Context) ([]TransactionState, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/transaction", nil)
	if err != nil {
		return nil, err
	}
	out, err := deserializeResponse[struct {
		Transactions []TransactionState `json:"transactions"`
	}](resp.Body)
	if err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// ID returns the server assigned transaction id
func (t *Transaction) ID() string {
	return t.id
}

// Status returns the last status confirmed by the server
func (t *Transaction) Status() TransactionStatus {
	return t.status
}

// URL returns the transaction's endpoint
func (t *Transaction) URL() string {
	return t.db.baseURL + "_api/transaction/" + t.id
}

// Session returns the transaction bound transport session
func (t *Transaction) Session() transport.Client {
	return t.db.session
}

// Database returns the transaction bound database handle
func (t *Transaction) Database() *Database {
	return t.db
}

// Collection returns a transaction bound handle to the named collection
func (t *Transaction) Collection(ctx context.Context, name string) (*Collection, error) {
	return t.db.Collection(ctx, name)
}

// Query runs an AQL query inside the transaction
func (t *Transaction) Query(ctx context.Context, aql AqlQuery) (Documents, error) {
	return t.db.Query(ctx, aql)
}

// QueryBatch starts a batch cursor inside the transaction
func (t *Transaction) QueryBatch(ctx context.Context, aql AqlQuery) (*Cursor, error) {
	return t.db.QueryBatch(ctx, aql)
}

// NextBatch fetches the next batch of a cursor opened inside the transaction
func (t *Transaction) NextBatch(ctx context.Context, cursorID string) (*Cursor, error) {
	return t.db.NextBatch(ctx, cursorID)
}

// Commit commits the transaction. The status only transitions when the
// server confirms it; a failed commit leaves the handle unchanged.
func (t *Transaction) Commit(ctx context.Context) (TransactionStatus, error) {
	resp, err := transport.Put(ctx, t.db.session, t.db.baseURL+"_api/transaction/"+t.id, nil)
	if err != nil {
		return t.status, err
	}
	out, err := deserializeResult[transactionBody](resp.Body)
	if err != nil {
		return t.status, err
	}
	t.status = out.Status
	t.db.logger.Info(ctx, "transaction committed", map[string]any{"id": t.id})
	return t.status, nil
}

// Abort aborts the transaction. There is no client side terminal state
// check: aborting twice sends a second request and surfaces the server's
// answer to it.
func (t *Transaction) Abort(ctx context.Context) (TransactionStatus, error) {
	resp, err := transport.Delete(ctx, t.db.session, t.db.baseURL+"_api/transaction/"+t.id, nil)
	if err != nil {
		return t.status, err
	}
	out, err := deserializeResult[transactionBody](resp.Body)
	if err != nil {
		return t.status, err
	}
	t.status = out.Status
	t.db.logger.Info(ctx, "transaction aborted", map[string]any{"id": t.id})
	return t.status, nil
}
