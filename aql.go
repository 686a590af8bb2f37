package arango

// AqlOptions are the optimizer related options of an AQL query
type AqlOptions struct {
	FailOnWarning   *bool    `json:"failOnWarning,omitempty"`
	Profile         *bool    `json:"profile,omitempty"`
	MaxWarningCount *int     `json:"maxWarningCount,omitempty"`
	FullCount       *bool    `json:"fullCount,omitempty"`
	MaxPlans        *int     `json:"maxPlans,omitempty"`
	Optimizer       []string `json:"optimizer,omitempty"`
}

// AqlQuery is an AQL query with its execution options
type AqlQuery struct {
	// Query is the AQL string
	Query string `json:"query" validate:"required"`
	// BindVars bind the @-prefixed placeholders in the query
	BindVars map[string]any `json:"bindVars,omitempty"`
	// Count asks the server to report the full result count
	Count *bool `json:"count,omitempty"`
	// BatchSize caps how many rows come back per round trip
	BatchSize *int `json:"batchSize,omitempty"`
	// Cache opts the query into the server side query cache
	Cache *bool `json:"cache,omitempty"`
	// MemoryLimit caps the memory the query may use, in bytes
	MemoryLimit *int `json:"memoryLimit,omitempty"`
	// TTL is how long the server keeps an open cursor alive, in seconds
	TTL     *int        `json:"ttl,omitempty"`
	Options *AqlOptions `json:"options,omitempty"`
}

// AqlQueryBuilder is a utility for creating AQL queries via chainable methods
type AqlQueryBuilder struct {
	query *AqlQuery
}

// NewAqlQueryBuilder creates a new AqlQueryBuilder instance for the given AQL string
func NewAqlQueryBuilder(query string) *AqlQueryBuilder {
	return &AqlQueryBuilder{query: &AqlQuery{Query: query}}
}

// Query returns the built query
func (a *AqlQueryBuilder) Query() AqlQuery {
	return *a.query
}

// BindVar binds a value to the @-prefixed placeholder with the given name
func (a *AqlQueryBuilder) BindVar(name string, value any) *AqlQueryBuilder {
	if a.query.BindVars == nil {
		a.query.BindVars = map[string]any{}
	}
	a.query.BindVars[name] = value
	return a
}

// Count adds the count flag to the query
func (a *AqlQueryBuilder) Count(count bool) *AqlQueryBuilder {
	a.query.Count = &count
	return a
}

// BatchSize adds the batch size to the query
func (a *AqlQueryBuilder) BatchSize(size int) *AqlQueryBuilder {
	a.query.BatchSize = &size
	return a
}

// Cache adds the cache flag to the query
func (a *AqlQueryBuilder) Cache(cache bool) *AqlQueryBuilder {
	a.query.Cache = &cache
	return a
}

// MemoryLimit adds the memory limit to the query
func (a *AqlQueryBuilder) MemoryLimit(limit int) *AqlQueryBuilder {
	a.query.MemoryLimit = &limit
	return a
}

// TTL adds the cursor time to live to the query
func (a *AqlQueryBuilder) TTL(ttl int) *AqlQueryBuilder {
	a.query.TTL = &ttl
	return a
}

// Options adds the optimizer options to the query
func (a *AqlQueryBuilder) Options(options *AqlOptions) *AqlQueryBuilder {
	a.query.Options = options
	return a
}

// CursorStats are the execution statistics reported with a cursor
type CursorStats struct {
	WritesExecuted int     `json:"writesExecuted"`
	WritesIgnored  int     `json:"writesIgnored"`
	ScannedFull    int     `json:"scannedFull"`
	ScannedIndex   int     `json:"scannedIndex"`
	Filtered       int     `json:"filtered"`
	FullCount      *int    `json:"fullCount,omitempty"`
	HTTPRequests   int     `json:"httpRequests"`
	ExecutionTime  float64 `json:"executionTime"`
}

// CursorExtra carries statistics and warnings attached to a cursor
type CursorExtra struct {
	Stats    *CursorStats `json:"stats,omitempty"`
	Warnings []*Document  `json:"warnings,omitempty"`
}

// Cursor is one batch of query results
type Cursor struct {
	// Result holds the rows of this batch
	Result Documents `json:"result"`
	// HasMore reports whether another batch is waiting server side
	HasMore bool `json:"hasMore"`
	// ID identifies the server side cursor while HasMore is true
	ID string `json:"id,omitempty"`
	// Count is the full result count when the query asked for it
	Count *int `json:"count,omitempty"`
	// Cached reports whether the result came from the query cache
	Cached bool `json:"cached"`
	// Extra carries statistics and warnings when the server sends them
	Extra *CursorExtra `json:"extra,omitempty"`
}
