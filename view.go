package arango

import (
	"context"
	"encoding/json"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
	"github.com/autom8ter/arango/util"
)

// ViewType is the kind of a view. Only arangosearch views exist today.
type ViewType string

const ViewTypeArangoSearch ViewType = "arangosearch"

// StoreValues controls whether link values are stored in a view
type StoreValues string

const (
	StoreValuesNone StoreValues = "none"
	StoreValuesID   StoreValues = "id"
)

// ArangoSearchViewLink maps a collection's fields into a view
type ArangoSearchViewLink struct {
	Analyzers          []string                        `json:"analyzers,omitempty"`
	Fields             map[string]ArangoSearchViewLink `json:"fields,omitempty"`
	IncludeAllFields   *bool                           `json:"includeAllFields,omitempty"`
	TrackListPositions *bool                           `json:"trackListPositions,omitempty"`
	StoreValues        *StoreValues                    `json:"storeValues,omitempty"`
}

// ConsolidationType selects a view's consolidation strategy
type ConsolidationType string

const (
	ConsolidationTypeBytesAccum ConsolidationType = "bytes_accum"
	ConsolidationTypeTier       ConsolidationType = "tier"
)

// ConsolidationPolicy controls how view segments are consolidated. Which
// fields apply depends on Type.
type ConsolidationPolicy struct {
	Type               ConsolidationType `json:"type"`
	Threshold          *float64          `json:"threshold,omitempty"`
	SegmentsMin        *int              `json:"segmentsMin,omitempty"`
	SegmentsMax        *int              `json:"segmentsMax,omitempty"`
	SegmentsBytesMax   *int              `json:"segmentsBytesMax,omitempty"`
	SegmentsBytesFloor *int              `json:"segmentsBytesFloor,omitempty"`
	MinScore           *float64          `json:"minScore,omitempty"`
}

// PrimarySort orders a view by a stored field
type PrimarySort struct {
	Field string `json:"field"`
	// Direction is asc or desc
	Direction string `json:"direction,omitempty"`
}

// StoredValuesDescriptor names fields stored inline in a view
type StoredValuesDescriptor struct {
	Fields []string `json:"fields,omitempty"`
}

// PrimarySortCompression is the compression applied to the primary sort data
type PrimarySortCompression string

const (
	PrimarySortCompressionLz4  PrimarySortCompression = "lz4"
	PrimarySortCompressionNone PrimarySortCompression = "none"
)

// ArangoSearchViewProperties are the tunables of an arangosearch view
type ArangoSearchViewProperties struct {
	CleanupIntervalStep       *int                            `json:"cleanupIntervalStep,omitempty"`
	ConsolidationIntervalMsec *int                            `json:"consolidationIntervalMsec,omitempty"`
	WritebufferIdle           *int                            `json:"writebufferIdle,omitempty"`
	WritebufferActive         *int                            `json:"writebufferActive,omitempty"`
	WritebufferSizeMax        *int                            `json:"writebufferSizeMax,omitempty"`
	ConsolidationPolicy       *ConsolidationPolicy            `json:"consolidationPolicy,omitempty"`
	PrimarySort               []PrimarySort                   `json:"primarySort,omitempty"`
	PrimarySortCompression    *PrimarySortCompression         `json:"primarySortCompression,omitempty"`
	StoredValues              []StoredValuesDescriptor        `json:"storedValues,omitempty"`
	Links                     map[string]ArangoSearchViewLink `json:"links,omitempty"`
}

// ViewDescription identifies a view
type ViewDescription struct {
	GloballyUniqueID string   `json:"globallyUniqueId"`
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Type             ViewType `json:"type"`
}

// ViewOptions is the body of a view create request. The properties are
// flattened next to name and type on the wire.
type ViewOptions struct {
	Name string   `json:"name" validate:"required"`
	Type ViewType `json:"type,omitempty"`
	ArangoSearchViewProperties
}

// View is a view description together with its properties
type View struct {
	ViewDescription
	ArangoSearchViewProperties
}

// Views lists the views of the database
func (db *Database) Views(ctx context.Context) ([]ViewDescription, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/view", nil)
	if err != nil {
		return nil, err
	}
	return deserializeResult[[]ViewDescription](resp.Body)
}

// View fetches a view's description by name
func (db *Database) View(ctx context.Context, name string) (ViewDescription, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/view/"+name, nil)
	if err != nil {
		return ViewDescription{}, err
	}
	return deserializeResponse[ViewDescription](resp.Body)
}

// ViewProperties fetches a view along with its properties
func (db *Database) ViewProperties(ctx context.Context, name string) (View, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/view/"+name+"/properties", nil)
	if err != nil {
		return View{}, err
	}
	return deserializeResponse[View](resp.Body)
}

// CreateView creates a view. An empty type defaults to arangosearch.
func (db *Database) CreateView(ctx context.Context, options ViewOptions) (View, error) {
	if err := util.ValidateStruct(&options); err != nil {
		return View{}, err
	}
	if options.Type == "" {
		options.Type = ViewTypeArangoSearch
	}
	body, err := json.Marshal(options)
	if err != nil {
		return View{}, errors.Wrap(err, errors.Serde, "encode view")
	}
	resp, err := transport.Post(ctx, db.session, db.baseURL+"_api/view", body)
	if err != nil {
		return View{}, err
	}
	out, err := deserializeResponse[View](resp.Body)
	if err != nil {
		return View{}, err
	}
	db.logger.Info(ctx, "view created", map[string]any{"name": out.Name})
	return out, nil
}

// ReplaceViewProperties replaces all of a view's properties
func (db *Database) ReplaceViewProperties(ctx context.Context, name string, properties ArangoSearchViewProperties) (View, error) {
	body, err := json.Marshal(properties)
	if err != nil {
		return View{}, errors.Wrap(err, errors.Serde, "encode view properties")
	}
	resp, err := transport.Put(ctx, db.session, db.baseURL+"_api/view/"+name+"/properties", body)
	if err != nil {
		return View{}, err
	}
	return deserializeResponse[View](resp.Body)
}

// UpdateViewProperties patches a view's properties, leaving unset ones alone
func (db *Database) UpdateViewProperties(ctx context.Context, name string, properties ArangoSearchViewProperties) (View, error) {
	body, err := json.Marshal(properties)
	if err != nil {
		return View{}, errors.Wrap(err, errors.Serde, "encode view properties")
	}
	resp, err := transport.Patch(ctx, db.session, db.baseURL+"_api/view/"+name+"/properties", body)
	if err != nil {
		return View{}, err
	}
	return deserializeResponse[View](resp.Body)
}

// DropView drops the named view
func (db *Database) DropView(ctx context.Context, name string) error {
	resp, err := transport.Delete(ctx, db.session, db.baseURL+"_api/view/"+name, nil)
	if err != nil {
		return err
	}
	if _, err := deserializeResult[bool](resp.Body); err != nil {
		return err
	}
	db.logger.Info(ctx, "view dropped", map[string]any{"name": name})
	return nil
}
