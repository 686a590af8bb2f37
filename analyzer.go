package arango

import (
	"context"
	"encoding/json"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
	"github.com/autom8ter/arango/util"
)

// AnalyzerType is the kind of an analyzer
type AnalyzerType string

const (
	AnalyzerTypeIdentity  AnalyzerType = "identity"
	AnalyzerTypeDelimiter AnalyzerType = "delimiter"
	AnalyzerTypeStem      AnalyzerType = "stem"
	AnalyzerTypeNorm      AnalyzerType = "norm"
	AnalyzerTypeNgram     AnalyzerType = "ngram"
	AnalyzerTypeText      AnalyzerType = "text"
	AnalyzerTypeGeoJSON   AnalyzerType = "geojson"
	AnalyzerTypeStopwords AnalyzerType = "stopwords"
	AnalyzerTypePipeline  AnalyzerType = "pipeline"
)

// AnalyzerFeature is a per-analyzer indexing capability
type AnalyzerFeature string

const (
	AnalyzerFeatureFrequency AnalyzerFeature = "frequency"
	AnalyzerFeatureNorm      AnalyzerFeature = "norm"
	AnalyzerFeaturePosition  AnalyzerFeature = "position"
)

// AnalyzerCase controls character case conversion
type AnalyzerCase string

const (
	AnalyzerCaseLower AnalyzerCase = "lower"
	AnalyzerCaseNone  AnalyzerCase = "none"
	AnalyzerCaseUpper AnalyzerCase = "upper"
)

// PipelineAnalyzer is one stage of a pipeline analyzer
type PipelineAnalyzer struct {
	Type       AnalyzerType        `json:"type"`
	Properties *AnalyzerProperties `json:"properties,omitempty"`
}

// AnalyzerProperties holds the settings of every analyzer type. Which fields
// apply depends on the analyzer's Type.
type AnalyzerProperties struct {
	Delimiter        *string            `json:"delimiter,omitempty"`
	Locale           *string            `json:"locale,omitempty"`
	Case             *AnalyzerCase      `json:"case,omitempty"`
	Accent           *bool              `json:"accent,omitempty"`
	Min              *int               `json:"min,omitempty"`
	Max              *int               `json:"max,omitempty"`
	PreserveOriginal *bool              `json:"preserveOriginal,omitempty"`
	StreamType       *string            `json:"streamType,omitempty"`
	Stopwords        []string           `json:"stopwords,omitempty"`
	StopwordsPath    *string            `json:"stopwordsPath,omitempty"`
	Stemming         *bool              `json:"stemming,omitempty"`
	Pipeline         []PipelineAnalyzer `json:"pipeline,omitempty"`
}

// Analyzer describes a search analyzer
type Analyzer struct {
	Name       string              `json:"name" validate:"required"`
	Type       AnalyzerType        `json:"type" validate:"required"`
	Features   []AnalyzerFeature   `json:"features,omitempty"`
	Properties *AnalyzerProperties `json:"properties,omitempty"`
}

// Analyzers lists the analyzers visible in the database
func (db *Database) Analyzers(ctx context.Context) ([]Analyzer, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/analyzer", nil)
	if err != nil {
		return nil, err
	}
	return deserializeResult[[]Analyzer](resp.Body)
}

// Analyzer fetches a single analyzer by name
func (db *Database) Analyzer(ctx context.Context, name string) (Analyzer, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/analyzer/"+name, nil)
	if err != nil {
		return Analyzer{}, err
	}
	return deserializeResponse[Analyzer](resp.Body)
}

// CreateAnalyzer creates an analyzer in the database
func (db *Database) CreateAnalyzer(ctx context.Context, analyzer Analyzer) (Analyzer, error) {
	if err := util.ValidateStruct(&analyzer); err != nil {
		return Analyzer{}, err
	}
	body, err := json.Marshal(analyzer)
	if err != nil {
		return Analyzer{}, errors.Wrap(err, errors.Serde, "encode analyzer")
	}
	resp, err := transport.Post(ctx, db.session, db.baseURL+"_api/analyzer", body)
	if err != nil {
		return Analyzer{}, err
	}
	out, err := deserializeResponse[Analyzer](resp.Body)
	if err != nil {
		return Analyzer{}, err
	}
	db.logger.Info(ctx, "analyzer created", map[string]any{"name": out.Name})
	return out, nil
}

// DropAnalyzer removes the named analyzer
func (db *Database) DropAnalyzer(ctx context.Context, name string) error {
	resp, err := transport.Delete(ctx, db.session, db.baseURL+"_api/analyzer/"+name, nil)
	if err != nil {
		return err
	}
	if err := checkServerError(resp.Body); err != nil {
		return err
	}
	db.logger.Info(ctx, "analyzer dropped", map[string]any{"name": name})
	return nil
}
