package arango

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/transport"
	"github.com/autom8ter/arango/util"
)

// EdgeDefinition relates an edge collection to the vertex collections it
// connects
type EdgeDefinition struct {
	Collection string   `json:"collection"`
	From       []string `json:"from"`
	To         []string `json:"to"`
}

// GraphOptions are cluster settings applied when a graph is created
type GraphOptions struct {
	SmartGraphAttribute *string `json:"smartGraphAttribute,omitempty"`
	NumberOfShards      *int    `json:"numberOfShards,omitempty"`
	ReplicationFactor   *int    `json:"replicationFactor,omitempty"`
	WriteConcern        *int    `json:"writeConcern,omitempty"`
}

// Graph is a named graph over edge and vertex collections
type Graph struct {
	Name              string           `json:"name" validate:"required"`
	EdgeDefinitions   []EdgeDefinition `json:"edgeDefinitions"`
	OrphanCollections []string         `json:"orphanCollections,omitempty"`
	IsSmart           *bool            `json:"isSmart,omitempty"`
	IsDisjoint        *bool            `json:"isDisjoint,omitempty"`
	Options           *GraphOptions    `json:"options,omitempty"`
}

// Graphs lists the graphs of the database
func (db *Database) Graphs(ctx context.Context) ([]Graph, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/gharial", nil)
	if err != nil {
		return nil, err
	}
	out, err := deserializeResponse[struct {
		Graphs []Graph `json:"graphs"`
	}](resp.Body)
	if err != nil {
		return nil, err
	}
	return out.Graphs, nil
}

// Graph fetches a named graph
func (db *Database) Graph(ctx context.Context, name string) (Graph, error) {
	resp, err := transport.Get(ctx, db.session, db.baseURL+"_api/gharial/"+name, nil)
	if err != nil {
		return Graph{}, err
	}
	out, err := deserializeResponse[struct {
		Graph Graph `json:"graph"`
	}](resp.Body)
	if err != nil {
		return Graph{}, err
	}
	return out.Graph, nil
}

// CreateGraph creates a named graph
func (db *Database) CreateGraph(ctx context.Context, graph Graph, waitForSync bool) (Graph, error) {
	if err := util.ValidateStruct(&graph); err != nil {
		return Graph{}, err
	}
	body, err := json.Marshal(graph)
	if err != nil {
		return Graph{}, errors.Wrap(err, errors.Serde, "encode graph")
	}
	url := fmt.Sprintf("%s_api/gharial?waitForSync=%v", db.baseURL, waitForSync)
	resp, err := transport.Post(ctx, db.session, url, body)
	if err != nil {
		return Graph{}, err
	}
	out, err := deserializeResponse[struct {
		Graph Graph `json:"graph"`
	}](resp.Body)
	if err != nil {
		return Graph{}, err
	}
	db.logger.Info(ctx, "graph created", map[string]any{"name": out.Graph.Name})
	return out.Graph, nil
}

// DropGraph drops a named graph. When dropCollections is set the graph's
// collections are dropped with it unless another graph still uses them.
func (db *Database) DropGraph(ctx context.Context, name string, dropCollections bool) error {
	url := fmt.Sprintf("%s_api/gharial/%s?dropCollections=%v", db.baseURL, name, dropCollections)
	resp, err := transport.Delete(ctx, db.session, url, nil)
	if err != nil {
		return err
	}
	if err := checkServerError(resp.Body); err != nil {
		return err
	}
	db.logger.Info(ctx, "graph dropped", map[string]any{"name": name})
	return nil
}
