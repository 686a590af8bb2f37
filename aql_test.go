package arango_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/autom8ter/arango"
	"github.com/autom8ter/arango/util"
)

func TestAqlQueryBuilder(t *testing.T) {
	t.Run("bare query", func(t *testing.T) {
		aql := arango.NewAqlQueryBuilder("FOR d IN orders RETURN d").Query()
		assert.Equal(t, "FOR d IN orders RETURN d", aql.Query)
		assert.Nil(t, aql.BindVars)
		assert.Nil(t, aql.Count)
		assert.Nil(t, aql.BatchSize)
		assert.JSONEq(t, `{"query":"FOR d IN orders RETURN d"}`, util.JSONString(aql))
	})
	t.Run("chain", func(t *testing.T) {
		aql := arango.NewAqlQueryBuilder("FOR d IN @@col FILTER d.total > @min RETURN d").
			BindVar("@col", "orders").
			BindVar("min", 10).
			Count(true).
			BatchSize(50).
			Cache(false).
			MemoryLimit(32 << 20).
			TTL(60).
			Options(&arango.AqlOptions{
				FullCount: lo.ToPtr(true),
				MaxPlans:  lo.ToPtr(4),
				Optimizer: []string{"-all", "+use-indexes"},
			}).
			Query()
		assert.Equal(t, "orders", aql.BindVars["@col"])
		assert.Equal(t, 10, aql.BindVars["min"])
		assert.True(t, *aql.Count)
		assert.Equal(t, 50, *aql.BatchSize)
		assert.False(t, *aql.Cache)
		assert.Equal(t, 32<<20, *aql.MemoryLimit)
		assert.Equal(t, 60, *aql.TTL)
		assert.True(t, *aql.Options.FullCount)
		assert.JSONEq(t, `{
			"query":"FOR d IN @@col FILTER d.total > @min RETURN d",
			"bindVars":{"@col":"orders","min":10},
			"count":true,
			"batchSize":50,
			"cache":false,
			"memoryLimit":33554432,
			"ttl":60,
			"options":{"fullCount":true,"maxPlans":4,"optimizer":["-all","+use-indexes"]}
		}`, util.JSONString(aql))
	})
	t.Run("queries share the builder's bind map", func(t *testing.T) {
		builder := arango.NewAqlQueryBuilder("RETURN @v")
		first := builder.BindVar("v", 1).Query()
		second := builder.BindVar("v", 2).Query()
		assert.Equal(t, 2, second.BindVars["v"])
		assert.Equal(t, 2, first.BindVars["v"])
	})
}
