package arango_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autom8ter/arango"
	"github.com/autom8ter/arango/testutil"
	"github.com/autom8ter/arango/util"
)

func TestIndexDescriptions(t *testing.T) {
	t.Run("persistent", func(t *testing.T) {
		index := arango.NewPersistentIndex([]string{"email"}, true, false, true).WithName("by_email")
		assert.JSONEq(t, `{
			"type":"persistent","name":"by_email","fields":["email"],
			"unique":true,"sparse":false,"deduplicate":true
		}`, util.JSONString(index))
	})
	t.Run("ttl", func(t *testing.T) {
		index := arango.NewTTLIndex([]string{"createdAt"}, 3600)
		assert.JSONEq(t, `{"type":"ttl","fields":["createdAt"],"expireAfter":3600}`, util.JSONString(index))
	})
	t.Run("geo", func(t *testing.T) {
		index := arango.NewGeoIndex([]string{"location"}).CreateInBackground(true)
		assert.JSONEq(t, `{"type":"geo","fields":["location"],"inBackground":true}`, util.JSONString(index))
	})
	t.Run("fulltext", func(t *testing.T) {
		index := arango.NewFulltextIndex([]string{"description"}, 3)
		assert.JSONEq(t, `{"type":"fulltext","fields":["description"],"minLength":3}`, util.JSONString(index))
	})
	t.Run("hash and skiplist", func(t *testing.T) {
		assert.Equal(t, arango.IndexTypeHash, arango.NewHashIndex([]string{"a"}, false, false, false).Type)
		assert.Equal(t, arango.IndexTypeSkiplist, arango.NewSkiplistIndex([]string{"a"}, false, false, false).Type)
	})
}

func TestIndexes(t *testing.T) {
	ctx := context.Background()
	t.Run("create", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		db := stubDatabase(t, stub)
		stub.Stub(201, `{"error":false,"code":201,"id":"orders/1","name":"by_email","type":"persistent","fields":["email"],"unique":true,"sparse":false,"deduplicate":true,"isNewlyCreated":true}`)

		out, err := db.CreateIndex(ctx, "orders", arango.NewPersistentIndex([]string{"email"}, true, false, true).WithName("by_email"))
		assert.Nil(t, err)
		assert.Equal(t, "orders/1", out.ID)
		assert.True(t, *out.IsNewlyCreated)

		last := stub.LastRequest()
		assert.Equal(t, http.MethodPost, last.Method)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/index?collection=orders", last.URL)
	})
	t.Run("list", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		db := stubDatabase(t, stub)
		stub.Stub(200, `{"error":false,"code":200,"indexes":[
			{"id":"orders/0","type":"primary","fields":["_key"],"unique":true,"sparse":false},
			{"id":"orders/1","name":"by_email","type":"persistent","fields":["email"],"unique":true,"sparse":false}
		]}`)

		out, err := db.Indexes(ctx, "orders")
		assert.Nil(t, err)
		assert.Equal(t, 2, len(out.Indexes))
		assert.Equal(t, arango.IndexTypePrimary, out.Indexes[0].Type)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/index?collection=orders", stub.LastRequest().URL)
	})
	t.Run("get and delete by id", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		db := stubDatabase(t, stub)
		stub.Stub(200, `{"error":false,"code":200,"id":"orders/1","name":"by_email","type":"persistent","fields":["email"]}`).
			Stub(200, `{"error":false,"code":200,"id":"orders/1"}`)

		index, err := db.Index(ctx, "orders/1")
		assert.Nil(t, err)
		assert.Equal(t, "by_email", index.Name)

		deleted, err := db.DeleteIndex(ctx, "orders/1")
		assert.Nil(t, err)
		assert.Equal(t, "orders/1", deleted.ID)
		last := stub.LastRequest()
		assert.Equal(t, http.MethodDelete, last.Method)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/index/orders/1", last.URL)
	})
	t.Run("missing index carries the server error", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		db := stubDatabase(t, stub)
		stub.Stub(404, `{"error":true,"code":404,"errorNum":1212,"errorMessage":"index not found"}`)

		_, err := db.Index(ctx, "orders/99")
		assert.NotNil(t, err)
		se, ok := arango.AsServerError(err)
		assert.True(t, ok)
		assert.Equal(t, 1212, se.ErrorNum)
	})
}
