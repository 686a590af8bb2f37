package arango_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/autom8ter/arango"
	"github.com/autom8ter/arango/errors"
	"github.com/autom8ter/arango/testutil"
)

func stubCollection(t *testing.T, stub *testutil.StubTransport) *arango.Collection {
	t.Helper()
	db := stubDatabase(t, stub)
	stub.Stub(200, `{"error":false,"code":200,"id":"9001","name":"orders","globallyUniqueId":"h9001","status":3,"type":2,"isSystem":false}`)
	col, err := db.Collection(context.Background(), "orders")
	assert.Nil(t, err)
	return col
}

func TestCreateDocument(t *testing.T) {
	ctx := context.Background()
	t.Run("insert returns the header", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(202, `{"_id":"orders/o1","_key":"o1","_rev":"_a1"}`)

		doc, err := arango.NewDocumentFrom(map[string]any{"_key": "o1", "total": 9.5})
		assert.Nil(t, err)
		resp, err := col.CreateDocument(ctx, doc, arango.InsertOptions{})
		assert.Nil(t, err)
		assert.True(t, resp.HasResponse())
		assert.Equal(t, "o1", resp.Header().Key)
		assert.Equal(t, "_a1", resp.Header().Rev)
		assert.Empty(t, resp.OldRev())
		assert.Nil(t, resp.NewDoc())

		last := stub.LastRequest()
		assert.Equal(t, http.MethodPost, last.Method)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/document/orders", last.URL)
		assert.JSONEq(t, `{"_key":"o1","total":9.5}`, string(last.Body))
	})
	t.Run("silent insert yields no header", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(202, `{}`)

		doc, _ := arango.NewDocumentFrom(map[string]any{"total": 1})
		resp, err := col.CreateDocument(ctx, doc, arango.InsertOptions{Silent: lo.ToPtr(true)})
		assert.Nil(t, err)
		assert.True(t, resp.IsSilent())
		assert.False(t, resp.HasResponse())
		assert.Equal(t, arango.DocumentHeader{}, resp.Header())
		assert.Equal(t, "http://db.local:8529/_db/app/_api/document/orders?silent=true", stub.LastRequest().URL)
	})
	t.Run("options go out as query parameters", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(201, `{"_id":"orders/o1","_key":"o1","_rev":"_a2","new":{"_id":"orders/o1","_key":"o1","_rev":"_a2","total":2}}`)

		doc, _ := arango.NewDocumentFrom(map[string]any{"_key": "o1", "total": 2})
		resp, err := col.CreateDocument(ctx, doc, arango.InsertOptions{
			WaitForSync: lo.ToPtr(true),
			ReturnNew:   lo.ToPtr(true),
		})
		assert.Nil(t, err)
		assert.NotNil(t, resp.NewDoc())
		assert.Equal(t, float64(2), resp.NewDoc().GetFloat("total"))
		assert.Equal(t, "http://db.local:8529/_db/app/_api/document/orders?returnNew=true&waitForSync=true", stub.LastRequest().URL)
	})
	t.Run("overwrite mode", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(201, `{"_id":"orders/o1","_key":"o1","_rev":"_a3","_old_rev":"_a2"}`)

		doc, _ := arango.NewDocumentFrom(map[string]any{"_key": "o1", "total": 3})
		resp, err := col.CreateDocument(ctx, doc, arango.InsertOptions{
			Overwrite:     lo.ToPtr(true),
			OverwriteMode: lo.ToPtr(arango.OverwriteModeUpdate),
		})
		assert.Nil(t, err)
		assert.Equal(t, "_a2", resp.OldRev())
		assert.Equal(t, "http://db.local:8529/_db/app/_api/document/orders?overwrite=true&overwriteMode=update", stub.LastRequest().URL)
	})
	t.Run("conflicts carry the server error", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(409, `{"error":true,"code":409,"errorNum":1210,"errorMessage":"unique constraint violated"}`)

		doc, _ := arango.NewDocumentFrom(map[string]any{"_key": "o1"})
		_, err := col.CreateDocument(ctx, doc, arango.InsertOptions{})
		assert.NotNil(t, err)
		se, ok := arango.AsServerError(err)
		assert.True(t, ok)
		assert.Equal(t, 1210, se.ErrorNum)
	})
}

func TestReadDocument(t *testing.T) {
	ctx := context.Background()
	t.Run("unconditional read sends no revision headers", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"_id":"orders/o1","_key":"o1","_rev":"_a1","total":9.5}`)

		doc, err := col.Document(ctx, "o1", arango.ReadOptions{})
		assert.Nil(t, err)
		assert.Equal(t, 9.5, doc.GetFloat("total"))

		last := stub.LastRequest()
		assert.Equal(t, http.MethodGet, last.Method)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/document/orders/o1", last.URL)
		assert.Empty(t, last.Header.Get("If-Match"))
		assert.Empty(t, last.Header.Get("If-None-Match"))
	})
	t.Run("if match sends only If-Match", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"_id":"orders/o1","_key":"o1","_rev":"_a1","total":9.5}`)

		_, err := col.Document(ctx, "o1", arango.IfMatch("_a1"))
		assert.Nil(t, err)
		last := stub.LastRequest()
		assert.Equal(t, "_a1", last.Header.Get("If-Match"))
		assert.Empty(t, last.Header.Get("If-None-Match"))
	})
	t.Run("if none match sends only If-None-Match", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"_id":"orders/o1","_key":"o1","_rev":"_a2","total":10}`)

		_, err := col.Document(ctx, "o1", arango.IfNoneMatch("_a1"))
		assert.Nil(t, err)
		last := stub.LastRequest()
		assert.Equal(t, "_a1", last.Header.Get("If-None-Match"))
		assert.Empty(t, last.Header.Get("If-Match"))
	})
	t.Run("revision mismatch carries the server error", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(412, `{"error":true,"code":412,"errorNum":1200,"errorMessage":"conflict"}`)

		_, err := col.Document(ctx, "o1", arango.IfMatch("_stale"))
		assert.NotNil(t, err)
		se, ok := arango.AsServerError(err)
		assert.True(t, ok)
		assert.Equal(t, 1200, se.ErrorNum)
	})
	t.Run("missing document carries the server error", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(404, `{"error":true,"code":404,"errorNum":1202,"errorMessage":"document not found"}`)

		_, err := col.Document(ctx, "ghost", arango.ReadOptions{})
		assert.NotNil(t, err)
		se, ok := arango.AsServerError(err)
		assert.True(t, ok)
		assert.Equal(t, 1202, se.ErrorNum)
	})
	t.Run("header", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"_id":"orders/o1","_key":"o1","_rev":"_a1","total":9.5}`)

		header, err := col.DocumentHeader(ctx, "o1", arango.ReadOptions{})
		assert.Nil(t, err)
		assert.Equal(t, arango.DocumentHeader{ID: "orders/o1", Key: "o1", Rev: "_a1"}, header)
	})
	t.Run("header rejects incomplete documents", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"_id":"orders/o1","total":9.5}`)

		_, err := col.DocumentHeader(ctx, "o1", arango.ReadOptions{})
		assert.NotNil(t, err)
		assert.Equal(t, errors.Serde, errors.Extract(err).Code)
	})
}

func TestWriteDocument(t *testing.T) {
	ctx := context.Background()
	t.Run("update patches over PATCH", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(202, `{"_id":"orders/o1","_key":"o1","_rev":"_b1","_old_rev":"_a1"}`)

		patch, _ := arango.NewDocumentFrom(map[string]any{"total": 11})
		resp, err := col.UpdateDocument(ctx, "o1", patch, arango.UpdateOptions{
			KeepNull:  lo.ToPtr(false),
			ReturnOld: lo.ToPtr(false),
		})
		assert.Nil(t, err)
		assert.Equal(t, "_b1", resp.Header().Rev)
		assert.Equal(t, "_a1", resp.OldRev())

		last := stub.LastRequest()
		assert.Equal(t, http.MethodPatch, last.Method)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/document/orders/o1?keepNull=false&returnOld=false", last.URL)
		assert.JSONEq(t, `{"total":11}`, string(last.Body))
	})
	t.Run("replace honors the revision guard", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(202, `{"_id":"orders/o1","_key":"o1","_rev":"_c1","_old_rev":"_b1","old":{"_id":"orders/o1","_key":"o1","_rev":"_b1","total":11}}`)

		doc, _ := arango.NewDocumentFrom(map[string]any{"total": 12})
		resp, err := col.ReplaceDocument(ctx, "o1", doc, arango.ReplaceOptions{ReturnOld: lo.ToPtr(true)}, "_b1")
		assert.Nil(t, err)
		assert.Equal(t, float64(11), resp.OldDoc().GetFloat("total"))
		assert.Nil(t, resp.NewDoc())

		last := stub.LastRequest()
		assert.Equal(t, http.MethodPut, last.Method)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/document/orders/o1?returnOld=true", last.URL)
		assert.Equal(t, "_b1", last.Header.Get("If-Match"))
	})
	t.Run("replace without a guard sends no If-Match", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(202, `{"_id":"orders/o1","_key":"o1","_rev":"_c2"}`)

		doc, _ := arango.NewDocumentFrom(map[string]any{"total": 13})
		_, err := col.ReplaceDocument(ctx, "o1", doc, arango.ReplaceOptions{}, "")
		assert.Nil(t, err)
		assert.Empty(t, stub.LastRequest().Header.Get("If-Match"))
	})
	t.Run("remove", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"_id":"orders/o1","_key":"o1","_rev":"_c2","old":{"_id":"orders/o1","_key":"o1","_rev":"_c2","total":13}}`)

		resp, err := col.RemoveDocument(ctx, "o1", arango.RemoveOptions{ReturnOld: lo.ToPtr(true)}, "_c2")
		assert.Nil(t, err)
		assert.Equal(t, float64(13), resp.OldDoc().GetFloat("total"))

		last := stub.LastRequest()
		assert.Equal(t, http.MethodDelete, last.Method)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/document/orders/o1?returnOld=true", last.URL)
		assert.Equal(t, "_c2", last.Header.Get("If-Match"))
	})
	t.Run("silent remove", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(202, `{}`)

		resp, err := col.RemoveDocument(ctx, "o1", arango.RemoveOptions{Silent: lo.ToPtr(true)}, "")
		assert.Nil(t, err)
		assert.True(t, resp.IsSilent())
		assert.Equal(t, "http://db.local:8529/_db/app/_api/document/orders/o1?silent=true", stub.LastRequest().URL)
	})
}

func TestCollectionAdmin(t *testing.T) {
	ctx := context.Background()
	t.Run("truncate", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"error":false,"code":200,"id":"9001","name":"orders","globallyUniqueId":"h9001","status":3,"type":2,"isSystem":false}`)

		info, err := col.Truncate(ctx)
		assert.Nil(t, err)
		assert.Equal(t, "orders", info.Name)
		last := stub.LastRequest()
		assert.Equal(t, http.MethodPut, last.Method)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/collection/orders/truncate", last.URL)
	})
	t.Run("properties", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{
			"error":false,"code":200,
			"id":"9001","name":"orders","globallyUniqueId":"h9001","status":3,"type":2,"isSystem":false,
			"statusString":"loaded","waitForSync":true,"writeConcern":1,
			"keyOptions":{"allowUserKeys":true,"type":"traditional","lastValue":0}
		}`)

		props, err := col.Properties(ctx)
		assert.Nil(t, err)
		assert.True(t, props.WaitForSync)
		assert.Equal(t, "traditional", *props.KeyOptions.Type)
		assert.Equal(t, "loaded", props.StatusString)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/collection/orders/properties", stub.LastRequest().URL)
	})
	t.Run("count", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"error":false,"code":200,"id":"9001","name":"orders","globallyUniqueId":"h9001","status":3,"type":2,"isSystem":false,"statusString":"loaded","waitForSync":false,"writeConcern":1,"keyOptions":{},"count":42}`)

		props, err := col.DocumentCount(ctx)
		assert.Nil(t, err)
		assert.Equal(t, 42, *props.Count)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/collection/orders/count", stub.LastRequest().URL)
	})
	t.Run("checksum", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"error":false,"code":200,"id":"9001","name":"orders","globallyUniqueId":"h9001","status":3,"type":2,"isSystem":false,"revision":"_a9","checksum":"1737547680"}`)

		sum, err := col.Checksum(ctx, arango.ChecksumOptions{WithRevision: lo.ToPtr(true), WithData: lo.ToPtr(true)})
		assert.Nil(t, err)
		assert.Equal(t, "1737547680", sum.Checksum)
		assert.Equal(t, "_a9", sum.Revision)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/collection/orders/checksum?withData=true&withRevision=true", stub.LastRequest().URL)
	})
	t.Run("load and unload", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"error":false,"code":200,"id":"9001","name":"orders","globallyUniqueId":"h9001","status":3,"type":2,"isSystem":false,"count":42}`).
			Stub(200, `{"error":false,"code":200,"id":"9001","name":"orders","globallyUniqueId":"h9001","status":2,"type":2,"isSystem":false}`)

		info, err := col.Load(ctx, true)
		assert.Nil(t, err)
		assert.Equal(t, 42, *info.Count)
		assert.JSONEq(t, `{"count":true}`, string(stub.LastRequest().Body))

		info, err = col.Unload(ctx)
		assert.Nil(t, err)
		assert.Equal(t, arango.CollectionStatusUnloaded, info.Status)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/collection/orders/unload", stub.LastRequest().URL)
	})
	t.Run("load indexes", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"error":false,"code":200,"result":true}`)

		ok, err := col.LoadIndexes(ctx)
		assert.Nil(t, err)
		assert.True(t, ok)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/collection/orders/loadIndexesIntoMemory", stub.LastRequest().URL)
	})
	t.Run("change properties", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"error":false,"code":200,"id":"9001","name":"orders","globallyUniqueId":"h9001","status":3,"type":2,"isSystem":false,"statusString":"loaded","waitForSync":true,"writeConcern":1,"keyOptions":{}}`)

		props, err := col.ChangeProperties(ctx, arango.PropertiesOptions{WaitForSync: lo.ToPtr(true)})
		assert.Nil(t, err)
		assert.True(t, props.WaitForSync)
		assert.JSONEq(t, `{"waitForSync":true}`, string(stub.LastRequest().Body))
	})
	t.Run("rename repoints the handle", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"error":false,"code":200,"id":"9001","name":"invoices","globallyUniqueId":"h9001","status":3,"type":2,"isSystem":false}`)

		info, err := col.Rename(ctx, "invoices")
		assert.Nil(t, err)
		assert.Equal(t, "invoices", info.Name)
		assert.Equal(t, "invoices", col.Name())
		assert.JSONEq(t, `{"name":"invoices"}`, string(stub.LastRequest().Body))

		stub.Stub(200, `{"_id":"invoices/o1","_key":"o1","_rev":"_a1"}`)
		_, err = col.Document(ctx, "o1", arango.ReadOptions{})
		assert.Nil(t, err)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/document/invoices/o1", stub.LastRequest().URL)
	})
	t.Run("drop", func(t *testing.T) {
		stub := testutil.NewStubTransport()
		col := stubCollection(t, stub)
		stub.Stub(200, `{"error":false,"code":200,"id":"9001"}`)

		assert.Nil(t, col.Drop(ctx))
		last := stub.LastRequest()
		assert.Equal(t, http.MethodDelete, last.Method)
		assert.Equal(t, "http://db.local:8529/_db/app/_api/collection/orders", last.URL)
	})
}
