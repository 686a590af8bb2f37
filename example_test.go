package arango_test

import (
	"context"
	"fmt"

	"github.com/autom8ter/arango"
	"github.com/autom8ter/arango/testutil"
)

func exampleConnection() (*arango.Connection, *testutil.MockServer) {
	srv := testutil.NewMockServer()
	c, err := arango.Connect(context.Background(), arango.Config{
		URL: srv.URL(),
		Auth: arango.AuthConfig{
			Method:   arango.AuthJwt,
			Username: "root",
			Password: "root",
		},
	})
	if err != nil {
		panic(err)
	}
	return c, srv
}

func ExampleConnect() {
	c, srv := exampleConnection()
	defer srv.Close()
	version, err := c.Version(context.Background())
	if err != nil {
		panic(err)
	}
	fmt.Println(c.Username(), version.Version)
	// Output:
	// root 3.10.2
}

func ExampleConnection_CreateDatabase() {
	c, srv := exampleConnection()
	defer srv.Close()
	ctx := context.Background()
	db, err := c.CreateDatabase(ctx, "inventory")
	if err != nil {
		panic(err)
	}
	col, err := db.CreateCollection(ctx, "products")
	if err != nil {
		panic(err)
	}
	fmt.Println(db.Name(), col.Name())
	// Output:
	// inventory products
}

func ExampleCollection_CreateDocument() {
	c, srv := exampleConnection()
	defer srv.Close()
	ctx := context.Background()
	db, err := c.CreateDatabase(ctx, "inventory")
	if err != nil {
		panic(err)
	}
	col, err := db.CreateCollection(ctx, "products")
	if err != nil {
		panic(err)
	}
	doc, err := arango.NewDocumentFrom(map[string]any{"_key": "widget", "stock": 12})
	if err != nil {
		panic(err)
	}
	resp, err := col.CreateDocument(ctx, doc, arango.InsertOptions{})
	if err != nil {
		panic(err)
	}
	fmt.Println(resp.Header().ID)
	// Output:
	// products/widget
}

func ExampleDatabase_Query() {
	c, srv := exampleConnection()
	defer srv.Close()
	ctx := context.Background()
	db, err := c.CreateDatabase(ctx, "inventory")
	if err != nil {
		panic(err)
	}
	col, err := db.CreateCollection(ctx, "products")
	if err != nil {
		panic(err)
	}
	for i, name := range []string{"bolt", "nut", "washer"} {
		doc, err := arango.NewDocumentFrom(map[string]any{"_key": fmt.Sprintf("p%d", i), "name": name})
		if err != nil {
			panic(err)
		}
		if _, err := col.CreateDocument(ctx, doc, arango.InsertOptions{}); err != nil {
			panic(err)
		}
	}
	docs, err := db.Query(ctx, arango.NewAqlQueryBuilder("FOR p IN products RETURN p").BatchSize(2).Query())
	if err != nil {
		panic(err)
	}
	for _, doc := range docs {
		fmt.Println(doc.GetString("name"))
	}
	// Output:
	// bolt
	// nut
	// washer
}

func ExampleDatabase_BeginTransaction() {
	c, srv := exampleConnection()
	defer srv.Close()
	ctx := context.Background()
	db, err := c.CreateDatabase(ctx, "inventory")
	if err != nil {
		panic(err)
	}
	if _, err := db.CreateCollection(ctx, "products"); err != nil {
		panic(err)
	}
	tx, err := db.BeginTransaction(ctx, arango.NewTransactionSettingsBuilder("products").Settings())
	if err != nil {
		panic(err)
	}
	col, err := tx.Collection(ctx, "products")
	if err != nil {
		panic(err)
	}
	doc, err := arango.NewDocumentFrom(map[string]any{"_key": "gear", "stock": 3})
	if err != nil {
		panic(err)
	}
	if _, err := col.CreateDocument(ctx, doc, arango.InsertOptions{}); err != nil {
		panic(err)
	}
	status, err := tx.Commit(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Println(status)
	// Output:
	// committed
}
