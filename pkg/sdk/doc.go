// Package embabel provides an embedded Go client for the embabel
// similarity-search engine. The client wires the in-memory document store
// and search services directly, with no server process required.
//
//	client, _ := embabel.New()
//	defer client.Close()
//
//	_ = client.Put(ctx, embabel.Document{ID: "d1", Content: "lazy dog"})
//	results, _ := client.Search(ctx, "dog", embabel.WithThreshold(0.2))
//
// Without an embedder the client ranks documents lexically. Configure one
// with WithEmbedder to switch to semantic search over vector embeddings.
package embabel
