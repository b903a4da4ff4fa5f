//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"time"

	"docchat/internal/adapter/analyzer"
	"docchat/internal/adapter/cache"
	"docchat/internal/adapter/chunker"
	"docchat/internal/adapter/memstore"
	"docchat/internal/adapter/scorer"
	"docchat/internal/domain"
	"docchat/internal/usecase"
)

// Browser-resident build: the whole index lives in page memory behind
// the same usecase as the CLI. Functions are exported on the global
// object and return JSON strings.

var index *usecase.Index

func init() {
	tok := analyzer.NewTokenizer()
	index = usecase.NewIndex(
		memstore.NewMemoryStore(),
		tok,
		chunker.NewLineChunker(tok),
		scorer.NewTFIDF(),
		cache.NewQueryCache(64, 5*time.Minute),
		600,
		100,
	)
	// Empty memory store, loading just flips the index to ready.
	if err := index.LoadFromCache(); err != nil {
		panic(err)
	}
}

func main() {
	c := make(chan struct{})

	js.Global().Set("docchatAdd", js.FuncOf(addDocument))
	js.Global().Set("docchatRemove", js.FuncOf(removeDocument))
	js.Global().Set("docchatQuery", js.FuncOf(query))
	js.Global().Set("docchatStats", js.FuncOf(stats))
	js.Global().Set("docchatSetChunking", js.FuncOf(setChunking))

	<-c
}

// docchatAdd(name, content, [conversationID]) -> {docId, chunks}
func addDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: docchatAdd(name, content, [conversationID])")
	}

	scope := domain.GlobalScope()
	if len(args) > 2 && args[2].String() != "" {
		scope = domain.ConversationScope(args[2].String())
	}

	res, err := index.AddDocument(args[0].String(), args[1].String(), scope)
	if err != nil {
		return makeError("ingest failed: " + err.Error())
	}

	return makeResult(map[string]interface{}{
		"docId":  res.DocID,
		"chunks": res.ChunkCount,
	})
}

// docchatRemove(docId) -> {removed}
func removeDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: docchatRemove(docId)")
	}
	if err := index.RemoveDocument(args[0].String()); err != nil {
		return makeError("remove failed: " + err.Error())
	}
	return makeResult(map[string]interface{}{"removed": args[0].String()})
}

// docchatQuery(query, [topK], [conversationID]) -> {results}
func query(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: docchatQuery(query, [topK], [conversationID])")
	}

	topK := 5
	if len(args) > 1 {
		topK = args[1].Int()
	}
	conversationID := ""
	if len(args) > 2 {
		conversationID = args[2].String()
	}

	results, err := index.RetrieveRelevantChunks(args[0].String(), topK, conversationID)
	if err != nil {
		return makeError("query failed: " + err.Error())
	}

	output := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		output = append(output, map[string]interface{}{
			"chunkId": r.ChunkID,
			"docName": r.DocName,
			"content": r.Content,
			"score":   r.Score,
		})
	}
	return makeResult(map[string]interface{}{"results": output})
}

// docchatStats() -> {documents, chunks, totalChars, files}
func stats(this js.Value, args []js.Value) interface{} {
	st, err := index.Stats()
	if err != nil {
		return makeError("stats failed: " + err.Error())
	}

	docs, err := index.ListDocuments()
	if err != nil {
		return makeError("stats failed: " + err.Error())
	}
	files := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		files = append(files, map[string]interface{}{
			"docId":  d.ID,
			"name":   d.Name,
			"chunks": d.ChunkCount,
			"scope":  d.Scope.String(),
		})
	}

	return makeResult(map[string]interface{}{
		"documents":  st.DocumentCount,
		"chunks":     st.ChunkCount,
		"totalChars": st.TotalChars,
		"files":      files,
	})
}

// docchatSetChunking(size, overlap) affects future ingests only.
func setChunking(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: docchatSetChunking(size, overlap)")
	}
	index.SetChunking(args[0].Int(), args[1].Int())
	return makeResult(map[string]interface{}{"ok": true})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{"error": msg})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
