/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package trace

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/chainguard-dev/clog"
)

// csvConversationID, csvConversationJSON, and csvTraceCount are the column
// headers of the export CSVs.
const (
	csvConversationID   = "CONVERSATION_ID"
	csvConversationJSON = "CONVERSATION_JSON"
	csvTraceCount       = "TRACE_COUNT"
)

// LoadCSV reads conversations from an export CSV. Rows whose JSON payload
// fails to parse are logged and skipped; a malformed row never aborts the
// batch. limit <= 0 means no limit.
func LoadCSV(ctx context.Context, path string, limit int) ([]Conversation, error) {
	log := clog.FromContext(ctx).With("input", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	idCol, ok := cols[csvConversationID]
	if !ok {
		return nil, fmt.Errorf("input is missing column %q", csvConversationID)
	}
	jsonCol, ok := cols[csvConversationJSON]
	if !ok {
		return nil, fmt.Errorf("input is missing column %q", csvConversationJSON)
	}

	var conversations []Conversation
	for row := 1; ; row++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.With("row", row).With("error", err.Error()).Warn("Skipping unreadable CSV row")
			continue
		}
		if limit > 0 && len(conversations) >= limit {
			break
		}
		if len(record) <= idCol || len(record) <= jsonCol {
			log.With("row", row).Warn("Skipping short CSV row")
			continue
		}

		conv := Conversation{ConversationID: record[idCol]}
		if err := json.Unmarshal([]byte(record[jsonCol]), &conv); err != nil {
			log.With("row", row).
				With("conversation_id", record[idCol]).
				With("error", err.Error()).
				Warn("Skipping conversation with malformed JSON payload")
			continue
		}
		// The payload may not repeat the ID column.
		if conv.ConversationID == "" {
			conv.ConversationID = record[idCol]
		}
		conversations = append(conversations, conv)
	}

	log.With("conversations", len(conversations)).Info("Loaded conversations")
	return conversations, nil
}

// LoadJSON reads conversations from a JSON file, either a plain array of
// conversations or the wrapped chunk shape written by older exporters.
func LoadJSON(path string) ([]Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	var probe []map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing conversations: %w", err)
	}
	if len(probe) == 0 || probe[0]["data"] == nil {
		var conversations []Conversation
		if err := json.Unmarshal(data, &conversations); err != nil {
			return nil, fmt.Errorf("parsing conversations: %w", err)
		}
		return conversations, nil
	}

	var wrapped []struct {
		ConversationID string       `json:"conversation_id"`
		Data           Conversation `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing conversations: %w", err)
	}
	conversations := make([]Conversation, 0, len(wrapped))
	for _, w := range wrapped {
		conv := w.Data
		if conv.ConversationID == "" {
			conv.ConversationID = w.ConversationID
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

// ChunkManifest indexes the chunk files written by ConvertCSV so a viewer
// can load conversations incrementally.
type ChunkManifest struct {
	TotalConversations int             `json:"total_conversations"`
	ChunkSize          int             `json:"chunk_size"`
	Chunks             []ChunkInfo     `json:"chunks"`
	Conversations      []ChunkConvInfo `json:"conversations"`
}

// ChunkInfo describes one chunk file.
type ChunkInfo struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Count    int    `json:"count"`
}

// ChunkConvInfo locates one conversation within the chunk set.
type ChunkConvInfo struct {
	ConversationID string `json:"conversation_id"`
	TraceCount     int    `json:"trace_count"`
	ChunkIndex     int    `json:"chunk_index"`
}

// ConvertCSV converts an export CSV into chunked JSON files plus a
// manifest under outputDir. chunkSize <= 0 defaults to 10 conversations
// per chunk.
func ConvertCSV(ctx context.Context, inputPath, outputDir string, chunkSize int) (*ChunkManifest, error) {
	if chunkSize <= 0 {
		chunkSize = 10
	}
	conversations, err := LoadCSV(ctx, inputPath, 0)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	manifest := &ChunkManifest{
		TotalConversations: len(conversations),
		ChunkSize:          chunkSize,
	}

	for start := 0; start < len(conversations); start += chunkSize {
		end := min(start+chunkSize, len(conversations))
		chunk := conversations[start:end]
		idx := start / chunkSize
		filename := "traces_chunk_" + strconv.Itoa(idx) + ".json"

		data, err := json.Marshal(chunk)
		if err != nil {
			return nil, fmt.Errorf("encoding chunk %d: %w", idx, err)
		}
		if err := os.WriteFile(filepath.Join(outputDir, filename), data, 0o644); err != nil {
			return nil, fmt.Errorf("writing chunk %d: %w", idx, err)
		}

		manifest.Chunks = append(manifest.Chunks, ChunkInfo{
			Index:    idx,
			Filename: filename,
			Start:    start,
			End:      end,
			Count:    len(chunk),
		})
		for _, conv := range chunk {
			manifest.Conversations = append(manifest.Conversations, ChunkConvInfo{
				ConversationID: conv.ConversationID,
				TraceCount:     len(conv.Traces),
				ChunkIndex:     idx,
			})
		}
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "traces_manifest.json"), data, 0o644); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}

	clog.FromContext(ctx).
		With("conversations", len(conversations)).
		With("chunks", len(manifest.Chunks)).
		With("output", outputDir).
		Info("Converted traces to chunked JSON")
	return manifest, nil
}
