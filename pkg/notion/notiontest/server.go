package notiontest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vrerv/md-to-notion/pkg/block"
	"github.com/vrerv/md-to-notion/pkg/notion"
)

// Handler serves the store over the subset of the Notion REST API used by
// notion.Client, so the HTTP client and the engine can be tested together.
// Requests are not authenticated. The store is not safe for concurrent use,
// so neither is the handler.
func Handler(s *Store) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /pages/{id}", func(w http.ResponseWriter, r *http.Request) {
		page, err := s.RetrievePage(r.Context(), r.PathValue("id"))
		var missing *notion.MissingTitleError
		if errors.As(err, &missing) {
			writeJSON(w, http.StatusOK, map[string]any{"object": "page", "id": missing.PageID, "properties": map[string]any{}})
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pageValue(page))
	})

	mux.HandleFunc("POST /pages", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Parent struct {
				PageID string `json:"page_id"`
			} `json:"parent"`
			Properties struct {
				Title []struct {
					Text struct {
						Content string `json:"content"`
					} `json:"text"`
				} `json:"title"`
			} `json:"properties"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		title := ""
		for _, t := range req.Properties.Title {
			title += t.Text.Content
		}
		page, err := s.CreatePage(r.Context(), req.Parent.PageID, title)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pageValue(page))
	})

	mux.HandleFunc("PATCH /pages/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Archived bool `json:"archived"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		id := r.PathValue("id")
		if !req.Archived {
			writeError(w, validation("only archiving is supported"))
			return
		}
		if err := s.ArchivePage(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"object": "page", "id": id, "archived": true})
	})

	mux.HandleFunc("GET /blocks/{id}/children", func(w http.ResponseWriter, r *http.Request) {
		children, err := s.ListChildren(r.Context(), r.PathValue("id"), r.URL.Query().Get("start_cursor"))
		if err != nil {
			writeError(w, err)
			return
		}
		var next any
		if children.HasMore {
			next = children.NextCursor
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"object":      "list",
			"results":     blockValues(children.Results),
			"has_more":    children.HasMore,
			"next_cursor": next,
		})
	})

	mux.HandleFunc("PATCH /blocks/{id}/children", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Children []block.Block `json:"children"`
			After    string        `json:"after"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		created, err := s.AppendBlocks(r.Context(), r.PathValue("id"), req.Children, req.After)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"object": "list", "results": blockValues(created)})
	})

	mux.HandleFunc("DELETE /blocks/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := s.DeleteBlock(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"object": "block", "id": id, "archived": true})
	})

	return mux
}

func pageValue(p notion.Page) map[string]any {
	return map[string]any{
		"object": "page",
		"id":     p.ID,
		"url":    p.URL,
		"properties": map[string]any{
			"title": map[string]any{
				"type":  "title",
				"title": []any{map[string]any{"plain_text": p.Title}},
			},
		},
	}
}

// blockValues renders blocks the way the API returns them, with the read-only
// fields the request form omits.
func blockValues(blocks []block.Block) []any {
	out := make([]any, len(blocks))
	for i, b := range blocks {
		v := b.Shallow().Value()
		v["id"] = b.ID
		v["has_children"] = b.HasChildren
		out[i] = v
	}
	return out
}

func readJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, validation("body failed validation: "+err.Error()))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	var apiErr *notion.APIError
	if !errors.As(err, &apiErr) {
		apiErr = &notion.APIError{Status: http.StatusInternalServerError, Code: "internal_server_error", Message: err.Error()}
	}
	writeJSON(w, apiErr.Status, map[string]any{
		"object":  "error",
		"status":  apiErr.Status,
		"code":    apiErr.Code,
		"message": apiErr.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
