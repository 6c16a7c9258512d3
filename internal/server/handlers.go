package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/BurakErdilli/biznet-analyzer/pkg/errors"
	"github.com/BurakErdilli/biznet-analyzer/pkg/hierarchy"
	"github.com/BurakErdilli/biznet-analyzer/pkg/layout"
	"github.com/BurakErdilli/biznet-analyzer/pkg/network"
	"github.com/BurakErdilli/biznet-analyzer/pkg/render"
)

// maxUploadBytes caps import and subtree uploads.
const maxUploadBytes = 16 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.net.Snapshot()
	stats := s.net.Stats()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, struct {
		*network.Snapshot
		GlobalStats network.Stats `json:"global_stats"`
	}{snap, stats})
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParentID string   `json:"parent_id"`
		ID       string   `json:"id"`
		Value    *float64 `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.net.AddNode(req.ParentID, req.ID, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.persist(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      id,
		"message": "node added",
	})
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.net.RemoveNode(id); err != nil {
		writeError(w, err)
		return
	}
	if err := s.persist(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted, failed, err := s.net.RemoveNodes(req.IDs)
	if err != nil {
		writeJSON(w, errors.HTTPStatus(err), map[string]any{
			"detail": errors.UserMessage(err),
			"failed": failed,
		})
		return
	}
	if err := s.persist(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted_count": deleted,
		"message":       "nodes deleted",
	})
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	node, ok := s.net.Node(id)
	var copied network.Node
	if ok {
		copied = *node
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, copied)
}

func (s *Server) handleAddSubtree(w http.ResponseWriter, r *http.Request) {
	parentID := chi.URLParam(r, "id")
	data, err := readUpload(r)
	if err != nil {
		writeError(w, err)
		return
	}
	payload, err := network.DecodePayload(data)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.net.Graft(parentID, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.persist(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"added_count": len(added),
		"added_ids":   added,
		"message":     "subtree added",
	})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	s.mu.Lock()
	suggestions := s.net.Suggestions(limit)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req network.Settings
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.net.SetSettings(req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.persist(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "settings updated",
		"settings": s.net.Settings(),
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r)
	if err != nil {
		writeError(w, err)
		return
	}
	net, err := network.Decode(data, s.cfg.Settings())
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.net = net
	if err := s.persist(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("network imported", "nodes", net.NodeCount(), "edges", net.EdgeCount())
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "network imported",
		"node_count": net.NodeCount(),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, err := s.net.Snapshot().Encode()
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="network.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// renderOptions resolves drawing options for one request. The configured
// [render] direction is the default; the direction query overrides it.
func (s *Server) renderOptions(r *http.Request) render.Options {
	direction := s.cfg.LayoutOptions().Direction
	if raw := r.URL.Query().Get("direction"); raw != "" {
		direction = layout.ParseDirection(raw)
	}
	return render.Options{
		Direction: direction,
		Detailed:  r.URL.Query().Get("detailed") == "true",
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts := s.renderOptions(r)

	s.mu.Lock()
	tree, err := hierarchy.FromNetwork(s.net)
	s.mu.Unlock()
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "nothing to render"))
		return
	}

	dot := render.ToDOT(tree, opts)

	if r.URL.Query().Get("format") == "png" {
		png, err := render.PNG(r.Context(), dot)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render png"))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
		return
	}

	svg, err := render.SVG(r.Context(), dot)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// =============================================================================
// Helpers
// =============================================================================

func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}

// readUpload extracts the uploaded file from a multipart form, falling
// back to the raw body for clients that post JSON directly.
func readUpload(r *http.Request) ([]byte, error) {
	ct := r.Header.Get("Content-Type")
	if len(ct) >= 19 && ct[:19] == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "missing file upload")
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read upload")
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty upload")
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), map[string]string{
		"detail": errors.UserMessage(err),
	})
}
