// Package server exposes the reports over HTTP and a websocket stream.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"league-piper/internal/archive"
	"league-piper/internal/render"
	"league-piper/internal/report"
	"league-piper/internal/riot"
)

// maxMatchCount is the largest count the match-v5 ids endpoint accepts
const maxMatchCount = 100

// Server serves report endpoints
type Server struct {
	reporter *report.Reporter
	store    archive.Store
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// New creates a Server. store may be nil, which disables archiving and /api/lookups.
func New(reporter *report.Reporter, store archive.Store) *Server {
	s := &Server{
		reporter: reporter,
		store:    store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /api/rank", s.handleRank)
	s.mux.HandleFunc("GET /api/recent", s.handleRecent)
	s.mux.HandleFunc("GET /api/friends", s.handleFriends)
	s.mux.HandleFunc("GET /api/compare", s.handleCompare)
	s.mux.HandleFunc("GET /api/compare.png", s.handleCompareChart)
	s.mux.HandleFunc("GET /api/favorite", s.handleFavorite)
	s.mux.HandleFunc("GET /api/lookups", s.handleLookups)
	s.mux.HandleFunc("GET /ws/recent", s.handleRecentStream)

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// StatusFor maps a report error to the HTTP status returned to callers
func StatusFor(err error) int {
	var ue *riot.UpstreamError
	switch {
	case errors.As(err, &ue) && ue.Status == http.StatusNotFound:
		return http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusBadGateway
	}
}

type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	log.Printf("[Server] %s %s: %v", r.Method, r.URL.Path, err)
	writeJSON(w, status, errorBody{Error: err.Error(), Status: status})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg, Status: http.StatusBadRequest})
}

// requireParams returns the named query values, or writes 400 if any is empty
func requireParams(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	values := make([]string, len(names))
	for i, n := range names {
		values[i] = r.URL.Query().Get(n)
		if values[i] == "" {
			badRequest(w, n+" parameter required")
			return nil, false
		}
	}
	return values, true
}

// parseCount reads ?count=, defaulting to report.DefaultRecentCount
func parseCount(r *http.Request) (int, error) {
	v := r.URL.Query().Get("count")
	if v == "" {
		return report.DefaultRecentCount, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxMatchCount {
		return 0, fmt.Errorf("count must be between 1 and %d", maxMatchCount)
	}
	return n, nil
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	p, ok := requireParams(w, r, "name")
	if !ok {
		return
	}

	summary, err := s.reporter.RankSummary(r.Context(), p[0])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	p, ok := requireParams(w, r, "name")
	if !ok {
		return
	}
	count, err := parseCount(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	records, err := s.reporter.RecentGames(r.Context(), p[0], count)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if s.store != nil {
		if err := s.store.SaveMatchRecords(r.Context(), p[0], records); err != nil {
			log.Printf("[Server] Failed to archive recent games for %s: %v", p[0], err)
		}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleFriends(w http.ResponseWriter, r *http.Request) {
	p, ok := requireParams(w, r, "name")
	if !ok {
		return
	}

	rows, err := s.reporter.FriendList(r.Context(), p[0])
	if err != nil {
		writeError(w, r, err)
		return
	}

	if s.store != nil {
		if err := s.store.SaveTeammates(r.Context(), p[0], rows); err != nil {
			log.Printf("[Server] Failed to archive friend list for %s: %v", p[0], err)
		}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	p, ok := requireParams(w, r, "a", "b")
	if !ok {
		return
	}

	table, err := s.reporter.ComparePlayers(r.Context(), p[0], p[1])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleCompareChart(w http.ResponseWriter, r *http.Request) {
	p, ok := requireParams(w, r, "a", "b")
	if !ok {
		return
	}

	table, err := s.reporter.ComparePlayers(r.Context(), p[0], p[1])
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := render.BarChart(&buf, table); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

// handleFavorite returns the champion icon as the body; the champion itself
// is described in headers
func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	p, ok := requireParams(w, r, "name")
	if !ok {
		return
	}

	fav, err := s.reporter.FavoriteChampion(r.Context(), p[0])
	if err != nil {
		writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", http.DetectContentType(fav.Icon))
	h.Set("X-Champion-Id", strconv.Itoa(fav.ChampionID))
	h.Set("X-Champion-Key", fav.Champion.ID)
	h.Set("X-Champion-Name", fav.Champion.Name)
	h.Set("X-Champion-Points", strconv.Itoa(fav.ChampionPoints))
	h.Set("X-Catalog-Version", fav.CatalogVersion)
	h.Set("X-Icon-Version", fav.IconVersion)
	w.Write(fav.Icon)
}

func (s *Server) handleLookups(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "archive not configured", Status: http.StatusNotFound})
		return
	}

	limit := archive.DefaultLookupLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	lookups, err := s.store.RecentLookups(r.Context(), limit)
	if err != nil {
		log.Printf("[Server] Failed to list lookups: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, lookups)
}
