package server

import (
	"log"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"league-piper/internal/report"
)

const writeTimeout = 10 * time.Second

// streamDone terminates a successful /ws/recent stream
type streamDone struct {
	Done  bool `json:"done"`
	Count int  `json:"count"`
}

// handleRecentStream sends each MatchRecord as its own text frame while the
// matches are fetched, then a {"done":true} frame. An upstream failure is sent
// as an error frame before the socket is closed.
func (s *Server) handleRecentStream(w http.ResponseWriter, r *http.Request) {
	p, ok := requireParams(w, r, "name")
	if !ok {
		return
	}
	count, err := parseCount(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		log.Printf("[Server] Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	name := p[0]
	var records []report.MatchRecord
	err = s.reporter.RecentGamesFunc(r.Context(), name, count, func(rec report.MatchRecord) error {
		records = append(records, rec)
		return writeFrame(conn, rec)
	})
	if err != nil {
		log.Printf("[Server] Stream for %s stopped: %v", name, err)
		status := StatusFor(err)
		writeFrame(conn, errorBody{Error: err.Error(), Status: status})
		closeWith(conn, websocket.CloseInternalServerErr, http.StatusText(status))
		return
	}

	if s.store != nil {
		if err := s.store.SaveMatchRecords(r.Context(), name, records); err != nil {
			log.Printf("[Server] Failed to archive recent games for %s: %v", name, err)
		}
	}

	if err := writeFrame(conn, streamDone{Done: true, Count: len(records)}); err != nil {
		return
	}
	closeWith(conn, websocket.CloseNormalClosure, "")
}

func writeFrame(conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
