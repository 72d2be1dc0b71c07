package main

import (
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/kmorrill/gridpath/grid"
	"github.com/kmorrill/gridpath/pathfind"
)

//go:embed static
var staticFS embed.FS

// clientOp is a command from the browser.
type clientOp struct {
	Op   string `json:"op"` // "set", "clear", "path"
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Cell string `json:"cell"`
}

// Server → client messages. Every message carries a type discriminator.

type initMsg struct {
	Type  string     `json:"type"` // "init"
	Rows  int        `json:"rows"`
	Cols  int        `json:"cols"`
	Cells [][]string `json:"cells"`
}

type cellMsg struct {
	Type string `json:"type"` // "cell"
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Cell string `json:"cell"`
}

type resetMsg struct {
	Type string `json:"type"` // "reset"
}

type pathMsg struct {
	Type     string   `json:"type"` // "path"
	Found    bool     `json:"found"`
	Cost     float64  `json:"cost"`
	Expanded int      `json:"expanded"`
	Path     [][2]int `json:"path"`
}

type errorMsg struct {
	Type  string `json:"type"` // "error"
	Error string `json:"error"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// server owns the shared grid and fans mutation events out to every
// connected websocket client.
type server struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	// mu serializes grid mutation, searches, and the client set, so every
	// search sees a settled grid and broadcasts stay ordered.
	mu      sync.Mutex
	grid    *grid.Grid
	finder  *pathfind.Finder
	clients map[*client]bool
}

func newServer(g *grid.Grid, log *slog.Logger) *server {
	s := &server{
		log:     log,
		grid:    g,
		finder:  pathfind.New(g),
		clients: make(map[*client]bool),
	}
	// Mutations already hold s.mu when the watcher fires, so the broadcast
	// helpers must not re-lock.
	g.Watch(s.onGridEvent)
	return s
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("/", http.FileServer(http.FS(static)))
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// onGridEvent runs synchronously inside a mutation, with s.mu held.
func (s *server) onGridEvent(ev grid.Event) {
	switch ev.Kind {
	case grid.EventReset:
		s.broadcastLocked(resetMsg{Type: "reset"})
	case grid.EventCell:
		ct, err := s.grid.CellType(ev.Cell.Row, ev.Cell.Col)
		if err != nil {
			return
		}
		s.broadcastLocked(cellMsg{Type: "cell", Row: ev.Cell.Row, Col: ev.Cell.Col, Cell: ct.String()})
	}
}

// broadcastLocked marshals msg and queues it for every client. Callers must
// hold s.mu. Clients that cannot keep up are dropped rather than blocking
// the writer.
func (s *server) broadcastLocked(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("marshal broadcast", "err", err)
		return
	}
	for c := range s.clients {
		select {
		case c.send <- b:
		default:
			s.log.Warn("dropping slow client")
			delete(s.clients, c)
			close(c.send)
		}
	}
}

func (s *server) snapshotLocked() initMsg {
	cells := make([][]string, s.grid.Rows())
	for r := range cells {
		cells[r] = make([]string, s.grid.Cols())
		for c := range cells[r] {
			ct, _ := s.grid.CellType(r, c)
			cells[r][c] = ct.String()
		}
	}
	return initMsg{Type: "init", Rows: s.grid.Rows(), Cols: s.grid.Cols(), Cells: cells}
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade", "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 256)}

	// Register and snapshot under one lock so the client never misses an
	// event that lands after its snapshot.
	s.mu.Lock()
	s.clients[c] = true
	snap, _ := json.Marshal(s.snapshotLocked())
	c.send <- snap
	s.mu.Unlock()

	s.log.Info("client connected", "remote", conn.RemoteAddr().String())
	go c.writePump()
	s.readPump(c)
}

func (c *client) writePump() {
	for b := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
	c.conn.Close()
}

func (s *server) readPump(c *client) {
	defer s.drop(c)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Info("client gone", "err", err)
			}
			return
		}

		var op clientOp
		if err := json.Unmarshal(raw, &op); err != nil {
			s.sendTo(c, errorMsg{Type: "error", Error: "bad message: " + err.Error()})
			continue
		}
		s.apply(c, op)
	}
}

// apply executes one client command against the shared grid.
func (s *server) apply(c *client, op clientOp) {
	switch op.Op {
	case "set":
		ct, err := grid.ParseCellType(op.Cell)
		if err != nil {
			s.sendTo(c, errorMsg{Type: "error", Error: err.Error()})
			return
		}
		s.mu.Lock()
		err = s.grid.SetCellType(op.Row, op.Col, ct)
		s.mu.Unlock()
		if err != nil {
			s.sendTo(c, errorMsg{Type: "error", Error: err.Error()})
		}

	case "clear":
		s.mu.Lock()
		s.grid.Clear()
		s.mu.Unlock()

	case "path":
		s.mu.Lock()
		res := s.finder.FindPath()
		msg := pathMsg{Type: "path", Found: res.Found, Cost: res.TotalCost, Expanded: res.Expanded}
		for _, p := range res.Path {
			msg.Path = append(msg.Path, [2]int{p.Row, p.Col})
		}
		s.broadcastLocked(msg)
		s.mu.Unlock()

	default:
		s.sendTo(c, errorMsg{Type: "error", Error: "unknown op " + op.Op})
	}
}

func (s *server) sendTo(c *client, msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clients[c] {
		return
	}
	select {
	case c.send <- b:
	default:
	}
}

func (s *server) drop(c *client) {
	s.mu.Lock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
	c.conn.Close()
}
