package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/alexandre-bismuth/PickYourCourses/internal/router"
	"github.com/coder/websocket"
)

// Gateway is a websocket transport used for local development and manual
// testing: a connected client plays the role of the chat app for one user,
// sending inbound events and receiving every outbound message addressed to
// that user. It implements Sender so supervisor notices reach the client
// too.
type Gateway struct {
	engine Handler

	mu    sync.RWMutex
	conns map[int64]*websocket.Conn
}

// NewGateway creates a websocket gateway over the engine.
func NewGateway(engine Handler) *Gateway {
	return &Gateway{
		engine: engine,
		conns:  make(map[int64]*websocket.Conn),
	}
}

// wsFrame is the wire shape in both directions: inbound carries an event,
// outbound carries a response.
type wsFrame struct {
	Event    *domain.Event    `json:"event,omitempty"`
	Response *router.Response `json:"response,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// ServeHTTP upgrades the connection and pumps events until the client leaves.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID == 0 {
		Error(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Error("failed to accept websocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	g.register(userID, ws)
	defer g.unregister(userID, ws)

	slog.Info("gateway client connected", "user_id", userID, "ip", r.RemoteAddr)

	ctx := r.Context()
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			slog.Debug("gateway client disconnected", "user_id", userID, "error", err)
			return
		}

		var frame wsFrame
		if err := json.Unmarshal(data, &frame); err != nil || frame.Event == nil {
			g.write(ctx, ws, &wsFrame{Error: "malformed frame"})
			continue
		}

		event := *frame.Event
		event.UserID = userID // the socket owns the identity, not the payload

		resp := g.engine.HandleEvent(ctx, event)
		g.write(ctx, ws, &wsFrame{Response: resp})
	}
}

// Send implements Sender: pushes a response to the user's connected client,
// if any. A user without a connection is not an error; the message simply
// has nowhere to go on this transport.
func (g *Gateway) Send(ctx context.Context, userID int64, resp *router.Response) error {
	g.mu.RLock()
	ws := g.conns[userID]
	g.mu.RUnlock()

	if ws == nil {
		return nil
	}
	g.write(ctx, ws, &wsFrame{Response: resp})
	return nil
}

func (g *Gateway) write(ctx context.Context, ws *websocket.Conn, frame *wsFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		slog.Error("failed to encode gateway frame", "error", err)
		return
	}
	if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("gateway write failed", "error", err)
	}
}

func (g *Gateway) register(userID int64, ws *websocket.Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.conns[userID] = ws
}

// unregister drops the mapping only if it still points at this connection,
// so a reconnect racing a stale close keeps the fresh socket.
func (g *Gateway) unregister(userID int64, ws *websocket.Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.conns[userID] == ws {
		delete(g.conns, userID)
	}
}
