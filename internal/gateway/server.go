package gateway

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socket "github.com/zishang520/socket.io/servers/socket/v3"
	sockettypes "github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/parley-chat/parley/internal/crypto"
	"github.com/parley-chat/parley/internal/gateway/handlers"
	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/internal/store"
	"github.com/parley-chat/parley/pkg/wire"
)

// Gateway wraps the Socket.IO server and owns the live connection state: the
// per-user presence registry and the per-conversation room registry.
type Gateway struct {
	queries    *store.Queries
	jwtManager *crypto.JWTManager
	server     *socket.Server
	socketData sync.Map // socket ID -> *SocketData
	presence   *presenceRegistry
	rooms      *roomRegistry
	deps       handlers.Deps
	convLocks  sync.Map // conversation ID -> *sync.Mutex

	// send delivers one event to one socket. Fan-out goes through this seam
	// so the skip logic can be exercised without live Socket.IO connections.
	send func(socketID, event string, payload any)
}

// New creates a Socket.IO gateway backed by the given store.
func New(queries *store.Queries, jwtManager *crypto.JWTManager) *Gateway {
	opts := socket.DefaultServerOptions()

	opts.SetCors(&sockettypes.Cors{
		Origin:      "*",
		Credentials: false,
	})

	// PingInterval defines how frequently the server pings clients to detect
	// stale sockets. It bounds how long a crashed client keeps its user
	// "online" after an abrupt exit with no disconnect event.
	const PingInterval = 5 * time.Second

	// PingTimeout defines how long the server waits before considering a
	// socket dead (no pong received).
	const PingTimeout = 15 * time.Second

	opts.SetPingTimeout(PingTimeout)
	opts.SetPingInterval(PingInterval)

	opts.SetPath("/socket.io")

	server := socket.NewServer(nil, opts)

	g := &Gateway{
		queries:    queries,
		jwtManager: jwtManager,
		server:     server,
		socketData: sync.Map{},
		presence:   newPresenceRegistry(),
		rooms:      newRoomRegistry(),
		deps:       handlers.NewDeps(queries, queries, queries, time.Now),
	}
	g.send = g.sendToSocket

	g.server.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		g.handleConnection(client)
	})

	return g
}

func decodeAny(input any, out any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func getFirstAnyWithAck(data []any) (any, func(...any)) {
	var ack func(...any)
	if len(data) == 0 {
		return nil, nil
	}
	if cb, ok := data[len(data)-1].(func(...any)); ok {
		ack = cb
		data = data[:len(data)-1]
	} else if cb, ok := data[len(data)-1].(socket.Ack); ok {
		ack = func(args ...any) {
			cb(args, nil)
		}
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return nil, ack
	}
	return data[0], ack
}

// getSocketData retrieves socket metadata by socket ID.
func (g *Gateway) getSocketData(socketID string) *SocketData {
	if data, ok := g.socketData.Load(socketID); ok {
		if sd, ok := data.(*SocketData); ok {
			return sd
		}
	}
	return &SocketData{}
}

// sendToSocket is the live delivery path behind the send seam. A socket
// whose metadata is already gone is silently skipped.
func (g *Gateway) sendToSocket(socketID, event string, payload any) {
	sd := g.getSocketData(socketID)
	if sd.Socket == nil {
		return
	}
	sd.Socket.Emit(event, payload)
}

// emitToRoom fans a payload out to every socket in the conversation room,
// honoring the handler's exclusion flags.
func (g *Gateway) emitToRoom(conversationID, event string, payload any, skipSocketID, skipUserID string) {
	for _, socketID := range g.rooms.Members(conversationID) {
		if skipSocketID != "" && socketID == skipSocketID {
			continue
		}
		if skipUserID != "" && g.getSocketData(socketID).UserID == skipUserID {
			continue
		}
		g.send(socketID, event, payload)
	}
}

// emitGlobal fans a payload out to every connected socket.
func (g *Gateway) emitGlobal(event string, payload any, skipSocketID, skipUserID string) {
	g.socketData.Range(func(key, value any) bool {
		sd, ok := value.(*SocketData)
		if !ok {
			return true
		}
		socketID := key.(string)
		if skipSocketID != "" && socketID == skipSocketID {
			return true
		}
		if skipUserID != "" && sd.UserID == skipUserID {
			return true
		}
		g.send(socketID, event, payload)
		return true
	})
}

// emitToUser fans a payload out to every socket of one user. HTTP handlers
// use this to push events triggered by REST calls.
func (g *Gateway) emitToUser(userID, event string, payload any) {
	for _, socketID := range g.presence.SocketsForUser(userID) {
		g.send(socketID, event, payload)
	}
}

// EmitToUser exposes per-user emission for HTTP handlers.
func (g *Gateway) EmitToUser(userID, event string, payload any) {
	g.emitToUser(userID, event, payload)
}

// JoinUserToConversation subscribes all of a user's live sockets to a
// conversation room and tells them about it. Called when REST adds a
// participant, so sockets that connected before the membership change still
// receive the room's traffic.
func (g *Gateway) JoinUserToConversation(userID, conversationID string) {
	for _, socketID := range g.presence.SocketsForUser(userID) {
		g.rooms.Join(conversationID, socketID)
	}
	g.emitToUser(userID, wire.EventConversationNew, wire.ConversationEvent{
		ConversationID: conversationID,
	})
}

// RemoveUserFromConversation drops all of a user's live sockets from a
// conversation room. Called when REST removes a participant.
func (g *Gateway) RemoveUserFromConversation(userID, conversationID string) {
	for _, socketID := range g.presence.SocketsForUser(userID) {
		g.rooms.Leave(conversationID, socketID)
	}
}

// IsUserOnline reports live presence for REST responses.
func (g *Gateway) IsUserOnline(userID string) bool {
	return g.presence.IsOnline(userID)
}

// HandleSocketIO creates a Gin handler serving the Socket.IO endpoint.
func (g *Gateway) HandleSocketIO() gin.HandlerFunc {
	httpHandler := g.server.ServeHandler(nil)

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "false")

		if c.Request.Method == "OPTIONS" {
			c.Status(http.StatusOK)
			return
		}

		logger.Debugf("Socket.IO request: %s %s", c.Request.Method, c.Request.URL.Path)

		httpHandler.ServeHTTP(c.Writer, c.Request)
	}
}

// Close shuts down the Socket.IO server.
func (g *Gateway) Close() error {
	g.server.Close(nil)
	return nil
}
