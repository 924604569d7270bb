package gateway

import (
	"context"
	"errors"

	socket "github.com/zishang520/socket.io/servers/socket/v3"

	"github.com/parley-chat/parley/internal/crypto"
	"github.com/parley-chat/parley/internal/gateway/handlers"
	"github.com/parley-chat/parley/internal/logger"
	"github.com/parley-chat/parley/pkg/wire"
)

func (g *Gateway) handleConnection(client *socket.Socket) {
	socketID := string(client.Id())

	logger.Infof("Socket.IO connection attempt (socket ID: %s)", socketID)

	handshake := client.Handshake()

	authMap := handshake.Auth
	if len(authMap) == 0 {
		logger.Warnf("Socket.IO missing auth data (socket %s)", socketID)
		client.Emit(wire.EventError, wire.ErrorEvent{Code: wire.CodeUnauthorized, Message: "missing authentication data"})
		client.Disconnect(true)
		return
	}

	var authPayload wire.SocketAuthPayload
	if err := decodeAny(authMap, &authPayload); err != nil {
		logger.Warnf("Socket.IO invalid auth data (socket %s): %v", socketID, err)
		client.Emit(wire.EventError, wire.ErrorEvent{Code: wire.CodeUnauthorized, Message: "invalid authentication data"})
		client.Disconnect(true)
		return
	}

	handshakeAuth, err := handlers.ValidateSocketAuthPayload(authPayload)
	if err != nil {
		logger.Warnf("Socket.IO handshake auth rejected (socket %s): %v", socketID, err)
		client.Emit(wire.EventError, wire.ErrorEvent{Code: wire.CodeUnauthorized, Message: err.Error()})
		client.Disconnect(true)
		return
	}

	claims, err := g.jwtManager.VerifyToken(handshakeAuth.Token)
	if err != nil {
		code := wire.CodeInvalidCredential
		if errors.Is(err, crypto.ErrTokenExpired) {
			code = wire.CodeExpiredCredential
		}
		logger.Warnf("Socket.IO invalid token (socket %s): %v", socketID, err)
		client.Emit(wire.EventError, wire.ErrorEvent{Code: code, Message: "invalid authentication token"})
		client.Disconnect(true)
		return
	}

	userID := claims.Subject
	logger.Debugf("Socket.IO token verified: userID=%s, username=%s, socketId=%s",
		userID, claims.Username, socketID)

	sd := &SocketData{
		UserID:   userID,
		Username: claims.Username,
		Socket:   client,
		queue:    newDispatchQueue(),
	}
	g.socketData.Store(socketID, sd)

	firstSocket := g.presence.Add(userID, socketID)

	logger.Infof("Socket.IO client ready (user: %s, socket: %s)", userID, socketID)

	auth := handlers.NewAuthContext(userID, claims.Username, socketID)
	result := handlers.Connect(context.Background(), g.deps, auth, firstSocket)
	g.applyResult(socketID, client, result)

	g.registerClientHandlers(client, socketID)

	client.On("disconnect", func(data ...any) {
		g.handleDisconnect(client, socketID)
	})
}

func (g *Gateway) handleDisconnect(client *socket.Socket, socketID string) {
	sd := g.getSocketData(socketID)
	if sd.Socket == nil {
		return
	}

	logger.Infof("Socket.IO client disconnected (user: %s, socket: %s)", sd.UserID, socketID)

	auth := handlers.NewAuthContext(sd.UserID, sd.Username, socketID)
	queue := sd.queue

	// Run behind the socket's queue so in-flight events finish before the
	// offline transition is decided.
	queue.Enqueue(func() {
		g.rooms.DropSocket(socketID)
		lastSocket := g.presence.Remove(sd.UserID, socketID)
		g.socketData.Delete(socketID)

		result := handlers.Disconnect(context.Background(), g.deps, auth, lastSocket)
		g.applyResult(socketID, client, result)
	})
	queue.Close()
}
