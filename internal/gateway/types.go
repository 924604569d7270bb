package gateway

import (
	socket "github.com/zishang520/socket.io/servers/socket/v3"
)

// SocketData stores connection metadata for each authenticated socket.
type SocketData struct {
	UserID   string
	Username string
	Socket   *socket.Socket // Reference to the socket for emitting
	queue    *dispatchQueue
}
