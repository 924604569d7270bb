package handlers

import (
	"errors"

	"github.com/parley-chat/parley/pkg/wire"
)

// SocketHandshake is the validated Socket.IO handshake auth payload.
type SocketHandshake struct {
	Token string
}

// ValidateSocketAuthPayload validates the Socket.IO handshake auth payload.
func ValidateSocketAuthPayload(auth wire.SocketAuthPayload) (SocketHandshake, error) {
	if auth.Token == "" {
		return SocketHandshake{}, errors.New("missing authentication token")
	}
	return SocketHandshake{Token: auth.Token}, nil
}
