package handlers

// AuthContext carries authenticated socket identity information into handler
// functions. It intentionally excludes transport-specific types.
type AuthContext struct {
	userID   string
	username string
	socketID string
}

// NewAuthContext constructs an AuthContext for a single socket event.
func NewAuthContext(userID, username, socketID string) AuthContext {
	return AuthContext{
		userID:   userID,
		username: username,
		socketID: socketID,
	}
}

// UserID returns the authenticated user id.
func (a AuthContext) UserID() string {
	return a.userID
}

// Username returns the authenticated username.
func (a AuthContext) Username() string {
	return a.username
}

// SocketID returns the caller socket id.
func (a AuthContext) SocketID() string {
	return a.socketID
}
