package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parley-chat/parley/pkg/wire"
)

func TestConnect_JoinsAllConversations(t *testing.T) {
	deps := NewDeps(memberOf("c1", "c2", "c3"), fakeMessageQueries{}, fakeUserQueries{}, nil)

	res := Connect(context.Background(), deps, NewAuthContext("u1", "alice", "sock1"), false)

	require.Len(t, res.RoomChanges(), 3)
	for i, id := range []string{"c1", "c2", "c3"} {
		require.True(t, res.RoomChanges()[i].IsJoin())
		require.Equal(t, id, res.RoomChanges()[i].ConversationID())
	}
	require.Empty(t, res.Broadcasts())
}

func TestConnect_FirstSocketGoesOnline(t *testing.T) {
	var gotStatus string
	users := fakeUserQueries{
		updateStatus: func(ctx context.Context, id, status string) error {
			require.Equal(t, "u1", id)
			gotStatus = status
			return nil
		},
	}
	deps := NewDeps(memberOf("c1"), fakeMessageQueries{}, users, nil)

	res := Connect(context.Background(), deps, NewAuthContext("u1", "alice", "sock1"), true)

	require.Equal(t, "online", gotStatus)
	require.Len(t, res.Broadcasts(), 1)
	b := res.Broadcasts()[0]
	require.True(t, b.IsGlobal())
	require.True(t, b.SkipSelf())
	require.False(t, b.SkipUser())
	require.Equal(t, wire.EventUserStatus, b.Event())

	ev, ok := b.Payload().(wire.StatusEvent)
	require.True(t, ok)
	require.Equal(t, "u1", ev.UserID)
	require.Equal(t, "online", ev.Status)
}

func TestDisconnect_LastSocketGoesOffline(t *testing.T) {
	var gotStatus string
	users := fakeUserQueries{
		updateStatus: func(ctx context.Context, id, status string) error {
			gotStatus = status
			return nil
		},
	}
	deps := NewDeps(memberOf(), fakeMessageQueries{}, users, nil)

	res := Disconnect(context.Background(), deps, NewAuthContext("u1", "alice", "sock1"), true)

	require.Equal(t, "offline", gotStatus)
	require.Len(t, res.Broadcasts(), 1)
	require.True(t, res.Broadcasts()[0].IsGlobal())
	require.True(t, res.Broadcasts()[0].SkipSelf())
	ev, ok := res.Broadcasts()[0].Payload().(wire.StatusEvent)
	require.True(t, ok)
	require.Equal(t, "offline", ev.Status)
}

func TestDisconnect_OtherSocketsStillOpenStaysSilent(t *testing.T) {
	users := fakeUserQueries{
		updateStatus: func(ctx context.Context, id, status string) error {
			t.Fatalf("unexpected status update")
			return nil
		},
	}
	deps := NewDeps(memberOf(), fakeMessageQueries{}, users, nil)

	res := Disconnect(context.Background(), deps, NewAuthContext("u1", "alice", "sock1"), false)

	require.Empty(t, res.Broadcasts())
}
