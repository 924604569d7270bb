package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parley-chat/parley/pkg/wire"
)

func TestTyping_ExcludesAllSenderSockets(t *testing.T) {
	deps := NewDeps(memberOf("c1"), fakeMessageQueries{}, fakeUserQueries{}, nil)

	res := Typing(context.Background(), deps, NewAuthContext("u1", "alice", "sock1"), wire.TypingPayload{
		ConversationID: "c1",
		IsTyping:       true,
	})

	require.Len(t, res.Broadcasts(), 1)
	b := res.Broadcasts()[0]
	require.Equal(t, wire.EventUserTyping, b.Event())
	require.True(t, b.SkipUser())
	require.False(t, b.SkipSelf())

	ev, ok := b.Payload().(wire.TypingEvent)
	require.True(t, ok)
	require.Equal(t, "alice", ev.Username)
	require.True(t, ev.IsTyping)
}

func TestTyping_StopRelaysFalse(t *testing.T) {
	deps := NewDeps(memberOf("c1"), fakeMessageQueries{}, fakeUserQueries{}, nil)

	res := Typing(context.Background(), deps, NewAuthContext("u1", "alice", "sock1"), wire.TypingPayload{
		ConversationID: "c1",
		IsTyping:       false,
	})

	require.Len(t, res.Broadcasts(), 1)
	ev, ok := res.Broadcasts()[0].Payload().(wire.TypingEvent)
	require.True(t, ok)
	require.False(t, ev.IsTyping)
}

func TestTyping_RejectsNonParticipant(t *testing.T) {
	deps := NewDeps(memberOf("other"), fakeMessageQueries{}, fakeUserQueries{}, nil)

	res := Typing(context.Background(), deps, NewAuthContext("u1", "alice", "sock1"), wire.TypingPayload{
		ConversationID: "c1",
		IsTyping:       true,
	})

	require.NotNil(t, res.Err())
	require.Equal(t, wire.CodeForbidden, res.Err().Code)
	require.Empty(t, res.Broadcasts())
}

func TestTyping_IgnoresMissingConversation(t *testing.T) {
	deps := NewDeps(memberOf("c1"), fakeMessageQueries{}, fakeUserQueries{}, nil)

	res := Typing(context.Background(), deps, NewAuthContext("u1", "alice", "sock1"), wire.TypingPayload{})

	require.Nil(t, res.Err())
	require.Empty(t, res.Broadcasts())
}
