package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parley-chat/parley/internal/store"
	"github.com/parley-chat/parley/pkg/wire"
)

func TestSendMessage_PersistsAndBroadcasts(t *testing.T) {
	created := time.UnixMilli(1700000000000)
	var gotCreate store.CreateMessageParams
	messages := fakeMessageQueries{
		create: func(ctx context.Context, arg store.CreateMessageParams) (store.Message, error) {
			gotCreate = arg
			return store.Message{
				ID:             "m1",
				ConversationID: arg.ConversationID,
				SenderID:       arg.SenderID,
				Content:        arg.Content,
				ContentType:    "text",
				CreatedAt:      created,
			}, nil
		},
	}
	var touchedAt time.Time
	participation := memberOf("c1")
	participation.touch = func(ctx context.Context, conversationID string, at time.Time) error {
		require.Equal(t, "c1", conversationID)
		touchedAt = at
		return nil
	}
	users := fakeUserQueries{
		getByID: func(ctx context.Context, id string) (store.User, error) {
			return store.User{ID: id, Username: "alice", FirstName: "Alice"}, nil
		},
	}
	deps := NewDeps(participation, messages, users, nil)

	res := SendMessage(context.Background(), deps, NewAuthContext("u1", "alice", "sock1"), wire.SendMessagePayload{
		ConversationID: "c1",
		Content:        "hello",
	})

	require.Equal(t, "u1", gotCreate.SenderID)
	require.Equal(t, created, touchedAt)

	ack, ok := res.Ack().(wire.SendAck)
	require.True(t, ok)
	require.True(t, ack.OK)
	require.Equal(t, "m1", ack.Message.ID)
	require.Equal(t, created.UnixMilli(), ack.Message.CreatedAt)
	require.Equal(t, "alice", ack.Message.Sender.Username)

	require.Len(t, res.Broadcasts(), 1)
	b := res.Broadcasts()[0]
	require.True(t, b.IsRoom())
	require.Equal(t, "c1", b.ConversationID())
	require.Equal(t, wire.EventMessageNew, b.Event())
	require.True(t, b.SkipSelf())
	require.False(t, b.SkipUser())
}

func TestSendMessage_RejectsNonParticipant(t *testing.T) {
	messages := fakeMessageQueries{
		create: func(ctx context.Context, arg store.CreateMessageParams) (store.Message, error) {
			t.Fatalf("unexpected create call")
			return store.Message{}, nil
		},
	}
	deps := NewDeps(memberOf("other"), messages, fakeUserQueries{}, nil)

	res := SendMessage(context.Background(), deps, NewAuthContext("u1", "alice", "sock1"), wire.SendMessagePayload{
		ConversationID: "c1",
		Content:        "hello",
	})

	ack, ok := res.Ack().(wire.SendAck)
	require.True(t, ok)
	require.False(t, ack.OK)
	require.Equal(t, wire.CodeForbidden, ack.Error.Code)
	require.Empty(t, res.Broadcasts())
}

func TestSendMessage_RejectsEmptyContent(t *testing.T) {
	deps := NewDeps(memberOf("c1"), fakeMessageQueries{}, fakeUserQueries{}, nil)

	res := SendMessage(context.Background(), deps, NewAuthContext("u1", "alice", "sock1"), wire.SendMessagePayload{
		ConversationID: "c1",
		Content:        "   ",
	})

	ack, ok := res.Ack().(wire.SendAck)
	require.True(t, ok)
	require.False(t, ack.OK)
	require.Equal(t, wire.CodeBadRequest, ack.Error.Code)
}

func TestSendMessage_StoreFailureSurfacesError(t *testing.T) {
	messages := fakeMessageQueries{
		create: func(ctx context.Context, arg store.CreateMessageParams) (store.Message, error) {
			return store.Message{}, context.DeadlineExceeded
		},
	}
	deps := NewDeps(memberOf("c1"), messages, fakeUserQueries{}, nil)

	res := SendMessage(context.Background(), deps, NewAuthContext("u1", "alice", "sock1"), wire.SendMessagePayload{
		ConversationID: "c1",
		Content:        "hello",
	})

	ack, ok := res.Ack().(wire.SendAck)
	require.True(t, ok)
	require.False(t, ack.OK)
	require.Equal(t, wire.CodeStoreUnavailable, ack.Error.Code)
	require.Empty(t, res.Broadcasts())
}
