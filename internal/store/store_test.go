package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parley-chat/parley/internal/database"
)

func newTestQueries(t *testing.T) *Queries {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return New(db)
}

func createTestUser(t *testing.T, q *Queries, username string) User {
	t.Helper()

	u, err := q.CreateUser(context.Background(), CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
	})
	require.NoError(t, err)
	return u
}

func createTestConversation(t *testing.T, q *Queries, creator User, members ...User) Conversation {
	t.Helper()

	ctx := context.Background()
	c, err := q.CreateConversation(ctx, CreateConversationParams{
		IsGroup:   len(members) > 1,
		CreatedBy: creator.ID,
	})
	require.NoError(t, err)

	require.NoError(t, q.AddParticipant(ctx, AddParticipantParams{
		ConversationID: c.ID, UserID: creator.ID, IsAdmin: true,
	}))
	for _, m := range members {
		require.NoError(t, q.AddParticipant(ctx, AddParticipantParams{
			ConversationID: c.ID, UserID: m.ID,
		}))
	}
	return c
}

func TestCreateAndGetUser(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	u := createTestUser(t, q, "alice")
	require.NotEmpty(t, u.ID)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, "offline", u.Status)

	byID, err := q.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, byID.ID)

	byName, err := q.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, byName.ID)

	byEmail, err := q.GetUserByLogin(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = q.GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	q := newTestQueries(t)

	createTestUser(t, q, "alice")
	_, err := q.CreateUser(context.Background(), CreateUserParams{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "hash",
	})
	require.Error(t, err)
}

func TestSearchUsersExcludesCaller(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	alice := createTestUser(t, q, "alice")
	createTestUser(t, q, "alicia")
	createTestUser(t, q, "bob")

	users, err := q.SearchUsers(ctx, SearchUsersParams{
		Query:         "ali",
		ExcludeUserID: alice.ID,
	})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "alicia", users[0].Username)
}

func TestUpdateUserStatus(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	u := createTestUser(t, q, "alice")
	require.NoError(t, q.UpdateUserStatus(ctx, u.ID, "online"))

	got, err := q.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "online", got.Status)
}

func TestParticipantMembership(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")
	carol := createTestUser(t, q, "carol")
	c := createTestConversation(t, q, alice, bob)

	in, err := q.IsParticipant(ctx, IsParticipantParams{UserID: bob.ID, ConversationID: c.ID})
	require.NoError(t, err)
	require.True(t, in)

	in, err = q.IsParticipant(ctx, IsParticipantParams{UserID: carol.ID, ConversationID: c.ID})
	require.NoError(t, err)
	require.False(t, in)

	// Re-adding an existing member is a no-op.
	require.NoError(t, q.AddParticipant(ctx, AddParticipantParams{ConversationID: c.ID, UserID: bob.ID}))
	ids, err := q.ListParticipantIDs(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	require.NoError(t, q.RemoveParticipant(ctx, c.ID, bob.ID))
	in, err = q.IsParticipant(ctx, IsParticipantParams{UserID: bob.ID, ConversationID: c.ID})
	require.NoError(t, err)
	require.False(t, in)
}

func TestListConversationsOrdering(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")
	first := createTestConversation(t, q, alice, bob)
	second := createTestConversation(t, q, alice, bob)

	// A message in the older conversation moves it to the front.
	require.NoError(t, q.TouchConversation(ctx, first.ID, time.Now().UTC().Add(time.Hour)))

	convs, err := q.ListConversationsForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	require.Equal(t, first.ID, convs[0].ID)
	require.Equal(t, second.ID, convs[1].ID)
}

func TestFindDirectConversation(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")
	carol := createTestUser(t, q, "carol")
	direct := createTestConversation(t, q, alice, bob)
	createTestConversation(t, q, alice, bob, carol)

	got, err := q.FindDirectConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, direct.ID, got.ID)

	_, err = q.FindDirectConversation(ctx, alice.ID, carol.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAndListMessages(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")
	c := createTestConversation(t, q, alice, bob)

	m1, err := q.CreateMessage(ctx, CreateMessageParams{
		ConversationID: c.ID, SenderID: alice.ID, Content: "hello",
	})
	require.NoError(t, err)
	require.NotEmpty(t, m1.ID)
	require.Equal(t, "text", m1.ContentType)

	m2, err := q.CreateMessage(ctx, CreateMessageParams{
		ConversationID: c.ID, SenderID: bob.ID, Content: "hi", ContentType: "image",
	})
	require.NoError(t, err)

	msgs, err := q.ListMessages(ctx, ListMessagesParams{ConversationID: c.ID})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, m2.ID, msgs[0].ID)
	require.Equal(t, m1.ID, msgs[1].ID)
	require.Equal(t, "bob", msgs[0].SenderUsername)

	// Paging before the newest message yields only the older one.
	page, err := q.ListMessages(ctx, ListMessagesParams{
		ConversationID: c.ID, Before: m2.CreatedAt,
	})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, m1.ID, page[0].ID)

	latest, err := q.LatestMessage(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, m2.ID, latest.ID)
}

func TestLatestMessageEmptyConversation(t *testing.T) {
	q := newTestQueries(t)

	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")
	c := createTestConversation(t, q, alice, bob)

	_, err := q.LatestMessage(context.Background(), c.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestToggleReaction(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")
	c := createTestConversation(t, q, alice, bob)
	m, err := q.CreateMessage(ctx, CreateMessageParams{
		ConversationID: c.ID, SenderID: alice.ID, Content: "hello",
	})
	require.NoError(t, err)

	arg := ToggleReactionParams{MessageID: m.ID, UserID: bob.ID, Reaction: "👍"}

	action, err := q.ToggleReaction(ctx, arg)
	require.NoError(t, err)
	require.Equal(t, ReactionAdded, action)

	action, err = q.ToggleReaction(ctx, arg)
	require.NoError(t, err)
	require.Equal(t, ReactionRemoved, action)

	action, err = q.ToggleReaction(ctx, arg)
	require.NoError(t, err)
	require.Equal(t, ReactionAdded, action)

	// A different reaction from the same user coexists.
	action, err = q.ToggleReaction(ctx, ToggleReactionParams{
		MessageID: m.ID, UserID: bob.ID, Reaction: "❤️",
	})
	require.NoError(t, err)
	require.Equal(t, ReactionAdded, action)

	reactions, err := q.ListReactionsForConversation(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, reactions, 2)
}

func TestMarkConversationRead(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")
	c := createTestConversation(t, q, alice, bob)

	arg := MarkConversationReadParams{ConversationID: c.ID, UserID: bob.ID}

	// Empty conversation: nothing to read.
	moved, err := q.MarkConversationRead(ctx, arg)
	require.NoError(t, err)
	require.False(t, moved)

	m1, err := q.CreateMessage(ctx, CreateMessageParams{
		ConversationID: c.ID, SenderID: alice.ID, Content: "hello",
	})
	require.NoError(t, err)

	moved, err = q.MarkConversationRead(ctx, arg)
	require.NoError(t, err)
	require.True(t, moved)

	markers, err := q.GetReadMarkers(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	require.Equal(t, bob.ID, markers[0].UserID)
	require.Equal(t, m1.ID, markers[0].LastReadMessageID)

	// Marking again without new messages does not move the marker.
	moved, err = q.MarkConversationRead(ctx, arg)
	require.NoError(t, err)
	require.False(t, moved)

	// The reader's own messages never count as unread.
	_, err = q.CreateMessage(ctx, CreateMessageParams{
		ConversationID: c.ID, SenderID: bob.ID, Content: "my own",
	})
	require.NoError(t, err)
	moved, err = q.MarkConversationRead(ctx, arg)
	require.NoError(t, err)
	require.False(t, moved)

	m3, err := q.CreateMessage(ctx, CreateMessageParams{
		ConversationID: c.ID, SenderID: alice.ID, Content: "again",
	})
	require.NoError(t, err)
	moved, err = q.MarkConversationRead(ctx, arg)
	require.NoError(t, err)
	require.True(t, moved)

	markers, err = q.GetReadMarkers(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	require.Equal(t, m3.ID, markers[0].LastReadMessageID)
}

func TestUpdateMessageContent(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")
	conv := createTestConversation(t, q, alice, bob)

	msg, err := q.CreateMessage(ctx, CreateMessageParams{
		ConversationID: conv.ID, SenderID: alice.ID, Content: "first draft",
	})
	require.NoError(t, err)

	updated, err := q.UpdateMessageContent(ctx, UpdateMessageContentParams{
		ID: msg.ID, Content: "final version",
	})
	require.NoError(t, err)
	require.Equal(t, msg.ID, updated.ID)
	require.Equal(t, "final version", updated.Content)
	require.Equal(t, alice.ID, updated.SenderID)

	_, err = q.UpdateMessageContent(ctx, UpdateMessageContentParams{
		ID: "missing", Content: "x",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMessageCascadesReactions(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")
	conv := createTestConversation(t, q, alice, bob)

	msg, err := q.CreateMessage(ctx, CreateMessageParams{
		ConversationID: conv.ID, SenderID: alice.ID, Content: "hello",
	})
	require.NoError(t, err)

	action, err := q.ToggleReaction(ctx, ToggleReactionParams{
		MessageID: msg.ID, UserID: bob.ID, Reaction: "👍",
	})
	require.NoError(t, err)
	require.Equal(t, ReactionAdded, action)

	require.NoError(t, q.DeleteMessage(ctx, msg.ID))

	_, err = q.GetMessageByID(ctx, msg.ID)
	require.ErrorIs(t, err, ErrNotFound)

	reactions, err := q.ListReactionsForConversation(ctx, conv.ID)
	require.NoError(t, err)
	require.Empty(t, reactions)

	require.ErrorIs(t, q.DeleteMessage(ctx, msg.ID), ErrNotFound)
}

func TestContacts(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	alice := createTestUser(t, q, "alice")
	bob := createTestUser(t, q, "bob")
	carol := createTestUser(t, q, "carol")

	added, err := q.AddContact(ctx, AddContactParams{UserID: alice.ID, ContactID: bob.ID})
	require.NoError(t, err)
	require.True(t, added)

	added, err = q.AddContact(ctx, AddContactParams{UserID: alice.ID, ContactID: bob.ID})
	require.NoError(t, err)
	require.False(t, added)

	added, err = q.AddContact(ctx, AddContactParams{UserID: alice.ID, ContactID: carol.ID})
	require.NoError(t, err)
	require.True(t, added)

	contacts, err := q.ListContacts(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	require.Equal(t, "bob", contacts[0].Username)
	require.Equal(t, "carol", contacts[1].Username)

	// Links are one-way; bob has not added anyone.
	contacts, err = q.ListContacts(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, contacts)

	require.NoError(t, q.RemoveContact(ctx, RemoveContactParams{UserID: alice.ID, ContactID: bob.ID}))
	contacts, err = q.ListContacts(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	require.Equal(t, "carol", contacts[0].Username)
}
