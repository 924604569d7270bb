package gateway

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresenceFirstAndLastSocket(t *testing.T) {
	p := newPresenceRegistry()

	require.True(t, p.Add("u1", "s1"))
	require.False(t, p.Add("u1", "s2"))
	require.True(t, p.IsOnline("u1"))

	require.False(t, p.Remove("u1", "s1"))
	require.True(t, p.IsOnline("u1"))
	require.True(t, p.Remove("u1", "s2"))
	require.False(t, p.IsOnline("u1"))
}

func TestPresenceRemoveUnknownSocket(t *testing.T) {
	p := newPresenceRegistry()

	require.False(t, p.Remove("u1", "missing"))

	p.Add("u1", "s1")
	require.False(t, p.Remove("u1", "missing"))
	require.True(t, p.IsOnline("u1"))
}

func TestPresenceSnapshots(t *testing.T) {
	p := newPresenceRegistry()

	p.Add("u1", "s1")
	p.Add("u1", "s2")
	p.Add("u2", "s3")

	require.ElementsMatch(t, []string{"s1", "s2"}, p.SocketsForUser("u1"))
	require.ElementsMatch(t, []string{"u1", "u2"}, p.OnlineUsers())
	require.Empty(t, p.SocketsForUser("u3"))
}

func TestPresenceConcurrentAddRemove(t *testing.T) {
	p := newPresenceRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sock := "s" + strconv.Itoa(i)
			p.Add("u1", sock)
			p.IsOnline("u1")
			p.Remove("u1", sock)
		}(i)
	}
	wg.Wait()

	require.False(t, p.IsOnline("u1"))
}
