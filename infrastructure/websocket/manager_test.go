package websocket

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(userID string) *Client {
	return NewClient(nil, userID, zap.NewNop())
}

func drain(cl *Client) []*Frame {
	frames := make([]*Frame, 0, len(cl.Message))
	for {
		select {
		case frame, ok := <-cl.Message:
			if !ok {
				return frames
			}
			frames = append(frames, frame)
		default:
			return frames
		}
	}
}

func TestTopicManager_Subscribe(t *testing.T) {
	t.Run("should create the topic on first subscriber", func(t *testing.T) {
		req := require.New(t)
		tm := NewTopicManager()
		alice := testClient("alice")

		tm.Subscribe(alice, LobbyTopic)

		count, exists := tm.TopicStats(LobbyTopic)
		req.True(exists)
		req.Equal(1, count)
		req.Contains(alice.Topics(), LobbyTopic)
	})

	t.Run("should drop the topic when the last subscriber leaves", func(t *testing.T) {
		req := require.New(t)
		tm := NewTopicManager()
		alice := testClient("alice")

		tm.Subscribe(alice, RoomTopic("r1"))
		tm.Unsubscribe(alice, RoomTopic("r1"))

		_, exists := tm.TopicStats(RoomTopic("r1"))
		req.False(exists)
		req.Empty(alice.Topics())
	})

	t.Run("should ignore unsubscribing from an unknown topic", func(t *testing.T) {
		tm := NewTopicManager()
		tm.Unsubscribe(testClient("alice"), "never-existed")
	})
}

func TestTopicManager_Broadcast(t *testing.T) {
	t.Run("should deliver only to the topic's subscribers", func(t *testing.T) {
		req := require.New(t)
		tm := NewTopicManager()
		alice := testClient("alice")
		bob := testClient("bob")

		tm.Subscribe(alice, RoomTopic("r1"))
		tm.Subscribe(bob, RoomTopic("r2"))

		frame := NewMemberJoined("r1", "carol")
		req.NoError(tm.Broadcast(frame))

		delivered := drain(alice)
		req.Len(delivered, 1)
		req.Equal(MemberJoined, delivered[0].Type)
		req.Empty(drain(bob))
	})

	t.Run("should report a missing topic", func(t *testing.T) {
		req := require.New(t)
		tm := NewTopicManager()

		err := tm.Broadcast(NewRoomDeleted("ghost"))
		req.ErrorIs(err, ErrTopicNotFound)
	})

	t.Run("should not deliver to closed clients", func(t *testing.T) {
		req := require.New(t)
		tm := NewTopicManager()
		alice := testClient("alice")

		tm.Subscribe(alice, RoomTopic("r1"))
		alice.Close()

		req.NoError(tm.Broadcast(NewMemberLeft("r1", "bob")))
		req.Empty(drain(alice))
	})
}

func TestTopicManager_RemoveClient(t *testing.T) {
	req := require.New(t)
	tm := NewTopicManager()
	alice := testClient("alice")
	bob := testClient("bob")

	tm.Subscribe(alice, LobbyTopic)
	tm.Subscribe(alice, RoomTopic("r1"))
	tm.Subscribe(bob, RoomTopic("r1"))

	tm.RemoveClient(alice)

	req.True(alice.IsClosed())
	req.Empty(alice.Topics())

	count, exists := tm.TopicStats(RoomTopic("r1"))
	req.True(exists)
	req.Equal(1, count)

	_, exists = tm.TopicStats(LobbyTopic)
	req.False(exists)
}

func TestTopicManager_DisconnectAll(t *testing.T) {
	req := require.New(t)
	tm := NewTopicManager()
	alice := testClient("alice")
	bob := testClient("bob")

	tm.Subscribe(alice, LobbyTopic)
	tm.Subscribe(bob, RoomTopic("r1"))

	tm.DisconnectAll()

	req.True(alice.IsClosed())
	req.True(bob.IsClosed())
	_, exists := tm.TopicStats(LobbyTopic)
	req.False(exists)
}

func TestRoomTopics(t *testing.T) {
	req := require.New(t)

	req.Equal("room:r1", RoomTopic("r1"))
	req.Equal("r1", RoomIDFromTopic("room:r1"))
	req.Empty(RoomIDFromTopic(LobbyTopic))
	req.Empty(RoomIDFromTopic("roomr1"))
}

func TestClientPush(t *testing.T) {
	t.Run("should drop frames when the buffer is full", func(t *testing.T) {
		req := require.New(t)
		cl := testClient("alice")

		for i := 0; i < cap(cl.Message)+10; i++ {
			cl.Push(&Frame{Type: MessageReceived})
		}

		req.Len(drain(cl), cap(cl.Message))
	})

	t.Run("should ignore pushes after close", func(t *testing.T) {
		req := require.New(t)
		cl := testClient("alice")
		cl.Close()

		cl.Push(&Frame{Type: MessageReceived})
		req.Empty(drain(cl))
	})

	t.Run("should survive pushes racing close", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			cl := testClient("alice")

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					cl.Push(&Frame{Type: MessageReceived})
				}
			}()
			go func() {
				defer wg.Done()
				cl.Close()
			}()
			wg.Wait()
		}
	})
}
