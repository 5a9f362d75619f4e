package websocket

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lingualink/api/domain/repository"
	"github.com/lingualink/api/infrastructure/events"
)

const historyLimit = 50

// Core owns the registration and fan-out loop for one instance. It
// receives domain events from the shared event channel and turns them
// into frames on the affected topics.
type Core struct {
	topicMgr          *TopicManager
	register          chan *Client
	unregister        chan *Client
	broadcast         chan *Frame
	roomRepository    repository.RoomRepository
	messageRepository repository.MessageRepository
	sender            MessageSender
	logger            *zap.Logger

	shutdown chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func NewCore(
	roomRepository repository.RoomRepository,
	messageRepository repository.MessageRepository,
	sender MessageSender,
	logger *zap.Logger,
) *Core {
	return &Core{
		topicMgr:          NewTopicManager(),
		register:          make(chan *Client),
		unregister:        make(chan *Client),
		broadcast:         make(chan *Frame, 256),
		roomRepository:    roomRepository,
		messageRepository: messageRepository,
		sender:            sender,
		logger:            logger,
		shutdown:          make(chan struct{}),
	}
}

func (c *Core) Run(ctx context.Context) {
	defer c.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("websocket core shutting down")
			c.Shutdown()
			return

		case <-c.shutdown:
			return

		case cl := <-c.register:
			// Every connection watches the lobby from the start.
			c.Subscribe(cl, LobbyTopic)

		case cl := <-c.unregister:
			c.topicMgr.RemoveClient(cl)

		case frame := <-c.broadcast:
			if err := c.topicMgr.Broadcast(frame); err != nil && err != ErrTopicNotFound {
				c.logger.Warn("broadcast error", zap.Error(err))
			}
		}
	}
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

func (c *Core) Broadcast() chan<- *Frame {
	return c.broadcast
}

func (c *Core) Manager() *TopicManager {
	return c.topicMgr
}

// Subscribe attaches the client to a topic. Room topics require
// membership; the lobby is open to every authenticated connection.
func (c *Core) Subscribe(cl *Client, name string) {
	if cl.IsClosed() {
		return
	}

	if roomID := RoomIDFromTopic(name); roomID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		room, err := c.roomRepository.GetByID(ctx, roomID)
		if err != nil {
			cl.Push(NewError(JoinFailed, "room not found"))
			return
		}
		if !room.IsMember(cl.UserID) {
			cl.Push(NewError(JoinFailed, "not a member of this room"))
			return
		}

		c.topicMgr.Subscribe(cl, name)
		cl.Push(&Frame{Type: Subscribed, Topic: name})

		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.pushHistory(cl, roomID)
		}()
		return
	}

	if name != LobbyTopic {
		cl.Push(NewError(ErrorEvent, "unknown topic"))
		return
	}

	c.topicMgr.Subscribe(cl, LobbyTopic)
	cl.Push(&Frame{Type: Subscribed, Topic: LobbyTopic})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.pushLobbySnapshot(cl)
	}()
}

func (c *Core) Unsubscribe(cl *Client, name string) {
	c.topicMgr.Unsubscribe(cl, name)
	cl.Push(&Frame{Type: Unsubscribed, Topic: name})
}

func (c *Core) pushLobbySnapshot(cl *Client) {
	if cl.IsClosed() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rooms, err := c.roomRepository.GetAll(ctx)
	if err != nil {
		c.logger.Warn("failed to load lobby snapshot", zap.Error(err))
		return
	}

	cl.Push(&Frame{
		Type:  LobbySnapshot,
		Topic: LobbyTopic,
		Data:  rooms,
	})
}

func (c *Core) pushHistory(cl *Client, roomID string) {
	if cl.IsClosed() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := c.messageRepository.GetByRoom(ctx, roomID, historyLimit)
	if err != nil {
		c.logger.Warn("failed to load history",
			zap.String("room_id", roomID),
			zap.Error(err),
		)
		return
	}

	payload := make([]MessagePayload, 0, len(messages))
	for _, m := range messages {
		payload = append(payload, MessagePayload{
			ID:        m.ID,
			Text:      m.Text,
			UserID:    m.UserID,
			Timestamp: m.CreatedAt.Format(time.RFC3339Nano),
		})
	}

	cl.Push(&Frame{
		Type:  MessageHistory,
		Topic: RoomTopic(roomID),
		Data:  payload,
	})
}

// HandleEvent is the sink for the shared event channel. It runs on the
// consumer goroutine, so frames go through the broadcast channel rather
// than straight into the manager.
func (c *Core) HandleEvent(event *events.Event) {
	switch event.Type {
	case events.EventMessageSent:
		messageID, _ := event.Data["message_id"].(string)
		text, _ := event.Data["text"].(string)
		createdAt, _ := event.Data["created_at"].(string)
		c.enqueue(NewMessageReceived(event.RoomID, messageID, text, event.UserID, createdAt))

	case events.EventMemberJoined:
		c.enqueue(NewMemberJoined(event.RoomID, event.UserID))
		c.enqueue(&Frame{Type: RoomsChanged, Topic: LobbyTopic})

	case events.EventMemberLeft:
		c.enqueue(NewMemberLeft(event.RoomID, event.UserID))
		c.enqueue(&Frame{Type: RoomsChanged, Topic: LobbyTopic})

	case events.EventMemberRemoved:
		// Deliver the removal frame before detaching the target, so the
		// broadcast cannot race the unsubscribe.
		_ = c.topicMgr.Broadcast(&Frame{
			Type:  MemberRemoved,
			Topic: RoomTopic(event.RoomID),
			Data:  MemberPayload{UserID: event.UserID},
		})
		c.kick(event.RoomID, event.UserID)
		c.enqueue(&Frame{Type: RoomsChanged, Topic: LobbyTopic})

	case events.EventRoomDeleted:
		_ = c.topicMgr.Broadcast(NewRoomDeleted(event.RoomID))
		c.dropTopic(event.RoomID)
		c.enqueue(&Frame{Type: RoomsChanged, Topic: LobbyTopic})

	case events.EventRoomsChanged, events.EventUserSignedUp:
		c.enqueue(&Frame{Type: RoomsChanged, Topic: LobbyTopic})

	case events.EventUserUpdated:
		c.enqueue(&Frame{
			Type:  UserUpdated,
			Topic: LobbyTopic,
			Data: map[string]any{
				"userId":          event.UserID,
				"username":        event.Data["username"],
				"profileImageUrl": event.Data["profile_image_url"],
			},
		})
	}
}

func (c *Core) enqueue(frame *Frame) {
	select {
	case c.broadcast <- frame:
	case <-c.shutdown:
	}
}

// kick detaches a removed member's connections from the room topic after
// the removal frame has had a chance to reach them.
func (c *Core) kick(roomID, userID string) {
	name := RoomTopic(roomID)
	for _, cl := range c.topicMgr.Subscribers(name) {
		if cl.UserID != userID {
			continue
		}
		cl.Push(NewError(Kicked, "removed from room"))
		c.topicMgr.Unsubscribe(cl, name)
	}
}

func (c *Core) dropTopic(roomID string) {
	name := RoomTopic(roomID)
	for _, cl := range c.topicMgr.Subscribers(name) {
		c.topicMgr.Unsubscribe(cl, name)
	}
}

func (c *Core) Shutdown() {
	c.once.Do(func() {
		close(c.shutdown)
		c.topicMgr.DisconnectAll()
	})
}
