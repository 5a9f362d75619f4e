package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 32768
	ingestInterval = time.Second / 2
	ingestBurst    = 5
)

type Client struct {
	conn    *websocket.Conn
	Message chan *Frame
	UserID  string

	// Topics this client is subscribed to. The manager keeps the reverse
	// index; this set exists so unregister can find them without a scan.
	topics  mapset.Set[string]
	limiter *rate.Limiter
	logger  *zap.Logger

	closeOnce sync.Once
	closed    chan struct{}

	// mu serializes writes on conn. pushMu serializes Push against the
	// close of the Message channel; Push never holds mu, so a slow socket
	// write cannot stall the hub's broadcast loop.
	mu     sync.Mutex
	pushMu sync.Mutex
}

func NewClient(conn *websocket.Conn, userID string, logger *zap.Logger) *Client {
	return &Client{
		conn:    conn,
		Message: make(chan *Frame, 64),
		UserID:  userID,
		topics:  mapset.NewSet[string](),
		limiter: rate.NewLimiter(rate.Every(ingestInterval), ingestBurst),
		logger:  logger,
		closed:  make(chan struct{}),
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.pushMu.Lock()
		close(c.closed)
		close(c.Message)
		c.pushMu.Unlock()

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.mu.Unlock()
	})
}

func (c *Client) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *Client) Topics() []string {
	return c.topics.ToSlice()
}

// Push queues a frame without blocking. A client whose buffer is full
// loses the frame rather than stalling the hub. Holding pushMu across the
// closed check and the send keeps Push from racing Close into a send on a
// closed channel.
func (c *Client) Push(frame *Frame) {
	c.pushMu.Lock()
	defer c.pushMu.Unlock()

	if c.IsClosed() {
		return
	}

	select {
	case c.Message <- frame:
	default:
		c.logger.Warn("client buffer full, dropping frame",
			zap.String("user_id", c.UserID),
			zap.String("frame_type", frame.Type),
		)
	}
}

func (c *Client) ReadPump(core *Core) {
	defer func() {
		core.Unregister() <- c
		c.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.closed:
			return
		default:
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("ws read error",
					zap.String("user_id", c.UserID),
					zap.Error(err),
				)
			}
			return
		}

		if len(raw) == 0 {
			continue
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.Push(NewError(ErrorEvent, "malformed frame"))
			continue
		}

		c.dispatch(core, &frame)
	}
}

func (c *Client) dispatch(core *Core, frame *Frame) {
	switch frame.Type {
	case Subscribe:
		core.Subscribe(c, frame.Topic)

	case Unsubscribe:
		core.Unsubscribe(c, frame.Topic)

	case MessageSend:
		if !c.limiter.Allow() {
			c.Push(NewError(RateLimited, "too many messages, slow down"))
			return
		}

		data, err := json.Marshal(frame.Data)
		if err != nil {
			c.Push(NewError(ErrorEvent, "malformed frame"))
			return
		}

		var payload sendPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			c.Push(NewError(ErrorEvent, "malformed frame"))
			return
		}

		roomID := RoomIDFromTopic(frame.Topic)
		if roomID == "" {
			c.Push(NewError(ErrorEvent, "messages need a room topic"))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := core.sender.Send(ctx, roomID, c.UserID, payload.Text); err != nil {
			c.Push(NewError(ErrorEvent, err.Error()))
		}

	default:
		c.Push(NewError(ErrorEvent, "unknown frame type"))
	}
}

func (c *Client) WritePump() {
	defer c.Close()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-c.Message:
			if !ok {
				c.mu.Lock()
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				c.mu.Unlock()
				return
			}

			c.mu.Lock()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteJSON(frame)
			c.mu.Unlock()

			if err != nil {
				c.logger.Warn("ws write error",
					zap.String("user_id", c.UserID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.mu.Lock()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()

			if err != nil {
				return
			}

		case <-c.closed:
			return
		}
	}
}
