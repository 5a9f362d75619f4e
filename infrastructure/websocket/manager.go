package websocket

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	ErrTopicNotFound = errors.New("topic not found")

	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
)

type topic struct {
	name    string
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

// TopicManager indexes connected clients by the topics they watch. A
// topic exists only while at least one client is subscribed.
type TopicManager struct {
	topics map[string]*topic
	mu     sync.RWMutex
}

func NewTopicManager() *TopicManager {
	return &TopicManager{
		topics: make(map[string]*topic),
	}
}

func (tm *TopicManager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

func (tm *TopicManager) Subscribe(cl *Client, name string) {
	tm.mu.Lock()
	t, ok := tm.topics[name]
	if !ok {
		t = &topic{
			name:    name,
			clients: make(map[*Client]struct{}),
		}
		tm.topics[name] = t
	}
	tm.mu.Unlock()

	t.mu.Lock()
	t.clients[cl] = struct{}{}
	t.mu.Unlock()

	cl.topics.Add(name)
}

func (tm *TopicManager) Unsubscribe(cl *Client, name string) {
	tm.mu.Lock()
	t, ok := tm.topics[name]
	tm.mu.Unlock()

	if !ok {
		return
	}

	t.mu.Lock()
	delete(t.clients, cl)
	empty := len(t.clients) == 0
	t.mu.Unlock()

	cl.topics.Remove(name)

	if empty {
		tm.mu.Lock()
		t.mu.RLock()
		if len(t.clients) == 0 {
			delete(tm.topics, name)
		}
		t.mu.RUnlock()
		tm.mu.Unlock()
	}
}

// RemoveClient drops the client from every topic it watches.
func (tm *TopicManager) RemoveClient(cl *Client) {
	for _, name := range cl.Topics() {
		tm.Unsubscribe(cl, name)
	}
	cl.Close()
}

func (tm *TopicManager) Broadcast(frame *Frame) error {
	tm.mu.RLock()
	t, ok := tm.topics[frame.Topic]
	tm.mu.RUnlock()

	if !ok {
		return ErrTopicNotFound
	}

	// Snapshot the subscribers so the lock is not held while pushing.
	t.mu.RLock()
	clients := make([]*Client, 0, len(t.clients))
	for cl := range t.clients {
		clients = append(clients, cl)
	}
	t.mu.RUnlock()

	for _, cl := range clients {
		cl.Push(frame)
	}

	return nil
}

// Subscribers returns the clients currently watching a topic.
func (tm *TopicManager) Subscribers(name string) []*Client {
	tm.mu.RLock()
	t, ok := tm.topics[name]
	tm.mu.RUnlock()

	if !ok {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	clients := make([]*Client, 0, len(t.clients))
	for cl := range t.clients {
		clients = append(clients, cl)
	}
	return clients
}

func (tm *TopicManager) DisconnectAll() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for _, t := range tm.topics {
		t.mu.Lock()
		for cl := range t.clients {
			cl.Close()
		}
		t.mu.Unlock()
	}

	tm.topics = make(map[string]*topic)
}

func (tm *TopicManager) TopicStats(name string) (clientCount int, exists bool) {
	tm.mu.RLock()
	t, ok := tm.topics[name]
	tm.mu.RUnlock()

	if !ok {
		return 0, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.clients), true
}
