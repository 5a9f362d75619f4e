package websocket

// Frame types pushed to clients.
const (
	LobbySnapshot = "lobby.snapshot"
	RoomsChanged  = "rooms.changed"
	RoomDeleted   = "room.deleted"

	MemberJoined  = "member.joined"
	MemberLeft    = "member.left"
	MemberRemoved = "member.removed"

	MessageReceived = "message.received"
	MessageHistory  = "message.history"

	UserUpdated = "user.updated"

	Subscribed   = "subscribed"
	Unsubscribed = "unsubscribed"

	ErrorEvent  = "error"
	JoinFailed  = "error.join"
	RateLimited = "error.rate_limited"
	Kicked      = "error.kicked"
)

// Frame types accepted from clients.
const (
	Subscribe   = "subscribe"
	Unsubscribe = "unsubscribe"
	MessageSend = "message.send"
)
