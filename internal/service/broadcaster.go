package service

// Message types pushed to viewers
const (
	MsgRender = "render"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle).
// Broadcast runs while the machine is locked and must not block.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{})
}
