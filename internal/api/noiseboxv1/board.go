// Package noiseboxv1 defines the BoardService messages exchanged between the
// server and presentation clients. Messages are encoded as JSON.
package noiseboxv1

// PlaybackStatus is the controller state as seen by clients.
type PlaybackStatus string

const (
	PlaybackStatusIdle    PlaybackStatus = "idle"
	PlaybackStatusPlaying PlaybackStatus = "playing"
)

// NotificationType identifies a state notification.
type NotificationType string

const (
	NotificationTypeInitialState NotificationType = "initial_state"
	NotificationTypeStarted      NotificationType = "started"
	NotificationTypeStopped      NotificationType = "stopped"
	NotificationTypeSwitched     NotificationType = "switched"
	NotificationTypeFailed       NotificationType = "failed"
)

// Tile is one display-list entry.
type Tile struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	IsAd  bool   `json:"is_ad,omitempty"`
}

// PlaybackState is the currently playing sound, if any.
type PlaybackState struct {
	Status    PlaybackStatus `json:"status"`
	PlayingID string         `json:"playing_id,omitempty"`
}

// DisplayHints are the server's presentation defaults.
type DisplayHints struct {
	Theme   string `json:"theme"`
	Columns int    `json:"columns"`
}

type ListTilesRequest struct{}

type ListTilesResponse struct {
	Tiles []*Tile        `json:"tiles"`
	State *PlaybackState `json:"state"`
	Hints *DisplayHints  `json:"hints,omitempty"`
}

type TapRequest struct {
	ID string `json:"id"`
}

type TapResponse struct {
	State   *PlaybackState `json:"state"`
	Warning string         `json:"warning,omitempty"` // Non-fatal release failure
}

type GetStateRequest struct{}

type GetStateResponse struct {
	State *PlaybackState `json:"state"`
}

type SubscribeRequest struct{}

// StateNotification is streamed to subscribers after every state change.
type StateNotification struct {
	Type       NotificationType `json:"type"`
	SequenceNo uint64           `json:"sequence_no"`
	SoundID    string           `json:"sound_id,omitempty"`
	State      *PlaybackState   `json:"state"`
	Error      string           `json:"error,omitempty"`
}
