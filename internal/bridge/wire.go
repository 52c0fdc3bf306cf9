package bridge

import "encoding/json"

// Frame types spoken with the relay. The relay forwards "message"
// payloads verbatim between the peers of a channel and answers control
// frames itself.
const (
	frameJoin       = "join"
	frameJoined     = "joined"
	frameMessage    = "message"
	framePeerJoined = "peer_joined"
	framePeerLeft   = "peer_left"
	frameError      = "error"
)

// roleController identifies this side of a channel to the relay. The
// canvas plugin joins the same channel as "canvas".
const roleController = "controller"

// frame is one relay protocol frame. Only the fields matching the
// frame type are set.
type frame struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel,omitempty"`
	Role    string          `json:"role,omitempty"`
	Peers   int             `json:"peers,omitempty"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
