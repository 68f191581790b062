package realtime

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Inbound event names.
const (
	EventJoinGroups     = "join-groups"
	EventProgressUpdate = "progress-update"
	EventSendHecovacka  = "send-hecovacka"
)

// Outbound event names.
const (
	EventMemberProgressUpdate = "member-progress-update"
	EventNewHecovacka         = "new-hecovacka"
)

// Frame is the envelope of every WebSocket text frame in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ProgressUpdate is the payload of an inbound progress-update event. Fields
// other than GroupID are relayed to the group verbatim, whatever their JSON type.
type ProgressUpdate struct {
	GroupID  json.RawMessage `json:"groupId"`
	UserID   json.RawMessage `json:"userId,omitempty"`
	UserName json.RawMessage `json:"userName,omitempty"`
	Progress json.RawMessage `json:"progress,omitempty"`
	Goal     json.RawMessage `json:"goal,omitempty"`
}

// MemberProgressUpdate is sent to the other members of a group.
type MemberProgressUpdate struct {
	UserID    json.RawMessage `json:"userId,omitempty"`
	UserName  json.RawMessage `json:"userName,omitempty"`
	Progress  json.RawMessage `json:"progress,omitempty"`
	Goal      json.RawMessage `json:"goal,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// SendHecovacka is the payload of an inbound send-hecovacka event.
type SendHecovacka struct {
	GroupID      json.RawMessage `json:"groupId"`
	FromUserID   json.RawMessage `json:"fromUserId,omitempty"`
	FromUserName json.RawMessage `json:"fromUserName,omitempty"`
	ToUserID     json.RawMessage `json:"toUserId,omitempty"`
	ToUserName   json.RawMessage `json:"toUserName,omitempty"`
	Message      json.RawMessage `json:"message,omitempty"`
	Type         json.RawMessage `json:"type,omitempty"`
}

// NewHecovacka is sent to the other members of a group.
type NewHecovacka struct {
	FromUserID   json.RawMessage `json:"fromUserId,omitempty"`
	FromUserName json.RawMessage `json:"fromUserName,omitempty"`
	ToUserID     json.RawMessage `json:"toUserId,omitempty"`
	ToUserName   json.RawMessage `json:"toUserName,omitempty"`
	Message      json.RawMessage `json:"message,omitempty"`
	Type         json.RawMessage `json:"type,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// encodeFrame marshals an outbound event.
func encodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}

// groupKey normalises a JSON group id to the string the hub indexes by.
// Strings are used as-is and numbers by their shortest decimal form, so
// 7 and "7" name the same group. Anything else has no key.
func groupKey(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true
	default:
		return "", false
	}
}

// groupKeys decodes a join-groups payload. A payload that is not an array
// yields nil; elements without a key are skipped.
func groupKeys(raw json.RawMessage) []string {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	keys := make([]string, 0, len(elems))
	for _, e := range elems {
		if k, ok := groupKey(e); ok {
			keys = append(keys, k)
		}
	}
	return keys
}
