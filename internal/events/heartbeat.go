package events

import "time"

const HeartbeatTopic = "hr.system.heartbeat.v1"

type HeartbeatEvent struct {
	Sequence   int       `json:"sequence"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
