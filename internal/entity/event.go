package entity

type EventType string

const (
	EventState     EventType = "game:state"
	EventTick      EventType = "game:tick"
	EventRoundOver EventType = "game:over"
)

// Event is pushed to the presentation layer whenever the game changes.
type Event struct {
	Type   EventType    `json:"type"`
	Game   *Snapshot    `json:"game"`
	Result *RoundResult `json:"result,omitempty"`
}
