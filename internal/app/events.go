package app

import "placevalue/internal/domain"

// EventKind identifies emitted game events for dispatch to the presentation layer.
type EventKind string

const (
	EventRoundStarted      EventKind = "round_started"
	EventStateChanged      EventKind = "state_changed"
	EventNotice            EventKind = "notice"
	EventCelebrate         EventKind = "celebrate"
	EventConversionStarted EventKind = "conversion_started"
	EventResultReady       EventKind = "result_ready"
	EventResultRevealed    EventKind = "result_revealed"
)

// NoticeKind classifies transient advisory messages.
type NoticeKind string

const (
	NoticeWrongZone     NoticeKind = "wrong-zone"
	NoticeLimitReached  NoticeKind = "limit-reached"
	NoticeConverted     NoticeKind = "converted"
	NoticeNoTilesLeft   NoticeKind = "no-tiles-left"
	NoticeNothingPooled NoticeKind = "nothing-pooled"
	NoticeZoneCompleted NoticeKind = "zone-completed"
)

// Event is an app event; Payload holds one of the *Payload types below.
type Event struct {
	Kind    EventKind
	Payload any
}

type RoundStartedPayload struct {
	Mode    Mode
	Number1 int
	Number2 int
}

type StateChangedPayload struct {
	Snapshot Snapshot
}

type NoticePayload struct {
	Kind       NoticeKind
	Message    string
	Zone       domain.ZoneID
	Tile       domain.TileType
	Conversion *domain.Conversion
}

// CelebratePayload cues a visual effect. Nothing waits for it to finish.
type CelebratePayload struct {
	Reason string
}

type ConversionStartedPayload struct {
	Pool domain.TileCount
}

// ResultReadyPayload carries the final tiles; the sum is revealed separately.
type ResultReadyPayload struct {
	Number1 int
	Number2 int
	Tiles   domain.TileCount
}

type ResultRevealedPayload struct {
	Number1 int
	Number2 int
	Sum     int
}

func noticeEvent(p NoticePayload) Event {
	return Event{Kind: EventNotice, Payload: p}
}

func stateChanged(game *domain.Game) Event {
	return Event{Kind: EventStateChanged, Payload: StateChangedPayload{Snapshot: SnapshotOf(game)}}
}
