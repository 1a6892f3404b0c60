package nakama

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"placevalue/internal/app"
	"placevalue/internal/domain"
)

// StartRoundRequest is the OpStartRound payload. Operands stay raw because the
// setup form may send numbers, numeric strings or nothing at all.
type StartRoundRequest struct {
	Mode          string          `json:"mode"`
	Number1       json.RawMessage `json:"number1,omitempty"`
	Number2       json.RawMessage `json:"number2,omitempty"`
	ExerciseToken string          `json:"exercise_token,omitempty"`
}

type DropRequest struct {
	Zone int    `json:"zone"`
	Tile string `json:"tile"`
}

// TileRequest is shared by OpPool and OpWithdraw.
type TileRequest struct {
	Tile string `json:"tile"`
}

type NoticeMessage struct {
	Kind       string             `json:"kind"`
	Message    string             `json:"message"`
	Zone       int                `json:"zone,omitempty"`
	Tile       string             `json:"tile,omitempty"`
	Conversion *domain.Conversion `json:"conversion,omitempty"`
}

type CelebrateMessage struct {
	Reason string `json:"reason"`
}

type ResultReadyMessage struct {
	Number1 int              `json:"number1"`
	Number2 int              `json:"number2"`
	Tiles   domain.TileCount `json:"tiles"`
}

type ResultRevealedMessage struct {
	Number1 int `json:"number1"`
	Number2 int `json:"number2"`
	Sum     int `json:"sum"`
}

type ErrorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// decodeJSON accepts an empty payload as an empty object.
func decodeJSON(data []byte, v interface{}) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// startConfigFromRequest maps the wire request to an app start configuration.
func startConfigFromRequest(req StartRoundRequest) app.StartConfig {
	cfg := app.StartConfig{Mode: app.ParseMode(req.Mode)}
	if cfg.Mode == app.ModePredefined {
		cfg.Number1 = operandFromRaw(req.Number1)
		cfg.Number2 = operandFromRaw(req.Number2)
	}
	return cfg
}

// operandFromRaw returns nil when the operand is absent. Anything that is not a
// non-negative number normalises to 0.
func operandFromRaw(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	n := 0
	var f float64
	var s string
	switch {
	case json.Unmarshal(raw, &f) == nil:
		if f > 0 && !math.IsInf(f, 0) {
			n = int(math.Min(math.Floor(f), 1_000_000_000))
		}
	case json.Unmarshal(raw, &s) == nil:
		n = app.ParseOperand(s)
	}
	return &n
}

func parseTile(s string) (domain.TileType, error) {
	t, err := domain.ParseTileType(s)
	if err != nil {
		return "", fmt.Errorf("tile %q: %w", s, err)
	}
	return t, nil
}

// encodeEvent maps an app event to its opcode and JSON payload.
// ok is false for events that have no wire form of their own.
func encodeEvent(ev app.Event) (opCode int64, data []byte, ok bool, err error) {
	var payload interface{}

	switch ev.Kind {
	case app.EventStateChanged:
		opCode = OpSnapshot
		payload = ev.Payload.(app.StateChangedPayload).Snapshot
	case app.EventNotice:
		opCode = OpNotice
		p := ev.Payload.(app.NoticePayload)
		payload = NoticeMessage{
			Kind:       string(p.Kind),
			Message:    p.Message,
			Zone:       int(p.Zone),
			Tile:       string(p.Tile),
			Conversion: p.Conversion,
		}
	case app.EventCelebrate:
		opCode = OpCelebrate
		payload = CelebrateMessage{Reason: ev.Payload.(app.CelebratePayload).Reason}
	case app.EventResultReady:
		opCode = OpResultReady
		p := ev.Payload.(app.ResultReadyPayload)
		payload = ResultReadyMessage{Number1: p.Number1, Number2: p.Number2, Tiles: p.Tiles}
	case app.EventResultRevealed:
		opCode = OpResultRevealed
		p := ev.Payload.(app.ResultRevealedPayload)
		payload = ResultRevealedMessage{Number1: p.Number1, Number2: p.Number2, Sum: p.Sum}
	default:
		return 0, nil, false, nil
	}

	data, err = json.Marshal(payload)
	if err != nil {
		return 0, nil, false, err
	}
	return opCode, data, true, nil
}
