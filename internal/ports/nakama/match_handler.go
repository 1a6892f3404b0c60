package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"placevalue/internal/app"
	"placevalue/internal/config"
	"placevalue/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	MatchLabelKey_Game   = "game"
	MatchLabelKey_Screen = "screen"
	MatchLabelKey_Open   = "open"

	// MatchParamOwner carries the learner's user id from RpcCreateRound.
	MatchParamOwner = "owner"
)

// handoff names the screen change waiting for its perceptual delay.
type handoff int

const (
	handoffNone handoff = iota
	handoffFinishRound
	handoffCompleteConversion
)

// MatchState holds the authoritative runtime state for one learner's session.
type MatchState struct {
	OwnerUserID      string                      `json:"owner_user_id"`      // The only user allowed in the match
	Tick             int64                       `json:"tick"`               // Current tick of the match
	LastActivityTick int64                       `json:"last_activity_tick"` // Tick of the last join or message
	Pending          handoff                     `json:"pending"`            // Screen change waiting for HandoffAt
	HandoffAt        int64                       `json:"handoff_at"`         // Tick when Pending fires
	Config           config.GameConfig           `json:"-"`                  // Config after env overrides
	Presences        map[string]runtime.Presence `json:"-"`                  // Map UserId -> Presence for targeted messaging
	App              *app.Service                `json:"-"`                  // Place-value app service with game logic
	Exercises        *app.ExerciseService        `json:"-"`                  // Nil when no exercise secret is configured
	Game             *domain.Game                `json:"-"`                  // Current game (nil on the setup screen)
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg := applyEnvOverrides(config.GetGameConfig(), env, logger)

	state := &MatchState{
		Config:    cfg,
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil, cfg),
	}
	if owner, ok := params[MatchParamOwner].(string); ok {
		state.OwnerUserID = owner
	}
	if secret := env[EnvExerciseSecret]; secret != "" {
		state.Exercises = app.NewExerciseService(secret, cfg.ExerciseIssuer, cfg.ExerciseTokenTTL)
	}

	label, err := buildLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, cfg.TickRate, label
}

// applyEnvOverrides lets the runtime env replace selected config values.
func applyEnvOverrides(cfg config.GameConfig, env map[string]string, logger runtime.Logger) config.GameConfig {
	intVal := func(key string, dst *int) {
		val, ok := env[key]
		if !ok {
			return
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			logger.Warn("MatchInit: Ignoring %s=%q: %v", key, val, err)
			return
		}
		*dst = i
	}

	intVal(EnvRandomMin, &cfg.RandomMin)
	intVal(EnvRandomMax, &cfg.RandomMax)
	intVal(EnvIdleTimeoutSec, &cfg.IdleTimeoutSeconds)

	delayMs := -1
	intVal(EnvResultDelayMs, &delayMs)
	if delayMs >= 0 {
		cfg.ResultDelay = time.Duration(delayMs) * time.Millisecond
	}
	return cfg.Normalize()
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.OwnerUserID != "" && presence.GetUserId() != matchState.OwnerUserID {
		logger.Warn("MatchJoinAttempt: User %s rejected, match belongs to %s", presence.GetUserId(), matchState.OwnerUserID)
		return state, false, "Match belongs to another learner"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		if matchState.OwnerUserID == "" {
			matchState.OwnerUserID = p.GetUserId()
			logger.Debug("MatchJoin: Owner set to %s.", p.GetUserId())
		}
		matchState.Presences[p.GetUserId()] = p
	}
	matchState.LastActivityTick = tick

	mh.updateLabel(matchState, dispatcher, logger)

	// A rejoining learner needs the current screen straight away.
	mh.sendSnapshot(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave ends the session once the learner is gone; nothing is persisted.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		logger.Debug("MatchLeave: User %s left.", p.GetUserId())
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no learner.")
		return nil
	}

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick
	if len(messages) > 0 {
		matchState.LastActivityTick = tick
	}

	// Messages are applied strictly in arrival order.
	for _, msg := range messages {
		if matchState.OwnerUserID != "" && msg.GetUserId() != matchState.OwnerUserID {
			logger.Warn("MatchLoop: Ignoring message from non-owner %s", msg.GetUserId())
			continue
		}

		switch msg.GetOpCode() {
		case OpStartRound:
			mh.handleStartRound(matchState, dispatcher, logger, msg)
		case OpDrop:
			mh.handleDrop(matchState, dispatcher, logger, msg)
		case OpConfirmEmpty:
			mh.handleConfirmEmpty(matchState, dispatcher, logger, msg)
		case OpPool, OpWithdraw:
			mh.handleConversionMove(matchState, dispatcher, logger, msg)
		case OpRevealResult:
			mh.handleRevealResult(matchState, dispatcher, logger, msg)
		case OpReturnToSetup:
			mh.handleReturnToSetup(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processHandoff(matchState, dispatcher, logger)

	if idle := matchState.Config.IdleTicks(); idle > 0 && tick-matchState.LastActivityTick >= idle {
		logger.Info("MatchLoop: Terminating idle match after %d ticks.", tick-matchState.LastActivityTick)
		return nil
	}

	return matchState
}

func (mh *matchHandler) handleStartRound(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	request := StartRoundRequest{}
	if err := decodeJSON(msg.GetData(), &request); err != nil {
		logger.Warn("StartRound: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, ErrCodeBadRequest, "invalid start request")
		return
	}

	startCfg := startConfigFromRequest(request)
	if request.ExerciseToken != "" {
		if state.Exercises == nil {
			mh.sendError(state, dispatcher, logger, senderID, ErrCodeBadRequest, "exercises are not enabled")
			return
		}
		cfg, err := state.Exercises.Parse(request.ExerciseToken)
		if err != nil {
			logger.Warn("StartRound: Rejected exercise token from %s: %v", senderID, err)
			mh.sendError(state, dispatcher, logger, senderID, ErrCodeForbidden, app.ErrInvalidExercise.Error())
			return
		}
		startCfg = cfg
	}

	// Starting over discards any previous game.
	state.Pending = handoffNone
	state.HandoffAt = 0

	game, events := state.App.StartRound(startCfg)
	state.Game = game
	logger.Info("StartRound: %s started %d + %d (%s)", senderID, game.Round.Number1, game.Round.Number2, startCfg.Mode)

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) handleDrop(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	request := DropRequest{}
	if err := decodeJSON(msg.GetData(), &request); err != nil {
		logger.Warn("handleDrop: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, ErrCodeBadRequest, "invalid drop request")
		return
	}
	tile, err := parseTile(request.Tile)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, ErrCodeBadRequest, err.Error())
		return
	}

	result, events, err := state.App.Drop(state.Game, domain.ZoneID(request.Zone), tile)
	if err != nil {
		logger.Warn("handleDrop: User %s failed to drop %s into zone %d: %v", senderID, tile, request.Zone, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}

	mh.broadcastEvents(state, dispatcher, logger, events)

	if result.Phase == domain.PhaseComplete && result.Advanced {
		mh.scheduleHandoff(state, dispatcher, logger, handoffFinishRound)
	}
}

func (mh *matchHandler) handleConfirmEmpty(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	events, err := state.App.ConfirmEmptyZone(state.Game)
	if err != nil {
		logger.Warn("handleConfirmEmpty: User %s failed to confirm empty zone: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}

	mh.broadcastEvents(state, dispatcher, logger, events)

	if state.Game.Round.Phase == domain.PhaseComplete {
		mh.scheduleHandoff(state, dispatcher, logger, handoffFinishRound)
	}
}

func (mh *matchHandler) handleConversionMove(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	request := TileRequest{}
	if err := decodeJSON(msg.GetData(), &request); err != nil {
		logger.Warn("handleConversionMove: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, ErrCodeBadRequest, "invalid tile request")
		return
	}
	tile, err := parseTile(request.Tile)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, ErrCodeBadRequest, err.Error())
		return
	}

	var (
		result app.PoolResult
		events []app.Event
	)
	if msg.GetOpCode() == OpPool {
		result, events, err = state.App.Pool(state.Game, tile)
	} else {
		result, events, err = state.App.Withdraw(state.Game, tile)
	}
	if err != nil {
		logger.Warn("handleConversionMove: User %s failed to move %s: %v", senderID, tile, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}

	mh.broadcastEvents(state, dispatcher, logger, events)

	if result.Settled && state.Pending == handoffNone {
		mh.scheduleHandoff(state, dispatcher, logger, handoffCompleteConversion)
	}
}

func (mh *matchHandler) handleRevealResult(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	events, err := state.App.RevealSum(state.Game)
	if err != nil {
		logger.Warn("handleRevealResult: User %s failed to reveal result: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}

	mh.broadcastEvents(state, dispatcher, logger, events)
}

// handleReturnToSetup abandons the current game, whatever its stage.
func (mh *matchHandler) handleReturnToSetup(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	logger.Debug("handleReturnToSetup: User %s returned to setup.", msg.GetUserId())

	state.Game = nil
	state.Pending = handoffNone
	state.HandoffAt = 0

	mh.updateLabel(state, dispatcher, logger)
	mh.sendSnapshot(state, dispatcher, logger)
}

// scheduleHandoff runs next after the configured delay, or immediately when the
// delay is zero. The loop keeps ticking in the meantime.
func (mh *matchHandler) scheduleHandoff(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, next handoff) {
	state.Pending = next
	state.HandoffAt = state.Tick + state.Config.DelayTicks()
	logger.Debug("scheduleHandoff: Hand-off %d will run at tick %d (current %d)", next, state.HandoffAt, state.Tick)

	if state.HandoffAt <= state.Tick {
		mh.processHandoff(state, dispatcher, logger)
	}
}

func (mh *matchHandler) processHandoff(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Pending == handoffNone || state.Tick < state.HandoffAt {
		return
	}

	next := state.Pending
	state.Pending = handoffNone
	state.HandoffAt = 0

	var (
		events []app.Event
		err    error
	)
	switch next {
	case handoffFinishRound:
		var result app.FinishResult
		result, events, err = state.App.Finish(state.Game)
		if err == nil {
			logger.Debug("processHandoff: Round finished (needs_conversion=%t, pooled=%+v)", result.NeedsConversion, result.Pooled)
		}
	case handoffCompleteConversion:
		events, err = state.App.CompleteConversion(state.Game)
	}
	if err != nil {
		logger.Error("processHandoff: Hand-off %d failed: %v", next, err)
		return
	}

	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) broadcastEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, data, ok, err := encodeEvent(ev)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}
	if !ok {
		logger.Debug("Event: %s has no wire form", ev.Kind)
		return
	}

	if err := dispatcher.BroadcastMessage(opCode, data, nil, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.broadcastEvent(state, dispatcher, logger, app.Event{
		Kind:    app.EventStateChanged,
		Payload: app.StateChangedPayload{Snapshot: state.App.Snapshot(state.Game)},
	})
}

// sendError sends an ErrorMessage to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(ErrorMessage{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal ErrorMessage: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpError, bytes, []runtime.Presence{presence}, nil, true)
}

// errorCode maps stage errors to 409 and everything else to 400.
func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrNoActiveGame),
		errors.Is(err, app.ErrNotDecomposing),
		errors.Is(err, app.ErrNotConverting),
		errors.Is(err, app.ErrNotShowingResult),
		errors.Is(err, domain.ErrRoundComplete):
		return ErrCodeWrongStage
	default:
		return ErrCodeBadRequest
	}
}

// buildLabel renders the match label, e.g. {"game":"placevalue","open":false,"screen":"decompose"}.
func buildLabel(state *MatchState) (string, error) {
	screen := domain.ScreenSetup
	if state.Game != nil {
		screen = state.Game.Screen
	}

	label, err := structpb.NewStruct(map[string]interface{}{
		MatchLabelKey_Game:   GameLabel,
		MatchLabelKey_Screen: string(screen),
		MatchLabelKey_Open:   state.OwnerUserID == "",
	})
	if err != nil {
		return "", err
	}
	labelBytes, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(label)
	if err != nil {
		return "", err
	}
	return string(labelBytes), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := buildLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminating with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
