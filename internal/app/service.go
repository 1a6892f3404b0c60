package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"placevalue/internal/config"
	"placevalue/internal/domain"
)

// Service contains the place-value game use-cases operating on domain state.
// It is not safe for concurrent use; callers serialise events per game.
type Service struct {
	rng       *rand.Rand
	randomMin int
	randomMax int
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand, cfg config.GameConfig) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cfg = cfg.Normalize()
	return &Service{
		rng:       rng,
		randomMin: cfg.RandomMin,
		randomMax: cfg.RandomMax,
	}
}

var (
	ErrNoActiveGame        = errors.New("no active game")
	ErrNotDecomposing      = errors.New("game is not in the decomposition stage")
	ErrNotConverting       = errors.New("game is not in the conversion stage")
	ErrNotShowingResult    = errors.New("game is not showing a result")
	ErrRoundNotComplete    = errors.New("round not complete")
	ErrConversionUnsettled = errors.New("conversion not settled")
)

// DropResult reports the outcome of a single tile drop.
type DropResult struct {
	Accepted bool
	Advanced bool
	Phase    domain.Phase
}

// FinishResult reports what follows a completed round.
type FinishResult struct {
	NeedsConversion bool
	Pooled          domain.TileCount
}

// PoolResult reports the outcome of moving one tile in or out of the conversion area.
type PoolResult struct {
	Accepted   bool
	Conversion *domain.Conversion
	Settled    bool
}

// StartRound creates a fresh game from the setup configuration.
func (s *Service) StartRound(cfg StartConfig) (*domain.Game, []Event) {
	mode := ParseMode(string(cfg.Mode))

	var n1, n2 int
	if mode == ModeRandom {
		n1, n2 = s.draw(), s.draw()
	} else {
		n1, n2 = operandOrZero(cfg.Number1), operandOrZero(cfg.Number2)
	}

	game := &domain.Game{
		Screen: domain.ScreenDecompose,
		Round:  domain.NewRound(n1, n2),
	}

	events := []Event{
		{
			Kind:    EventRoundStarted,
			Payload: RoundStartedPayload{Mode: mode, Number1: n1, Number2: n2},
		},
		stateChanged(game),
	}
	return game, events
}

// Drop places a tile into a zone. Wrong-zone and limit-reached drops are
// rejected with a notice; they are not errors.
func (s *Service) Drop(game *domain.Game, zone domain.ZoneID, tile domain.TileType) (DropResult, []Event, error) {
	if game == nil {
		return DropResult{}, nil, ErrNoActiveGame
	}
	if game.Screen != domain.ScreenDecompose || game.Round == nil {
		return DropResult{}, nil, ErrNotDecomposing
	}
	round := game.Round

	advanced, err := round.Drop(zone, tile)
	switch {
	case errors.Is(err, domain.ErrWrongZone):
		active, _ := round.ActiveZone()
		return DropResult{Phase: round.Phase}, []Event{noticeEvent(NoticePayload{
			Kind:    NoticeWrongZone,
			Message: fmt.Sprintf("Drop your tiles in zone %d", active),
			Zone:    zone,
			Tile:    tile,
		})}, nil
	case errors.Is(err, domain.ErrLimitReached):
		return DropResult{Phase: round.Phase}, []Event{noticeEvent(NoticePayload{
			Kind:    NoticeLimitReached,
			Message: fmt.Sprintf("%d needs %d %s", round.Operand(zone), round.Required(zone).Get(tile), tile),
			Zone:    zone,
			Tile:    tile,
		})}, nil
	case err != nil:
		return DropResult{Phase: round.Phase}, nil, err
	}

	events := []Event{stateChanged(game)}
	if advanced {
		events = append(events, zoneCompleted(zone)...)
	}
	return DropResult{Accepted: true, Advanced: advanced, Phase: round.Phase}, events, nil
}

// ConfirmEmptyZone closes the active zone when its number needs no tiles.
func (s *Service) ConfirmEmptyZone(game *domain.Game) ([]Event, error) {
	if game == nil {
		return nil, ErrNoActiveGame
	}
	if game.Screen != domain.ScreenDecompose || game.Round == nil {
		return nil, ErrNotDecomposing
	}
	zone, _ := game.Round.ActiveZone()
	if err := game.Round.ConfirmEmpty(); err != nil {
		return nil, err
	}
	return append([]Event{stateChanged(game)}, zoneCompleted(zone)...), nil
}

// Finish pools both zones once the round is complete and moves the game to the
// conversion stage, or straight to the result when no carry is needed.
func (s *Service) Finish(game *domain.Game) (FinishResult, []Event, error) {
	if game == nil {
		return FinishResult{}, nil, ErrNoActiveGame
	}
	if game.Screen != domain.ScreenDecompose || game.Round == nil {
		return FinishResult{}, nil, ErrNotDecomposing
	}
	if game.Round.Phase != domain.PhaseComplete {
		return FinishResult{}, nil, ErrRoundNotComplete
	}

	pooled := game.Round.Pooled()
	result := FinishResult{NeedsConversion: domain.NeedsConversion(pooled), Pooled: pooled}

	if !result.NeedsConversion {
		return result, s.complete(game, pooled), nil
	}

	game.Conversion = domain.NewConversionTable(pooled)
	game.Screen = domain.ScreenConvert
	events := []Event{
		{Kind: EventConversionStarted, Payload: ConversionStartedPayload{Pool: pooled}},
		stateChanged(game),
	}
	return result, events, nil
}

// Pool moves one tile into the conversion area.
func (s *Service) Pool(game *domain.Game, tile domain.TileType) (PoolResult, []Event, error) {
	if err := requireConverting(game); err != nil {
		return PoolResult{}, nil, err
	}
	table := game.Conversion

	conv, err := table.Pool(tile)
	if errors.Is(err, domain.ErrNoTilesLeft) {
		return PoolResult{Settled: table.Settled()}, []Event{noticeEvent(NoticePayload{
			Kind:    NoticeNoTilesLeft,
			Message: fmt.Sprintf("No %s left", tile),
			Tile:    tile,
		})}, nil
	}
	if err != nil {
		return PoolResult{}, nil, err
	}

	var events []Event
	if conv != nil {
		events = append(events, noticeEvent(NoticePayload{
			Kind:       NoticeConverted,
			Message:    fmt.Sprintf("Converted! %d×10 %s → %d %s", conv.Sets, conv.From, conv.Sets, conv.To),
			Tile:       conv.From,
			Conversion: conv,
		}))
	}
	events = append(events, stateChanged(game))

	res := PoolResult{Accepted: true, Conversion: conv, Settled: table.Settled()}
	if res.Settled {
		events = append(events, Event{Kind: EventCelebrate, Payload: CelebratePayload{Reason: "conversion_settled"}})
	}
	return res, events, nil
}

// Withdraw moves one tile back out of the conversion area.
func (s *Service) Withdraw(game *domain.Game, tile domain.TileType) (PoolResult, []Event, error) {
	if err := requireConverting(game); err != nil {
		return PoolResult{}, nil, err
	}
	table := game.Conversion

	err := table.Withdraw(tile)
	if errors.Is(err, domain.ErrNothingPooled) {
		return PoolResult{Settled: table.Settled()}, []Event{noticeEvent(NoticePayload{
			Kind:    NoticeNothingPooled,
			Message: fmt.Sprintf("No %s in the conversion area", tile),
			Tile:    tile,
		})}, nil
	}
	if err != nil {
		return PoolResult{}, nil, err
	}
	return PoolResult{Accepted: true, Settled: table.Settled()}, []Event{stateChanged(game)}, nil
}

// CompleteConversion hands the settled tiles to the result display.
func (s *Service) CompleteConversion(game *domain.Game) ([]Event, error) {
	if err := requireConverting(game); err != nil {
		return nil, err
	}
	if !game.Conversion.Settled() {
		return nil, ErrConversionUnsettled
	}
	return s.complete(game, game.Conversion.Tally()), nil
}

// RevealSum shows number1 + number2 on the result screen.
func (s *Service) RevealSum(game *domain.Game) ([]Event, error) {
	if game == nil {
		return nil, ErrNoActiveGame
	}
	if game.Screen != domain.ScreenResult || game.Result == nil {
		return nil, ErrNotShowingResult
	}
	game.Revealed = true
	res := game.Result
	return []Event{
		{
			Kind:    EventResultRevealed,
			Payload: ResultRevealedPayload{Number1: res.Number1, Number2: res.Number2, Sum: res.Sum},
		},
		stateChanged(game),
	}, nil
}

func (s *Service) complete(game *domain.Game, tiles domain.TileCount) []Event {
	result := domain.NewFinalResult(game.Round.Number1, game.Round.Number2, tiles)
	game.Result = &result
	game.Conversion = nil
	game.Screen = domain.ScreenResult

	return []Event{
		{
			Kind:    EventResultReady,
			Payload: ResultReadyPayload{Number1: result.Number1, Number2: result.Number2, Tiles: tiles},
		},
		stateChanged(game),
	}
}

func (s *Service) draw() int {
	return s.rng.Intn(s.randomMax-s.randomMin+1) + s.randomMin
}

func requireConverting(game *domain.Game) error {
	if game == nil {
		return ErrNoActiveGame
	}
	if game.Screen != domain.ScreenConvert || game.Conversion == nil {
		return ErrNotConverting
	}
	return nil
}

func zoneCompleted(zone domain.ZoneID) []Event {
	return []Event{
		noticeEvent(NoticePayload{
			Kind:    NoticeZoneCompleted,
			Message: fmt.Sprintf("Zone %d is correct!", zone),
			Zone:    zone,
		}),
		{Kind: EventCelebrate, Payload: CelebratePayload{Reason: "zone_completed"}},
	}
}

// Snapshot returns the render-ready state of game.
func (s *Service) Snapshot(game *domain.Game) Snapshot {
	return SnapshotOf(game)
}
