package nakama

const (
	// RpcCreateRound creates a private match for the calling learner.
	RpcCreateRound = "create_round"
	// RpcIssueExercise signs a predefined pair of numbers for sharing.
	RpcIssueExercise = "issue_exercise"

	// MatchNamePlaceValue is the authoritative match handler name registered with Nakama.
	MatchNamePlaceValue = "placevalue_match"

	// GameLabel identifies our matches in label queries.
	GameLabel = "placevalue"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartRound    int64 = 1
	OpDrop          int64 = 2
	OpConfirmEmpty  int64 = 3
	OpPool          int64 = 4
	OpWithdraw      int64 = 5
	OpRevealResult  int64 = 6
	OpReturnToSetup int64 = 7

	// Server -> Client events
	OpSnapshot       int64 = 101
	OpNotice         int64 = 102
	OpCelebrate      int64 = 103
	OpResultReady    int64 = 104
	OpResultRevealed int64 = 105
	OpError          int64 = 106
)

// Runtime env keys read in MatchInit and the RPCs.
const (
	EnvRandomMin      = "placevalue_random_min"
	EnvRandomMax      = "placevalue_random_max"
	EnvResultDelayMs  = "placevalue_result_delay_ms"
	EnvIdleTimeoutSec = "placevalue_idle_timeout_sec"
	EnvExerciseSecret = "placevalue_exercise_secret"
)

// Error codes carried in OpError payloads.
const (
	ErrCodeBadRequest = 400
	ErrCodeForbidden  = 403
	ErrCodeWrongStage = 409
)

const configPath = "data/game_config.yaml"
