package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"placevalue/internal/app"
	"placevalue/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// CreateRoundResponse is the payload returned by RpcCreateRound.
type CreateRoundResponse struct {
	MatchID string `json:"match_id"`
}

// IssueExerciseRequest is the RpcIssueExercise payload.
type IssueExerciseRequest struct {
	Number1 *int `json:"number1"`
	Number2 *int `json:"number2"`
}

// IssueExerciseResponse carries the signed exercise token.
type IssueExerciseResponse struct {
	Token string `json:"token"`
}

// matchCreator is the slice of runtime.NakamaModule RpcCreateRound needs.
type matchCreator interface {
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

// RegisterRPCs registers Nakama RPC endpoints. cfg is the module config loaded in InitModule.
func RegisterRPCs(initializer runtime.Initializer, cfg config.GameConfig) error {
	if err := initializer.RegisterRpc(RpcCreateRound, rpcCreateRound); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcIssueExercise, newRpcIssueExercise(cfg))
}

func rpcCreateRound(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return createRound(ctx, logger, nk)
}

// createRound opens a private match owned by the caller. The round itself
// starts when the client sends OpStartRound.
func createRound(ctx context.Context, logger runtime.Logger, nk matchCreator) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("Authentication required", 16) // UNAUTHENTICATED
	}

	matchID, err := nk.MatchCreate(ctx, MatchNamePlaceValue, map[string]interface{}{
		MatchParamOwner: userID,
	})
	if err != nil {
		logger.Error("RpcCreateRound [User:%s]: Failed to create match: %v", userID, err)
		return "", runtime.NewError("Internal error", 13) // INTERNAL
	}

	logger.Info("RpcCreateRound [User:%s]: Created match %s", userID, matchID)
	b, _ := json.Marshal(CreateRoundResponse{MatchID: matchID})
	return string(b), nil
}

// newRpcIssueExercise signs tokens with the same issuer and TTL the match handler verifies against.
func newRpcIssueExercise(cfg config.GameConfig) func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
		return issueExercise(logger, app.NewExerciseService(env[EnvExerciseSecret], cfg.ExerciseIssuer, cfg.ExerciseTokenTTL), payload)
	}
}

func issueExercise(logger runtime.Logger, exercises *app.ExerciseService, payload string) (string, error) {
	var req IssueExerciseRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
	}
	if req.Number1 == nil || req.Number2 == nil {
		return "", runtime.NewError("number1 and number2 are required", 3)
	}
	if *req.Number1 < 0 || *req.Number2 < 0 {
		return "", runtime.NewError("Numbers must not be negative", 3)
	}

	token, err := exercises.Issue(*req.Number1, *req.Number2)
	if err != nil {
		logger.Error("RpcIssueExercise: Failed to issue exercise: %v", err)
		return "", runtime.NewError("Exercises are not enabled", 9) // FAILED_PRECONDITION
	}

	b, _ := json.Marshal(IssueExerciseResponse{Token: token})
	return string(b), nil
}
