package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"placevalue/internal/app"
	"placevalue/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

type fakeMatchCreator struct {
	module string
	params map[string]interface{}
	err    error
}

func (f *fakeMatchCreator) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.module = module
	f.params = params
	if f.err != nil {
		return "", f.err
	}
	return "match-1.nakama", nil
}

func TestCreateRound(t *testing.T) {
	creator := &fakeMatchCreator{}
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, testUser)

	raw, err := createRound(ctx, noopLogger{}, creator)
	if err != nil {
		t.Fatalf("createRound error: %v", err)
	}
	var resp CreateRoundResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.MatchID != "match-1.nakama" {
		t.Fatalf("MatchID = %q", resp.MatchID)
	}
	if creator.module != MatchNamePlaceValue {
		t.Fatalf("module = %q, want %q", creator.module, MatchNamePlaceValue)
	}
	if creator.params[MatchParamOwner] != testUser {
		t.Fatalf("owner param = %v, want %s", creator.params[MatchParamOwner], testUser)
	}
}

func TestCreateRoundErrors(t *testing.T) {
	if _, err := createRound(context.Background(), noopLogger{}, &fakeMatchCreator{}); err == nil {
		t.Fatal("Expected error without a user")
	}

	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, testUser)
	if _, err := createRound(ctx, noopLogger{}, &fakeMatchCreator{err: errors.New("boom")}); err == nil {
		t.Fatal("Expected error when match creation fails")
	}
}

func TestIssueExercise(t *testing.T) {
	exercises := app.NewExerciseService("secret", "placevalue", time.Hour)

	raw, err := issueExercise(noopLogger{}, exercises, `{"number1":45,"number2":67}`)
	if err != nil {
		t.Fatalf("issueExercise error: %v", err)
	}
	var resp IssueExerciseResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	cfg, err := exercises.Parse(resp.Token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if *cfg.Number1 != 45 || *cfg.Number2 != 67 {
		t.Fatalf("operands = %d,%d, want 45,67", *cfg.Number1, *cfg.Number2)
	}
}

func TestIssueExerciseRejects(t *testing.T) {
	tests := []struct {
		name      string
		exercises *app.ExerciseService
		payload   string
	}{
		{name: "InvalidPayload", exercises: app.NewExerciseService("secret", "placevalue", time.Hour), payload: `not json`},
		{name: "MissingNumber", exercises: app.NewExerciseService("secret", "placevalue", time.Hour), payload: `{"number1":1}`},
		{name: "Negative", exercises: app.NewExerciseService("secret", "placevalue", time.Hour), payload: `{"number1":-1,"number2":2}`},
		{name: "NoSecret", exercises: app.NewExerciseService("", "placevalue", time.Hour), payload: `{"number1":1,"number2":2}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := issueExercise(noopLogger{}, test.exercises, test.payload); err == nil {
				t.Fatal("Expected error")
			}
		})
	}
}

func TestRpcIssueExerciseUsesModuleConfig(t *testing.T) {
	cfg := config.Default()
	cfg.ExerciseIssuer = "classroom-7"
	cfg.ExerciseTokenTTL = 2 * time.Hour
	rpc := newRpcIssueExercise(cfg)

	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, map[string]string{EnvExerciseSecret: "secret"})
	raw, err := rpc(ctx, noopLogger{}, nil, nil, `{"number1":23,"number2":19}`)
	if err != nil {
		t.Fatalf("rpc error: %v", err)
	}
	var resp IssueExerciseResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if _, err := app.NewExerciseService("secret", cfg.ExerciseIssuer, cfg.ExerciseTokenTTL).Parse(resp.Token); err != nil {
		t.Fatalf("Parse with module config: %v", err)
	}
	defaults := config.Default()
	if _, err := app.NewExerciseService("secret", defaults.ExerciseIssuer, defaults.ExerciseTokenTTL).Parse(resp.Token); !errors.Is(err, app.ErrInvalidExercise) {
		t.Fatalf("Parse with default issuer err = %v, want ErrInvalidExercise", err)
	}
}
