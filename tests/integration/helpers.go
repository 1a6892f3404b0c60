package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	nk "placevalue/internal/ports/nakama"

	"github.com/heroiclabs/nakama-common/rtapi"
	"github.com/heroiclabs/nakama-go/v2"
)

const (
	ServerKey = "defaultkey"
	Host      = "127.0.0.1"
	Port      = 7350
)

type TestClient struct {
	Client  *nakama.Client
	Session *nakama.Session
	Socket  *nakama.Socket
	UserID  string

	matchData chan *rtapi.MatchData
}

func NewTestClient(t *testing.T) *TestClient {
	t.Helper()
	client := nakama.NewClient(ServerKey, Host, Port, false)

	deviceID := fmt.Sprintf("test_device_%d", time.Now().UnixNano())
	session, err := client.AuthenticateDevice(context.Background(), deviceID, true, "")
	if err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}

	tc := &TestClient{
		Client:    client,
		Session:   session,
		UserID:    session.UserId,
		matchData: make(chan *rtapi.MatchData, 256),
	}

	socket := client.NewSocket()
	// Install the handler before connecting so no early snapshot is missed.
	socket.OnMatchData = func(data *rtapi.MatchData) {
		tc.matchData <- data
	}
	if err := socket.Connect(context.Background(), session, true); err != nil {
		t.Fatalf("Failed to connect socket: %v", err)
	}
	tc.Socket = socket

	return tc
}

func (tc *TestClient) Close() {
	if tc.Socket != nil {
		tc.Socket.Close()
	}
}

// CreateAndJoinRound calls the create_round RPC and joins the returned match.
func (tc *TestClient) CreateAndJoinRound(t *testing.T) string {
	t.Helper()
	rpc, err := tc.Client.RpcFunc(context.Background(), tc.Session, nk.RpcCreateRound, "{}")
	if err != nil {
		t.Fatalf("RPC %s failed: %v", nk.RpcCreateRound, err)
	}

	var resp nk.CreateRoundResponse
	if err := json.Unmarshal([]byte(rpc.Payload), &resp); err != nil || resp.MatchID == "" {
		t.Fatalf("RPC %s returned %q (%v)", nk.RpcCreateRound, rpc.Payload, err)
	}

	if _, err := tc.Socket.JoinMatch(context.Background(), nil, resp.MatchID, nil); err != nil {
		t.Fatalf("Failed to join match %s: %v", resp.MatchID, err)
	}
	return resp.MatchID
}

// Send marshals payload as JSON and sends it with opCode.
func (tc *TestClient) Send(t *testing.T, matchID string, opCode int64, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if _, err := tc.Socket.SendMatchState(context.Background(), matchID, opCode, data, nil); err != nil {
		t.Fatalf("Failed to send opcode %d: %v", opCode, err)
	}
}

// WaitFor skips other opcodes until opCode arrives and decodes it into out.
func (tc *TestClient) WaitFor(t *testing.T, opCode int64, timeout time.Duration, out interface{}) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case data := <-tc.matchData:
			if data.OpCode != opCode {
				continue
			}
			if out != nil {
				if err := json.Unmarshal(data.Data, out); err != nil {
					t.Fatalf("decode opcode %d: %v", opCode, err)
				}
			}
			return
		case <-deadline:
			t.Fatalf("Timeout waiting for OpCode %d", opCode)
		}
	}
}
