package tui

import (
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"placevalue/internal/app"
	"placevalue/internal/config"
	"placevalue/internal/domain"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

func newTestModel(delay time.Duration) Model {
	return New(Options{
		Service:     app.NewService(rand.New(rand.NewSource(1)), config.Default()),
		ResultDelay: delay,
		Logger:      log.New(io.Discard),
	})
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyPress(k))
		m = next.(Model)
	}
	return m, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, string(r))
	}
	return m
}

// dropTiles selects each tile type in turn and drops count tiles of it.
func dropTiles(t *testing.T, m Model, tiles domain.TileCount) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for i, tile := range domain.TileTypes {
		m.tile = i
		for n := 0; n < tiles.Get(tile); n++ {
			m, cmd = press(t, m, "enter")
		}
	}
	return m, cmd
}

func startPredefined(t *testing.T, m Model, n1, n2 string) Model {
	t.Helper()
	m, _ = press(t, m, "tab")
	m = typeText(t, m, n1)
	m, _ = press(t, m, "tab")
	m = typeText(t, m, n2)
	m, _ = press(t, m, "enter")
	return m
}

func TestSetupStartsPredefinedRound(t *testing.T) {
	m := startPredefined(t, newTestModel(0), "23", "19")

	game := m.Game()
	if game == nil || game.Screen != domain.ScreenDecompose {
		t.Fatalf("Expected decompose screen, got %+v", game)
	}
	if game.Round.Number1 != 23 || game.Round.Number2 != 19 {
		t.Fatalf("operands = %d,%d, want 23,19", game.Round.Number1, game.Round.Number2)
	}
	if view := m.View(); !strings.Contains(view, "Zone 1") || !strings.Contains(view, "Zone 2") {
		t.Fatalf("View missing zones:\n%s", view)
	}
}

func TestSetupRandomRound(t *testing.T) {
	m, _ := press(t, newTestModel(0), "enter")
	game := m.Game()
	if game == nil {
		t.Fatal("Expected a game")
	}
	for _, n := range []int{game.Round.Number1, game.Round.Number2} {
		if n < config.DefaultRandomMin || n > config.DefaultRandomMax {
			t.Fatalf("operand %d out of range", n)
		}
	}
}

func TestWrongZoneShowsToast(t *testing.T) {
	m := startPredefined(t, newTestModel(0), "5", "6")

	m, _ = press(t, m, "down", "enter")
	if m.toast == "" {
		t.Fatal("Expected a notice toast")
	}
	if got := m.Game().Round.Placed(domain.Zone2); !got.IsZero() {
		t.Fatalf("Zone 2 changed: %+v", got)
	}

	next, _ := m.Update(toastExpiredMsg{seq: m.toastSeq})
	if next.(Model).toast != "" {
		t.Fatal("Toast should expire")
	}
}

func TestFullGameWithoutDelay(t *testing.T) {
	m := startPredefined(t, newTestModel(0), "23", "19")

	m, _ = dropTiles(t, m, domain.Decompose(23))
	if m.zone != domain.Zone2 {
		t.Fatalf("Focus should follow the active zone, got %d", m.zone)
	}
	m, _ = dropTiles(t, m, domain.Decompose(19))
	if m.Game().Screen != domain.ScreenConvert {
		t.Fatalf("Screen = %s, want convert", m.Game().Screen)
	}

	m.tile = 0
	for i := 0; i < 10; i++ {
		m, _ = press(t, m, "enter")
	}
	game := m.Game()
	if game.Screen != domain.ScreenResult {
		t.Fatalf("Screen = %s, want result", game.Screen)
	}
	if want := (domain.TileCount{Units: 2, Tens: 4}); game.Result.Tiles != want {
		t.Fatalf("Tiles = %+v, want %+v", game.Result.Tiles, want)
	}
	if strings.Contains(m.View(), "= 42") {
		t.Fatal("Sum must stay hidden until requested")
	}

	m, _ = press(t, m, "s")
	if !strings.Contains(m.View(), "= 42") {
		t.Fatalf("Expected revealed sum:\n%s", m.View())
	}

	m, _ = press(t, m, "enter")
	if m.Game() != nil {
		t.Fatal("Play again should return to setup")
	}
}

func TestHandoffWaitsForTimer(t *testing.T) {
	m := startPredefined(t, newTestModel(time.Second), "1", "2")

	m, _ = dropTiles(t, m, domain.Decompose(1))
	m, cmd := dropTiles(t, m, domain.Decompose(2))
	if cmd == nil {
		t.Fatal("Expected a timer command")
	}
	if m.pending != handoffFinishRound || m.Game().Screen != domain.ScreenDecompose {
		t.Fatalf("Hand-off should be pending, screen %s", m.Game().Screen)
	}

	next, _ := m.Update(timer.TimeoutMsg{ID: m.handoffTimer.ID() + 1})
	m = next.(Model)
	if m.Game().Screen != domain.ScreenDecompose {
		t.Fatal("Foreign timer must not trigger the hand-off")
	}

	next, _ = m.Update(timer.TimeoutMsg{ID: m.handoffTimer.ID()})
	m = next.(Model)
	if m.Game().Screen != domain.ScreenResult {
		t.Fatalf("Screen = %s, want result", m.Game().Screen)
	}
}

func TestConfirmEmptyZone(t *testing.T) {
	m := startPredefined(t, newTestModel(0), "0", "3")

	m, _ = press(t, m, "e")
	if m.Game().Round.Phase != domain.PhaseAwaitingSecond {
		t.Fatalf("Phase = %s, want awaiting_second", m.Game().Round.Phase)
	}
	m, _ = press(t, m, "e")
	if m.toast == "" {
		t.Fatal("Expected a toast when the number needs tiles")
	}
}

func TestEscReturnsToSetup(t *testing.T) {
	m := startPredefined(t, newTestModel(time.Second), "4", "4")
	m, _ = press(t, m, "esc")
	if m.Game() != nil {
		t.Fatal("Expected setup screen")
	}
	if !strings.Contains(m.View(), "Mode") {
		t.Fatalf("Setup view expected:\n%s", m.View())
	}
}
