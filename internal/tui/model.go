package tui

import (
	"errors"
	"time"

	"placevalue/internal/app"
	"placevalue/internal/config"
	"placevalue/internal/domain"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	toastDuration     = 2 * time.Second
	celebrateDuration = 1500 * time.Millisecond
	timerInterval     = 100 * time.Millisecond
)

// Setup form focus positions.
const (
	focusMode = iota
	focusNumber1
	focusNumber2
	focusCount
)

type handoff int

const (
	handoffNone handoff = iota
	handoffFinishRound
	handoffCompleteConversion
)

type toastExpiredMsg struct{ seq int }

type celebrateDoneMsg struct{ seq int }

// Options configures a Model.
type Options struct {
	Service     *app.Service
	ResultDelay time.Duration
	Renderer    *lipgloss.Renderer
	Logger      *log.Logger
	User        string
}

// Model is one learner's game session in the terminal.
type Model struct {
	svc    *app.Service
	delay  time.Duration
	logger *log.Logger
	styles styles
	keys   keyMap
	help   help.Model
	bar    progress.Model

	game *domain.Game

	mode   app.Mode
	inputs [2]textinput.Model
	focus  int

	tile int
	zone domain.ZoneID

	pending      handoff
	handoffTimer timer.Model

	toast       string
	toastSeq    int
	celebrating bool
	partySeq    int
}

// New builds a Model on the setup screen.
func New(opts Options) Model {
	svc := opts.Service
	if svc == nil {
		svc = app.NewService(nil, config.Default())
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.User != "" {
		logger = logger.With("user", opts.User)
	}

	m := Model{
		svc:    svc,
		delay:  opts.ResultDelay,
		logger: logger,
		styles: newStyles(opts.Renderer),
		keys:   defaultKeyMap(),
		help:   help.New(),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(20)),
		mode:   app.ModeRandom,
		zone:   domain.Zone1,
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.CharLimit = 9
		ti.Width = 10
		ti.Prompt = ""
		m.inputs[i] = ti
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Game exposes the current game for inspection; nil on the setup screen.
func (m Model) Game() *domain.Game {
	return m.game
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case celebrateDoneMsg:
		if msg.seq == m.partySeq {
			m.celebrating = false
		}
		return m, nil

	case timer.TickMsg, timer.StartStopMsg:
		var cmd tea.Cmd
		m.handoffTimer, cmd = m.handoffTimer.Update(msg)
		return m, cmd

	case timer.TimeoutMsg:
		if msg.ID != m.handoffTimer.ID() {
			return m, nil
		}
		return m.runHandoff()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		if m.game == nil {
			return m.updateSetup(msg)
		}
		if key.Matches(msg, m.keys.back) {
			return m.returnToSetup(), nil
		}
		switch m.game.Screen {
		case domain.ScreenDecompose:
			return m.updateDecompose(msg)
		case domain.ScreenConvert:
			return m.updateConvert(msg)
		case domain.ScreenResult:
			return m.updateResult(msg)
		}
	}
	return m, nil
}

func (m Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.start):
		return m.start(m.startConfig())
	case key.Matches(msg, m.keys.next), key.Matches(msg, m.keys.down):
		return m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.prev), key.Matches(msg, m.keys.up):
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	if m.focus == focusMode {
		switch {
		case key.Matches(msg, m.keys.left), key.Matches(msg, m.keys.right):
			if m.mode == app.ModeRandom {
				m.mode = app.ModePredefined
			} else {
				m.mode = app.ModeRandom
			}
		case msg.String() == "q":
			return m, tea.Quit
		}
		return m, nil
	}

	i := m.focus - focusNumber1
	var cmd tea.Cmd
	m.inputs[i], cmd = m.inputs[i].Update(msg)
	return m, cmd
}

func (m Model) setFocus(focus int) (tea.Model, tea.Cmd) {
	m.focus = focus
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == focus-focusNumber1 {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	// Typing a number implies a predefined round.
	if focus != focusMode {
		m.mode = app.ModePredefined
	}
	return m, cmd
}

// startConfig reads the setup form. Empty fields stay nil and become 0.
func (m Model) startConfig() app.StartConfig {
	if m.mode == app.ModeRandom {
		return app.Random()
	}
	cfg := app.StartConfig{Mode: app.ModePredefined}
	if v := m.inputs[0].Value(); v != "" {
		n := app.ParseOperand(v)
		cfg.Number1 = &n
	}
	if v := m.inputs[1].Value(); v != "" {
		n := app.ParseOperand(v)
		cfg.Number2 = &n
	}
	return cfg
}

func (m Model) start(cfg app.StartConfig) (tea.Model, tea.Cmd) {
	game, events := m.svc.StartRound(cfg)
	m.game = game
	m.tile = 0
	m.zone = domain.Zone1
	m.pending = handoffNone
	m.logger.Info("round started", "number1", game.Round.Number1, "number2", game.Round.Number2, "mode", cfg.Mode)
	return m.apply(events)
}

func (m Model) returnToSetup() Model {
	m.game = nil
	m.pending = handoffNone
	m.celebrating = false
	m.toast = ""
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.focus = focusMode
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m
}

func (m Model) updateDecompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.left):
		m.tile = (m.tile + len(domain.TileTypes) - 1) % len(domain.TileTypes)
	case key.Matches(msg, m.keys.right):
		m.tile = (m.tile + 1) % len(domain.TileTypes)
	case key.Matches(msg, m.keys.up):
		m.zone = domain.Zone1
	case key.Matches(msg, m.keys.down):
		m.zone = domain.Zone2
	case key.Matches(msg, m.keys.drop):
		if m.pending != handoffNone {
			return m, nil
		}
		result, events, err := m.svc.Drop(m.game, m.zone, domain.TileTypes[m.tile])
		if err != nil {
			return m.fail("drop", err)
		}
		var cmd tea.Cmd
		m, cmd = m.apply(events)
		if result.Advanced {
			if active, ok := m.game.Round.ActiveZone(); ok {
				m.zone = active
			}
		}
		if result.Advanced && result.Phase == domain.PhaseComplete {
			return m.scheduleHandoff(handoffFinishRound, cmd)
		}
		return m, cmd
	case key.Matches(msg, m.keys.empty):
		if m.pending != handoffNone {
			return m, nil
		}
		events, err := m.svc.ConfirmEmptyZone(m.game)
		if errors.Is(err, domain.ErrZoneNotEmpty) {
			return m.notify("This number needs tiles")
		}
		if err != nil {
			return m.fail("confirm empty", err)
		}
		var cmd tea.Cmd
		m, cmd = m.apply(events)
		if active, ok := m.game.Round.ActiveZone(); ok {
			m.zone = active
			return m, cmd
		}
		return m.scheduleHandoff(handoffFinishRound, cmd)
	}
	return m, nil
}

func (m Model) updateConvert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		result app.PoolResult
		events []app.Event
		err    error
	)
	switch {
	case key.Matches(msg, m.keys.left):
		m.tile = (m.tile + len(domain.TileTypes) - 1) % len(domain.TileTypes)
		return m, nil
	case key.Matches(msg, m.keys.right):
		m.tile = (m.tile + 1) % len(domain.TileTypes)
		return m, nil
	case key.Matches(msg, m.keys.pool):
		result, events, err = m.svc.Pool(m.game, domain.TileTypes[m.tile])
	case key.Matches(msg, m.keys.withdraw):
		result, events, err = m.svc.Withdraw(m.game, domain.TileTypes[m.tile])
	default:
		return m, nil
	}
	if err != nil {
		return m.fail("conversion", err)
	}

	var cmd tea.Cmd
	m, cmd = m.apply(events)
	if result.Settled && m.pending == handoffNone {
		return m.scheduleHandoff(handoffCompleteConversion, cmd)
	}
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.reveal):
		events, err := m.svc.RevealSum(m.game)
		if err != nil {
			return m.fail("reveal", err)
		}
		return m.apply(events)
	case key.Matches(msg, m.keys.again):
		return m.returnToSetup(), nil
	}
	return m, nil
}

// scheduleHandoff waits the result delay before the next screen. The program
// keeps handling input meanwhile.
func (m Model) scheduleHandoff(next handoff, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.pending = next
	if m.delay <= 0 {
		mm, runCmd := m.runHandoff()
		return mm, tea.Batch(cmd, runCmd)
	}
	m.handoffTimer = timer.NewWithInterval(m.delay, timerInterval)
	return m, tea.Batch(cmd, m.handoffTimer.Init())
}

func (m Model) runHandoff() (tea.Model, tea.Cmd) {
	next := m.pending
	m.pending = handoffNone

	var (
		events []app.Event
		err    error
	)
	switch next {
	case handoffFinishRound:
		_, events, err = m.svc.Finish(m.game)
	case handoffCompleteConversion:
		events, err = m.svc.CompleteConversion(m.game)
	default:
		return m, nil
	}
	if err != nil {
		return m.fail("hand-off", err)
	}
	m.tile = 0
	return m.apply(events)
}

// apply turns app events into transient view state.
func (m Model) apply(events []app.Event) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.NoticePayload:
			var cmd tea.Cmd
			m, cmd = m.showToast(p.Message)
			cmds = append(cmds, cmd)
		case app.CelebratePayload:
			m.celebrating = true
			m.partySeq++
			seq := m.partySeq
			cmds = append(cmds, tea.Tick(celebrateDuration, func(time.Time) tea.Msg {
				return celebrateDoneMsg{seq: seq}
			}))
		case app.ResultRevealedPayload:
			m.logger.Debug("sum revealed", "sum", p.Sum)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) notify(message string) (tea.Model, tea.Cmd) {
	return m.showToast(message)
}

func (m Model) showToast(message string) (Model, tea.Cmd) {
	m.toast = message
	m.toastSeq++
	seq := m.toastSeq
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m Model) fail(action string, err error) (tea.Model, tea.Cmd) {
	m.logger.Warn("action rejected", "action", action, "error", err)
	return m.showToast(err.Error())
}
