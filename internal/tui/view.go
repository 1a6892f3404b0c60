package tui

import (
	"fmt"
	"strconv"
	"strings"

	"placevalue/internal/app"
	"placevalue/internal/domain"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	var body string
	var bindings []key.Binding

	snap := m.svc.Snapshot(m.game)
	switch snap.Screen {
	case domain.ScreenDecompose:
		body = m.viewDecompose(snap)
		bindings = []key.Binding{m.keys.left, m.keys.right, m.keys.up, m.keys.down, m.keys.drop, m.keys.empty, m.keys.back, m.keys.quit}
	case domain.ScreenConvert:
		body = m.viewConvert(snap)
		bindings = []key.Binding{m.keys.left, m.keys.right, m.keys.pool, m.keys.withdraw, m.keys.back, m.keys.quit}
	case domain.ScreenResult:
		body = m.viewResult(snap)
		bindings = []key.Binding{m.keys.reveal, m.keys.again, m.keys.back, m.keys.quit}
	default:
		body = m.viewSetup()
		bindings = []key.Binding{m.keys.next, m.keys.left, m.keys.start, m.keys.quit}
	}

	sections := []string{m.styles.title.Render("Place-value addition"), body}
	if m.celebrating {
		sections = append(sections, m.styles.party.Render("✨ 🎉 Well done! 🎉 ✨"))
	}
	if m.toast != "" {
		sections = append(sections, m.styles.toast.Render(m.toast))
	}
	sections = append(sections, "", m.help.View(screenHelp(bindings)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewSetup() string {
	field := func(focus int, label, value string) string {
		style := m.styles.field
		if m.focus == focus {
			style = m.styles.fieldOn
		}
		return style.Render(fmt.Sprintf("%-10s", label)) + value
	}

	modes := make([]string, 0, 2)
	for _, mode := range []app.Mode{app.ModeRandom, app.ModePredefined} {
		style := m.styles.tile
		if m.mode == mode {
			style = m.styles.tileFocus
		}
		modes = append(modes, style.Render(string(mode)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		field(focusMode, "Mode", lipgloss.JoinHorizontal(lipgloss.Top, modes...)),
		field(focusNumber1, "Number 1", m.inputs[0].View()),
		field(focusNumber2, "Number 2", m.inputs[1].View()),
	)
}

func (m Model) viewDecompose(snap app.Snapshot) string {
	zones := make([]string, 0, len(snap.Zones))
	for _, z := range snap.Zones {
		zones = append(zones, m.viewZone(z, z.Zone == snap.ActiveZone, z.Zone == m.zone))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.number.Render(strconv.Itoa(snap.Zones[0].Number)),
		"  +  ",
		m.styles.number.Render(strconv.Itoa(snap.Zones[1].Number)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, "", lipgloss.JoinVertical(lipgloss.Left, zones...), "", m.viewPalette(nil))
}

func (m Model) viewZone(z app.ZoneSnapshot, active, focused bool) string {
	style := m.styles.zone
	switch {
	case z.Complete:
		style = m.styles.zoneDone
	case focused:
		style = m.styles.zoneFocus
	}

	title := fmt.Sprintf("Zone %d · %d", z.Zone, z.Number)
	if active {
		title += "  ◀"
	}
	if z.Complete {
		title += "  ✓"
	}

	lines := []string{title}
	for _, t := range domain.TileTypes {
		placed := z.Placed.Get(t)
		if placed == 0 && z.Required.Get(t) == 0 {
			continue
		}
		lines = append(lines, m.tileRow(t, placed))
	}

	need := z.Required.Total()
	done := 1.0
	if need > 0 {
		done = float64(z.Placed.Total()) / float64(need)
	}
	lines = append(lines, m.bar.ViewAs(done))
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) viewConvert(snap app.Snapshot) string {
	table := snap.Conversion
	if table == nil {
		return ""
	}

	rows := []string{m.styles.muted.Render("Pool ten tiles of a kind to swap them for one bigger tile.")}
	rows = append(rows, "", "Available")
	for _, t := range domain.TileTypes {
		if n := table.Available.Get(t); n > 0 {
			rows = append(rows, m.tileRow(t, n))
		}
	}
	rows = append(rows, "", "Conversion area")
	if table.Pooled.IsZero() {
		rows = append(rows, m.styles.muted.Render("  empty"))
	}
	for _, t := range domain.TileTypes {
		if n := table.Pooled.Get(t); n > 0 {
			rows = append(rows, m.tileRow(t, n))
		}
	}
	rows = append(rows, "", m.viewPalette(&table.Available))
	return strings.Join(rows, "\n")
}

func (m Model) viewResult(snap app.Snapshot) string {
	res := snap.Result
	if res == nil {
		return ""
	}

	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Center,
			m.styles.number.Render(strconv.Itoa(res.Number1)),
			"  +  ",
			m.styles.number.Render(strconv.Itoa(res.Number2)),
		),
		"",
	}
	for i := len(domain.TileTypes) - 1; i >= 0; i-- {
		t := domain.TileTypes[i]
		if n := res.Tiles.Get(t); n > 0 {
			rows = append(rows, m.tileRow(t, n))
		}
	}
	rows = append(rows, "")
	if res.Sum != nil {
		rows = append(rows, m.styles.sum.Render("= "+strconv.Itoa(*res.Sum)))
	} else {
		rows = append(rows, m.styles.muted.Render("Count your tiles, then press s to check."))
	}
	return strings.Join(rows, "\n")
}

// viewPalette lists the tile types; counts shows how many are left when set.
func (m Model) viewPalette(counts *domain.TileCount) string {
	cells := make([]string, 0, len(domain.TileTypes))
	for i, t := range domain.TileTypes {
		label := string(t)
		if counts != nil {
			label = fmt.Sprintf("%s (%d)", t, counts.Get(t))
		}
		style := m.styles.tile.Foreground(m.styles.tileColor[t])
		if i == m.tile {
			style = m.styles.tileFocus
		}
		cells = append(cells, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m Model) tileRow(t domain.TileType, n int) string {
	block := m.styles.tile.Foreground(m.styles.tileColor[t]).Padding(0)
	glyphs := strings.Repeat("■", min(n, 20))
	if n > 20 {
		glyphs += "…"
	}
	return fmt.Sprintf("  %-10s %3d %s", t, n, block.Render(glyphs))
}
