package tui

import (
	"placevalue/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorWhite    = lipgloss.Color("#ffffff")
	colorHovered  = lipgloss.Color("#f368e0")
	colorMuted    = lipgloss.Color("#8395a7")
	colorSuccess  = lipgloss.Color("#10ac84")
	colorWarning  = lipgloss.Color("#ff9f43")
	colorUnits    = lipgloss.Color("#54a0ff")
	colorTens     = lipgloss.Color("#1dd1a1")
	colorHundreds = lipgloss.Color("#feca57")
	colorThousand = lipgloss.Color("#ff6b6b")
)

// styles are built per renderer so each SSH session gets its own color profile.
type styles struct {
	title     lipgloss.Style
	number    lipgloss.Style
	zone      lipgloss.Style
	zoneDone  lipgloss.Style
	zoneFocus lipgloss.Style
	tile      lipgloss.Style
	tileFocus lipgloss.Style
	field     lipgloss.Style
	fieldOn   lipgloss.Style
	toast     lipgloss.Style
	party     lipgloss.Style
	muted     lipgloss.Style
	sum       lipgloss.Style
	tileColor map[domain.TileType]lipgloss.Color
}

func newStyles(r *lipgloss.Renderer) styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	block := r.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder())
	return styles{
		title:     r.NewStyle().Bold(true).Foreground(colorHovered).MarginBottom(1),
		number:    r.NewStyle().Bold(true).Foreground(colorWhite).Width(6).Align(lipgloss.Right),
		zone:      block.BorderForeground(colorMuted).Width(34),
		zoneDone:  block.BorderForeground(colorSuccess).Width(34),
		zoneFocus: block.BorderForeground(colorHovered).Width(34),
		tile:      r.NewStyle().Padding(0, 1).Foreground(colorWhite),
		tileFocus: r.NewStyle().Padding(0, 1).Background(colorHovered).Foreground(colorWhite),
		field:     r.NewStyle().Foreground(colorMuted),
		fieldOn:   r.NewStyle().Foreground(colorHovered).Bold(true),
		toast:     r.NewStyle().Foreground(colorWarning).Italic(true),
		party:     r.NewStyle().Foreground(colorSuccess).Bold(true),
		muted:     r.NewStyle().Foreground(colorMuted),
		sum:       r.NewStyle().Bold(true).Foreground(colorSuccess).Border(lipgloss.DoubleBorder()).Padding(0, 2),
		tileColor: map[domain.TileType]lipgloss.Color{
			domain.TileUnits:     colorUnits,
			domain.TileTens:      colorTens,
			domain.TileHundreds:  colorHundreds,
			domain.TileThousands: colorThousand,
		},
	}
}
