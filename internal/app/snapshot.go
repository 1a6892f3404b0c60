package app

import "placevalue/internal/domain"

// ZoneSnapshot describes one drop zone.
type ZoneSnapshot struct {
	Zone     domain.ZoneID    `json:"zone"`
	Number   int              `json:"number"`
	Required domain.TileCount `json:"required"`
	Placed   domain.TileCount `json:"placed"`
	Complete bool             `json:"complete"`
}

// ResultView is the final result as the display may show it: Sum stays nil
// until the player asks to reveal it.
type ResultView struct {
	Number1 int              `json:"number1"`
	Number2 int              `json:"number2"`
	Tiles   domain.TileCount `json:"tiles"`
	Sum     *int             `json:"sum,omitempty"`
}

// Snapshot is re-rendered by the presentation layer after every accepted event.
type Snapshot struct {
	Screen     domain.Screen           `json:"screen"`
	Phase      domain.Phase            `json:"phase,omitempty"`
	ActiveZone domain.ZoneID           `json:"active_zone,omitempty"`
	Zones      []ZoneSnapshot          `json:"zones,omitempty"`
	Conversion *domain.ConversionTable `json:"conversion,omitempty"`
	Result     *ResultView             `json:"result,omitempty"`
}

// SnapshotOf captures the current state of game. A nil game is the setup screen.
func SnapshotOf(game *domain.Game) Snapshot {
	if game == nil {
		return Snapshot{Screen: domain.ScreenSetup}
	}

	snap := Snapshot{Screen: game.Screen}
	if r := game.Round; r != nil {
		snap.Phase = r.Phase
		active, ok := r.ActiveZone()
		if ok {
			snap.ActiveZone = active
		}
		for _, zone := range []domain.ZoneID{domain.Zone1, domain.Zone2} {
			snap.Zones = append(snap.Zones, ZoneSnapshot{
				Zone:     zone,
				Number:   r.Operand(zone),
				Required: r.Required(zone),
				Placed:   r.Placed(zone),
				Complete: zoneDone(r, zone),
			})
		}
	}

	if game.Conversion != nil {
		table := *game.Conversion
		snap.Conversion = &table
	}

	if res := game.Result; res != nil {
		view := &ResultView{Number1: res.Number1, Number2: res.Number2, Tiles: res.Tiles}
		if game.Revealed {
			sum := res.Sum
			view.Sum = &sum
		}
		snap.Result = view
	}
	return snap
}

func zoneDone(r *domain.Round, zone domain.ZoneID) bool {
	switch r.Phase {
	case domain.PhaseComplete:
		return true
	case domain.PhaseAwaitingSecond:
		return zone == domain.Zone1
	}
	return false
}
