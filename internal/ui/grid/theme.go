// Package grid renders the sound board as a terminal tile grid.
package grid

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
)

// Theme is a color palette for the grid.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Tile       lipgloss.Color
	Ad         lipgloss.Color
	Text       lipgloss.Color
	Active     lipgloss.Color
}

var (
	Dark = Theme{
		Name:       "dark",
		Background: lipgloss.Color("#333333"),
		Tile:       lipgloss.Color("#555555"),
		Ad:         lipgloss.Color("#555555"),
		Text:       lipgloss.Color("#FFFFFF"),
		Active:     lipgloss.Color("#00FF00"),
	}
	Light = Theme{
		Name:       "light",
		Background: lipgloss.Color("#F5FCFF"),
		Tile:       lipgloss.Color("#DDDDDD"),
		Ad:         lipgloss.Color("#DDDDDD"),
		Text:       lipgloss.Color("#000000"),
		Active:     lipgloss.Color("#00FF00"),
	}
)

// ThemeByName returns the named theme.
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "dark", "":
		return Dark, nil
	case "light":
		return Light, nil
	default:
		return Theme{}, errors.Newf("unknown theme: %s", name)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Name == Light.Name {
		return Dark
	}
	return Light
}
