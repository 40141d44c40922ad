package grid

import "github.com/charmbracelet/lipgloss"

const (
	tileWidth  = 18
	tileHeight = 5

	adLabel       = "Ad Placeholder"
	bannerLabel   = "Ad Placeholder Bottom"
	title         = "Sleep Noise Maker"
	activeMarker  = "▶ "
	defaultColumn = 2
)

// Tile is one cell of the grid.
type Tile struct {
	ID     string
	Title  string
	IsAd   bool
	Active bool
}

// Options controls rendering.
type Options struct {
	Theme   Theme
	Columns int
}

// Render draws the header, the tiles row by row and the bottom ad banner.
func Render(tiles []Tile, opts Options) string {
	cols := opts.Columns
	if cols <= 0 {
		cols = defaultColumn
	}
	theme := opts.Theme
	if theme.Name == "" {
		theme = Dark
	}

	var rows []string
	for start := 0; start < len(tiles); start += cols {
		end := min(start+cols, len(tiles))
		cells := make([]string, 0, end-start)
		for _, t := range tiles[start:end] {
			cells = append(cells, renderTile(t, theme))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	heading := title + "  [" + theme.Name + "]"
	width := max(lipgloss.Width(body), lipgloss.Width(heading), lipgloss.Width(bannerLabel))

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Text).
		Width(width).
		Align(lipgloss.Center).
		Render(heading)

	banner := lipgloss.NewStyle().
		Background(theme.Ad).
		Foreground(theme.Text).
		Width(width).
		Align(lipgloss.Center).
		Render(bannerLabel)

	return lipgloss.NewStyle().
		Background(theme.Background).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body, banner))
}

func renderTile(t Tile, theme Theme) string {
	style := lipgloss.NewStyle().
		Width(tileWidth).
		Height(tileHeight).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Margin(0, 1).
		Border(lipgloss.RoundedBorder()).
		Foreground(theme.Text)

	if t.IsAd {
		return style.
			Background(theme.Ad).
			BorderForeground(theme.Ad).
			Render(adLabel)
	}

	label := t.Title
	if t.Active {
		label = activeMarker + label
		style = style.BorderForeground(theme.Active).Bold(true)
	} else {
		style = style.BorderForeground(theme.Tile)
	}
	return style.
		Background(theme.Tile).
		Render(label + "\n#" + t.ID)
}
