// Package main provides the terminal client for the sound board.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/noisebox/internal/api/connect"
	"github.com/osa030/noisebox/internal/api/noiseboxv1"
	"github.com/osa030/noisebox/internal/api/noiseboxv1/noiseboxv1connect"
	"github.com/osa030/noisebox/internal/ui/grid"
)

var (
	app     = kingpin.New("noisebox-cli", "Sleep Noise Maker terminal client")
	server  = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token   = app.Flag("token", "Tap token").Envar("NOISEBOX_TOKEN").String()
	theme   = app.Flag("theme", "Color theme: dark or light (default: server setting)").String()
	columns = app.Flag("columns", "Tiles per row (default: server setting)").Int()
	toggle  = app.Flag("toggle-theme", "Render with the opposite of the selected theme").Bool()

	// tiles command
	tilesCmd = app.Command("tiles", "Show the sound board")

	// tap command
	tapCmd = app.Command("tap", "Tap a tile")
	tapID  = tapCmd.Arg("id", "Sound ID").Required().String()

	// status command
	statusCmd = app.Command("status", "Show what is playing")

	// watch command
	watchCmd = app.Command("watch", "Redraw the board on every state change")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Create client
	client := noiseboxv1connect.NewBoardServiceClient(
		http.DefaultClient,
		*server,
	)

	ctx := context.Background()

	// Execute command
	switch command {
	case tilesCmd.FullCommand():
		showTiles(ctx, client)
	case tapCmd.FullCommand():
		tap(ctx, client, *tapID)
	case statusCmd.FullCommand():
		status(ctx, client)
	case watchCmd.FullCommand():
		watch(ctx, client)
	}
}

// displayOptions merges the command-line flags over the server's hints.
func displayOptions(hints *noiseboxv1.DisplayHints, themeFlag string, columnsFlag int, toggleTheme bool) (grid.Options, error) {
	name, cols := themeFlag, columnsFlag
	if hints != nil {
		if name == "" {
			name = hints.Theme
		}
		if cols <= 0 {
			cols = hints.Columns
		}
	}
	if name == "" {
		name = grid.Dark.Name
	}

	th, err := grid.ThemeByName(name)
	if err != nil {
		return grid.Options{}, err
	}
	if toggleTheme {
		th = th.Toggle()
	}
	return grid.Options{Theme: th, Columns: cols}, nil
}

func fail(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}

func showTiles(ctx context.Context, client noiseboxv1connect.BoardServiceClient) {
	resp, err := client.ListTiles(ctx, connect.NewRequest(&noiseboxv1.ListTilesRequest{}))
	if err != nil {
		fail(err)
	}
	opts, err := displayOptions(resp.Msg.Hints, *theme, *columns, *toggle)
	if err != nil {
		fail(err)
	}
	fmt.Println(grid.Render(toGridTiles(resp.Msg.Tiles, resp.Msg.State), opts))
}

func tap(ctx context.Context, client noiseboxv1connect.BoardServiceClient, id string) {
	req := connect.NewRequest(&noiseboxv1.TapRequest{ID: id})
	if *token != "" {
		req.Header().Set(apiconnect.TokenHeader, *token)
	}

	resp, err := client.Tap(ctx, req)
	if err != nil {
		fail(err)
	}

	if resp.Msg.Warning != "" {
		fmt.Printf("Warning: %s\n", resp.Msg.Warning)
	}
	fmt.Println(formatState(resp.Msg.State))
}

func status(ctx context.Context, client noiseboxv1connect.BoardServiceClient) {
	resp, err := client.GetState(ctx, connect.NewRequest(&noiseboxv1.GetStateRequest{}))
	if err != nil {
		fail(err)
	}
	fmt.Println(formatState(resp.Msg.State))
}

func watch(ctx context.Context, client noiseboxv1connect.BoardServiceClient) {
	list, err := client.ListTiles(ctx, connect.NewRequest(&noiseboxv1.ListTilesRequest{}))
	if err != nil {
		fail(err)
	}
	opts, err := displayOptions(list.Msg.Hints, *theme, *columns, *toggle)
	if err != nil {
		fail(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := client.Subscribe(ctx, connect.NewRequest(&noiseboxv1.SubscribeRequest{}))
	if err != nil {
		fail(err)
	}

	// Handle shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	for stream.Receive() {
		n := stream.Msg()
		// Clear screen and home the cursor before redrawing
		fmt.Print("\033[H\033[2J")
		fmt.Println(grid.Render(toGridTiles(list.Msg.Tiles, n.State), opts))
		fmt.Printf("[%d] %s\n", n.SequenceNo, formatNotification(n))
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		fmt.Printf("Stream error: %v\n", err)
	}
}

// toGridTiles marks the playing tile active.
func toGridTiles(tiles []*noiseboxv1.Tile, state *noiseboxv1.PlaybackState) []grid.Tile {
	playing := ""
	if state != nil && state.Status == noiseboxv1.PlaybackStatusPlaying {
		playing = state.PlayingID
	}

	out := make([]grid.Tile, 0, len(tiles))
	for _, t := range tiles {
		out = append(out, grid.Tile{
			ID:     t.ID,
			Title:  t.Title,
			IsAd:   t.IsAd,
			Active: !t.IsAd && t.ID == playing,
		})
	}
	return out
}

func formatState(s *noiseboxv1.PlaybackState) string {
	if s == nil || s.Status != noiseboxv1.PlaybackStatusPlaying {
		return "⏹  Idle"
	}
	return fmt.Sprintf("▶️  Playing %s", s.PlayingID)
}

func formatNotification(n *noiseboxv1.StateNotification) string {
	switch n.Type {
	case noiseboxv1.NotificationTypeInitialState:
		return "Initial state: " + formatState(n.State)
	case noiseboxv1.NotificationTypeStarted:
		return "Started " + n.SoundID
	case noiseboxv1.NotificationTypeStopped:
		return "Stopped " + n.SoundID
	case noiseboxv1.NotificationTypeSwitched:
		return "Switched to " + n.SoundID
	case noiseboxv1.NotificationTypeFailed:
		return fmt.Sprintf("Failed %s: %s", n.SoundID, n.Error)
	default:
		return fmt.Sprintf("Unknown notification (%s)", n.Type)
	}
}
