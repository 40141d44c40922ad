package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/noisebox/internal/api/noiseboxv1"
)

func TestToGridTiles(t *testing.T) {
	tiles := []*noiseboxv1.Tile{
		{ID: "1", Title: "Waterfall"},
		{ID: "2", Title: "River"},
		{ID: "ad-random", IsAd: true},
		{ID: "ad-bottom", IsAd: true},
	}

	tests := []struct {
		name       string
		state      *noiseboxv1.PlaybackState
		wantActive string
	}{
		{"nil state", nil, ""},
		{"idle", &noiseboxv1.PlaybackState{Status: noiseboxv1.PlaybackStatusIdle}, ""},
		{"playing", &noiseboxv1.PlaybackState{Status: noiseboxv1.PlaybackStatusPlaying, PlayingID: "2"}, "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toGridTiles(tiles, tt.state)
			assert.Len(t, got, len(tiles))
			for _, g := range got {
				assert.Equal(t, g.ID == tt.wantActive, g.Active, g.ID)
			}
			assert.True(t, got[2].IsAd)
		})
	}
}

func TestFormatNotification(t *testing.T) {
	tests := []struct {
		name string
		n    *noiseboxv1.StateNotification
		want string
	}{
		{"started", &noiseboxv1.StateNotification{Type: noiseboxv1.NotificationTypeStarted, SoundID: "1"}, "Started 1"},
		{"stopped", &noiseboxv1.StateNotification{Type: noiseboxv1.NotificationTypeStopped, SoundID: "1"}, "Stopped 1"},
		{"switched", &noiseboxv1.StateNotification{Type: noiseboxv1.NotificationTypeSwitched, SoundID: "2"}, "Switched to 2"},
		{"failed", &noiseboxv1.StateNotification{Type: noiseboxv1.NotificationTypeFailed, SoundID: "3", Error: "boom"}, "Failed 3: boom"},
		{"initial", &noiseboxv1.StateNotification{Type: noiseboxv1.NotificationTypeInitialState}, "Initial state: ⏹  Idle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatNotification(tt.n))
		})
	}
}

func TestDisplayOptions(t *testing.T) {
	hints := &noiseboxv1.DisplayHints{Theme: "light", Columns: 3}

	tests := []struct {
		name      string
		hints     *noiseboxv1.DisplayHints
		theme     string
		columns   int
		toggle    bool
		wantTheme string
		wantCols  int
		wantErr   bool
	}{
		{name: "server hints", hints: hints, wantTheme: "light", wantCols: 3},
		{name: "flags win", hints: hints, theme: "dark", columns: 1, wantTheme: "dark", wantCols: 1},
		{name: "no hints", wantTheme: "dark", wantCols: 0},
		{name: "toggled hint", hints: hints, toggle: true, wantTheme: "dark", wantCols: 3},
		{name: "bad theme", theme: "sepia", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := displayOptions(tt.hints, tt.theme, tt.columns, tt.toggle)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTheme, opts.Theme.Name)
			assert.Equal(t, tt.wantCols, opts.Columns)
		})
	}
}
