// Package connect provides Connect RPC service implementations.
package connect

import (
	"context"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	noiseboxv1 "github.com/osa030/noisebox/internal/api/noiseboxv1"
	"github.com/osa030/noisebox/internal/api/noiseboxv1/noiseboxv1connect"
	"github.com/osa030/noisebox/internal/app/board"
	"github.com/osa030/noisebox/internal/app/playback"
	"github.com/osa030/noisebox/internal/infra/config"
)

// BoardService implements the BoardService RPC.
type BoardService struct {
	board *board.Service
	ui    config.UIConfig
}

// NewBoardService creates a new BoardService. ui is sent to clients as
// display hints.
func NewBoardService(b *board.Service, ui config.UIConfig) *BoardService {
	return &BoardService{board: b, ui: ui}
}

// Ensure BoardService implements the interface.
var _ noiseboxv1connect.BoardServiceHandler = (*BoardService)(nil)

// ListTiles returns the session's display list.
func (s *BoardService) ListTiles(
	ctx context.Context,
	req *connect.Request[noiseboxv1.ListTilesRequest],
) (*connect.Response[noiseboxv1.ListTilesResponse], error) {
	display := s.board.DisplayList()
	tiles := make([]*noiseboxv1.Tile, display.Len())
	for i := range display.Len() {
		it := display.At(i)
		tiles[i] = &noiseboxv1.Tile{ID: it.ID(), Title: it.Title(), IsAd: it.IsAd()}
	}

	return connect.NewResponse(&noiseboxv1.ListTilesResponse{
		Tiles: tiles,
		State: board.ToPlaybackState(s.board.Status()),
		Hints: &noiseboxv1.DisplayHints{Theme: s.ui.Theme, Columns: s.ui.Columns},
	}), nil
}

// Tap toggles the sound with the given ID.
func (s *BoardService) Tap(
	ctx context.Context,
	req *connect.Request[noiseboxv1.TapRequest],
) (*connect.Response[noiseboxv1.TapResponse], error) {
	st, err := s.board.Tap(ctx, req.Msg.ID)

	resp := &noiseboxv1.TapResponse{State: board.ToPlaybackState(st)}
	if err != nil {
		if !playback.IsWarning(err) {
			return nil, toConnectError(err)
		}
		zlog.Warn().Msgf("tap completed with warning: id=%s error=%v", req.Msg.ID, err)
		resp.Warning = err.Error()
	}
	return connect.NewResponse(resp), nil
}

// GetState returns the current playback state.
func (s *BoardService) GetState(
	ctx context.Context,
	req *connect.Request[noiseboxv1.GetStateRequest],
) (*connect.Response[noiseboxv1.GetStateResponse], error) {
	return connect.NewResponse(&noiseboxv1.GetStateResponse{
		State: board.ToPlaybackState(s.board.Status()),
	}), nil
}

// Subscribe streams the initial state followed by every state change.
func (s *BoardService) Subscribe(
	ctx context.Context,
	req *connect.Request[noiseboxv1.SubscribeRequest],
	stream *connect.ServerStream[noiseboxv1.StateNotification],
) error {
	adapter := &notificationStreamAdapter{stream: stream}
	sub := s.board.Subscribe(adapter)
	// stream is only valid until the handler returns
	defer sub.Close()

	// Wait for client disconnect, a failed send or board shutdown
	select {
	case <-ctx.Done():
	case <-sub.Done():
	}
	return nil
}

// toConnectError maps board and playback errors to Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, playback.ErrNotPlayable):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, board.ErrUnknownSound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, playback.ErrResourceAcquisition), errors.Is(err, playback.ErrPlaybackStart):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, playback.ErrClosed), errors.Is(err, board.ErrNotStarted):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
type notificationStreamAdapter struct {
	stream *connect.ServerStream[noiseboxv1.StateNotification]
}

func (a *notificationStreamAdapter) Send(n *noiseboxv1.StateNotification) error {
	return a.stream.Send(n)
}
