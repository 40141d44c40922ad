// Package noiseboxv1connect provides Connect handlers and clients for the
// noisebox.v1.BoardService.
package noiseboxv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	noiseboxv1 "github.com/osa030/noisebox/internal/api/noiseboxv1"
)

// BoardServiceName is the fully-qualified name of the BoardService.
const BoardServiceName = "noisebox.v1.BoardService"

// Procedure paths.
const (
	BoardServiceListTilesProcedure = "/noisebox.v1.BoardService/ListTiles"
	BoardServiceTapProcedure       = "/noisebox.v1.BoardService/Tap"
	BoardServiceGetStateProcedure  = "/noisebox.v1.BoardService/GetState"
	BoardServiceSubscribeProcedure = "/noisebox.v1.BoardService/Subscribe"
)

// BoardServiceHandler is implemented by the server.
type BoardServiceHandler interface {
	ListTiles(context.Context, *connect.Request[noiseboxv1.ListTilesRequest]) (*connect.Response[noiseboxv1.ListTilesResponse], error)
	Tap(context.Context, *connect.Request[noiseboxv1.TapRequest]) (*connect.Response[noiseboxv1.TapResponse], error)
	GetState(context.Context, *connect.Request[noiseboxv1.GetStateRequest]) (*connect.Response[noiseboxv1.GetStateResponse], error)
	Subscribe(context.Context, *connect.Request[noiseboxv1.SubscribeRequest], *connect.ServerStream[noiseboxv1.StateNotification]) error
}

// NewBoardServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler.
func NewBoardServiceHandler(svc BoardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	listTiles := connect.NewUnaryHandler(BoardServiceListTilesProcedure, svc.ListTiles, opts...)
	tap := connect.NewUnaryHandler(BoardServiceTapProcedure, svc.Tap, opts...)
	getState := connect.NewUnaryHandler(BoardServiceGetStateProcedure, svc.GetState, opts...)
	subscribe := connect.NewServerStreamHandler(BoardServiceSubscribeProcedure, svc.Subscribe, opts...)

	return "/" + BoardServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BoardServiceListTilesProcedure:
			listTiles.ServeHTTP(w, r)
		case BoardServiceTapProcedure:
			tap.ServeHTTP(w, r)
		case BoardServiceGetStateProcedure:
			getState.ServeHTTP(w, r)
		case BoardServiceSubscribeProcedure:
			subscribe.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// BoardServiceClient is a client for the BoardService.
type BoardServiceClient interface {
	ListTiles(context.Context, *connect.Request[noiseboxv1.ListTilesRequest]) (*connect.Response[noiseboxv1.ListTilesResponse], error)
	Tap(context.Context, *connect.Request[noiseboxv1.TapRequest]) (*connect.Response[noiseboxv1.TapResponse], error)
	GetState(context.Context, *connect.Request[noiseboxv1.GetStateRequest]) (*connect.Response[noiseboxv1.GetStateResponse], error)
	Subscribe(context.Context, *connect.Request[noiseboxv1.SubscribeRequest]) (*connect.ServerStreamForClient[noiseboxv1.StateNotification], error)
}

// NewBoardServiceClient constructs a client for the BoardService at baseURL.
func NewBoardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BoardServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &boardServiceClient{
		listTiles: connect.NewClient[noiseboxv1.ListTilesRequest, noiseboxv1.ListTilesResponse](httpClient, baseURL+BoardServiceListTilesProcedure, opts...),
		tap:       connect.NewClient[noiseboxv1.TapRequest, noiseboxv1.TapResponse](httpClient, baseURL+BoardServiceTapProcedure, opts...),
		getState:  connect.NewClient[noiseboxv1.GetStateRequest, noiseboxv1.GetStateResponse](httpClient, baseURL+BoardServiceGetStateProcedure, opts...),
		subscribe: connect.NewClient[noiseboxv1.SubscribeRequest, noiseboxv1.StateNotification](httpClient, baseURL+BoardServiceSubscribeProcedure, opts...),
	}
}

type boardServiceClient struct {
	listTiles *connect.Client[noiseboxv1.ListTilesRequest, noiseboxv1.ListTilesResponse]
	tap       *connect.Client[noiseboxv1.TapRequest, noiseboxv1.TapResponse]
	getState  *connect.Client[noiseboxv1.GetStateRequest, noiseboxv1.GetStateResponse]
	subscribe *connect.Client[noiseboxv1.SubscribeRequest, noiseboxv1.StateNotification]
}

func (c *boardServiceClient) ListTiles(ctx context.Context, req *connect.Request[noiseboxv1.ListTilesRequest]) (*connect.Response[noiseboxv1.ListTilesResponse], error) {
	return c.listTiles.CallUnary(ctx, req)
}

func (c *boardServiceClient) Tap(ctx context.Context, req *connect.Request[noiseboxv1.TapRequest]) (*connect.Response[noiseboxv1.TapResponse], error) {
	return c.tap.CallUnary(ctx, req)
}

func (c *boardServiceClient) GetState(ctx context.Context, req *connect.Request[noiseboxv1.GetStateRequest]) (*connect.Response[noiseboxv1.GetStateResponse], error) {
	return c.getState.CallUnary(ctx, req)
}

func (c *boardServiceClient) Subscribe(ctx context.Context, req *connect.Request[noiseboxv1.SubscribeRequest]) (*connect.ServerStreamForClient[noiseboxv1.StateNotification], error) {
	return c.subscribe.CallServerStream(ctx, req)
}
