package connect

import (
	"context"
	"crypto/subtle"

	"connectrpc.com/connect"

	"github.com/osa030/noisebox/internal/api/noiseboxv1/noiseboxv1connect"
	"github.com/osa030/noisebox/internal/infra/config"
)

const (
	// TokenHeader is the header name for the tap authentication token.
	TokenHeader = "X-Noisebox-Token"
)

// NewTokenInterceptor creates an interceptor that requires the configured
// token on Tap. Without a configured token every request passes.
func NewTokenInterceptor(cfg *config.Config) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if cfg.Server.Token == "" || req.Spec().Procedure != noiseboxv1connect.BoardServiceTapProcedure {
				return next(ctx, req)
			}

			token := req.Header().Get(TokenHeader)
			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Server.Token)) != 1 {
				return nil, connect.NewError(connect.CodeUnauthenticated, nil)
			}

			return next(ctx, req)
		}
	}
}
