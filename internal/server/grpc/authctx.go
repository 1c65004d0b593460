package grpcserver

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/and161185/nhh/internal/service"
)

type ctxKey string

const (
	viewerKey ctxKey = "nhh.viewer"
	noteKey   ctxKey = "nhh.call"
)

// callNote carries the resolved viewer back out to LoggingUnary, which runs
// before authentication and never sees the inner context.
type callNote struct{ viewer *model.Viewer }

// WithViewer stores the authenticated caller in context.
func WithViewer(ctx context.Context, v *model.Viewer) context.Context {
	if n, ok := ctx.Value(noteKey).(*callNote); ok {
		n.viewer = v
	}
	return context.WithValue(ctx, viewerKey, v)
}

// ViewerFromCtx fetches the authenticated caller; nil when anonymous.
func ViewerFromCtx(ctx context.Context) *model.Viewer {
	v, _ := ctx.Value(viewerKey).(*model.Viewer)
	return v
}

type authMode int

const (
	requireViewer authMode = iota
	optionalViewer
	noViewer
)

// methodAccess lists methods that do not require an access token. Listing reads
// resolve a viewer when one is presented so redaction can apply.
var methodAccess = map[string]authMode{
	"/" + ServiceName + "/Register":     noViewer,
	"/" + ServiceName + "/Login":        noViewer,
	"/" + ServiceName + "/Refresh":      noViewer,
	"/" + ServiceName + "/Verify":       noViewer,
	"/" + ServiceName + "/Logout":       noViewer,
	"/" + ServiceName + "/ListListings": optionalViewer,
	"/" + ServiceName + "/GetListing":   optionalViewer,
}

// AuthUnary resolves the bearer token into a viewer. Methods of other services
// (health, reflection) pass through untouched.
func AuthUnary(auth service.AuthService) grpc.UnaryServerInterceptor {
	prefix := "/" + ServiceName + "/"
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, prefix) {
			return next(ctx, req)
		}
		mode := methodAccess[info.FullMethod]
		if mode == noViewer {
			return next(ctx, req)
		}
		tok, err := bearerTokenFromMD(ctx)
		if err != nil {
			if mode == optionalViewer {
				return next(ctx, req)
			}
			return nil, toStatus(errs.ErrUnauthenticated)
		}
		v, err := auth.Authenticate(ctx, tok)
		if err != nil {
			return nil, toStatus(err)
		}
		return next(WithViewer(ctx, v), req)
	}
}

func bearerTokenFromMD(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errors.New("no metadata")
	}
	for _, v := range md.Get("authorization") {
		v = strings.TrimSpace(v)
		if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
			t := strings.TrimSpace(v[7:])
			if t != "" {
				return t, nil
			}
		}
	}
	return "", errors.New("no bearer token")
}
