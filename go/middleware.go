package shopserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sessionsports "github.com/Apurer/go-gin-shop-api/internal/domains/sessions/ports"
	apierrors "github.com/Apurer/go-gin-shop-api/internal/shared/errors"
	"github.com/Apurer/go-gin-shop-api/internal/shared/identity"
)

// HeaderRequestID carries the request id in and out.
const HeaderRequestID = "X-Request-ID"

// SessionResolver maps a bearer token to a user id.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}

// RequestID propagates the caller's request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(apierrors.RequestIDKey, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("request.id", c.GetString(apierrors.RequestIDKey)),
			slog.String("http.method", c.Request.Method),
			slog.String("http.route", c.FullPath()),
			slog.String("http.path", c.Request.URL.Path),
			slog.Int("http.status", status),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// Authenticate resolves "Authorization: Bearer <token>" into the request identity.
// Requests without a valid token continue anonymously; handlers that need a user answer 401.
func Authenticate(sessions SessionResolver, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || sessions == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		userID, err := sessions.Resolve(ctx, token)
		switch {
		case err == nil:
			c.Request = c.Request.WithContext(identity.WithContext(ctx, identity.User(userID)))
		case errors.Is(err, sessionsports.ErrSessionNotFound):
			// unknown or expired, stay anonymous
		default:
			logger.LogAttrs(ctx, slog.LevelError, "session lookup failed", slog.String("error", err.Error()))
			respondError(c, http.StatusInternalServerError, errors.New("session lookup failed"))
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
