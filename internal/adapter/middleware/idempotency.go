package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	headerRequestID = "Ax-Request-Id"
	headerRequestAt = "Ax-Request-At"

	// How long the "in-progress" marker lives if the handler never finishes.
	provisionalLockTTL = 60 * time.Second
	// Allowed client/server clock skew for Ax-Request-At (in UTC).
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// Idempotency replays the stored response for a repeated mutating request.
// The key is method + route + authenticated actor + Ax-Request-Id, so it must
// run after JWTAuth. Ax-Request-At must be epoch (s or ms) or RFC3339 with a
// zone. 5xx responses are not stored so the client can retry.
func Idempotency(rdb *redis.Client, ttl time.Duration, log *logrus.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = logrus.StandardLogger()
	}
	store := replayStore{rdb: rdb, ttl: ttl}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			method := req.Method

			switch method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			actor, ok := ActorFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			}

			reqID := strings.TrimSpace(req.Header.Get(headerRequestID))
			if reqID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing Ax-Request-Id"})
			}
			if !validReqID(reqID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid Ax-Request-Id format"})
			}

			reqAt, err := parseAxRequestAt(req.Header.Get(headerRequestAt))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Ax-Request-At too skewed"})
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(body))
			bhash := bodyHash(body)

			key := replayKey(method, c.Path(), actor.ID, reqID)
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			entry := replayEntry{
				InProgress:  true,
				BodySHA256:  bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			ok, err = store.reserve(ctx, key, entry)
			if err != nil {
				log.WithError(err).WithField("key", key).Error("idempotency: store unavailable")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !ok {
				cur, errLoad := store.load(ctx, key)
				if errLoad != nil {
					log.WithError(errLoad).WithField("key", key).Warn("idempotency: load failed")
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
					return c.JSON(http.StatusConflict, map[string]string{"error": "Ax-Request-Id reused with different body"})
				}
				if cur.replayable() {
					c.Response().Header().Set("Ax-Idempotent-Replay", "true")
					return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may already be gone
			sctx, scancel := context.WithTimeout(context.Background(), storeTimeout)
			defer scancel()
			if rec.code >= http.StatusInternalServerError {
				if err := store.release(sctx, key); err != nil {
					log.WithError(err).WithField("key", key).Warn("idempotency: release failed")
				}
				return nil
			}
			final := replayEntry{
				InProgress:  false,
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			if err := store.finish(sctx, key, final); err != nil {
				log.WithError(err).WithField("key", key).Warn("idempotency: save failed")
			}
			return nil
		}
	}
}
