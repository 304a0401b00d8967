package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"p2p-lending-backend/pkg/id"
)

var (
	errMissingRequestAt = errors.New("missing Ax-Request-At")
	errBadRequestAt     = errors.New("Ax-Request-At must be epoch (s/ms) or RFC3339 with timezone")

	reUUID = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
)

// epoch values above this are milliseconds
const epochMillisFloor = 1e12

func bodyHash(b []byte) string {
	s := sha256.Sum256(b)
	return hex.EncodeToString(s[:])
}

func nowUTC() time.Time { return time.Now().UTC() }

// replayKey scopes a request id to the route and the authenticated caller,
// so two users can never collide on the same Ax-Request-Id.
func replayKey(method, route, actorID, requestID string) string {
	return strings.Join([]string{
		"idemp", "loan", strings.ToLower(method), route, actorID, strings.ToLower(requestID),
	}, ":")
}

// validReqID takes a lowercase UUID (v1-v5) or a 32-char hex id.
func validReqID(reqID string) bool {
	return id.IsID32(reqID) || reUUID.MatchString(reqID)
}

// parseAxRequestAt accepts epoch seconds, epoch milliseconds or RFC3339
// (nano optional) carrying a zone. Naive local timestamps are rejected.
func parseAxRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errMissingRequestAt
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > epochMillisFloor {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	// RFC3339Nano parses plain RFC3339 too
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, errBadRequestAt
	}
	return t.UTC(), nil
}
