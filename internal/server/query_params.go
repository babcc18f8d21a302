package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

var errInvalidLimit = newValidationError("limit", "invalid_limit", "invalid limit")

// queryLimit reads the "limit" query parameter, returning def when it is
// absent. Range checks are left to the service.
func queryLimit(c *gin.Context, def int) (int, error) {
	raw, ok := c.GetQuery("limit")
	if !ok || strings.TrimSpace(raw) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errInvalidLimit
	}
	return n, nil
}

func parseOptionalSnowflakeID(value string) (*snowflake.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(value)
	if err != nil || id == 0 {
		return nil, errors.New("invalid_snowflake_id")
	}
	return &id, nil
}

// parseOptionalDate accepts RFC3339 or a bare date. Bare dates become UTC
// midnight, matching how batch and expiry dates are stored.
func parseOptionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errors.New("invalid_date")
}
