package api

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/habitwheel/internal/errors"
)

// idParam parses a numeric path parameter into a database id.
func idParam(ctx echo.Context, name string) (uint, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.Newf("invalid %s: %q", name, raw).
			Category(errors.CategoryValidation).
			Context("param", name).
			Build()
	}
	return uint(id), nil
}

// boolQuery reads an optional boolean query parameter, false when absent or
// malformed.
func boolQuery(ctx echo.Context, name string) bool {
	v, err := strconv.ParseBool(ctx.QueryParam(name))
	return err == nil && v
}

// trimmedName validates a required free-text name field.
func trimmedName(raw, field string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errors.Newf("%s is required", field).
			Category(errors.CategoryValidation).
			Context("field", field).
			Build()
	}
	return name, nil
}
