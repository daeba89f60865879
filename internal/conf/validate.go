// validate.go: validation of the loaded settings before anything runs.
package conf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tphakala/habitwheel/internal/errors"
)

// ValidateSettings checks the loaded settings for misconfiguration and
// returns a configuration error describing every problem found.
func ValidateSettings(settings *Settings) error {
	var problems []string

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validateOutputSettings(&settings.Output); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validateTrackingSettings(&settings.Tracking); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return errors.Newf("invalid configuration: %s", strings.Join(problems, "; ")).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	return nil
}

func validateWebServerSettings(ws *WebServerSettings) error {
	if !ws.Enabled {
		return nil
	}
	port, err := strconv.Atoi(ws.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("webserver.port must be a number between 1 and 65535, got %q", ws.Port)
	}
	return nil
}

func validateOutputSettings(out *OutputSettings) error {
	switch {
	case out.SQLite.Enabled && out.MySQL.Enabled:
		return fmt.Errorf("only one database backend may be enabled, got both sqlite and mysql")
	case !out.SQLite.Enabled && !out.MySQL.Enabled:
		return fmt.Errorf("no database backend enabled, enable output.sqlite or output.mysql")
	case out.SQLite.Enabled && out.SQLite.Path == "":
		return fmt.Errorf("output.sqlite.path must not be empty")
	case out.MySQL.Enabled && out.MySQL.Database == "":
		return fmt.Errorf("output.mysql.database must not be empty")
	}
	return nil
}

func validateTrackingSettings(tr *TrackingSettings) error {
	if tr.RoundLengthWeeks != 4 && tr.RoundLengthWeeks != 8 {
		return fmt.Errorf("tracking.roundlengthweeks must be 4 or 8, got %d", tr.RoundLengthWeeks)
	}
	if tr.WeekStartsOn < 0 || tr.WeekStartsOn > 6 {
		return fmt.Errorf("tracking.weekstartson must be between 0 and 6, got %d", tr.WeekStartsOn)
	}
	if _, err := time.LoadLocation(tr.Timezone); err != nil {
		return fmt.Errorf("tracking.timezone %q is not a valid timezone: %w", tr.Timezone, err)
	}
	switch strings.ToUpper(tr.WeightUnit) {
	case "LBS", "KG":
	default:
		return fmt.Errorf("tracking.weightunit must be LBS or KG, got %q", tr.WeightUnit)
	}
	return nil
}
