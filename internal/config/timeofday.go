package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a wall-clock "HH:MM" value used for the daily report
// schedule. It marshals to/from the "HH:MM" string form used in the
// config file.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// CronSpec renders the time as a standard 5-field cron expression.
func (t TimeOfDay) CronSpec() string {
	return fmt.Sprintf("%d %d * * *", t.Minute, t.Hour)
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("invalid time of day format type: %s", string(b))
	}
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return fmt.Errorf("invalid time of day format: %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return err
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return err
	}
	if hour < 0 || hour > 23 {
		return fmt.Errorf("invalid hour: %d", hour)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("invalid minute: %d", minute)
	}
	t.Hour = hour
	t.Minute = minute
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}
