package engine

import (
	"strconv"
	"time"
)

// ToInstant interprets a wall-clock "HH:mm" on the given civil date in the
// named IANA zone and returns the absolute instant. The zone's offset is
// resolved for that exact wall-clock value, so daylight-saving transitions
// are handled per call, not per day.
func ToInstant(date CivilDate, localTime string, zone string) (time.Time, error) {
	hour, minute, err := parseClock(localTime)
	if err != nil {
		return time.Time{}, err
	}

	loc, err := loadZone(zone)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(date.Year, date.Month, date.Day, hour, minute, 0, 0, loc), nil
}

// ToLocalTime projects an instant into the named zone and formats it as
// "HH:mm".
func ToLocalTime(instant time.Time, zone string) (string, error) {
	loc, err := loadZone(zone)
	if err != nil {
		return "", err
	}
	return instant.In(loc).Format("15:04"), nil
}

func loadZone(zone string) (*time.Location, error) {
	if zone == "" {
		return nil, &InvalidTimeError{Zone: zone, Reason: "empty zone identifier"}
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, &InvalidTimeError{Zone: zone, Reason: err.Error()}
	}
	return loc, nil
}

// parseClock parses a strict "HH:mm" string. Every field position must be a
// digit; strconv alone would also accept signed fields like "+1:30".
func parseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, &InvalidTimeError{Value: s, Reason: "expected HH:mm"}
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, &InvalidTimeError{Value: s, Reason: "expected HH:mm"}
		}
	}

	hour, err = strconv.Atoi(s[:2])
	if err != nil || hour > 23 {
		return 0, 0, &InvalidTimeError{Value: s, Reason: "hour out of range"}
	}

	minute, err = strconv.Atoi(s[3:])
	if err != nil || minute > 59 {
		return 0, 0, &InvalidTimeError{Value: s, Reason: "minute out of range"}
	}

	return hour, minute, nil
}
