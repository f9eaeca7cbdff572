package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// delayValue is a pflag.Value for the politeness delay. It accepts bare
// seconds ("1.5", "2") as well as Go duration strings ("1500ms", "2s").
type delayValue time.Duration

func newDelayValue(d time.Duration) *delayValue {
	v := delayValue(d)
	return &v
}

func (d *delayValue) Set(s string) error {
	parsed, err := parseDelay(s)
	if err != nil {
		return err
	}
	*d = delayValue(parsed)
	return nil
}

func (d *delayValue) Type() string { return "seconds" }

func (d *delayValue) String() string { return time.Duration(*d).String() }

// parseDelay reads a delay as float seconds or as a duration string.
func parseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: use seconds (1.5) or a duration (1500ms)", s)
	}
	return parsed, nil
}
