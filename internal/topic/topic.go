// Package topic implements the event topic grammar:
//
//	<userID>/<command>[/<selector>]
//
// The selector is optional. Omitted it addresses every device under the
// user; equal to a device's own ID it addresses that device directly;
// anything else is read as a decimal group number.
package topic

import (
	"strconv"
	"strings"
)

// ParsedTopic is derived per incoming event and discarded after dispatch.
type ParsedTopic struct {
	User        string
	Command     string
	Selector    string
	HasSelector bool
}

// Parse splits an event topic on "/" into at most three segments. A
// fourth segment, if present, is ignored. The input is never mutated.
// Returns false for an empty topic or an empty first segment.
func Parse(raw string) (ParsedTopic, bool) {
	if raw == "" {
		return ParsedTopic{}, false
	}

	segments := strings.SplitN(raw, "/", 4)
	if segments[0] == "" {
		return ParsedTopic{}, false
	}

	ret := ParsedTopic{
		User: segments[0],
	}

	if len(segments) > 1 {
		ret.Command = segments[1]
	}

	if len(segments) > 2 && segments[2] != "" {
		ret.Selector = segments[2]
		ret.HasSelector = true
	}

	return ret, true
}

// MatchesDevice reports whether this topic addresses the given device.
// Checks run in order, first match wins:
//
//  1. no selector: every device under the user is addressed
//  2. selector equals the device's own ID: direct addressing
//  3. selector read as a decimal group number present in the membership
//
// The numeric read is permissive: a non-numeric selector counts as group 0,
// which no device can belong to since valid groups start at 1.
func (t ParsedTopic) MatchesDevice(ownDeviceID string, groups []uint8) bool {
	if !t.HasSelector {
		return true
	}

	if t.Selector == ownDeviceID {
		return true
	}

	group, err := strconv.Atoi(t.Selector)
	if err != nil {
		group = 0
	}

	for _, g := range groups {
		if int(g) == group {
			return true
		}
	}

	return false
}
