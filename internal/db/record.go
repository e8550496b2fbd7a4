package db

import "fmt"

// Record layout offsets. The user ID field is 9 bytes: 8 characters
// plus a NUL terminator that is never overwritten.
const (
	offVersion   = 0
	offUserID    = 1
	offNumGroups = offUserID + MaxUserIDLen + 1
	offGroups    = offNumGroups + 1
)

// MarshalBinary encodes the record into its fixed 27 byte layout:
// {version:1, userID:9, numGroups:1, groupIDs:16}. The user ID is
// truncated to 8 characters, unused bytes stay zero.
func (c DeviceConfig) MarshalBinary() ([]byte, error) {
	if len(c.GroupIDs) > MaxGroups {
		return nil, fmt.Errorf("db: %d groups exceed capacity of %d", len(c.GroupIDs), MaxGroups)
	}

	buf := make([]byte, recordSize)
	buf[offVersion] = c.FormatVersion

	userID := c.UserID
	if len(userID) > MaxUserIDLen {
		userID = userID[:MaxUserIDLen]
	}
	copy(buf[offUserID:offUserID+MaxUserIDLen], userID)

	buf[offNumGroups] = uint8(len(c.GroupIDs))
	copy(buf[offGroups:], c.GroupIDs)

	return buf, nil
}

// UnmarshalBinary decodes the fixed layout produced by MarshalBinary.
func (c *DeviceConfig) UnmarshalBinary(data []byte) error {
	if len(data) != recordSize {
		return fmt.Errorf("db: record is %d bytes, want %d", len(data), recordSize)
	}

	c.FormatVersion = data[offVersion]

	userID := data[offUserID : offUserID+MaxUserIDLen]
	end := 0
	for end < len(userID) && userID[end] != 0 {
		end++
	}
	c.UserID = string(userID[:end])

	numGroups := int(data[offNumGroups])
	if numGroups > MaxGroups {
		numGroups = MaxGroups
	}

	c.GroupIDs = make([]uint8, numGroups)
	copy(c.GroupIDs, data[offGroups:offGroups+numGroups])

	return nil
}
