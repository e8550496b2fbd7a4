package db

const (
	// FormatVersion is written with every record. 0xFF is reserved:
	// erased storage reads back as all-ones, so a version byte of 0xFF
	// means the record was never written.
	FormatVersion = 1

	erasedVersion = 0xFF

	// MaxUserIDLen is the longest user ID the record can hold.
	MaxUserIDLen = 8

	// MaxGroups is the group membership capacity.
	MaxGroups = 16

	// record layout: version(1) + userID(8+NUL) + numGroups(1) + groups(16)
	recordSize = 1 + MaxUserIDLen + 1 + 1 + MaxGroups
)

// DeviceConfig is the persistent device record. It survives power loss,
// is loaded once at startup and rewritten on every mutation.
type DeviceConfig struct {
	FormatVersion uint8
	UserID        string
	GroupIDs      []uint8
}

func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		FormatVersion: FormatVersion,
		UserID:        "",
		GroupIDs:      nil,
	}
}
