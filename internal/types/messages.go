package types

// DeviceStatusMessage is published on startup and after every successful
// configuration mutation.
type DeviceStatusMessage struct {
	DeviceID string
	UserID   string
	Groups   []int // ints, not bytes: []uint8 would JSON-encode as base64
}

// FunctionResultMessage carries the integer status of an administrative
// function call back to the caller.
type FunctionResultMessage struct {
	Function string
	Status   int
}
