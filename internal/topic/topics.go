package topic

import "fmt"

// Builders for the fixed per-device topics, so the router and the device
// service agree on naming.

// EventFilter is the subscription filter covering every event published
// under a user ID.
func EventFilter(userID string) string {
	return fmt.Sprintf("%v/#", userID)
}

// FunctionCallFilter covers the administrative function calls addressed
// to one device.
func FunctionCallFilter(deviceID string) string {
	return fmt.Sprintf("devices/%v/call/+", deviceID)
}

// FunctionCallPrefix is the literal prefix of a function call topic; the
// remainder of the topic names the function.
func FunctionCallPrefix(deviceID string) string {
	return fmt.Sprintf("devices/%v/call/", deviceID)
}

// FunctionResult is where the integer status of a function call is
// published.
func FunctionResult(deviceID string, function string) string {
	return fmt.Sprintf("devices/%v/result/%v", deviceID, function)
}

// Status is where the device announces its current configuration.
func Status(deviceID string) string {
	return fmt.Sprintf("devices/%v/status", deviceID)
}
