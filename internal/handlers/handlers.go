// Package handlers holds the command side effects the router dispatches
// to. On real hardware these drive an RGB LED; here they track the state
// and log the transition.
package handlers

import (
	"strconv"

	"github.com/particle-iot/messaging-arch-for-scale/internal/logger"
)

type LED struct {
	color  string
	on     bool
	logger logger.Logger
}

func NewLED(logLevel int) *LED {
	return &LED{
		color:  "white",
		logger: logger.GetLogger("[LED]", logLevel),
	}
}

// SetColor expects a color word as payload, e.g. "red".
func (l *LED) SetColor(payload []byte) {
	l.color = string(payload)
	l.on = true
	l.logger.Info("LED on, color '%v'", l.color)
}

func (l *LED) Off(payload []byte) {
	l.on = false
	l.logger.Info("LED off")
}

// Blink expects a decimal count; anything unparseable blinks once.
func (l *LED) Blink(payload []byte) {
	count, err := strconv.Atoi(string(payload))
	if err != nil || count < 1 {
		count = 1
	}

	l.on = true
	l.logger.Info("LED blinking %v times, color '%v'", count, l.color)
}

func (l *LED) Color() string {
	return l.color
}

func (l *LED) IsOn() bool {
	return l.on
}

// Echo returns a handler that logs the payload verbatim.
func Echo(log logger.Logger) func(payload []byte) {
	return func(payload []byte) {
		log.Info("Payload: %v", string(payload))
	}
}
