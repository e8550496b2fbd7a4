package router

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/particle-iot/messaging-arch-for-scale/internal/configuration"
	"github.com/particle-iot/messaging-arch-for-scale/internal/device"
	"github.com/particle-iot/messaging-arch-for-scale/internal/logger"
	"github.com/particle-iot/messaging-arch-for-scale/internal/mqtt"
	"github.com/particle-iot/messaging-arch-for-scale/internal/topic"
	"github.com/particle-iot/messaging-arch-for-scale/internal/types"
)

const (
	FunctionAddToGroup  = "addToGroup"
	FunctionClearGroups = "clearGroups"
	FunctionSetUserID   = "setUserID"
)

type messageRouter struct {
	mqttClient    mqtt.MqttClient
	deviceService *device.Service
	deviceID      string
	handlers      map[string]HandlerFunc
	logger        logger.Logger
	ctx           context.Context
}

func NewMessageRouter(
	cfg *configuration.Configuration,
	mqttClient mqtt.MqttClient,
	deviceService *device.Service) MessageRouter {
	ret := messageRouter{
		mqttClient:    mqttClient,
		deviceService: deviceService,
		deviceID:      cfg.DeviceConfiguration.DeviceID,
		handlers:      make(map[string]HandlerFunc),
		logger:        logger.GetLogger("[Message Router]", cfg.LogLevel),
		ctx:           context.Background(),
	}

	mqttClient.SetMessageHandler(ret.onMessage)

	return &ret
}

func (r *messageRouter) RegisterHandler(command string, handler HandlerFunc) {
	r.handlers[command] = handler
}

func (r *messageRouter) Start(ctx context.Context) error {
	r.ctx = ctx

	if err := r.mqttClient.Subscribe(topic.FunctionCallFilter(r.deviceID)); err != nil {
		return err
	}

	if userID := r.deviceService.UserID(); userID != "" {
		if err := r.mqttClient.Subscribe(topic.EventFilter(userID)); err != nil {
			return err
		}
	}

	r.publishStatus()

	return nil
}

func (r *messageRouter) onMessage(topicName string, message []byte) {
	callPrefix := topic.FunctionCallPrefix(r.deviceID)
	if strings.HasPrefix(topicName, callPrefix) {
		r.handleFunctionCall(strings.TrimPrefix(topicName, callPrefix), message)
		return
	}

	r.handleEvent(topicName, message)
}

// handleEvent runs the dispatch pipeline: parse, gate on the configured
// user ID, match the selector against device identity and membership,
// then invoke the named handler. Every miss degrades to a logged no-op.
func (r *messageRouter) handleEvent(topicName string, message []byte) {
	parsed, ok := topic.Parse(topicName)
	if !ok {
		return
	}

	config := r.deviceService.Config()

	// The subscription filter already scopes delivery to our user ID,
	// this guards against stray retained or looped-back messages.
	if parsed.User != config.UserID {
		r.logger.Debug("Dropping event for user '%v'", parsed.User)
		return
	}

	if parsed.Command == "" {
		return
	}

	if !parsed.MatchesDevice(r.deviceID, config.GroupIDs) {
		r.logger.Debug("Selector '%v' does not address this device", parsed.Selector)
		return
	}

	handler, ok := r.handlers[parsed.Command]
	if !ok {
		r.logger.Warn("Unknown command '%v'", parsed.Command)
		return
	}

	handler(message)
}

func (r *messageRouter) handleFunctionCall(function string, message []byte) {
	arg := string(message)

	var status int
	switch function {
	case FunctionAddToGroup:
		status = r.deviceService.AddToGroup(r.ctx, arg)
	case FunctionClearGroups:
		status = r.deviceService.ClearGroups(r.ctx)
	case FunctionSetUserID:
		status = r.deviceService.SetUserID(r.ctx, arg)
	default:
		r.logger.Warn("Unknown function '%v'", function)
		return
	}

	r.publishFunctionResult(function, status)

	if status >= 0 {
		r.publishStatus()
	}
}

func (r *messageRouter) publishFunctionResult(function string, status int) {
	jsonData, err := json.Marshal(types.FunctionResultMessage{
		Function: function,
		Status:   status,
	})
	if err != nil {
		r.logger.Error("Error Marshal FunctionResultMessage: %v", err)
		return
	}

	r.mqttClient.Publish(topic.FunctionResult(r.deviceID, function), jsonData)
}

func (r *messageRouter) publishStatus() {
	config := r.deviceService.Config()

	groups := make([]int, len(config.GroupIDs))
	for i, g := range config.GroupIDs {
		groups[i] = int(g)
	}

	jsonData, err := json.Marshal(types.DeviceStatusMessage{
		DeviceID: r.deviceID,
		UserID:   config.UserID,
		Groups:   groups,
	})
	if err != nil {
		r.logger.Error("Error Marshal DeviceStatusMessage: %v", err)
		return
	}

	r.mqttClient.Publish(topic.Status(r.deviceID), jsonData)
}
