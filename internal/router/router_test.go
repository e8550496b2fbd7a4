package router

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/particle-iot/messaging-arch-for-scale/internal/configuration"
	"github.com/particle-iot/messaging-arch-for-scale/internal/db"
	"github.com/particle-iot/messaging-arch-for-scale/internal/device"
	"github.com/particle-iot/messaging-arch-for-scale/internal/logger"
	"github.com/particle-iot/messaging-arch-for-scale/internal/types"
)

type publishedMessage struct {
	topic   string
	payload []byte
}

type fakeMqttClient struct {
	callback     func(topic string, message []byte)
	published    []publishedMessage
	subscribed   []string
	unsubscribed []string
}

func (f *fakeMqttClient) Dispose() {}

func (f *fakeMqttClient) Publish(topic string, data []byte) {
	f.published = append(f.published, publishedMessage{topic: topic, payload: data})
}

func (f *fakeMqttClient) Subscribe(filter string) error {
	f.subscribed = append(f.subscribed, filter)
	return nil
}

func (f *fakeMqttClient) Unsubscribe(filter string) error {
	f.unsubscribed = append(f.unsubscribed, filter)
	return nil
}

func (f *fakeMqttClient) SetMessageHandler(callback func(topic string, message []byte)) {
	f.callback = callback
}

func (f *fakeMqttClient) inject(topic string, payload string) {
	f.callback(topic, []byte(payload))
}

func (f *fakeMqttClient) lastResult(t *testing.T) types.FunctionResultMessage {
	t.Helper()

	for i := len(f.published) - 1; i >= 0; i-- {
		var msg types.FunctionResultMessage
		if err := json.Unmarshal(f.published[i].payload, &msg); err == nil && msg.Function != "" {
			return msg
		}
	}

	t.Fatal("no function result published")
	return types.FunctionResultMessage{}
}

func newTestRouter(t *testing.T) (MessageRouter, *fakeMqttClient, *device.Service) {
	store, err := db.NewConfigDB(t.TempDir())
	assert.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })

	client := &fakeMqttClient{}

	svc, err := device.NewService(context.Background(), store, client, logger.LogLevelError)
	assert.NoError(t, err)

	cfg := configuration.Configuration{
		DeviceConfiguration: configuration.DeviceConfiguration{
			DeviceID: "dev42",
		},
		LogLevel: logger.LogLevelError,
	}

	r := NewMessageRouter(&cfg, client, svc)

	return r, client, svc
}

// The scenario from the device's point of view: userID "123ABC",
// member of group 7, own ID "dev42".
func setupScenario(t *testing.T) (MessageRouter, *fakeMqttClient, *[]string) {
	r, client, svc := newTestRouter(t)

	ctx := context.Background()
	svc.SetUserID(ctx, "123ABC")
	svc.AddToGroup(ctx, "7")

	var dispatched []string
	r.RegisterHandler("f1", func(payload []byte) {
		dispatched = append(dispatched, string(payload))
	})

	err := r.Start(ctx)
	assert.NoError(t, err)

	return r, client, &dispatched
}

func TestStartSubscribesCallAndEventFilters(t *testing.T) {
	_, client, _ := setupScenario(t)

	assert.Contains(t, client.subscribed, "devices/dev42/call/+")
	assert.Contains(t, client.subscribed, "123ABC/#")
}

func TestStartWithoutUserIDSubscribesOnlyCalls(t *testing.T) {
	r, client, _ := newTestRouter(t)

	err := r.Start(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, []string{"devices/dev42/call/+"}, client.subscribed)
}

func TestDispatchBroadcast(t *testing.T) {
	_, client, dispatched := setupScenario(t)

	client.inject("123ABC/f1", "payload")
	assert.Equal(t, []string{"payload"}, *dispatched)
}

func TestDispatchToOwnGroup(t *testing.T) {
	_, client, dispatched := setupScenario(t)

	client.inject("123ABC/f1/7", "go")
	assert.Equal(t, []string{"go"}, *dispatched)
}

func TestNoDispatchToForeignGroup(t *testing.T) {
	_, client, dispatched := setupScenario(t)

	client.inject("123ABC/f1/8", "go")
	assert.Empty(t, *dispatched)
}

func TestDispatchToOwnDeviceID(t *testing.T) {
	_, client, dispatched := setupScenario(t)

	client.inject("123ABC/f1/dev42", "direct")
	assert.Equal(t, []string{"direct"}, *dispatched)
}

func TestNoDispatchForForeignUser(t *testing.T) {
	_, client, dispatched := setupScenario(t)

	client.inject("OTHER/f1", "go")
	client.inject("OTHER/f1/7", "go")
	assert.Empty(t, *dispatched)
}

func TestNoDispatchWithoutCommand(t *testing.T) {
	_, client, dispatched := setupScenario(t)

	client.inject("123ABC", "go")
	assert.Empty(t, *dispatched)
}

func TestUnknownCommandIsNoOp(t *testing.T) {
	_, client, dispatched := setupScenario(t)

	client.inject("123ABC/unknown/7", "go")
	assert.Empty(t, *dispatched)
}

func TestNonNumericSelectorDoesNotDispatch(t *testing.T) {
	_, client, dispatched := setupScenario(t)

	client.inject("123ABC/f1/junk", "go")
	assert.Empty(t, *dispatched)
}

func TestFunctionCallAddToGroup(t *testing.T) {
	_, client, _ := setupScenario(t)

	client.inject("devices/dev42/call/addToGroup", "9")

	result := client.lastResult(t)
	assert.Equal(t, FunctionAddToGroup, result.Function)
	assert.Equal(t, 9, result.Status)
}

func TestFunctionCallAddToGroupInvalid(t *testing.T) {
	_, client, _ := setupScenario(t)

	client.inject("devices/dev42/call/addToGroup", "0")

	result := client.lastResult(t)
	assert.Equal(t, device.StatusInvalidArgument, result.Status)
}

func TestFunctionCallClearGroups(t *testing.T) {
	_, client, dispatched := setupScenario(t)

	client.inject("devices/dev42/call/clearGroups", "")

	result := client.lastResult(t)
	assert.Equal(t, FunctionClearGroups, result.Function)
	assert.Equal(t, device.StatusOK, result.Status)

	// Membership is gone, group addressing no longer matches.
	client.inject("123ABC/f1/7", "go")
	assert.Empty(t, *dispatched)
}

func TestFunctionCallSetUserIDResubscribes(t *testing.T) {
	_, client, dispatched := setupScenario(t)

	client.inject("devices/dev42/call/setUserID", "NEWUSER")

	result := client.lastResult(t)
	assert.Equal(t, device.StatusOK, result.Status)

	assert.Contains(t, client.subscribed, "NEWUSER/#")
	assert.Contains(t, client.unsubscribed, "123ABC/#")
	assert.NotContains(t, client.unsubscribed, "devices/dev42/call/+")

	// Old user scope no longer dispatches, new one does.
	client.inject("123ABC/f1", "old")
	assert.Empty(t, *dispatched)

	client.inject("NEWUSER/f1", "new")
	assert.Equal(t, []string{"new"}, *dispatched)
}

func TestFunctionCallUnknownPublishesNothing(t *testing.T) {
	_, client, _ := setupScenario(t)

	before := len(client.published)
	client.inject("devices/dev42/call/reboot", "")
	assert.Equal(t, before, len(client.published))
}

func TestStatusPublishedOnStartAndMutation(t *testing.T) {
	_, client, _ := setupScenario(t)

	client.inject("devices/dev42/call/addToGroup", "9")

	var statuses []types.DeviceStatusMessage
	for _, p := range client.published {
		if p.topic != "devices/dev42/status" {
			continue
		}

		var msg types.DeviceStatusMessage
		assert.NoError(t, json.Unmarshal(p.payload, &msg))
		statuses = append(statuses, msg)
	}

	assert.GreaterOrEqual(t, len(statuses), 2)

	last := statuses[len(statuses)-1]
	assert.Equal(t, "dev42", last.DeviceID)
	assert.Equal(t, "123ABC", last.UserID)
	assert.Equal(t, []int{7, 9}, last.Groups)
}
