package mqtt

import (
	"fmt"
	"log"
	"time"

	mqttlib "github.com/eclipse/paho.mqtt.golang"

	"github.com/particle-iot/messaging-arch-for-scale/internal/configuration"
	"github.com/particle-iot/messaging-arch-for-scale/internal/logger"
)

func NewClient(config *configuration.Configuration) (MqttClient, func()) {
	retClient := defaultMqttClient{
		configuration: config,
		logger:        logger.GetLogger("[MQTT Client]", config.LogLevel),
	}

	mqttlib.ERROR = log.New(retClient.logger.GetWriter(), "[MQTT Client]", 0)

	opts := mqttlib.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", config.MqttConfiguration.Address, config.MqttConfiguration.Port))
	opts.SetClientID(config.MqttConfiguration.ClientID)
	opts.SetUsername(config.MqttConfiguration.Username)
	opts.SetPassword(config.MqttConfiguration.Password)
	opts.AutoReconnect = true
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(1 * time.Second)
	opts.SetOrderMatters(false)
	opts.OnConnect = func(client mqttlib.Client) {
		retClient.logger.Info("Connected")
	}
	opts.OnConnectionLost = func(client mqttlib.Client, err error) {
		retClient.logger.Warn("Connect lost: %v", err)
	}

	innerClient := mqttlib.NewClient(opts)

	if token := innerClient.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal(token.Error())
	}

	retClient.logger.Info("Connected to MQTT on '%v:%v'", config.MqttConfiguration.Address, config.MqttConfiguration.Port)

	retClient.innerClient = innerClient

	return &retClient, func() { retClient.Dispose() }
}

type defaultMqttClient struct {
	innerClient     mqttlib.Client
	messageCallback func(topic string, message []byte)
	configuration   *configuration.Configuration
	logger          logger.Logger
}

func (cl *defaultMqttClient) Dispose() {
	cl.logger.Info("Disposing MQTT client")
	cl.innerClient.Disconnect(0)
}

func (cl *defaultMqttClient) Publish(topic string, data []byte) {
	cl.innerClient.Publish(topic, 0, false, data)
}

// Subscribe adds one subscription filter. All filters share the single
// message callback set via SetMessageHandler.
func (cl *defaultMqttClient) Subscribe(filter string) error {
	token := cl.innerClient.Subscribe(filter, 0, cl.onMessageReceived)
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}

	cl.logger.Info("Subscribed to '%v'", filter)
	return nil
}

// Unsubscribe removes exactly one filter. Other subscriptions the client
// holds are left alone.
func (cl *defaultMqttClient) Unsubscribe(filter string) error {
	token := cl.innerClient.Unsubscribe(filter)
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}

	cl.logger.Info("Unsubscribed from '%v'", filter)
	return nil
}

func (cl *defaultMqttClient) SetMessageHandler(callback func(topic string, message []byte)) {
	cl.messageCallback = callback
}

func (cl *defaultMqttClient) onMessageReceived(client mqttlib.Client, msg mqttlib.Message) {
	topic := msg.Topic()
	message := msg.Payload()

	if cl.messageCallback != nil {
		cl.messageCallback(topic, message)
	}
}
