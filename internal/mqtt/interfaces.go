package mqtt

type MqttClient interface {
	Dispose()
	Publish(topic string, data []byte)
	Subscribe(filter string) error
	Unsubscribe(filter string) error
	SetMessageHandler(callback func(topic string, message []byte))
}
