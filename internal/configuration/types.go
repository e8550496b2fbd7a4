package configuration

type MqttConfiguration struct {
	Address  string `yaml:"address"`
	Port     uint16 `yaml:"port"`
	ClientID string `yaml:"clientid"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type DeviceConfiguration struct {
	// DeviceID is the device's own identity, used for direct addressing
	// and for the function call topics. A long hex string in production.
	DeviceID string `yaml:"deviceid"`
	DataDir  string `yaml:"datadir"`
}

type Configuration struct {
	MqttConfiguration   MqttConfiguration   `yaml:"mqtt"`
	DeviceConfiguration DeviceConfiguration `yaml:"device"`
	LogLevel            int                 `yaml:"loglevel"` // info=0, warn=1, error=2, debug=3
}
