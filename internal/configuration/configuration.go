package configuration

import (
	"os"
	"sync"

	"gopkg.in/yaml.v2"
)

func defaultConfiguration() Configuration {
	return Configuration{
		MqttConfiguration: MqttConfiguration{
			Address:  "localhost",
			Port:     1883,
			ClientID: "groupdevice",
		},
		DeviceConfiguration: DeviceConfiguration{
			DeviceID: "dev0",
			DataDir:  "./data",
		},
		LogLevel: 2,
	}
}

// Init loads the YAML configuration file. Missing fields keep their defaults.
func Init(filename string) (ConfigurationService, error) {
	cfg := defaultConfiguration()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &configurationService{
		filename:      filename,
		configuration: cfg,
	}, nil
}

type configurationService struct {
	mtx           sync.Mutex
	filename      string
	configuration Configuration
}

func (s *configurationService) GetConfiguration() Configuration {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.configuration
}

func (s *configurationService) Update(updatedConfig Configuration) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	data, err := yaml.Marshal(updatedConfig)
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.filename, data, 0644); err != nil {
		return err
	}

	s.configuration = updatedConfig

	return nil
}
