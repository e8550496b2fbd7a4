package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/particle-iot/messaging-arch-for-scale/internal/configuration"
	"github.com/particle-iot/messaging-arch-for-scale/internal/db"
	"github.com/particle-iot/messaging-arch-for-scale/internal/device"
	"github.com/particle-iot/messaging-arch-for-scale/internal/handlers"
	"github.com/particle-iot/messaging-arch-for-scale/internal/logger"
	"github.com/particle-iot/messaging-arch-for-scale/internal/mqtt"
	"github.com/particle-iot/messaging-arch-for-scale/internal/router"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := logger.GetLogger("[main]", logger.LogLevelError)

	var configFile = flag.String("c", "./configuration.yaml", "path to config file name")
	flag.Parse()

	configService, err := configuration.Init(*configFile)
	if err != nil {
		logger.Error("Configuration initialization error: %v", err)
		os.Exit(1)
	}

	cfg := configService.GetConfiguration()

	configDB, err := db.NewConfigDB(cfg.DeviceConfiguration.DataDir)
	if err != nil {
		logger.Error("db initialization error: %v", err)
		os.Exit(1)
	}
	defer configDB.Close(ctx)

	mqttClient, mqttDisconnect := mqtt.NewClient(&cfg)
	defer mqttDisconnect()

	deviceService, err := device.NewService(ctx, configDB, mqttClient, cfg.LogLevel)
	if err != nil {
		logger.Error("device service initialization error: %v", err)
		os.Exit(1)
	}

	messageRouter := router.NewMessageRouter(&cfg, mqttClient, deviceService)
	setupHandlers(messageRouter, &cfg)

	if err := messageRouter.Start(ctx); err != nil {
		logger.Error("router start error: %v", err)
		os.Exit(1)
	}

	waitForInterruptSignal()

	logger.Info("exiting app...")
}

func setupHandlers(messageRouter router.MessageRouter, cfg *configuration.Configuration) {
	led := handlers.NewLED(cfg.LogLevel)

	messageRouter.RegisterHandler("led", led.SetColor)
	messageRouter.RegisterHandler("ledOff", led.Off)
	messageRouter.RegisterHandler("blink", led.Blink)
	messageRouter.RegisterHandler("log", handlers.Echo(logger.GetLogger("[log command]", cfg.LogLevel)))
}

func waitForInterruptSignal() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, os.Interrupt)
	defer func() {
		signal.Stop(sigchan)
	}()
	<-sigchan
}
