// Package main is the entry point for the VolleyBot Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/VolleyStudios/VolleyBotGo/internal/commands"
	"github.com/VolleyStudios/VolleyBotGo/internal/events"
	"github.com/VolleyStudios/VolleyBotGo/pkg/config"
	"github.com/VolleyStudios/VolleyBotGo/pkg/discord"
	"github.com/VolleyStudios/VolleyBotGo/pkg/errors"
	"github.com/VolleyStudios/VolleyBotGo/pkg/lavalink"
	"github.com/VolleyStudios/VolleyBotGo/pkg/logger"
	"github.com/VolleyStudios/VolleyBotGo/pkg/mqtt"
	"github.com/VolleyStudios/VolleyBotGo/pkg/player"
	"github.com/VolleyStudios/VolleyBotGo/pkg/stats"
	"github.com/VolleyStudios/VolleyBotGo/pkg/store"
	"github.com/VolleyStudios/VolleyBotGo/pkg/warns"
	"github.com/VolleyStudios/VolleyBotGo/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando VolleyBot Go...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	var lavalinkClient *lavalink.Client
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			_ = discordClient.Stop()
		}
		if lavalinkClient != nil {
			lavalinkClient.Disconnect()
		}
	})

	// Initialize the record store and the services on top of it
	recordStore, err := store.Init(cfg.DataDir)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error inicializando almacenamiento: %v", err), "Main")
		os.Exit(1)
	}

	warnsService, err := warns.NewService(recordStore)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error cargando advertencias: %v", err), "Main")
		os.Exit(1)
	}

	statsEngine, err := stats.NewEngine(recordStore)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error cargando estadísticas: %v", err), "Main")
		os.Exit(1)
	}

	// Initialize MQTT
	mqttClient := mqtt.Init()
	defer mqttClient.Destroy()

	// Initialize web server
	webServer := web.Init()
	web.SetupAPIRoutes(webServer, statsEngine)
	webServer.StartAsync(cfg.Port)

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando cliente de Discord: %v", err), "Main")
		os.Exit(1)
	}

	// Initialize Lavalink as the media engine and the playback
	// controller on top of it
	lavalinkClient = lavalink.Init(discordClient.Session, []lavalink.NodeConfig{
		{
			Name:     "VolleyNode",
			Host:     cfg.LinkServer,
			Port:     cfg.LinkPort,
			Password: cfg.LinkPassword,
			Secure:   false,
		},
	})

	notifier := discord.NewChannelNotifier(discordClient.Session)
	controller := player.New(lavalinkClient, notifier)
	controller.SetPublisher(func(channelID, event string, session player.Session) {
		mqttClient.PublishState(channelID, event, map[string]interface{}{
			"channelId": channelID,
			"state":     session.State.String(),
		})
	})
	lavalinkClient.SetEventHandler(controller.HandleEvent)
	discordClient.Player = controller

	// Register commands and events
	commands.RegisterAll(discordClient, warnsService, statsEngine, notifier)
	events.RegisterAll(discordClient)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error iniciando cliente de Discord: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		_ = discordClient.Stop()
	}()

	// Connect Lavalink after Discord is connected
	if err := lavalinkClient.Connect(); err != nil {
		logger.Error(fmt.Sprintf("Error conectando con Lavalink: %v", err), "Main")
	}
	defer lavalinkClient.Disconnect()

	logger.Success("VolleyBot Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando VolleyBot Go...", "Main")
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
