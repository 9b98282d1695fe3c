// Package mqtt publishes playback state changes to an MQTT broker so
// external dashboards can follow what the bot is doing.
package mqtt

import (
	"fmt"
	"sync"
	"time"

	"github.com/VolleyStudios/VolleyBotGo/pkg/config"
	"github.com/VolleyStudios/VolleyBotGo/pkg/logger"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Communicator wraps the MQTT connection used to publish bot state
type Communicator struct {
	client  paho.Client
	topic   string
	enabled bool
	mu      sync.RWMutex
}

var (
	communicator *Communicator
	once         sync.Once
)

// Init initializes the global MQTT communicator. A missing MQTT_Host
// disables publishing without failing startup.
func Init() *Communicator {
	once.Do(func() {
		communicator = newCommunicator()
	})
	return communicator
}

// Get returns the global communicator
func Get() *Communicator {
	return communicator
}

func newCommunicator() *Communicator {
	cfg := config.Get()

	if cfg.MQTTHost == "" {
		logger.Warn("MQTT_Host no configurado, publicación MQTT deshabilitada", "MQTT")
		return &Communicator{enabled: false}
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%s", cfg.MQTTHost, cfg.MQTTPort))
	opts.SetClientID("volleybot-" + uuid.New().String()[:8])
	opts.SetUsername(cfg.MQTTUser)
	opts.SetPassword(cfg.MQTTPassword)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetOnConnectHandler(func(paho.Client) {
		logger.Success("Conectado con el broker MQTT", "MQTT")
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
	})

	c := &Communicator{
		client:  paho.NewClient(opts),
		topic:   "volley/music",
		enabled: true,
	}

	if token := c.client.Connect(); token.WaitTimeout(10*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error al conectar con MQTT: %v", token.Error()), "MQTT")
	}

	return c
}

// PublishState sends a JSON payload for a channel's playback event,
// under volley/music/<channel>/<event>. The message is best-effort:
// failures are logged, never surfaced to commands.
func (c *Communicator) PublishState(channelID, event string, payload interface{}) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.enabled || !c.client.IsConnected() {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error(fmt.Sprintf("Error serializando mensaje MQTT: %v", err), "MQTT")
		return
	}

	topic := c.stateTopic(channelID, event)
	token := c.client.Publish(topic, 0, false, data)
	go func() {
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			logger.Warn(fmt.Sprintf("Error publicando en %s: %v", topic, token.Error()), "MQTT")
		}
	}()
}

// stateTopic builds the per-channel, per-event topic
func (c *Communicator) stateTopic(channelID, event string) string {
	return c.topic + "/" + channelID + "/" + event
}

// IsConnected reports whether the broker connection is live
func (c *Communicator) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled && c.client != nil && c.client.IsConnected()
}

// Destroy disconnects from the broker
func (c *Communicator) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.enabled && c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
		logger.System("Desconectado del broker MQTT", "MQTT")
	}
}
