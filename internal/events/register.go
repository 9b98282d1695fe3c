// Package events provides a registry for organizing bot events.
// Events are organized by category (ready, guild, voice)
package events

import (
	"github.com/VolleyStudios/VolleyBotGo/pkg/discord"
	"github.com/VolleyStudios/VolleyBotGo/pkg/logger"
)

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	// Voice events (join/leave)
	RegisterVoiceEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
