// Package commands provides a registry for organizing bot commands.
// Commands are organized by category (mod, volley, music) in one file each.
package commands

import (
	"github.com/VolleyStudios/VolleyBotGo/pkg/discord"
	"github.com/VolleyStudios/VolleyBotGo/pkg/stats"
	"github.com/VolleyStudios/VolleyBotGo/pkg/warns"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, warnsSvc *warns.Service, statsEngine *stats.Engine, notifier *discord.ChannelNotifier) {
	// Moderation commands (/warn, /ver-warns)
	RegisterModCommands(client, warnsSvc)

	// Volleyball commands (/vbuild, /vhelp)
	RegisterVolleyCommands(client)

	// Match commands (/registrar-partido, /ver-historial, /ver-equipo)
	RegisterMatchCommands(client, statsEngine)

	// Music commands (/play)
	RegisterMusicCommands(client, notifier)
}
