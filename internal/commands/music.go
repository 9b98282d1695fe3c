// Package commands - music commands (/play)
package commands

import (
	"fmt"

	"github.com/VolleyStudios/VolleyBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// RegisterMusicCommands registers the music commands
func RegisterMusicCommands(client *discord.ExtendedClient, notifier *discord.ChannelNotifier) {
	playCmd := discord.NewCommand(
		"play",
		"Reproducir música",
		"music",
		playHandler(notifier),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "query",
			Description: "Nombre o URL",
			Required:    true,
		},
	).RequiresVoice().
		WithBotPermissions(discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak)
	client.CommandHandler.RegisterCommand(playCmd)
}

// playHandler handles the /play command. The router already verified
// the caller's voice channel and the bot's connect/speak permission.
func playHandler(notifier *discord.ChannelNotifier) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		query := ctx.GetStringOption("query")
		guildID := ctx.Interaction.GuildID

		controller := ctx.Client.Player
		if controller == nil {
			return ctx.ReplyEphemeral("❌ El sistema de música no está disponible.")
		}

		voiceChannelID := ctx.Client.VoiceChannelOf(guildID, ctx.User().ID)
		if voiceChannelID == "" {
			return ctx.ReplyEphemeral("❌ Debes estar en un canal de voz.")
		}

		// Acknowledge first; resolution can take a while
		if err := ctx.Reply(fmt.Sprintf("🎶 Buscando **%s**...", query)); err != nil {
			return err
		}

		if notifier != nil {
			notifier.BindChannel(guildID, ctx.Interaction.ChannelID)
		}

		if _, err := controller.Play(guildID, voiceChannelID, query, ctx.User().Username); err != nil {
			return ctx.FollowUpEphemeral(fmt.Sprintf("❌ No se pudo reproducir: %v", err))
		}

		return nil
	}
}
