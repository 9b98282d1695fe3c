// Package commands - volleyball presentation commands (/vbuild, /vhelp)
package commands

import (
	"fmt"

	"github.com/VolleyStudios/VolleyBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// RegisterVolleyCommands registers the volleyball commands
func RegisterVolleyCommands(client *discord.ExtendedClient) {
	vbuildCmd := discord.NewCommand(
		"vbuild",
		"Crea una build de vóley",
		"volley",
		vbuildHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "usuario",
			Description: "Jugador",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "posicion",
			Description: "Posición",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "slot1",
			Description: "Primer slot",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "slot2",
			Description: "Segundo slot",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "altura",
			Description: "Altura",
			Required:    true,
		},
	)
	client.CommandHandler.RegisterCommand(vbuildCmd)

	vhelpCmd := discord.NewCommand(
		"vhelp",
		"Muestra comandos del bot",
		"volley",
		vhelpHandler,
	)
	client.CommandHandler.RegisterCommand(vhelpCmd)
}

// vbuildHandler handles the /vbuild command
func vbuildHandler(ctx *discord.CommandContext) error {
	embed := &discordgo.MessageEmbed{
		Title: "🏐 BUILD DE VOLLEYBALL",
		Color: 0xFF6B35,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: "https://cdn-icons-png.flaticon.com/512/857/857418.png",
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "👤 Usuario", Value: ctx.GetStringOption("usuario"), Inline: true},
			{Name: "🎯 Posición", Value: ctx.GetStringOption("posicion"), Inline: true},
			{Name: "📏 Altura", Value: ctx.GetStringOption("altura"), Inline: true},
			{Name: "⚡ Slot 1", Value: ctx.GetStringOption("slot1")},
			{Name: "🔥 Slot 2", Value: ctx.GetStringOption("slot2")},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text:    fmt.Sprintf("Build de %s", ctx.User().Username),
			IconURL: ctx.User().AvatarURL(""),
		},
	}

	return ctx.ReplyEmbed(embed)
}

// vhelpHandler handles the /vhelp command
func vhelpHandler(ctx *discord.CommandContext) error {
	embed := &discordgo.MessageEmbed{
		Title: "📚 COMANDOS DISPONIBLES",
		Color: 0x4CAF50,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "/warn", Value: "Advertir a un usuario."},
			{Name: "/ver-warns", Value: "Ver advertencias."},
			{Name: "/vbuild", Value: "Crear una build de vóley."},
			{Name: "/registrar-partido", Value: "Registrar un partido."},
			{Name: "/ver-historial", Value: "Ver historial de partidos."},
			{Name: "/ver-equipo", Value: "Ver estadísticas de un equipo."},
			{Name: "/play", Value: "Reproducir música."},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "VolleyBot Go",
		},
	}

	return ctx.ReplyEphemeralEmbed(embed)
}
