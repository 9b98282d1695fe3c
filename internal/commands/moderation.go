// Package commands - moderation commands (/warn, /ver-warns)
package commands

import (
	"fmt"

	"github.com/VolleyStudios/VolleyBotGo/pkg/discord"
	"github.com/VolleyStudios/VolleyBotGo/pkg/warns"
	"github.com/bwmarrin/discordgo"
)

// RegisterModCommands registers the moderation commands
func RegisterModCommands(client *discord.ExtendedClient, svc *warns.Service) {
	warnCmd := discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		warnHandler(svc),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a advertir",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la advertencia",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers)
	client.CommandHandler.RegisterCommand(warnCmd)

	verWarnsCmd := discord.NewCommand(
		"ver-warns",
		"Ver advertencias",
		"mod",
		verWarnsHandler(svc),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario",
			Required:    true,
		},
	)
	client.CommandHandler.RegisterCommand(verWarnsCmd)
}

// warnHandler handles the /warn command
func warnHandler(svc *warns.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		user := ctx.GetUserOption("usuario")
		reason := ctx.GetStringOption("razon")

		if _, err := svc.Add(user.ID, reason, ctx.User().ID); err != nil {
			return err
		}

		return ctx.Reply(fmt.Sprintf("⚠️ Advertencia a <@%s>: **%s**", user.ID, reason))
	}
}

// verWarnsHandler handles the /ver-warns command
func verWarnsHandler(svc *warns.Service) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		user := ctx.GetUserOption("usuario")

		lista := svc.List(user.ID)
		if len(lista) == 0 {
			return ctx.Reply(fmt.Sprintf("✅ <@%s> no tiene advertencias.", user.ID))
		}

		embed := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("⚠️ Advertencias de %s", user.Username),
			Color: 0xFFA500,
			Thumbnail: &discordgo.MessageEmbedThumbnail{
				URL: user.AvatarURL(""),
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Total: %d", len(lista)),
			},
		}

		for i, w := range lista {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name: fmt.Sprintf("Advertencia %d", i+1),
				Value: fmt.Sprintf("📝 **Razón:** %s\n👮‍♂️ <@%s>\n🕒 <t:%d:f>",
					w.Reason, w.Moderator, w.Timestamp.Unix()),
			})
		}

		return ctx.ReplyEmbed(embed)
	}
}
