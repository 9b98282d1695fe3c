// Package commands - match log commands (/registrar-partido,
// /ver-historial, /ver-equipo)
package commands

import (
	"fmt"

	"github.com/VolleyStudios/VolleyBotGo/pkg/discord"
	volleyerr "github.com/VolleyStudios/VolleyBotGo/pkg/errors"
	"github.com/VolleyStudios/VolleyBotGo/pkg/stats"
	"github.com/bwmarrin/discordgo"
)

// RegisterMatchCommands registers the match commands
func RegisterMatchCommands(client *discord.ExtendedClient, engine *stats.Engine) {
	registrarCmd := discord.NewCommand(
		"registrar-partido",
		"Registrar partido",
		"volley",
		registrarPartidoHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "equipo1",
			Description: "Equipo 1",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "equipo2",
			Description: "Equipo 2",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "puntos_equipo1",
			Description: "Puntos equipo 1",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "puntos_equipo2",
			Description: "Puntos equipo 2",
			Required:    true,
		},
	)
	client.CommandHandler.RegisterCommand(registrarCmd)

	historialCmd := discord.NewCommand(
		"ver-historial",
		"Ver historial de partidos",
		"volley",
		verHistorialHandler(engine),
	)
	client.CommandHandler.RegisterCommand(historialCmd)

	equipoCmd := discord.NewCommand(
		"ver-equipo",
		"Ver estadísticas de un equipo",
		"volley",
		verEquipoHandler(engine),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "nombre",
			Description: "Nombre del equipo",
			Required:    true,
		},
	)
	client.CommandHandler.RegisterCommand(equipoCmd)
}

// registrarPartidoHandler handles the /registrar-partido command
func registrarPartidoHandler(engine *stats.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		eq1 := ctx.GetStringOption("equipo1")
		eq2 := ctx.GetStringOption("equipo2")
		pts1 := int(ctx.GetIntOption("puntos_equipo1"))
		pts2 := int(ctx.GetIntOption("puntos_equipo2"))

		_, winner, err := engine.RegisterMatch(eq1, eq2, pts1, pts2)
		if err != nil {
			return err
		}

		ganador := "🏆 " + winner
		color := 0x4CAF50
		if winner == stats.DrawLabel {
			ganador = "Empate 🤝"
			color = 0xFFC107
		} else if winner == eq2 {
			color = 0xF44336
		}

		embed := &discordgo.MessageEmbed{
			Title: "📥 Partido Registrado",
			Color: color,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "🟦 Equipo 1", Value: fmt.Sprintf("%s — **%d pts**", eq1, pts1), Inline: true},
				{Name: "🟥 Equipo 2", Value: fmt.Sprintf("%s — **%d pts**", eq2, pts2), Inline: true},
				{Name: "🥇 Resultado", Value: ganador},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Sistema de Partidos | Volleyball Bot",
			},
		}

		return ctx.ReplyEmbed(embed)
	}
}

// verHistorialHandler handles the /ver-historial command
func verHistorialHandler(engine *stats.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		partidos := engine.History(10)
		if len(partidos) == 0 {
			return ctx.Reply("📭 No hay partidos registrados.")
		}

		embed := &discordgo.MessageEmbed{
			Title: "📅 Historial de Partidos",
			Color: 0x2196F3,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Últimos 10 partidos",
			},
		}

		for i, p := range partidos {
			ganador := p.Winner()
			if ganador == "" {
				ganador = "Empate 🤝"
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name: fmt.Sprintf("#%d 🆚 %s vs %s", i+1, p.TeamA, p.TeamB),
				Value: fmt.Sprintf("🏆 **Ganador:** %s\n🟦 %s: %d pts\n🟥 %s: %d pts\n🕒 <t:%d:R>",
					ganador, p.TeamA, p.ScoreA, p.TeamB, p.ScoreB, p.Timestamp.Unix()),
			})
		}

		return ctx.ReplyEmbed(embed)
	}
}

// verEquipoHandler handles the /ver-equipo command
func verEquipoHandler(engine *stats.Engine) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		nombre := ctx.GetStringOption("nombre")

		summary, err := engine.TeamSummary(nombre)
		if err != nil {
			if volleyerr.Is(err, volleyerr.ErrNotFound) {
				return ctx.Reply(fmt.Sprintf("❌ No se encontraron datos para **%s**.", nombre))
			}
			return err
		}

		fecha := "N/A"
		if summary.LastMatch != nil {
			fecha = fmt.Sprintf("<t:%d:f>", summary.LastMatch.Timestamp.Unix())
		}

		embed := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("📊 Estadísticas de %s", nombre),
			Color: 0xFFD700,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "🏆 Jugados", Value: fmt.Sprintf("%d", summary.Played), Inline: true},
				{Name: "✅ Ganados", Value: fmt.Sprintf("%d", summary.Won), Inline: true},
				{Name: "📈 Winrate", Value: fmt.Sprintf("%.1f%%", summary.WinRate), Inline: true},
				{Name: "🕒 Último partido", Value: fecha},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Sistema de Estadísticas | Volleyball Bot",
			},
		}

		return ctx.ReplyEmbed(embed)
	}
}
