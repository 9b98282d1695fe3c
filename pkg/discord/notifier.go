package discord

import (
	"fmt"
	"sync"

	"github.com/VolleyStudios/VolleyBotGo/pkg/logger"
	"github.com/VolleyStudios/VolleyBotGo/pkg/player"
	"github.com/bwmarrin/discordgo"
)

// ChannelNotifier posts playback announcements to the text channel
// where playback was requested. It implements player.Notifier.
type ChannelNotifier struct {
	session  *discordgo.Session
	mu       sync.RWMutex
	channels map[string]string
}

// NewChannelNotifier creates a notifier bound to the given session
func NewChannelNotifier(session *discordgo.Session) *ChannelNotifier {
	return &ChannelNotifier{
		session:  session,
		channels: make(map[string]string),
	}
}

// BindChannel records the text channel where a guild's playback
// announcements should go. Called by the play command.
func (n *ChannelNotifier) BindChannel(guildID, textChannelID string) {
	n.mu.Lock()
	n.channels[guildID] = textChannelID
	n.mu.Unlock()
}

func (n *ChannelNotifier) channelFor(guildID string) (string, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ch, ok := n.channels[guildID]
	return ch, ok
}

// NowPlaying announces the current track with its control buttons
func (n *ChannelNotifier) NowPlaying(channelID string, track *player.Track) {
	textChannel, ok := n.channelFor(channelID)
	if !ok || track == nil {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎶 Reproduciendo ahora",
		Description: fmt.Sprintf("**[%s](%s)**", track.Title, track.URL),
		Color:       0x00bfff,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Duración", Value: track.FormattedDuration(), Inline: true},
			{Name: "Canal", Value: orDash(track.Uploader), Inline: true},
			{Name: "Pedida por", Value: orDash(track.Requester), Inline: true},
		},
	}
	if track.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.Thumbnail}
	}

	_, err := n.session.ChannelMessageSendComplex(textChannel, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: controlButtons(),
	})
	if err != nil {
		logger.Warn(fmt.Sprintf("Error enviando anuncio de reproducción: %v", err), "Notifier")
	}
}

// PlaybackIssue reports a playback problem to the bound channel
func (n *ChannelNotifier) PlaybackIssue(channelID, message string) {
	textChannel, ok := n.channelFor(channelID)
	if !ok {
		return
	}

	_, err := n.session.ChannelMessageSend(textChannel, "⚠️ "+message)
	if err != nil {
		logger.Warn(fmt.Sprintf("Error enviando aviso de reproducción: %v", err), "Notifier")
	}
}

// orDash substitutes a placeholder for empty embed field values, which
// the API rejects
func orDash(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// controlButtons builds the playback control row
func controlButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: "pause", Style: discordgo.SecondaryButton, Emoji: &discordgo.ComponentEmoji{Name: "⏸️"}},
				discordgo.Button{CustomID: "resume", Style: discordgo.SecondaryButton, Emoji: &discordgo.ComponentEmoji{Name: "▶️"}},
				discordgo.Button{CustomID: "skip", Style: discordgo.SecondaryButton, Emoji: &discordgo.ComponentEmoji{Name: "⏭️"}},
				discordgo.Button{CustomID: "stop", Style: discordgo.DangerButton, Emoji: &discordgo.ComponentEmoji{Name: "⏹️"}},
			},
		},
	}
}
