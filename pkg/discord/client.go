// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with additional functionality for command and event
// handling, and routes button interactions to the playback controller.
package discord

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/VolleyStudios/VolleyBotGo/pkg/config"
	volleyerr "github.com/VolleyStudios/VolleyBotGo/pkg/errors"
	"github.com/VolleyStudios/VolleyBotGo/pkg/logger"
	"github.com/VolleyStudios/VolleyBotGo/pkg/player"
	"github.com/bwmarrin/discordgo"
)

// ErrAlreadyResponded is returned when a second initial response is
// attempted on the same interaction
var ErrAlreadyResponded = errors.New("la interacción ya fue respondida")

// DiscordGoLogger wraps the custom logger to implement discordgo.Logger interface
// Note: discordgo.Logger is a function, not an interface
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		logger.Info(fmt.Sprintf(format, a...), "DiscordGo")
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	Player         *player.Controller
	StartTime      time.Time
	mu             sync.RWMutex
	isReady        bool
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands
func (cc *CommandCollection) All() map[string]*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make(map[string]*Command)
	for k, v := range cc.commands {
		result[k] = v
	}
	return result
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token string) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(token string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	// Set intents
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates

	// Configure session
	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := &ExtendedClient{
		Session:  session,
		Commands: NewCommandCollection(),
		isReady:  false,
	}

	c.CommandHandler = NewCommandHandler(c)

	return c, nil
}

// Start initializes and starts the bot
func (c *ExtendedClient) Start() error {
	// Add ready handler
	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Bot conectado como: "+r.User.Username, "Client")

		// Register commands with Discord
		c.CommandHandler.RegisterCommands()
	})

	// Add interaction handler
	c.Session.AddHandler(c.handleInteraction)

	// Set start time
	c.StartTime = time.Now()

	// Open connection
	return c.Session.Open()
}

// handleInteraction routes incoming Discord interactions to command
// handlers and button actions
func (c *ExtendedClient) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := &CommandContext{
		Session:     s,
		Interaction: i,
		Client:      c,
	}

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		c.handleComponent(ctx)
	case discordgo.InteractionApplicationCommand:
		c.handleCommand(ctx)
	}
}

// handleComponent routes button presses to the playback controller,
// scoped to the guild that pressed them
func (c *ExtendedClient) handleComponent(ctx *CommandContext) {
	customID := ctx.Interaction.MessageComponentData().CustomID
	guildID := ctx.Interaction.GuildID

	if c.Player == nil {
		ctx.ReplyEphemeral("❌ El reproductor no está disponible.")
		return
	}

	var err error
	var reply string

	switch customID {
	case "pause":
		err = c.Player.Pause(guildID)
		reply = "⏸️ Música pausada."
	case "resume":
		err = c.Player.Resume(guildID)
		reply = "▶️ Música reanudada."
	case "skip":
		err = c.Player.Skip(guildID)
		reply = "⏭️ Canción saltada."
	case "stop":
		err = c.Player.Stop(guildID)
		reply = "⏹️ Música detenida."
	default:
		// Buttons that belong to no known action are acknowledged
		// silently so they don't show as failed in the client
		ctx.respond(&discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		return
	}

	if err != nil {
		if volleyerr.Is(err, volleyerr.ErrNoSession) {
			ctx.ReplyEphemeral("❌ No hay música reproduciéndose.")
			return
		}
		logger.Error(fmt.Sprintf("Error en botón %s: %v", customID, err), "Client")
		if h := volleyerr.Get(); h != nil {
			h.IncrementError()
		}
		ctx.ReplyEphemeral("❌ Hubo un error ejecutando la acción.")
		return
	}

	ctx.Reply(reply)
}

// handleCommand dispatches a slash command interaction
func (c *ExtendedClient) handleCommand(ctx *CommandContext) {
	data := ctx.Interaction.ApplicationCommandData()
	commandName := data.Name

	// Build full command name for subcommands
	if len(data.Options) > 0 {
		opt := data.Options[0]
		if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			commandName = data.Name + "." + opt.Name
		}
	}

	cmd, ok := c.Commands.Get(commandName)
	if !ok {
		logger.Warn("Comando no encontrado: "+commandName, "Client")
		ctx.ReplyEphemeral("❌ Comando no reconocido.")
		return
	}

	if msg, ok := checkUserPermissions(cmd, ctx.Member()); !ok {
		ctx.ReplyEphemeral(msg)
		return
	}

	// Validate required options against the declared schema before the
	// handler runs
	if msg, ok := validateOptions(cmd, ctx); !ok {
		ctx.ReplyEphemeral(msg)
		return
	}

	if cmd.InVoiceChannel {
		if msg, ok := c.checkVoice(ctx, cmd); !ok {
			ctx.ReplyEphemeral(msg)
			return
		}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("Pánico en comando %s: %v", commandName, r), "Client")
			if h := volleyerr.Get(); h != nil {
				h.HandlePanic(r)
			}
			if !ctx.HasResponded() {
				ctx.ReplyEphemeral("❌ Hubo un error ejecutando el comando.")
			}
		}
	}()

	if err := cmd.Run(ctx); err != nil {
		logger.Error("Error ejecutando comando "+commandName+": "+err.Error(), "Client")
		if h := volleyerr.Get(); h != nil {
			h.IncrementError()
		}
		if !ctx.HasResponded() {
			ctx.ReplyEphemeral("❌ Hubo un error ejecutando el comando.")
		}
	}
}

// checkUserPermissions verifies the caller carries the permissions the
// command declares. Discord hides the command from members missing its
// DefaultMemberPermissions; this covers servers that overrode that.
func checkUserPermissions(cmd *Command, member *discordgo.Member) (string, bool) {
	if cmd.UserPermissions == 0 || member == nil {
		return "", true
	}
	if member.Permissions&cmd.UserPermissions != cmd.UserPermissions {
		return "❌ No tienes permisos para usar este comando.", false
	}
	return "", true
}

// validateOptions checks that every required option declared by the
// command is present in the interaction
func validateOptions(cmd *Command, ctx *CommandContext) (string, bool) {
	for _, opt := range cmd.Options {
		if !opt.Required {
			continue
		}
		if ctx.GetOption(opt.Name) == nil {
			return fmt.Sprintf("❌ Falta el parámetro requerido `%s`.", opt.Name), false
		}
	}
	return "", true
}

// checkVoice verifies the caller is in a voice channel and the bot
// holds the command's declared permissions there
func (c *ExtendedClient) checkVoice(ctx *CommandContext, cmd *Command) (string, bool) {
	guildID := ctx.Interaction.GuildID
	if guildID == "" {
		return "❌ Este comando solo funciona en un servidor.", false
	}

	vs, err := ctx.Session.State.VoiceState(guildID, ctx.User().ID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return "❌ Debes estar en un canal de voz para usar este comando.", false
	}

	perms, err := ctx.Session.State.UserChannelPermissions(ctx.Session.State.User.ID, vs.ChannelID)
	if err == nil {
		needed := cmd.BotPermissions
		if needed == 0 {
			needed = int64(discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak)
		}
		if perms&needed != needed {
			return "❌ No tengo permisos para conectarme o hablar en tu canal de voz.", false
		}
	}

	return "", true
}

// VoiceChannelOf returns the voice channel the user currently occupies
func (c *ExtendedClient) VoiceChannelOf(guildID, userID string) string {
	vs, err := c.Session.State.VoiceState(guildID, userID)
	if err != nil || vs == nil {
		return ""
	}
	return vs.ChannelID
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// GetConfig returns the bot configuration
func (c *ExtendedClient) GetConfig() *config.Config {
	return config.Get()
}
