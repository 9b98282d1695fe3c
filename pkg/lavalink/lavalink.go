// Package lavalink provides the Lavalink client used as the bot's media
// engine. It connects to Lavalink nodes over websocket, resolves tracks
// through the REST API and translates node lifecycle events into
// player events.
package lavalink

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/VolleyStudios/VolleyBotGo/pkg/logger"
	"github.com/VolleyStudios/VolleyBotGo/pkg/player"
	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
)

// NodeConfig holds configuration for a Lavalink node
type NodeConfig struct {
	Name     string
	Host     string
	Port     int
	Password string
	Secure   bool
}

// TrackInfo contains information about a track
type TrackInfo struct {
	Identifier string `json:"identifier"`
	IsSeekable bool   `json:"isSeekable"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsStream   bool   `json:"isStream"`
	Position   int64  `json:"position"`
	Title      string `json:"title"`
	URI        string `json:"uri"`
	ArtworkURL string `json:"artworkUrl"`
	SourceName string `json:"sourceName"`
}

// Track represents a playable track as Lavalink returns it
type Track struct {
	Encoded string    `json:"encoded"`
	Info    TrackInfo `json:"info"`
}

// SearchResult represents a search response from Lavalink
type SearchResult struct {
	LoadType     string      `json:"loadType"`
	PlaylistInfo interface{} `json:"playlistInfo"`
	Tracks       []*Track    `json:"tracks"`
	Exception    *struct {
		Message  string `json:"message"`
		Severity string `json:"severity"`
	} `json:"exception"`
}

// channelQueue is the engine-side queue for one playback channel
type channelQueue struct {
	current *player.Track
	queue   []*player.Track
}

// Client manages the Lavalink nodes and implements player.Engine
type Client struct {
	session         *discordgo.Session
	nodes           []*Node
	queues          map[string]*channelQueue
	events          func(player.Event)
	defaultPlatform string
	mu              sync.RWMutex
}

// Node represents a Lavalink node connection
type Node struct {
	config       NodeConfig
	conn         *websocket.Conn
	client       *Client
	connected    bool
	reconnecting bool
	mu           sync.RWMutex
}

var (
	client *Client
	once   sync.Once
)

// Init initializes the global Lavalink client
func Init(session *discordgo.Session, nodeConfigs []NodeConfig) *Client {
	once.Do(func() {
		client = NewClient(session, nodeConfigs)
	})
	return client
}

// Get returns the global Lavalink client
func Get() *Client {
	return client
}

// NewClient creates a new Lavalink client
func NewClient(session *discordgo.Session, nodeConfigs []NodeConfig) *Client {
	logger.Debug("Inicializando cliente Lavalink", "Lavalink")

	c := &Client{
		session:         session,
		nodes:           make([]*Node, 0, len(nodeConfigs)),
		queues:          make(map[string]*channelQueue),
		defaultPlatform: "ytsearch",
	}

	for _, cfg := range nodeConfigs {
		c.nodes = append(c.nodes, &Node{config: cfg, client: c})
	}

	session.AddHandler(c.voiceStateUpdate)
	session.AddHandler(c.voiceServerUpdate)

	return c
}

// SetEventHandler installs the sink for engine lifecycle events
func (c *Client) SetEventHandler(fn func(player.Event)) {
	c.mu.Lock()
	c.events = fn
	c.mu.Unlock()
}

// emit delivers a lifecycle event to the installed sink
func (c *Client) emit(ev player.Event) {
	c.mu.RLock()
	fn := c.events
	c.mu.RUnlock()
	if fn != nil {
		fn(ev)
	}
}

// Connect connects to all Lavalink nodes
func (c *Client) Connect() error {
	for _, node := range c.nodes {
		go node.connect()
	}
	return nil
}

// connect establishes connection to a Lavalink node
func (n *Node) connect() {
	n.mu.Lock()
	if n.connected || n.reconnecting {
		n.mu.Unlock()
		return
	}
	n.reconnecting = true
	n.mu.Unlock()

	scheme := "ws"
	if n.config.Secure {
		scheme = "wss"
	}

	endpoint := fmt.Sprintf("%s://%s:%d/v4/websocket", scheme, n.config.Host, n.config.Port)

	headers := http.Header{}
	headers.Set("Authorization", n.config.Password)
	headers.Set("User-Id", n.client.session.State.User.ID)
	headers.Set("Client-Name", "VolleyBot-Go/1.0")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.Dial(endpoint, headers)
	if err != nil {
		logger.Error(fmt.Sprintf("Error al conectar con Lavalink %s: %v", n.config.Name, err), "Lavalink")
		n.mu.Lock()
		n.reconnecting = false
		n.mu.Unlock()

		go func() {
			time.Sleep(5 * time.Second)
			n.connect()
		}()
		return
	}

	n.mu.Lock()
	n.conn = conn
	n.connected = true
	n.reconnecting = false
	n.mu.Unlock()

	logger.Success(fmt.Sprintf("Conectado con Lavalink server: %s", n.config.Name), "Lavalink")

	go n.readMessages()
}

// readMessages reads messages from the Lavalink websocket
func (n *Node) readMessages() {
	for {
		_, message, err := n.conn.ReadMessage()
		if err != nil {
			logger.Warn(fmt.Sprintf("Error leyendo mensaje de Lavalink: %v", err), "Lavalink")
			n.handleDisconnect()
			return
		}

		var payload map[string]interface{}
		if err := json.Unmarshal(message, &payload); err != nil {
			continue
		}

		n.handleMessage(payload)
	}
}

// handleMessage processes incoming Lavalink messages
func (n *Node) handleMessage(payload map[string]interface{}) {
	op, ok := payload["op"].(string)
	if !ok {
		return
	}

	switch op {
	case "ready":
		logger.Info("Lavalink ready", "Lavalink")
	case "event":
		n.handleEvent(payload)
	case "stats", "playerUpdate":
		// Not tracked
	}
}

// handleEvent translates Lavalink events into player events
func (n *Node) handleEvent(payload map[string]interface{}) {
	eventType, ok := payload["type"].(string)
	if !ok {
		return
	}

	guildID, _ := payload["guildId"].(string)

	switch eventType {
	case "TrackStartEvent":
		n.client.handleTrackStart(guildID)
	case "TrackEndEvent":
		reason, _ := payload["reason"].(string)
		n.client.handleTrackEnd(guildID, reason)
	case "TrackExceptionEvent":
		logger.Error(fmt.Sprintf("Track exception en guild %s", guildID), "Lavalink")
		n.client.emit(player.Event{
			Type:      player.EventPlaybackError,
			ChannelID: guildID,
			Err:       fmt.Errorf("el motor reportó un error de reproducción"),
		})
	case "TrackStuckEvent":
		logger.Warn(fmt.Sprintf("Track atascado en guild %s", guildID), "Lavalink")
	case "WebSocketClosedEvent":
		logger.Warn(fmt.Sprintf("WebSocket cerrado para guild %s", guildID), "Lavalink")
		n.client.dropQueue(guildID)
		n.client.emit(player.Event{Type: player.EventDisconnected, ChannelID: guildID})
	}
}

// handleDisconnect handles node disconnection
func (n *Node) handleDisconnect() {
	n.mu.Lock()
	n.connected = false
	if n.conn != nil {
		n.conn.Close()
	}
	n.mu.Unlock()

	logger.Warn(fmt.Sprintf("Desconectado de Lavalink: %s. Reintentando...", n.config.Name), "Lavalink")

	time.Sleep(5 * time.Second)
	go n.connect()
}

// Resolve implements player.Engine: first search hit wins
func (c *Client) Resolve(query string) (*player.Track, error) {
	result, err := c.search(query)
	if err != nil {
		return nil, err
	}

	if result.LoadType == "error" && result.Exception != nil {
		return nil, fmt.Errorf("lavalink: %s", result.Exception.Message)
	}
	if result.LoadType == "empty" || len(result.Tracks) == 0 {
		return nil, fmt.Errorf("sin resultados para la búsqueda")
	}

	t := result.Tracks[0]
	return &player.Track{
		Ref:       t.Encoded,
		Title:     t.Info.Title,
		URL:       t.Info.URI,
		Uploader:  t.Info.Author,
		Duration:  t.Info.Length,
		Thumbnail: t.Info.ArtworkURL,
	}, nil
}

// search queries the first connected node's REST API
func (c *Client) search(query string) (*SearchResult, error) {
	for _, node := range c.nodes {
		if !node.isConnected() {
			continue
		}

		scheme := "http"
		if node.config.Secure {
			scheme = "https"
		}

		endpoint := fmt.Sprintf("%s://%s:%d/v4/loadtracks?identifier=%s",
			scheme, node.config.Host, node.config.Port,
			url.QueryEscape(fmt.Sprintf("%s:%s", c.defaultPlatform, query)))

		req, err := http.NewRequest("GET", endpoint, nil)
		if err != nil {
			continue
		}
		req.Header.Set("Authorization", node.config.Password)

		httpClient := &http.Client{Timeout: 10 * time.Second}
		resp, err := httpClient.Do(req)
		if err != nil {
			continue
		}

		var result SearchResult
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			continue
		}

		return &result, nil
	}

	return nil, fmt.Errorf("no hay nodos Lavalink disponibles")
}

// Play implements player.Engine: joins the voice channel and starts the
// track, or appends it to the channel's queue if something is playing
func (c *Client) Play(channelID, voiceChannelID string, track *player.Track) error {
	if err := c.session.ChannelVoiceJoinManual(channelID, voiceChannelID, false, true); err != nil {
		return fmt.Errorf("error al unirse al canal de voz: %w", err)
	}

	c.mu.Lock()
	q, ok := c.queues[channelID]
	if !ok {
		q = &channelQueue{}
		c.queues[channelID] = q
	}

	if q.current != nil {
		q.queue = append(q.queue, track)
		c.mu.Unlock()
		return nil
	}
	q.current = track
	c.mu.Unlock()

	return c.sendPlay(channelID, track)
}

// Pause implements player.Engine
func (c *Client) Pause(channelID string) error {
	return c.sendOp(map[string]interface{}{
		"op":      "pause",
		"guildId": channelID,
		"pause":   true,
	})
}

// Resume implements player.Engine
func (c *Client) Resume(channelID string) error {
	return c.sendOp(map[string]interface{}{
		"op":      "pause",
		"guildId": channelID,
		"pause":   false,
	})
}

// Skip implements player.Engine: advance to the next queued track or,
// with an empty queue, stop and let the queueEmpty event fire
func (c *Client) Skip(channelID string) error {
	c.mu.Lock()
	q, ok := c.queues[channelID]
	if !ok || q.current == nil {
		c.mu.Unlock()
		return fmt.Errorf("no hay reproducción activa")
	}

	if len(q.queue) == 0 {
		q.current = nil
		c.mu.Unlock()

		if err := c.sendOp(map[string]interface{}{"op": "stop", "guildId": channelID}); err != nil {
			return err
		}
		c.emit(player.Event{Type: player.EventQueueEmpty, ChannelID: channelID})
		return nil
	}

	next := q.queue[0]
	q.queue = q.queue[1:]
	q.current = next
	c.mu.Unlock()

	return c.sendPlay(channelID, next)
}

// Stop implements player.Engine: clear the queue and disconnect
func (c *Client) Stop(channelID string) error {
	c.dropQueue(channelID)

	if err := c.sendOp(map[string]interface{}{"op": "stop", "guildId": channelID}); err != nil {
		return err
	}

	// Leaving the voice channel confirms the disconnect to the player
	if err := c.session.ChannelVoiceJoinManual(channelID, "", false, true); err != nil {
		logger.Warn(fmt.Sprintf("Error al salir del canal de voz: %v", err), "Lavalink")
	}

	c.emit(player.Event{Type: player.EventDisconnected, ChannelID: channelID})
	return nil
}

// handleTrackStart forwards the started track to the player
func (c *Client) handleTrackStart(channelID string) {
	c.mu.RLock()
	q, ok := c.queues[channelID]
	var current *player.Track
	if ok {
		current = q.current
	}
	c.mu.RUnlock()

	if current == nil {
		return
	}

	logger.Info(fmt.Sprintf("Reproduciendo: %s en guild %s", current.Title, channelID), "Lavalink")
	c.emit(player.Event{Type: player.EventTrackStarted, ChannelID: channelID, Track: current})
}

// handleTrackEnd advances the queue or reports it empty. Only natural
// ends ("finished", "loadFailed") move the queue: "replaced" and
// "stopped" ends are echoes of a skip or stop that already adjusted it.
func (c *Client) handleTrackEnd(channelID, reason string) {
	if reason != "finished" && reason != "loadFailed" {
		return
	}

	c.mu.Lock()
	q, ok := c.queues[channelID]
	if !ok {
		c.mu.Unlock()
		return
	}

	if len(q.queue) == 0 {
		q.current = nil
		c.mu.Unlock()

		c.emit(player.Event{Type: player.EventQueueEmpty, ChannelID: channelID})
		return
	}

	next := q.queue[0]
	q.queue = q.queue[1:]
	q.current = next
	c.mu.Unlock()

	if err := c.sendPlay(channelID, next); err != nil {
		logger.Error(fmt.Sprintf("Error reproduciendo siguiente pista: %v", err), "Lavalink")
	}
}

// dropQueue discards a channel's queue state
func (c *Client) dropQueue(channelID string) {
	c.mu.Lock()
	delete(c.queues, channelID)
	c.mu.Unlock()
}

// sendPlay sends the play operation for a track
func (c *Client) sendPlay(channelID string, track *player.Track) error {
	return c.sendOp(map[string]interface{}{
		"op":      "play",
		"guildId": channelID,
		"track":   track.Ref,
	})
}

// sendOp sends an operation through the first connected node
func (c *Client) sendOp(data map[string]interface{}) error {
	for _, node := range c.nodes {
		if node.isConnected() {
			return node.send(data)
		}
	}
	return fmt.Errorf("no hay nodos Lavalink disponibles")
}

func (n *Node) isConnected() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.connected
}

func (n *Node) send(data map[string]interface{}) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if !n.connected || n.conn == nil {
		return fmt.Errorf("nodo no conectado")
	}
	return n.conn.WriteJSON(data)
}

// Voice handlers forward Discord voice state to Lavalink

func (c *Client) voiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.UserID != s.State.User.ID {
		return
	}

	c.sendOp(map[string]interface{}{
		"op":        "voiceUpdate",
		"guildId":   v.GuildID,
		"sessionId": v.SessionID,
	})
}

func (c *Client) voiceServerUpdate(s *discordgo.Session, v *discordgo.VoiceServerUpdate) {
	c.sendOp(map[string]interface{}{
		"op":      "voiceUpdate",
		"guildId": v.GuildID,
		"event":   v,
	})
}

// Disconnect disconnects from all nodes
func (c *Client) Disconnect() {
	for _, node := range c.nodes {
		node.mu.Lock()
		if node.conn != nil {
			node.conn.Close()
		}
		node.connected = false
		node.mu.Unlock()
	}

	logger.System("Cliente Lavalink desconectado", "Lavalink")
}
