package player

import (
	"fmt"
	"sync"

	"github.com/VolleyStudios/VolleyBotGo/pkg/errors"
	"github.com/VolleyStudios/VolleyBotGo/pkg/logger"
)

// State is a playback session state
type State int

const (
	// Idle is both the initial state and the state after the queue
	// empties; a channel with no session reads as Idle.
	Idle State = iota
	Playing
	Paused
	// Stopped is set by the stop command; the session lingers until the
	// engine confirms the disconnect.
	Stopped
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Session is the ephemeral per-channel playback state. Not persisted.
type Session struct {
	ChannelID    string
	State        State
	CurrentTrack *Track
}

// PublishFunc receives a session snapshot on every transition. Used to
// mirror playback state over MQTT; may be nil.
type PublishFunc func(channelID, event string, session Session)

// Controller drives the playback state machine. It owns the session
// table; sessions are created by Play and destroyed when the queue
// empties or the engine disconnects.
type Controller struct {
	mu       sync.RWMutex
	engine   Engine
	notifier Notifier
	sessions map[string]*Session
	publish  PublishFunc
}

// New creates a Controller over an engine and a channel notifier
func New(engine Engine, notifier Notifier) *Controller {
	return &Controller{
		engine:   engine,
		notifier: notifier,
		sessions: make(map[string]*Session),
	}
}

// SetPublisher installs the state snapshot publisher
func (c *Controller) SetPublisher(fn PublishFunc) {
	c.mu.Lock()
	c.publish = fn
	c.mu.Unlock()
}

// Play resolves a query and starts playback on the channel. Allowed
// while the channel is Idle or Stopped; a resolution failure leaves the
// prior state untouched. Voice membership and permissions are the
// router's concern and are checked before this is called.
func (c *Controller) Play(channelID, voiceChannelID, query, requester string) (*Track, error) {
	track, err := c.engine.Resolve(query)
	if err != nil {
		return nil, fmt.Errorf("no se pudo resolver '%s': %w", query, err)
	}
	track.Requester = requester

	if err := c.engine.Play(channelID, voiceChannelID, track); err != nil {
		return nil, err
	}

	c.mu.Lock()
	session, ok := c.sessions[channelID]
	if !ok {
		session = &Session{ChannelID: channelID}
		c.sessions[channelID] = session
	}
	session.State = Playing
	session.CurrentTrack = track
	snap := *session
	c.mu.Unlock()

	logger.Info(fmt.Sprintf("Reproduciendo '%s' en el canal %s", track.Title, channelID), "Player")
	c.notifier.NowPlaying(channelID, track)
	c.emit(channelID, "playing", snap)

	return track, nil
}

// Pause pauses the engine stream. ErrNoSession if nothing is playing.
func (c *Controller) Pause(channelID string) error {
	return c.transport(channelID, Paused, c.engine.Pause)
}

// Resume resumes a paused stream. ErrNoSession if nothing is playing.
func (c *Controller) Resume(channelID string) error {
	return c.transport(channelID, Playing, c.engine.Resume)
}

// Skip asks the engine to advance the queue. The resulting state is
// decided by the next engine event (trackStarted or queueEmpty).
func (c *Controller) Skip(channelID string) error {
	c.mu.RLock()
	_, ok := c.sessions[channelID]
	c.mu.RUnlock()
	if !ok {
		return errors.ErrNoSession
	}
	return c.engine.Skip(channelID)
}

// Stop clears the queue and disconnects. The session is marked Stopped
// and destroyed once the engine reports the disconnect.
func (c *Controller) Stop(channelID string) error {
	c.mu.Lock()
	session, ok := c.sessions[channelID]
	if !ok {
		c.mu.Unlock()
		return errors.ErrNoSession
	}
	session.State = Stopped
	session.CurrentTrack = nil
	snap := *session
	c.mu.Unlock()

	if err := c.engine.Stop(channelID); err != nil {
		return err
	}
	c.emit(channelID, "stopped", snap)
	return nil
}

// transport applies a pause/resume-style command that maps directly to
// a target state
func (c *Controller) transport(channelID string, target State, op func(string) error) error {
	c.mu.Lock()
	_, ok := c.sessions[channelID]
	c.mu.Unlock()
	if !ok {
		return errors.ErrNoSession
	}

	if err := op(channelID); err != nil {
		return err
	}

	// The op runs outside the lock, so the session may have been
	// destroyed in the meantime (queue drained, engine disconnected).
	c.mu.Lock()
	session, ok := c.sessions[channelID]
	if !ok {
		c.mu.Unlock()
		return errors.ErrNoSession
	}
	session.State = target
	snap := *session
	c.mu.Unlock()

	c.emit(channelID, snapEvent(target), snap)
	return nil
}

// HandleEvent consumes an engine-emitted lifecycle event. Called from
// the engine's read loop, outside any interaction.
func (c *Controller) HandleEvent(ev Event) {
	switch ev.Type {
	case EventTrackStarted:
		c.mu.Lock()
		session, ok := c.sessions[ev.ChannelID]
		if !ok {
			session = &Session{ChannelID: ev.ChannelID}
			c.sessions[ev.ChannelID] = session
		}
		session.State = Playing
		if ev.Track != nil {
			session.CurrentTrack = ev.Track
		}
		track := session.CurrentTrack
		snap := *session
		c.mu.Unlock()

		if track != nil {
			c.notifier.NowPlaying(ev.ChannelID, track)
		}
		c.emit(ev.ChannelID, "playing", snap)

	case EventQueueEmpty:
		c.destroy(ev.ChannelID, "queueEmpty")
		logger.Info(fmt.Sprintf("Cola finalizada en el canal %s", ev.ChannelID), "Player")

	case EventDisconnected:
		c.destroy(ev.ChannelID, "disconnected")
		logger.Info(fmt.Sprintf("Desconectado del canal %s", ev.ChannelID), "Player")

	case EventPlaybackError:
		// State untouched; the engine's own recovery decides what
		// happens to the queue.
		msg := "error de reproducción"
		if ev.Err != nil {
			msg = ev.Err.Error()
		}
		logger.Warn(fmt.Sprintf("Error de reproducción en el canal %s: %s", ev.ChannelID, msg), "Player")
		c.notifier.PlaybackIssue(ev.ChannelID, msg)
	}
}

// destroy removes a channel's session and publishes the final snapshot
func (c *Controller) destroy(channelID, event string) {
	c.mu.Lock()
	_, existed := c.sessions[channelID]
	delete(c.sessions, channelID)
	c.mu.Unlock()

	if existed {
		c.emit(channelID, event, Session{ChannelID: channelID, State: Idle})
	}
}

// StateOf returns the channel's state; a missing session reads as Idle
func (c *Controller) StateOf(channelID string) State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if session, ok := c.sessions[channelID]; ok {
		return session.State
	}
	return Idle
}

// Session returns a snapshot of the channel's session
func (c *Controller) Session(channelID string) (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	session, ok := c.sessions[channelID]
	if !ok {
		return Session{ChannelID: channelID, State: Idle}, false
	}
	return *session, true
}

// SessionCount returns the number of active sessions
func (c *Controller) SessionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

func (c *Controller) emit(channelID, event string, snap Session) {
	c.mu.RLock()
	publish := c.publish
	c.mu.RUnlock()

	if publish != nil {
		publish(channelID, event, snap)
	}
}

func snapEvent(s State) string {
	if s == Paused {
		return "paused"
	}
	return "playing"
}
