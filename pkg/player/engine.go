// Package player implements the per-channel playback state machine over
// an opaque media engine. The engine is consumed through the Engine
// capability interface plus an event callback, so the state machine can
// be exercised with a scripted fake in tests.
package player

import "fmt"

// Track is the metadata of a resolved, playable track. Ref is the
// engine's opaque handle for it.
type Track struct {
	Ref       string
	Title     string
	URL       string
	Uploader  string
	Duration  int64 // milliseconds
	Thumbnail string
	Requester string
}

// FormattedDuration renders the track length as m:ss
func (t *Track) FormattedDuration() string {
	seconds := t.Duration / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Engine is the narrow interface to the external media engine. All
// methods are scoped to the playback channel.
type Engine interface {
	// Resolve turns a query into a playable track
	Resolve(query string) (*Track, error)
	// Play joins the voice channel and starts the resolved track
	Play(channelID, voiceChannelID string, track *Track) error
	Pause(channelID string) error
	Resume(channelID string) error
	// Skip advances the queue; the outcome arrives as an engine event
	Skip(channelID string) error
	// Stop clears the queue and disconnects
	Stop(channelID string) error
}

// EventType identifies an engine lifecycle event
type EventType string

const (
	EventTrackStarted  EventType = "trackStarted"
	EventQueueEmpty    EventType = "queueEmpty"
	EventDisconnected  EventType = "disconnected"
	EventPlaybackError EventType = "playbackError"
)

// Event is an engine-emitted lifecycle event, delivered outside the
// interaction request/response cycle
type Event struct {
	Type      EventType
	ChannelID string
	Track     *Track
	Err       error
}

// Notifier delivers playback notifications to the channel
type Notifier interface {
	// NowPlaying announces the current track with its metadata
	NowPlaying(channelID string, track *Track)
	// PlaybackIssue surfaces a non-fatal playback problem
	PlaybackIssue(channelID string, message string)
}
