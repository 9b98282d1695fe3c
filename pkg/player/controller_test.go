package player

import (
	"fmt"
	"testing"

	"github.com/VolleyStudios/VolleyBotGo/pkg/errors"
)

// fakeEngine is a scripted engine: Resolve returns a canned track or a
// canned error, and every call is recorded.
type fakeEngine struct {
	calls        []string
	resolveTrack *Track
	resolveErr   error
	playErr      error
}

func (f *fakeEngine) Resolve(query string) (*Track, error) {
	f.calls = append(f.calls, "resolve:"+query)
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	track := *f.resolveTrack
	return &track, nil
}

func (f *fakeEngine) Play(channelID, voiceChannelID string, track *Track) error {
	f.calls = append(f.calls, "play:"+channelID)
	return f.playErr
}

func (f *fakeEngine) Pause(channelID string) error {
	f.calls = append(f.calls, "pause:"+channelID)
	return nil
}

func (f *fakeEngine) Resume(channelID string) error {
	f.calls = append(f.calls, "resume:"+channelID)
	return nil
}

func (f *fakeEngine) Skip(channelID string) error {
	f.calls = append(f.calls, "skip:"+channelID)
	return nil
}

func (f *fakeEngine) Stop(channelID string) error {
	f.calls = append(f.calls, "stop:"+channelID)
	return nil
}

type recordingNotifier struct {
	nowPlaying []string
	issues     []string
}

func (n *recordingNotifier) NowPlaying(channelID string, track *Track) {
	n.nowPlaying = append(n.nowPlaying, track.Title)
}

func (n *recordingNotifier) PlaybackIssue(channelID, message string) {
	n.issues = append(n.issues, message)
}

func newTestController() (*Controller, *fakeEngine, *recordingNotifier) {
	engine := &fakeEngine{
		resolveTrack: &Track{
			Ref:      "encoded-abc",
			Title:    "Mi Gente",
			URL:      "https://example.com/track",
			Uploader: "J Balvin",
			Duration: 189000,
		},
	}
	notifier := &recordingNotifier{}
	return New(engine, notifier), engine, notifier
}

func TestTransportWithNoSession(t *testing.T) {
	c, _, _ := newTestController()

	ops := map[string]func(string) error{
		"pause":  c.Pause,
		"resume": c.Resume,
		"skip":   c.Skip,
		"stop":   c.Stop,
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op("chan-1"); !errors.Is(err, errors.ErrNoSession) {
				t.Errorf("%s with no session: error = %v, want ErrNoSession", name, err)
			}
		})
	}

	if c.SessionCount() != 0 {
		t.Errorf("session table has %d entries, want 0", c.SessionCount())
	}
}

func TestPlayCreatesPlayingSession(t *testing.T) {
	c, engine, notifier := newTestController()

	track, err := c.Play("chan-1", "voice-1", "mi gente", "carla")
	if err != nil {
		t.Fatalf("Play() returned error: %v", err)
	}
	if track.Requester != "carla" {
		t.Errorf("Requester = %q, want carla", track.Requester)
	}

	if got := c.StateOf("chan-1"); got != Playing {
		t.Errorf("StateOf() = %v, want Playing", got)
	}
	if len(notifier.nowPlaying) != 1 || notifier.nowPlaying[0] != "Mi Gente" {
		t.Errorf("NowPlaying notifications = %v, want [Mi Gente]", notifier.nowPlaying)
	}
	if engine.calls[0] != "resolve:mi gente" || engine.calls[1] != "play:chan-1" {
		t.Errorf("engine calls = %v", engine.calls)
	}
}

func TestPlayResolutionFailureLeavesStateUntouched(t *testing.T) {
	c, engine, notifier := newTestController()
	engine.resolveErr = fmt.Errorf("sin resultados")

	if _, err := c.Play("chan-1", "voice-1", "???", "carla"); err == nil {
		t.Fatal("Play() should fail when resolution fails")
	}
	if c.SessionCount() != 0 {
		t.Error("failed Play() must not create a session")
	}
	if len(notifier.nowPlaying) != 0 {
		t.Error("failed Play() must not notify")
	}
}

// hookEngine runs a callback inside Pause, mimicking an engine event
// landing while a command is in flight.
type hookEngine struct {
	fakeEngine
	onPause func()
}

func (h *hookEngine) Pause(channelID string) error {
	if h.onPause != nil {
		h.onPause()
	}
	return h.fakeEngine.Pause(channelID)
}

func TestPauseRacingQueueEmptyDoesNotReviveSession(t *testing.T) {
	engine := &hookEngine{fakeEngine: fakeEngine{
		resolveTrack: &Track{Title: "Mi Gente"},
	}}
	notifier := &recordingNotifier{}
	c := New(engine, notifier)
	engine.onPause = func() {
		c.HandleEvent(Event{Type: EventQueueEmpty, ChannelID: "chan-1"})
	}

	if _, err := c.Play("chan-1", "voice-1", "q", "u"); err != nil {
		t.Fatalf("Play() returned error: %v", err)
	}

	if err := c.Pause("chan-1"); !errors.Is(err, errors.ErrNoSession) {
		t.Errorf("Pause() racing queueEmpty: error = %v, want ErrNoSession", err)
	}
	if c.SessionCount() != 0 {
		t.Errorf("session table has %d entries, want 0", c.SessionCount())
	}
	if got := c.StateOf("chan-1"); got != Idle {
		t.Errorf("state = %v, want Idle", got)
	}
}

func TestPauseResumeCycle(t *testing.T) {
	c, _, _ := newTestController()

	if _, err := c.Play("chan-1", "voice-1", "q", "u"); err != nil {
		t.Fatalf("Play() returned error: %v", err)
	}

	if err := c.Pause("chan-1"); err != nil {
		t.Fatalf("Pause() returned error: %v", err)
	}
	if got := c.StateOf("chan-1"); got != Paused {
		t.Errorf("after pause: state = %v, want Paused", got)
	}

	if err := c.Resume("chan-1"); err != nil {
		t.Fatalf("Resume() returned error: %v", err)
	}
	if got := c.StateOf("chan-1"); got != Playing {
		t.Errorf("after resume: state = %v, want Playing", got)
	}
}

func TestQueueEmptyAlwaysEndsIdle(t *testing.T) {
	for _, setup := range []struct {
		name string
		prep func(c *Controller)
	}{
		{"from playing", func(c *Controller) {
			c.Play("chan-1", "voice-1", "q", "u")
		}},
		{"from paused", func(c *Controller) {
			c.Play("chan-1", "voice-1", "q", "u")
			c.Pause("chan-1")
		}},
		{"from stopped", func(c *Controller) {
			c.Play("chan-1", "voice-1", "q", "u")
			c.Stop("chan-1")
		}},
		{"no session", func(c *Controller) {}},
	} {
		t.Run(setup.name, func(t *testing.T) {
			c, _, _ := newTestController()
			setup.prep(c)

			c.HandleEvent(Event{Type: EventQueueEmpty, ChannelID: "chan-1"})

			if got := c.StateOf("chan-1"); got != Idle {
				t.Errorf("state = %v, want Idle", got)
			}
			if c.SessionCount() != 0 {
				t.Errorf("session table has %d entries, want 0", c.SessionCount())
			}
		})
	}
}

func TestDisconnectedDestroysSession(t *testing.T) {
	c, _, _ := newTestController()
	c.Play("chan-1", "voice-1", "q", "u")

	c.HandleEvent(Event{Type: EventDisconnected, ChannelID: "chan-1"})

	if _, ok := c.Session("chan-1"); ok {
		t.Error("session should be destroyed on disconnect")
	}
}

func TestStopMarksStoppedUntilDisconnect(t *testing.T) {
	c, engine, _ := newTestController()
	c.Play("chan-1", "voice-1", "q", "u")

	if err := c.Stop("chan-1"); err != nil {
		t.Fatalf("Stop() returned error: %v", err)
	}
	if got := c.StateOf("chan-1"); got != Stopped {
		t.Errorf("after stop: state = %v, want Stopped", got)
	}
	if engine.calls[len(engine.calls)-1] != "stop:chan-1" {
		t.Errorf("engine calls = %v, want trailing stop", engine.calls)
	}

	// Playing again is allowed while Stopped
	if _, err := c.Play("chan-1", "voice-1", "otra", "u"); err != nil {
		t.Fatalf("Play() after stop returned error: %v", err)
	}
	if got := c.StateOf("chan-1"); got != Playing {
		t.Errorf("after replay: state = %v, want Playing", got)
	}
}

func TestTrackStartedNotifiesWithMetadata(t *testing.T) {
	c, _, notifier := newTestController()

	c.HandleEvent(Event{
		Type:      EventTrackStarted,
		ChannelID: "chan-2",
		Track:     &Track{Title: "Vivir Mi Vida", Uploader: "Marc Anthony", Duration: 252000, Requester: "leo"},
	})

	if got := c.StateOf("chan-2"); got != Playing {
		t.Errorf("state = %v, want Playing", got)
	}
	if len(notifier.nowPlaying) != 1 || notifier.nowPlaying[0] != "Vivir Mi Vida" {
		t.Errorf("NowPlaying notifications = %v", notifier.nowPlaying)
	}
}

func TestPlaybackErrorLeavesStateUnchanged(t *testing.T) {
	c, _, notifier := newTestController()
	c.Play("chan-1", "voice-1", "q", "u")
	c.Pause("chan-1")

	c.HandleEvent(Event{Type: EventPlaybackError, ChannelID: "chan-1", Err: fmt.Errorf("códec no soportado")})

	if got := c.StateOf("chan-1"); got != Paused {
		t.Errorf("state = %v, want Paused (unchanged)", got)
	}
	if len(notifier.issues) != 1 || notifier.issues[0] != "códec no soportado" {
		t.Errorf("issues = %v", notifier.issues)
	}
}

func TestPublisherReceivesTransitions(t *testing.T) {
	c, _, _ := newTestController()

	var events []string
	c.SetPublisher(func(channelID, event string, session Session) {
		events = append(events, event)
	})

	c.Play("chan-1", "voice-1", "q", "u")
	c.Pause("chan-1")
	c.Resume("chan-1")
	c.HandleEvent(Event{Type: EventQueueEmpty, ChannelID: "chan-1"})

	want := []string{"playing", "paused", "playing", "queueEmpty"}
	if len(events) != len(want) {
		t.Fatalf("published events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, events[i], want[i])
		}
	}
}

func TestFormattedDuration(t *testing.T) {
	track := &Track{Duration: 189000}
	if got := track.FormattedDuration(); got != "3:09" {
		t.Errorf("FormattedDuration() = %q, want 3:09", got)
	}
}
