package lavalink

import (
	"testing"

	"github.com/VolleyStudios/VolleyBotGo/pkg/player"
)

// newQueueClient builds a client with a seeded queue and a captured
// event sink. No nodes are attached, so play operations sent to the
// engine fail quietly; the queue bookkeeping is what's under test.
func newQueueClient(channelID string, current *player.Track, queued ...*player.Track) (*Client, *[]player.Event) {
	c := &Client{
		queues: map[string]*channelQueue{
			channelID: {current: current, queue: queued},
		},
	}
	var events []player.Event
	c.SetEventHandler(func(ev player.Event) {
		events = append(events, ev)
	})
	return c, &events
}

func TestTrackEndReplacedLeavesQueueAlone(t *testing.T) {
	// A skip already promoted "Pa Ti" to current; the old track's
	// replaced end must not advance the queue again or report it empty.
	current := &player.Track{Ref: "enc-b", Title: "Pa Ti"}
	queued := &player.Track{Ref: "enc-c", Title: "Hawái"}
	c, events := newQueueClient("guild-1", current, queued)

	c.handleTrackEnd("guild-1", "replaced")

	if len(*events) != 0 {
		t.Fatalf("events = %v, want none", *events)
	}
	q := c.queues["guild-1"]
	if q.current != current {
		t.Errorf("current = %v, want %v", q.current, current)
	}
	if len(q.queue) != 1 {
		t.Errorf("queue length = %d, want 1", len(q.queue))
	}
}

func TestTrackEndStoppedLeavesQueueAlone(t *testing.T) {
	c, events := newQueueClient("guild-1", &player.Track{Ref: "enc-a", Title: "Mi Gente"})

	c.handleTrackEnd("guild-1", "stopped")

	if len(*events) != 0 {
		t.Fatalf("events = %v, want none", *events)
	}
	if c.queues["guild-1"].current == nil {
		t.Error("current cleared on a stopped end; stop already dropped the queue")
	}
}

func TestTrackEndFinishedAdvancesQueue(t *testing.T) {
	next := &player.Track{Ref: "enc-b", Title: "Pa Ti"}
	c, events := newQueueClient("guild-1", &player.Track{Ref: "enc-a", Title: "Mi Gente"}, next)

	c.handleTrackEnd("guild-1", "finished")

	if len(*events) != 0 {
		t.Fatalf("events = %v, want none until the next track starts", *events)
	}
	q := c.queues["guild-1"]
	if q.current != next {
		t.Errorf("current = %v, want %v", q.current, next)
	}
	if len(q.queue) != 0 {
		t.Errorf("queue length = %d, want 0", len(q.queue))
	}
}

func TestTrackEndFinishedWithEmptyQueueReportsIt(t *testing.T) {
	c, events := newQueueClient("guild-1", &player.Track{Ref: "enc-a", Title: "Mi Gente"})

	c.handleTrackEnd("guild-1", "finished")

	if len(*events) != 1 || (*events)[0].Type != player.EventQueueEmpty {
		t.Fatalf("events = %v, want a single queueEmpty", *events)
	}
	if c.queues["guild-1"].current != nil {
		t.Error("current should be cleared once the queue drains")
	}
}

func TestTrackEndLoadFailedAdvancesQueue(t *testing.T) {
	next := &player.Track{Ref: "enc-b", Title: "Pa Ti"}
	c, _ := newQueueClient("guild-1", &player.Track{Ref: "enc-a", Title: "Mi Gente"}, next)

	c.handleTrackEnd("guild-1", "loadFailed")

	if got := c.queues["guild-1"].current; got != next {
		t.Errorf("current = %v, want %v", got, next)
	}
}

func TestTrackStartWithoutCurrentIsIgnored(t *testing.T) {
	c, events := newQueueClient("guild-1", nil)

	c.handleTrackStart("guild-1")

	if len(*events) != 0 {
		t.Fatalf("events = %v, want none", *events)
	}
}
