package mqtt

import "testing"

// TestStateTopicShape verifies playback snapshots land on the
// per-channel, per-event topic external dashboards subscribe to
func TestStateTopicShape(t *testing.T) {
	c := &Communicator{topic: "volley/music"}

	got := c.stateTopic("1122334455", "playing")
	want := "volley/music/1122334455/playing"
	if got != want {
		t.Errorf("stateTopic() = %q, want %q", got, want)
	}
}

// TestDisabledCommunicatorPublishIsNoOp verifies a bot without a broker
// configured can still run the playback pipeline
func TestDisabledCommunicatorPublishIsNoOp(t *testing.T) {
	c := &Communicator{enabled: false}

	// Must not panic despite the nil client
	c.PublishState("1122334455", "playing", map[string]string{"state": "Playing"})

	if c.IsConnected() {
		t.Error("disabled communicator should not report a live connection")
	}
}
