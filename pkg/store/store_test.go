package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/VolleyStudios/VolleyBotGo/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	return s
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	s := newTestStore(t)

	warns := NewCollection[models.WarnsCollection](CollectionWarnings, s)
	got, err := warns.Load(models.WarnsCollection{})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() on missing file = %v, want empty collection", got)
	}

	matches := NewCollection[models.MatchLog](CollectionMatches, s)
	log, err := matches.Load(models.MatchLog{})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(log) != 0 {
		t.Errorf("Load() on missing file = %v, want empty log", log)
	}
}

func TestWarnsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	col := NewCollection[models.WarnsCollection](CollectionWarnings, s)

	ts := time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC)
	want := models.WarnsCollection{
		"111": {
			{ID: "w-1", Reason: "spam", Moderator: "999", Timestamp: ts},
			{ID: "w-2", Reason: "flood", Moderator: "999", Timestamp: ts.Add(time.Minute)},
		},
		"222": {
			{ID: "w-3", Reason: "toxicidad", Moderator: "888", Timestamp: ts.Add(time.Hour)},
		},
	}

	if err := col.Save(want); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	got, err := col.Load(models.WarnsCollection{})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got  %#v\n want %#v", got, want)
	}
}

func TestMatchLogRoundTripKeepsTimestampPrecision(t *testing.T) {
	s := newTestStore(t)
	col := NewCollection[models.MatchLog](CollectionMatches, s)

	want := models.MatchLog{
		{TeamA: "Halcones", TeamB: "Tigres", ScoreA: 3, ScoreB: 1, Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 600700800, time.UTC)},
		{TeamA: "Tigres", TeamB: "Pumas", ScoreA: 2, ScoreB: 2, Timestamp: time.Date(2026, 1, 3, 3, 4, 5, 0, time.UTC)},
	}

	if err := col.Save(want); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	got, err := col.Load(models.MatchLog{})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("Load() returned %d matches, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Timestamp.Equal(want[i].Timestamp) {
			t.Errorf("match %d timestamp = %v, want %v", i, got[i].Timestamp, want[i].Timestamp)
		}
		got[i].Timestamp = want[i].Timestamp
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got  %#v\n want %#v", got, want)
	}
}

func TestTeamsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	col := NewCollection[models.TeamsCollection](CollectionTeams, s)

	want := models.TeamsCollection{
		"Halcones": {Name: "Halcones", Played: 3, Won: 2},
		"Tigres":   {Name: "Tigres", Played: 3, Won: 0},
	}

	if err := col.Save(want); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	got, err := col.Load(models.TeamsCollection{})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got  %#v\n want %#v", got, want)
	}
}

func TestSaveOverwritesWholeFile(t *testing.T) {
	s := newTestStore(t)
	col := NewCollection[models.MatchLog](CollectionMatches, s)

	first := models.MatchLog{
		{TeamA: "A", TeamB: "B", ScoreA: 1, ScoreB: 0, Timestamp: time.Now().UTC()},
		{TeamA: "C", TeamB: "D", ScoreA: 0, ScoreB: 1, Timestamp: time.Now().UTC()},
	}
	if err := col.Save(first); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	second := models.MatchLog{
		{TeamA: "E", TeamB: "F", ScoreA: 2, ScoreB: 2, Timestamp: time.Now().UTC()},
	}
	if err := col.Save(second); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	got, err := col.Load(models.MatchLog{})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(got) != 1 || got[0].TeamA != "E" {
		t.Errorf("Save() did not fully replace prior content, got %#v", got)
	}
}

func TestCollectionsAreIndependentFiles(t *testing.T) {
	s := newTestStore(t)

	warns := NewCollection[models.WarnsCollection](CollectionWarnings, s)
	teams := NewCollection[models.TeamsCollection](CollectionTeams, s)

	if err := warns.Save(models.WarnsCollection{"1": {{ID: "w", Reason: "x", Moderator: "m", Timestamp: time.Now().UTC()}}}); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}
	if err := teams.Save(models.TeamsCollection{"X": {Name: "X", Played: 1}}); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	for _, name := range []string{CollectionWarnings, CollectionTeams} {
		if _, err := os.Stat(filepath.Join(s.Dir(), name+".json")); err != nil {
			t.Errorf("expected backing file for '%s': %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), CollectionMatches+".json")); !os.IsNotExist(err) {
		t.Errorf("unexpected backing file for '%s'", CollectionMatches)
	}
}
