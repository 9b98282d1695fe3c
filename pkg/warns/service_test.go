package warns

import (
	"testing"

	"github.com/VolleyStudios/VolleyBotGo/pkg/store"
)

func newTestService(t *testing.T, dir string) *Service {
	t.Helper()
	s, err := store.New(dir)
	if err != nil {
		t.Fatalf("store.New() returned error: %v", err)
	}
	svc, err := NewService(s)
	if err != nil {
		t.Fatalf("NewService() returned error: %v", err)
	}
	return svc
}

func TestAddIsAppendOnly(t *testing.T) {
	svc := newTestService(t, t.TempDir())

	first, err := svc.Add("user-1", "spam", "mod-1")
	if err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	second, err := svc.Add("user-1", "flood", "mod-2")
	if err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}

	list := svc.List("user-1")
	if len(list) != 2 {
		t.Fatalf("List() returned %d warnings, want 2", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Error("List() order does not match call order")
	}
	if list[0].Reason != "spam" || list[1].Reason != "flood" {
		t.Errorf("List() reasons = %q, %q; want spam, flood", list[0].Reason, list[1].Reason)
	}
	if !list[0].Timestamp.Before(list[1].Timestamp) && !list[0].Timestamp.Equal(list[1].Timestamp) {
		t.Error("warnings are not in chronological order")
	}
}

func TestListUnknownUserIsEmpty(t *testing.T) {
	svc := newTestService(t, t.TempDir())

	if got := svc.List("nobody"); len(got) != 0 {
		t.Errorf("List() on unknown user = %v, want empty", got)
	}
	if got := svc.Count("nobody"); got != 0 {
		t.Errorf("Count() on unknown user = %d, want 0", got)
	}
}

func TestWarningsSurviveReload(t *testing.T) {
	dir := t.TempDir()

	svc := newTestService(t, dir)
	want, err := svc.Add("user-9", "gritar al árbitro", "mod-3")
	if err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	if _, err := svc.Add("user-9", "reincidencia", "mod-3"); err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}

	// Fresh service over the same directory must see the persisted list
	reloaded := newTestService(t, dir)
	list := reloaded.List("user-9")
	if len(list) != 2 {
		t.Fatalf("reloaded List() returned %d warnings, want 2", len(list))
	}
	if list[0].ID != want.ID {
		t.Errorf("reloaded first warning ID = %s, want %s", list[0].ID, want.ID)
	}
	if !list[0].Timestamp.Equal(want.Timestamp) {
		t.Errorf("reloaded timestamp = %v, want %v", list[0].Timestamp, want.Timestamp)
	}
}

func TestListReturnsCopy(t *testing.T) {
	svc := newTestService(t, t.TempDir())

	if _, err := svc.Add("user-2", "original", "mod"); err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}

	list := svc.List("user-2")
	list[0].Reason = "mutado"

	if got := svc.List("user-2")[0].Reason; got != "original" {
		t.Errorf("internal state mutated through List() copy: %q", got)
	}
}
