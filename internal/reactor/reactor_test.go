package reactor

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/danieljhkim/snapbranch/internal/clock"
	"github.com/danieljhkim/snapbranch/internal/logging"
	"github.com/danieljhkim/snapbranch/internal/vcs"
)

func newTestReactor(t *testing.T, integration vcs.Integration, folders ...string) (*Reactor, *clock.FakeClock) {
	t.Helper()
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	r := New(integration, folders, Options{Clock: clk, Logger: logging.Discard()})
	t.Cleanup(r.Shutdown)
	return r, clk
}

func collect(r *Reactor) *[]Event {
	var events []Event
	r.Subscribe(func(ev Event) { events = append(events, ev) })
	return &events
}

func branches(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Branch)
	}
	return out
}

func TestReactor_Dedup(t *testing.T) {
	integration := vcs.NewFakeIntegration()
	repo := integration.AddRepository("/work/app", "main")
	r, _ := newTestReactor(t, integration, "/work/app")
	events := collect(r)

	for _, b := range []string{"A", "A", "B", "B", "B", "C"} {
		repo.Checkout(b)
	}

	if got := branches(*events); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("events = %v, want [A B C]", got)
	}
	want := []Event{{"A", "main"}, {"B", "A"}, {"C", "B"}}
	if !reflect.DeepEqual(*events, want) {
		t.Errorf("events = %+v, want %+v", *events, want)
	}
}

func TestReactor_NoInitialEmission(t *testing.T) {
	integration := vcs.NewFakeIntegration()
	repo := integration.AddRepository("/work/app", "main")
	r, _ := newTestReactor(t, integration, "/work/app")
	events := collect(r)

	repo.Notify()
	repo.Notify()

	if len(*events) != 0 {
		t.Errorf("expected no events, got %v", *events)
	}
	if b, ok := r.CurrentBranch(); !ok || b != "main" {
		t.Errorf("CurrentBranch = %q, %v", b, ok)
	}
}

func TestReactor_IgnoresDetachedAndErrors(t *testing.T) {
	integration := vcs.NewFakeIntegration()
	repo := integration.AddRepository("/work/app", "main")
	r, _ := newTestReactor(t, integration, "/work/app")
	events := collect(r)

	repo.Checkout("")
	repo.SetError(errors.New("HEAD locked"))
	repo.Notify()
	repo.SetError(nil)
	repo.Checkout("main")
	repo.Checkout("dev")

	if got := branches(*events); !reflect.DeepEqual(got, []string{"dev"}) {
		t.Errorf("events = %v, want [dev]", got)
	}
}

func TestReactor_Degraded(t *testing.T) {
	tests := []struct {
		name        string
		integration vcs.Integration
	}{
		{"nil integration", nil},
		{"no repository", vcs.NewFakeIntegration()},
		{"open error", func() vcs.Integration {
			f := vcs.NewFakeIntegration()
			f.AddRepository("/work/app", "main")
			f.SetOpenError(errors.New("activation failed"))
			return f
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, clk := newTestReactor(t, tt.integration, "/work/app")
			events := collect(r)

			if r.IsAvailable() {
				t.Error("IsAvailable = true, want false")
			}
			if b, ok := r.CurrentBranch(); ok || b != "" {
				t.Errorf("CurrentBranch = %q, %v; want absent", b, ok)
			}
			if _, ok := r.RepositoryRoot(); ok {
				t.Error("RepositoryRoot should be absent")
			}

			r.UpdateFolders([]string{"/work/app"})
			clk.Advance(2 * time.Second)
			if len(*events) != 0 {
				t.Errorf("degraded reactor emitted %v", *events)
			}
		})
	}
}

func TestReactor_SubscribersInOrder(t *testing.T) {
	integration := vcs.NewFakeIntegration()
	repo := integration.AddRepository("/work/app", "main")
	r, _ := newTestReactor(t, integration, "/work/app")

	var calls []string
	r.Subscribe(func(Event) { calls = append(calls, "first") })
	second := r.Subscribe(func(Event) { calls = append(calls, "second") })
	r.Subscribe(func(Event) { calls = append(calls, "third") })

	repo.Checkout("dev")
	second.Unsubscribe()
	second.Unsubscribe()
	repo.Checkout("main")

	want := []string{"first", "second", "third", "first", "third"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestReactor_SubscriberSeesNewBranch(t *testing.T) {
	integration := vcs.NewFakeIntegration()
	repo := integration.AddRepository("/work/app", "main")
	r, _ := newTestReactor(t, integration, "/work/app")

	var seen string
	r.Subscribe(func(Event) { seen, _ = r.CurrentBranch() })
	repo.Checkout("dev")

	if seen != "dev" {
		t.Errorf("CurrentBranch inside subscriber = %q, want dev", seen)
	}
}

func TestReactor_RebindDebounced(t *testing.T) {
	integration := vcs.NewFakeIntegration()
	r, clk := newTestReactor(t, integration, "/work/empty")
	events := collect(r)

	if r.IsAvailable() {
		t.Fatal("expected unbound reactor")
	}

	repo := integration.AddRepository("/work/app", "feature")
	r.UpdateFolders([]string{"/work/app"})
	clk.Advance(500 * time.Millisecond)
	r.UpdateFolders([]string{"/work/other", "/work/app"})
	clk.Advance(900 * time.Millisecond)

	if r.IsAvailable() {
		t.Fatal("rebound before the delay elapsed")
	}
	if clk.Pending() != 1 {
		t.Errorf("Pending = %d, want 1 collapsed rebind", clk.Pending())
	}

	clk.Advance(200 * time.Millisecond)
	if !r.IsAvailable() {
		t.Fatal("expected reactor to be bound after rebind")
	}
	if root, _ := r.RepositoryRoot(); root != "/work/app" {
		t.Errorf("RepositoryRoot = %q", root)
	}
	if len(*events) != 0 {
		t.Errorf("rebind emitted %v", *events)
	}

	repo.Checkout("feature")
	repo.Checkout("main")
	if got := branches(*events); !reflect.DeepEqual(got, []string{"main"}) {
		t.Errorf("events = %v, want [main]", got)
	}
}

func TestReactor_UnbindKeepsLastKnown(t *testing.T) {
	integration := vcs.NewFakeIntegration()
	repo := integration.AddRepository("/work/app", "main")
	r, clk := newTestReactor(t, integration, "/work/app")
	events := collect(r)

	r.UpdateFolders(nil)
	clk.Advance(time.Second)

	if r.IsAvailable() {
		t.Fatal("expected reactor to be unbound")
	}
	if repo.Watchers() != 0 {
		t.Errorf("old repository still watched")
	}

	r.UpdateFolders([]string{"/work/app"})
	clk.Advance(time.Second)
	repo.Checkout("main")
	repo.Checkout("dev")

	want := []Event{{Branch: "dev", Previous: "main"}}
	if !reflect.DeepEqual(*events, want) {
		t.Errorf("events = %+v, want %+v", *events, want)
	}
	if repo.Watchers() != 1 {
		t.Errorf("Watchers = %d, want 1", repo.Watchers())
	}
}

func TestReactor_Shutdown(t *testing.T) {
	integration := vcs.NewFakeIntegration()
	repo := integration.AddRepository("/work/app", "main")
	r, clk := newTestReactor(t, integration, "/work/app")
	events := collect(r)

	r.UpdateFolders([]string{"/work/app"})
	r.Shutdown()
	r.Shutdown()

	if repo.Watchers() != 0 {
		t.Errorf("Watchers = %d after shutdown", repo.Watchers())
	}
	clk.Advance(2 * time.Second)
	repo.Checkout("dev")

	if len(*events) != 0 {
		t.Errorf("events after shutdown: %v", *events)
	}
}
