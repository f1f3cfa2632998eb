package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "moneywatch/internal/platform/errors"
)

var t0 = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

func TestStartGuards(t *testing.T) {
	idle := State{Generation: 4}
	for _, title := range []string{"", "   ", "\t\n"} {
		got, err := Start(idle, title, "s1", t0)
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("title %q: expected invalid input, got %v", title, err)
		}
		if got != idle {
			t.Fatalf("title %q: state changed to %+v", title, got)
		}
	}

	active, err := Start(idle, "  Dune  ", "s1", t0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !active.Active || active.Title != "Dune" || active.ElapsedSeconds != 0 || active.Generation != 5 {
		t.Fatalf("unexpected active state: %+v", active)
	}
	if _, err := Start(active, "Other", "s2", t0); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected active session exists, got %v", err)
	}
}

func TestTickIgnoresIdleAndStaleGenerations(t *testing.T) {
	if _, ok := Tick(State{Generation: 1}, 1); ok {
		t.Fatalf("tick applied while idle")
	}
	active, _ := Start(State{}, "x", "s1", t0)
	if _, ok := Tick(active, active.Generation-1); ok {
		t.Fatalf("tick applied for stale generation")
	}
	next, ok := Tick(active, active.Generation)
	if !ok || next.ElapsedSeconds != 1 {
		t.Fatalf("expected elapsed 1, got %+v ok=%v", next, ok)
	}
}

func TestStopComputesDurationAndEarnings(t *testing.T) {
	s, _ := Start(State{}, "Como Ganhar Dinheiro Online", "s1", t0)
	for i := 0; i < 125; i++ {
		s, _ = Tick(s, s.Generation)
	}
	idle, done, err := Stop(s, 1, t0.Add(125*time.Second))
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if done.DurationMin != 2 || done.Earnings != 125 || done.Earnings.String() != "1.25" {
		t.Fatalf("unexpected completion: %+v", done)
	}
	if idle.Active || idle.ElapsedSeconds != 0 || idle.Title != "" {
		t.Fatalf("stop should reset to idle: %+v", idle)
	}
	if idle.Generation == s.Generation {
		t.Fatalf("stop must retire the session generation")
	}
	if _, _, err := Stop(idle, 1, t0); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
}

func TestCloseRetiresGeneration(t *testing.T) {
	s, _ := Start(State{}, "x", "s1", t0)
	closed := Close(s)
	if closed.Active {
		t.Fatalf("close should leave the controller idle")
	}
	if _, ok := Tick(closed, s.Generation); ok {
		t.Fatalf("tick from a closed session was applied")
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := map[int]string{0: "0:00", 9: "0:09", 125: "2:05", 3600: "60:00", -3: "0:00"}
	for in, want := range cases {
		if got := FormatElapsed(in); got != want {
			t.Fatalf("FormatElapsed(%d) = %q, want %q", in, got, want)
		}
	}
}
