package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"tenderly/internal/domain/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock fires timers synchronously from Advance
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

type saveCall struct {
	ProposalID  string
	Content     string
	BaseVersion *int
}

type fakeSaver struct {
	mu      sync.Mutex
	calls   []saveCall
	version int
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeSaver) SaveDraft(ctx context.Context, proposalID, content string, baseVersion *int) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, saveCall{ProposalID: proposalID, Content: content, BaseVersion: baseVersion})
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.version++
	return f.version, nil
}

func (f *fakeSaver) Calls() []saveCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]saveCall(nil), f.calls...)
}

func newTestSession(saver *fakeSaver, clock *fakeClock, readOnly bool) *Session {
	return NewSession("p1", "initial", saver.version, readOnly, saver, Config{
		AfterFunc: clock.AfterFunc,
	})
}

func TestSession_RapidEditsSaveOnceAfterQuiescence(t *testing.T) {
	clock := &fakeClock{}
	saver := &fakeSaver{version: 1}
	s := newTestSession(saver, clock, false)
	defer s.Abandon()

	for _, content := range []string{"a", "ab", "abc", "abcd"} {
		if err := s.Edit(content); err != nil {
			t.Fatalf("Edit: %v", err)
		}
		clock.Advance(500 * time.Millisecond)
	}
	if n := len(saver.Calls()); n != 0 {
		t.Fatalf("saved %d times before quiescence", n)
	}

	clock.Advance(DefaultDebounce)

	want := []saveCall{{ProposalID: "p1", Content: "abcd"}}
	if diff := cmp.Diff(want, saver.Calls()); diff != "" {
		t.Fatalf("save calls mismatch (-want +got):\n%s", diff)
	}

	st := s.Status()
	if st.Status != StatusSaved || st.Dirty || st.Version != 2 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestSession_ContinuousEditsNeverSave(t *testing.T) {
	clock := &fakeClock{}
	saver := &fakeSaver{}
	s := newTestSession(saver, clock, false)
	defer s.Abandon()

	for i := 0; i < 20; i++ {
		_ = s.Edit(string(rune('a' + i)))
		clock.Advance(DefaultDebounce - time.Millisecond)
	}

	if n := len(saver.Calls()); n != 0 {
		t.Fatalf("debounce behaved like a throttle: %d saves", n)
	}
	if st := s.Status(); st.Status != StatusPending || !st.Dirty {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestSession_FailureKeepsBufferAndDoesNotRetry(t *testing.T) {
	clock := &fakeClock{}
	boom := errors.New("network down")
	saver := &fakeSaver{err: boom}
	s := newTestSession(saver, clock, false)
	defer s.Abandon()

	_ = s.Edit("keep me")
	clock.Advance(DefaultDebounce)
	clock.Advance(time.Minute)

	if n := len(saver.Calls()); n != 1 {
		t.Fatalf("saves = %d, want 1", n)
	}
	st := s.Status()
	if st.Status != StatusError || !errors.Is(st.Err, boom) || !st.Dirty {
		t.Fatalf("unexpected state %+v", st)
	}
	if s.Content() != "keep me" {
		t.Fatalf("buffer lost: %q", s.Content())
	}
}

func TestSession_ReadOnly(t *testing.T) {
	clock := &fakeClock{}
	saver := &fakeSaver{}
	s := newTestSession(saver, clock, true)
	defer s.Abandon()

	if err := s.Edit("x"); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("Edit err = %v", err)
	}
	if err := s.SaveNow(context.Background()); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("SaveNow err = %v", err)
	}
	if s.Content() != "initial" {
		t.Fatalf("content changed: %q", s.Content())
	}
	if n := len(saver.Calls()); n != 0 {
		t.Fatalf("saves = %d", n)
	}
}

func TestSession_SetReadOnlyCancelsPendingSave(t *testing.T) {
	clock := &fakeClock{}
	saver := &fakeSaver{}
	s := newTestSession(saver, clock, false)
	defer s.Abandon()

	_ = s.Edit("late edit")
	s.SetReadOnly(true)
	clock.Advance(DefaultDebounce)

	if n := len(saver.Calls()); n != 0 {
		t.Fatalf("saves = %d", n)
	}
}

func TestSession_SaveNow(t *testing.T) {
	clock := &fakeClock{}
	saver := &fakeSaver{version: 3}
	s := newTestSession(saver, clock, false)
	defer s.Abandon()

	// Clean buffers are still saved
	if err := s.SaveNow(context.Background()); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}

	_ = s.Edit("now")
	if err := s.SaveNow(context.Background()); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}
	clock.Advance(DefaultDebounce)

	want := []saveCall{
		{ProposalID: "p1", Content: "initial"},
		{ProposalID: "p1", Content: "now"},
	}
	if diff := cmp.Diff(want, saver.Calls()); diff != "" {
		t.Fatalf("save calls mismatch (-want +got):\n%s", diff)
	}
	if s.Dirty() {
		t.Fatal("still dirty after SaveNow")
	}
}

func TestSession_SaveNowRejectedWhileInFlight(t *testing.T) {
	clock := &fakeClock{}
	saver := &fakeSaver{started: make(chan struct{}), release: make(chan struct{})}
	s := newTestSession(saver, clock, false)
	defer s.Abandon()

	_ = s.Edit("first")
	done := make(chan struct{})
	go func() {
		defer close(done)
		clock.Advance(DefaultDebounce)
	}()
	<-saver.started

	if err := s.SaveNow(context.Background()); !errors.Is(err, ErrSaveInFlight) {
		t.Fatalf("SaveNow err = %v, want ErrSaveInFlight", err)
	}
	if st := s.Status(); st.Status != StatusSaving {
		t.Fatalf("status = %s", st.Status)
	}

	close(saver.release)
	<-done
}

func TestSession_EditDuringSaveStaysDirty(t *testing.T) {
	clock := &fakeClock{}
	saver := &fakeSaver{started: make(chan struct{}, 2), release: make(chan struct{})}
	s := newTestSession(saver, clock, false)
	defer s.Abandon()

	_ = s.Edit("first")
	done := make(chan struct{})
	go func() {
		defer close(done)
		clock.Advance(DefaultDebounce)
	}()
	<-saver.started

	if err := s.Edit("second"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	close(saver.release)
	<-done

	st := s.Status()
	if !st.Dirty || st.Status != StatusPending {
		t.Fatalf("newer edit lost: %+v", st)
	}

	clock.Advance(DefaultDebounce)

	calls := saver.Calls()
	if len(calls) != 2 || calls[1].Content != "second" {
		t.Fatalf("unexpected calls %+v", calls)
	}
	if s.Dirty() {
		t.Fatal("still dirty after second save")
	}
}

func TestSession_CheckVersionSendsBase(t *testing.T) {
	clock := &fakeClock{}
	saver := &fakeSaver{version: 5}
	s := NewSession("p1", "", 5, false, saver, Config{AfterFunc: clock.AfterFunc, CheckVersion: true})
	defer s.Abandon()

	_ = s.Edit("v6")
	clock.Advance(DefaultDebounce)
	_ = s.Edit("v7")
	clock.Advance(DefaultDebounce)

	calls := saver.Calls()
	if len(calls) != 2 {
		t.Fatalf("calls = %d", len(calls))
	}
	if *calls[0].BaseVersion != 5 || *calls[1].BaseVersion != 6 {
		t.Fatalf("base versions = %d, %d", *calls[0].BaseVersion, *calls[1].BaseVersion)
	}
}

func TestSession_StatusCallback(t *testing.T) {
	clock := &fakeClock{}
	saver := &fakeSaver{}
	var seen []Status
	s := NewSession("p1", "", 0, false, saver, Config{
		AfterFunc: clock.AfterFunc,
		OnStatus:  func(st State) { seen = append(seen, st.Status) },
	})
	defer s.Abandon()

	_ = s.Edit("a")
	_ = s.Edit("ab")
	clock.Advance(DefaultDebounce)

	want := []Status{StatusPending, StatusPending, StatusSaving, StatusSaved}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("status sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_CloseGuardsUnsavedChanges(t *testing.T) {
	clock := &fakeClock{}
	saver := &fakeSaver{}
	s := newTestSession(saver, clock, false)

	_ = s.Edit("unsaved")
	if err := s.Close(); !errors.Is(err, ErrUnsavedChanges) {
		t.Fatalf("Close err = %v", err)
	}

	if err := s.SaveNow(context.Background()); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Edit("after"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Edit after close err = %v", err)
	}
}

func TestSession_RealTimer(t *testing.T) {
	defer goleak.VerifyNone(t)

	saver := &fakeSaver{started: make(chan struct{}, 1)}
	s := NewSession("p1", "", 0, false, saver, Config{Debounce: 10 * time.Millisecond})

	_ = s.Edit("real")
	select {
	case <-saver.started:
	case <-time.After(2 * time.Second):
		t.Fatal("autosave never fired")
	}

	// Wait for the save to land before closing
	deadline := time.Now().Add(2 * time.Second)
	for s.Dirty() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

type fakeVersions []models.VersionSnapshot

func (f fakeVersions) ListVersions(ctx context.Context, proposalID string) ([]models.VersionSnapshot, error) {
	return append([]models.VersionSnapshot(nil), f...), nil
}

func TestHistory(t *testing.T) {
	source := fakeVersions{
		{ProposalID: "p1", Version: 2, Content: "second"},
		{ProposalID: "p1", Version: 1, Content: "first\nwith trailing space "},
		{ProposalID: "p1", Version: 3, Content: "third"},
	}
	h := NewHistory(source, "p1")
	ctx := context.Background()

	versions, err := h.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var order []int
	for _, v := range versions {
		order = append(order, v.Version)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	if _, err := h.Preview(ctx, 9); !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("Preview err = %v", err)
	}

	clock := &fakeClock{}
	saver := &fakeSaver{version: 3}
	s := NewSession("p1", "third", 3, false, saver, Config{AfterFunc: clock.AfterFunc})
	defer s.Abandon()

	snap, err := h.Restore(ctx, s, 1)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(saver.Calls()) != 0 {
		t.Fatal("Restore persisted on its own")
	}
	if !s.Dirty() {
		t.Fatal("restored buffer not dirty")
	}

	if err := s.SaveNow(ctx); err != nil {
		t.Fatalf("SaveNow: %v", err)
	}
	calls := saver.Calls()
	if len(calls) != 1 || calls[0].Content != snap.Content {
		t.Fatalf("persisted %q, want %q", calls[0].Content, snap.Content)
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "empty", in: "", want: 0},
		{name: "plain", in: "We propose to build the bridge.", want: 6},
		{name: "heading and emphasis", in: "# Technical Approach\n\nA **phased** plan.", want: 5},
		{name: "lists", in: "- safety\n* quality\n1. schedule\n2) budget", want: 4},
		{name: "fenced code ignored", in: "Intro\n```\nignored words here\n```\nOutro", want: 2},
		{name: "numbers count", in: "Delivery in 12 months", want: 4},
		{name: "rule", in: "above\n---\nbelow", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordCount(tt.in); got != tt.want {
				t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

type staleVersionError struct{ stored int }

func (e *staleVersionError) Error() string { return "proposal was modified by another save" }

func (e *staleVersionError) ConflictingVersion() (int, bool) { return e.stored, true }

// versionedSaver rejects saves whose base is not the stored version
type versionedSaver struct {
	mu     sync.Mutex
	stored int
	bases  []int
}

func (v *versionedSaver) SaveDraft(ctx context.Context, proposalID, content string, baseVersion *int) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bases = append(v.bases, *baseVersion)
	if *baseVersion != v.stored {
		return 0, &staleVersionError{stored: v.stored}
	}
	v.stored++
	return v.stored, nil
}

func TestSession_ConflictThenRebase(t *testing.T) {
	clock := &fakeClock{}
	// Another session already saved version 6
	saver := &versionedSaver{stored: 6}
	s := NewSession("p1", "", 5, false, saver, Config{AfterFunc: clock.AfterFunc, CheckVersion: true})
	defer s.Abandon()

	_ = s.Edit("mine")
	clock.Advance(DefaultDebounce)

	st := s.Status()
	var stale *staleVersionError
	if st.Status != StatusConflict || st.RemoteVersion != 6 || !st.Dirty || !errors.As(st.Err, &stale) {
		t.Fatalf("after first save: %+v", st)
	}

	// Without a rebase every further save is rejected the same way
	_ = s.Edit("mine, again")
	clock.Advance(DefaultDebounce)
	if st := s.Status(); st.Status != StatusConflict || st.Version != 5 {
		t.Fatalf("after second save: %+v", st)
	}

	if !s.Rebase() {
		t.Fatal("Rebase() = false with a pending conflict")
	}
	if st := s.Status(); st.Status != StatusPending || st.Version != 6 || st.RemoteVersion != 0 || st.Err != nil {
		t.Fatalf("after rebase: %+v", st)
	}
	clock.Advance(DefaultDebounce)

	st = s.Status()
	if st.Status != StatusSaved || st.Version != 7 || st.Dirty {
		t.Fatalf("after overwrite: %+v", st)
	}
	if s.Rebase() {
		t.Fatal("Rebase() = true without a conflict")
	}
	if diff := cmp.Diff([]int{5, 5, 6}, saver.bases); diff != "" {
		t.Fatalf("base versions (-want +got):\n%s", diff)
	}
}

func TestSession_ConflictWithoutVersionCheckIsPlainError(t *testing.T) {
	clock := &fakeClock{}
	saver := &fakeSaver{err: &staleVersionError{stored: 9}}
	s := newTestSession(saver, clock, false)
	defer s.Abandon()

	_ = s.Edit("text")
	clock.Advance(DefaultDebounce)

	if st := s.Status(); st.Status != StatusError || st.RemoteVersion != 0 {
		t.Fatalf("unexpected state %+v", st)
	}
	if s.Rebase() {
		t.Fatal("Rebase() = true without a version check")
	}
}
