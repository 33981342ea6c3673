// Package editor holds the client-side editing discipline for proposal
// drafts: a debounced autosave session and the version history viewer.
package editor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Defaults
const (
	DefaultDebounce    = 2 * time.Second
	DefaultSaveTimeout = 30 * time.Second
)

var (
	// ErrReadOnly is returned for edits and saves of a submitted proposal
	ErrReadOnly = errors.New("proposal is read-only")

	// ErrSaveInFlight is returned by SaveNow while another save is outstanding
	ErrSaveInFlight = errors.New("a save is already in progress")

	// ErrUnsavedChanges is returned by Close while the buffer is dirty
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrClosed is returned by every mutation after Close or Abandon
	ErrClosed = errors.New("session closed")
)

// Status is the autosave indicator state
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending" // dirty, waiting for the edits to pause
	StatusSaving  Status = "saving"
	StatusSaved   Status = "saved"
	StatusError   Status = "error"

	// StatusConflict means another session saved first; see Session.Rebase
	StatusConflict Status = "conflict"
)

// State is a snapshot of the session for display
type State struct {
	Status    Status
	Dirty     bool
	ReadOnly  bool
	Version   int
	LastSaved time.Time
	Err       error

	// RemoteVersion is the version stored by a conflicting save, or 0
	RemoteVersion int
}

// Saver persists a draft and returns the resulting version.
// *client.Client implements it.
type Saver interface {
	SaveDraft(ctx context.Context, proposalID, content string, baseVersion *int) (int, error)
}

// VersionConflict is implemented by save errors caused by a concurrent
// save from another session. *client.APIError implements it.
type VersionConflict interface {
	ConflictingVersion() (int, bool)
}

func conflictingVersion(err error) (int, bool) {
	var vc VersionConflict
	if !errors.As(err, &vc) {
		return 0, false
	}
	return vc.ConflictingVersion()
}

// Timer is the part of *time.Timer the session uses
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d, like time.AfterFunc
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Config tunes a Session. Zero values select the defaults.
type Config struct {
	// Debounce is the quiescence window after the last edit
	Debounce time.Duration
	// SaveTimeout bounds each persistence call
	SaveTimeout time.Duration
	// CheckVersion sends the last known version so a concurrent save from
	// another session is rejected instead of overwritten
	CheckVersion bool
	// OnStatus is called on every state change with the session lock held.
	// It must not call back into the Session.
	OnStatus func(State)

	AfterFunc AfterFunc
	Now       func() time.Time
	Logger    *slog.Logger
}

// Session is the editing buffer of one proposal.
// Edits restart a debounce timer; when edits pause the full content is saved once.
type Session struct {
	proposalID string
	saver      Saver
	cfg        Config

	ctx    context.Context
	cancel context.CancelFunc
	saves  sync.WaitGroup

	mu        sync.Mutex
	content   string
	dirty     bool
	readOnly  bool
	closed    bool
	gen       uint64 // bumped on every edit
	timer     Timer
	saving    bool
	status    Status
	version   int
	lastSaved time.Time
	lastErr   error
	remote    int // version stored by a conflicting save
}

// NewSession starts a session over content already persisted at version
func NewSession(proposalID, content string, version int, readOnly bool, saver Saver, cfg Config) *Session {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = DefaultSaveTimeout
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = realAfterFunc
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		proposalID: proposalID,
		saver:      saver,
		cfg:        cfg,
		ctx:        ctx,
		cancel:     cancel,
		content:    content,
		readOnly:   readOnly,
		status:     StatusIdle,
		version:    version,
	}
}

// Edit replaces the buffer, marks it dirty and restarts the debounce timer
func (s *Session) Edit(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.readOnly {
		return ErrReadOnly
	}

	s.content = content
	s.dirty = true
	s.gen++

	s.stopTimerLocked()
	s.armTimerLocked()
	if !s.saving {
		s.setStatusLocked(StatusPending)
	}
	return nil
}

// SaveNow persists the buffer immediately, whether or not it is dirty.
// A pending debounce timer is cancelled.
func (s *Session) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.readOnly {
		s.mu.Unlock()
		return ErrReadOnly
	}
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	s.stopTimerLocked()
	s.saves.Add(1)
	defer s.saves.Done()

	return s.persist(ctx)
}

func (s *Session) armTimerLocked() {
	gen := s.gen
	s.timer = s.cfg.AfterFunc(s.cfg.Debounce, func() { s.onTimer(gen) })
}

// onTimer runs on the timer goroutine when edits have paused.
// gen identifies the edit that armed the timer; a newer edit makes it stale.
func (s *Session) onTimer(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	if s.closed || s.readOnly || !s.dirty {
		s.mu.Unlock()
		return
	}
	if s.saving {
		// Another save is outstanding; try again after another quiet period
		s.armTimerLocked()
		s.mu.Unlock()
		return
	}
	s.saves.Add(1)
	defer s.saves.Done()

	if err := s.persist(s.ctx); err != nil {
		s.cfg.Logger.Warn("autosave failed", "proposal_id", s.proposalID, "error", err)
	}
}

// persist is entered with s.mu held and returns with it released
func (s *Session) persist(ctx context.Context) error {
	content := s.content
	gen := s.gen
	var base *int
	if s.cfg.CheckVersion {
		v := s.version
		base = &v
	}
	s.saving = true
	s.setStatusLocked(StatusSaving)
	s.mu.Unlock()

	saveCtx, cancel := context.WithTimeout(ctx, s.cfg.SaveTimeout)
	version, err := s.saver.SaveDraft(saveCtx, s.proposalID, content, base)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false

	if err != nil {
		// The buffer stays dirty; nothing retries until the next edit or SaveNow
		s.lastErr = err
		if remote, ok := conflictingVersion(err); ok && s.cfg.CheckVersion {
			s.remote = remote
			s.setStatusLocked(StatusConflict)
			return err
		}
		s.setStatusLocked(StatusError)
		return err
	}

	s.version = version
	s.remote = 0
	s.lastSaved = s.cfg.Now()
	s.lastErr = nil
	if gen == s.gen {
		s.dirty = false
		s.setStatusLocked(StatusSaved)
	} else {
		// Newer edits arrived while saving; their timer is already running
		s.setStatusLocked(StatusPending)
	}
	return nil
}

// Rebase resolves a conflict in favour of the buffer: the session adopts
// the version the other save stored, so the next save replaces it.
// It reports false when no conflict is pending.
func (s *Session) Rebase() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.remote == 0 {
		return false
	}
	s.version = s.remote
	s.remote = 0
	s.lastErr = nil
	if s.saving {
		return true
	}
	if s.dirty && !s.readOnly {
		s.stopTimerLocked()
		s.armTimerLocked()
		s.setStatusLocked(StatusPending)
	} else {
		s.setStatusLocked(StatusIdle)
	}
	return true
}

// SetReadOnly locks or unlocks the session. Locking cancels a pending autosave.
func (s *Session) SetReadOnly(readOnly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readOnly = readOnly
	if readOnly {
		s.stopTimerLocked()
	}
	s.setStatusLocked(s.status)
}

// Content returns the current buffer
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Dirty reports whether the buffer has edits not yet persisted
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Status returns the current state
func (s *Session) Status() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Close ends the session. It refuses with ErrUnsavedChanges while dirty.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.dirty && !s.closed {
		s.mu.Unlock()
		return ErrUnsavedChanges
	}
	s.mu.Unlock()

	s.Abandon()
	return nil
}

// Abandon ends the session discarding unsaved edits and waits for an
// in-flight save to finish
func (s *Session) Abandon() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.mu.Unlock()

	s.cancel()
	s.saves.Wait()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) setStatusLocked(status Status) {
	s.status = status
	if s.cfg.OnStatus != nil {
		s.cfg.OnStatus(s.stateLocked())
	}
}

func (s *Session) stateLocked() State {
	return State{
		Status:    s.status,
		Dirty:     s.dirty,
		ReadOnly:  s.readOnly,
		Version:   s.version,
		LastSaved: s.lastSaved,
		Err:       s.lastErr,

		RemoteVersion: s.remote,
	}
}
