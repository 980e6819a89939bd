// Package observable implements a state subject that notifies registered
// listeners whenever its state is assigned.
//
// The subject holds listeners through weak pointers, so registration never
// keeps a listener alive. Listeners that are collected before being removed
// are skipped during notification and dropped by Prune.
//
// Every operation runs under one re-entrant lock per subject. Listener
// callbacks and the blocks passed to PerformWithoutNotifications and
// PerformWithNotifications may call back into the same subject.
package observable

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/krew-solutions/ascetic-observer-go/asceticobserver/disposable"
	"github.com/krew-solutions/ascetic-observer-go/asceticobserver/syncutil"
	"github.com/krew-solutions/ascetic-observer-go/asceticobserver/utils/scope"
)

type SubjectOption func(*Subject)

// WithCapabilityResolver sets the mapping from state values to capabilities.
func WithCapabilityResolver(resolver CapabilityResolver) SubjectOption {
	return func(s *Subject) {
		if resolver != nil {
			s.resolver = resolver
		}
	}
}

func WithLogger(logger *slog.Logger) SubjectOption {
	return func(s *Subject) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithInitialState sets the starting state without notifying.
func WithInitialState(state uint) SubjectOption {
	return func(s *Subject) {
		s.state = state
	}
}

type Subject struct {
	mu                   syncutil.ReentrantMutex
	id                   uuid.UUID
	state                uint
	listeners            listenerSet
	notificationsEnabled bool
	resolver             CapabilityResolver
	logger               *slog.Logger
}

func NewSubject(opts ...SubjectOption) *Subject {
	s := &Subject{
		id:                   uuid.New(),
		notificationsEnabled: true,
		resolver:             NoCapability,
		logger:               slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers listener. Adding the same listener again has no effect.
// A nil listener is ignored.
func Add[L any](s *Subject, listener *L) disposable.Disposable {
	if listener == nil {
		return disposable.NewDisposable(nil)
	}
	e := newEntry(listener)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners.attach(e)
	return disposable.NewDisposable(func() {
		s.detach(e.id)
	})
}

// Remove unregisters listener. Unknown listeners are ignored.
func Remove[L any](s *Subject, listener *L) {
	if listener == nil {
		return
	}
	s.detach(newEntry(listener).id)
}

func (s *Subject) detach(id any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners.detach(id)
}

func (s *Subject) ID() uuid.UUID {
	return s.id
}

func (s *Subject) State() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState assigns state and notifies without a payload. The notification
// fires even when state equals the current value.
func (s *Subject) SetState(state uint) {
	s.SetStateWithPayload(state, nil)
}

// SetStateWithPayload assigns state and notifies with payload as a single
// critical section.
func (s *Subject) SetStateWithPayload(state uint, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.NotifyWithPayload(state, payload)
}

func (s *Subject) Notify(state uint) {
	s.NotifyWithPayload(state, nil)
}

// NotifyWithPayload invokes the capability resolved for state on every live
// listener that supports it. It does nothing while notifications are
// disabled. The lock is held for the whole fan-out.
func (s *Subject) NotifyWithPayload(state uint, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.notificationsEnabled {
		s.logger.Debug("observable: broadcast suppressed", s.attrs(state)...)
		return
	}
	capability := s.CapabilityForState(state)
	if capability == nil {
		s.logger.Debug("observable: no capability for state", s.attrs(state)...)
		return
	}
	for _, e := range s.listeners.snapshot() {
		if e.removed {
			continue
		}
		listener := e.resolve()
		if listener == nil {
			s.logger.Debug("observable: listener collected", s.attrs(state)...)
			continue
		}
		capability(listener, state, payload)
	}
}

// CapabilityForState resolves the capability listeners are notified through
// for state. Without WithCapabilityResolver it always returns nil.
func (s *Subject) CapabilityForState(state uint) Capability {
	return s.resolver(state)
}

func (s *Subject) NotificationsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notificationsEnabled
}

// PerformWithoutNotifications runs block with notifications disabled and
// then restores the previous setting. The error of block is returned as is.
func (s *Subject) PerformWithoutNotifications(block func() error) error {
	return s.perform(block, false)
}

// PerformWithNotifications runs block with notifications enabled and then
// restores the previous setting.
func (s *Subject) PerformWithNotifications(block func() error) error {
	return s.perform(block, true)
}

// Atomic runs block under the subject lock without touching the
// notification setting.
func (s *Subject) Atomic(block func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return block()
}

func (s *Subject) perform(block func() error, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scope.Run(&s.notificationsEnabled, enabled, block)
}

// Len returns the number of registered entries, collected ones included.
func (s *Subject) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listeners.len()
}

// Prune drops entries whose listener has been collected and returns how
// many were dropped.
func (s *Subject) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := s.listeners.prune()
	if dropped > 0 {
		s.logger.Debug("observable: listeners pruned",
			slog.String("subject_id", s.id.String()),
			slog.Int("count", dropped),
		)
	}
	return dropped
}

func (s *Subject) attrs(state uint) []any {
	return []any{
		slog.String("subject_id", s.id.String()),
		slog.Uint64("state", uint64(state)),
	}
}
