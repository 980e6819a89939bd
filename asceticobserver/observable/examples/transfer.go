package examples

import (
	"slices"

	"github.com/krew-solutions/ascetic-observer-go/asceticobserver/observable"
)

const (
	Idle uint = iota
	Started
	Progressed
	Finished
	Failed
)

type Progress struct {
	Transferred int64
	Total       int64
}

type StartedListener interface {
	TransferStarted(t *Transfer)
}

type ProgressListener interface {
	TransferProgressed(t *Transfer, progress Progress)
}

type FinishedListener interface {
	TransferFinished(t *Transfer)
}

type FailedListener interface {
	TransferFailed(t *Transfer, err error)
}

// Transfer is a subject whose states map to the listener interfaces above.
type Transfer struct {
	*observable.Subject
	name        string
	total       int64
	transferred int64
}

func NewTransfer(name string, total int64, opts ...observable.SubjectOption) *Transfer {
	t := &Transfer{name: name, total: total}
	capabilities := observable.CapabilityMap(map[uint]observable.Capability{
		Started: observable.CapabilityOf(func(l StartedListener, _ uint, _ any) {
			l.TransferStarted(t)
		}),
		Progressed: observable.CapabilityOf(func(l ProgressListener, _ uint, payload any) {
			progress, _ := payload.(Progress)
			l.TransferProgressed(t, progress)
		}),
		Finished: observable.CapabilityOf(func(l FinishedListener, _ uint, _ any) {
			l.TransferFinished(t)
		}),
		Failed: observable.CapabilityOf(func(l FailedListener, _ uint, payload any) {
			err, _ := payload.(error)
			l.TransferFailed(t, err)
		}),
	})
	opts = append(slices.Clone(opts), observable.WithCapabilityResolver(capabilities))
	t.Subject = observable.NewSubject(opts...)
	return t
}

func (t *Transfer) Name() string {
	return t.name
}

func (t *Transfer) Transferred() int64 {
	var transferred int64
	_ = t.Atomic(func() error {
		transferred = t.transferred
		return nil
	})
	return transferred
}

func (t *Transfer) Start() {
	t.SetState(Started)
}

// Advance records n more bytes and notifies progress listeners with the
// running total.
func (t *Transfer) Advance(n int64) {
	_ = t.Atomic(func() error {
		t.transferred += n
		t.SetStateWithPayload(Progressed, Progress{Transferred: t.transferred, Total: t.total})
		if t.total > 0 && t.transferred >= t.total {
			t.SetState(Finished)
		}
		return nil
	})
}

func (t *Transfer) Finish() {
	t.SetState(Finished)
}

func (t *Transfer) Fail(err error) {
	t.SetStateWithPayload(Failed, err)
}

// Reset returns the transfer to Idle without notifying anyone.
func (t *Transfer) Reset() {
	_ = t.PerformWithoutNotifications(func() error {
		t.transferred = 0
		t.SetState(Idle)
		return nil
	})
}
