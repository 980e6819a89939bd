package disposable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisposable_RunsCallback(t *testing.T) {
	called := 0
	d := NewDisposable(func() { called++ })
	d.Dispose()
	assert.Equal(t, 1, called)
}

func TestDisposable_DisposeIsIdempotent(t *testing.T) {
	called := 0
	d := NewDisposable(func() { called++ })
	d.Dispose()
	d.Dispose()
	assert.Equal(t, 1, called)
}

func TestDisposable_NilCallback(t *testing.T) {
	d := NewDisposable(nil)
	d.Dispose() // should not panic
}
