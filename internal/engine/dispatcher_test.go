package engine

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestDispatcher_RunsQueuedTasksBeforeClose(t *testing.T) {
	d := NewDispatcher(2)
	var n atomic.Int32
	for i := 0; i < 20; i++ {
		if !d.Submit(func(context.Context) { n.Add(1) }) {
			t.Fatal("Submit rejected task before Close")
		}
	}
	d.Close()
	if got := n.Load(); got != 20 {
		t.Errorf("ran %d tasks, want 20", got)
	}
}

func TestDispatcher_DropsAfterClose(t *testing.T) {
	d := NewDispatcher(1)
	d.Close()
	d.Close()
	if d.Submit(func(context.Context) { t.Error("task ran after Close") }) {
		t.Error("Submit accepted task after Close")
	}
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	d := NewDispatcher(1)
	var ran atomic.Bool
	d.Submit(func(context.Context) { panic("boom") })
	d.Submit(func(context.Context) { ran.Store(true) })
	d.Close()
	if !ran.Load() {
		t.Error("task after a panic did not run")
	}
}
