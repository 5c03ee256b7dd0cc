package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	parses  int
	layouts int
}

func (h *recordingPipelineHooks) OnParseComplete(_ context.Context, _ int, _ time.Duration, _ error) {
	h.parses++
}

func (h *recordingPipelineHooks) OnLayoutComplete(_ context.Context, _ int, _ time.Duration, _ error) {
	h.layouts++
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits   int
	misses int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string)  { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(context.Context, string) { h.misses++ }

func TestHookRegistration(t *testing.T) {
	defer Reset()

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)

	ctx := context.Background()
	Pipeline().OnParseComplete(ctx, 3, time.Millisecond, nil)
	Pipeline().OnLayoutComplete(ctx, 0, time.Millisecond, nil)
	Pipeline().OnLayoutComplete(ctx, 2, time.Millisecond, nil)

	if rec.parses != 1 {
		t.Errorf("parses = %d, want 1", rec.parses)
	}
	if rec.layouts != 2 {
		t.Errorf("layouts = %d, want 2", rec.layouts)
	}
}

func TestCacheHooks(t *testing.T) {
	defer Reset()

	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)

	ctx := context.Background()
	Cache().OnCacheHit(ctx, "layout")
	Cache().OnCacheMiss(ctx, "artifact")
	Cache().OnCacheMiss(ctx, "artifact")

	if rec.hits != 1 || rec.misses != 2 {
		t.Errorf("hits = %d misses = %d, want 1 and 2", rec.hits, rec.misses)
	}
}

func TestNilRegistrationIgnored(t *testing.T) {
	defer Reset()

	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetToolHooks(nil)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("nil registration should keep the no-op hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("nil registration should keep the no-op hooks")
	}
	if _, ok := Tool().(NoopToolHooks); !ok {
		t.Error("nil registration should keep the no-op hooks")
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	SetCacheHooks(&recordingCacheHooks{})
	Reset()

	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset should restore the no-op hooks")
	}
}
