package gateway

import (
	"testing"
	"time"
)

func TestIsReady(t *testing.T) {
	t.Parallel()

	svc := &Service{channelStates: map[string]channelState{"telegram": {Running: false}}}
	if svc.isReady() {
		t.Fatal("expected not ready without a running channel")
	}

	svc.channelStates["telegram"] = channelState{Running: true}
	if !svc.isReady() {
		t.Fatal("expected ready with a running channel")
	}
}

func TestCurrentStatusCountsDispatches(t *testing.T) {
	t.Parallel()

	svc := &Service{
		startedAt:     time.Now().UTC().Add(-3 * time.Second),
		channelStates: map[string]channelState{"telegram": {Running: true}},
	}

	svc.recordDispatch(nil)
	svc.recordDispatch(errAlwaysFails)
	svc.recordDispatch(nil)

	status := svc.currentStatus("ok")
	if status.Dispatched != 3 {
		t.Fatalf("dispatched = %d, want 3", status.Dispatched)
	}
	if status.Failed != 1 {
		t.Fatalf("failed = %d, want 1", status.Failed)
	}
	if status.LastError != "" {
		t.Fatalf("last error = %q, want empty after a successful dispatch", status.LastError)
	}
	if status.LastDispatchAt == "" {
		t.Fatal("expected a last dispatch timestamp")
	}
	if status.UptimeSeconds < 3 {
		t.Fatalf("uptime = %d, want at least 3", status.UptimeSeconds)
	}
}

func TestRecordDispatchKeepsLastError(t *testing.T) {
	t.Parallel()

	svc := &Service{channelStates: map[string]channelState{}}
	svc.recordDispatch(errAlwaysFails)

	status := svc.currentStatus("ok")
	if status.LastError != errAlwaysFails.Error() {
		t.Fatalf("last error = %q, want %q", status.LastError, errAlwaysFails.Error())
	}
}
