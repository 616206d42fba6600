package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker/v2"

	"github.com/mzolotarev/legal-assistant/internal/core/domain"
)

func TestClassifyPublishError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		retryable bool
		recorded  bool
	}{
		{"context cancelled", context.Canceled, false, false},
		{"oversized message", nats.ErrMaxPayload, false, false},
		{"no servers", nats.ErrNoServers, true, true},
		{"timeout", nats.ErrTimeout, true, true},
		{"disconnected", nats.ErrDisconnected, true, true},
		{"circuit open", gobreaker.ErrOpenState, true, true},
		{"unknown", errors.New("permission denied"), false, true},
	}
	for _, tc := range cases {
		class := classifyPublishError(tc.err)
		if class.Retryable != tc.retryable {
			t.Fatalf("%s: Retryable = %v, want %v", tc.name, class.Retryable, tc.retryable)
		}
		if class.RecordFailure != tc.recorded {
			t.Fatalf("%s: RecordFailure = %v, want %v", tc.name, class.RecordFailure, tc.recorded)
		}
	}
}

func TestMarkTemporary(t *testing.T) {
	if err := markTemporary(nats.ErrNoServers); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("broker outage should surface as temporary, got %v", err)
	}
	permanent := errors.New("permission denied")
	if err := markTemporary(permanent); domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("permanent failure must not be rebranded temporary: %v", err)
	}
	wrapped := domain.WrapError(domain.ErrTemporary, "nats publish", nats.ErrTimeout)
	if err := markTemporary(wrapped); err != wrapped {
		t.Fatalf("already-tagged error must pass through unchanged")
	}
	if err := markTemporary(nil); err != nil {
		t.Fatalf("nil stays nil, got %v", err)
	}
}
