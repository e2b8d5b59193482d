package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"habitfree/internal/model"
)

func sampleDelivery(id int64) model.Delivery {
	return model.Delivery{
		RunID:       "run-1",
		MessageID:   id,
		UserID:      7,
		Username:    "alice",
		Text:        "Stay strong",
		SendDate:    "2030-06-16",
		DeliveredAt: time.Date(2030, 6, 16, 0, 0, 5, 0, time.UTC),
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(log.New(&buf))

	if err := sink.Deliver(context.Background(), sampleDelivery(3)); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if !strings.Contains(buf.String(), "alice") || !strings.Contains(buf.String(), "Stay strong") {
		t.Errorf("log output missing delivery: %q", buf.String())
	}
}

func TestWebhookSink(t *testing.T) {
	var got webhookPayload
	var authKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authKey = r.Header.Get("x-auth-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"message":"Accepted","messageId":"abc"}`)
	}))
	defer srv.Close()

	sink := NewWebhookSink(WebhookOptions{URL: srv.URL, AuthKey: "secret"})
	if err := sink.Deliver(context.Background(), sampleDelivery(9)); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if got.To != "alice" || got.Content != "Stay strong" || got.MessageID != 9 {
		t.Errorf("unexpected payload %+v", got)
	}
	if authKey != "secret" {
		t.Errorf("expected auth header, got %q", authKey)
	}
}

func TestWebhookSinkFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		ok     bool
	}{
		{"server error", http.StatusBadGateway, "", false},
		{"rejected", http.StatusOK, `{"message":"Rejected"}`, false},
		{"empty body", http.StatusNoContent, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			err := NewWebhookSink(WebhookOptions{URL: srv.URL}).Deliver(context.Background(), sampleDelivery(1))
			if (err == nil) != tt.ok {
				t.Fatalf("Deliver() error = %v, want ok=%v", err, tt.ok)
			}
		})
	}

	if err := NewWebhookSink(WebhookOptions{}).Deliver(context.Background(), sampleDelivery(1)); err == nil {
		t.Error("expected error without URL")
	}
}

// fakeRedis implements the handful of commands the ledger uses.
type fakeRedis struct {
	redis.Cmdable
	hashes  map[string]map[string]string
	lists   map[string][]string
	strings map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		hashes:  map[string]map[string]string{},
		lists:   map[string][]string{},
		strings: map[string]string{},
	}
}

func (f *fakeRedis) HSet(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	h := map[string]string{}
	for k, v := range values[0].(map[string]interface{}) {
		h[k] = fmt.Sprint(v)
	}
	f.hashes[key] = h
	return redis.NewIntResult(int64(len(h)), nil)
}

func (f *fakeRedis) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	return redis.NewMapStringStringResult(f.hashes[key], nil)
}

func (f *fakeRedis) LPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	for _, v := range values {
		f.lists[key] = append([]string{fmt.Sprint(v)}, f.lists[key]...)
	}
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeRedis) LTrim(_ context.Context, key string, start, stop int64) *redis.StatusCmd {
	if l := f.lists[key]; int64(len(l)) > stop+1 {
		f.lists[key] = l[start : stop+1]
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) LLen(_ context.Context, key string) *redis.IntCmd {
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeRedis) LRange(_ context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	l := f.lists[key]
	if stop < 0 {
		stop += int64(len(l))
	}
	if start >= int64(len(l)) || stop < start {
		return redis.NewStringSliceResult([]string{}, nil)
	}
	if stop >= int64(len(l)) {
		stop = int64(len(l)) - 1
	}
	return redis.NewStringSliceResult(l[start:stop+1], nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := f.hashes[key]; ok {
			delete(f.hashes, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	if _, ok := f.strings[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.strings[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) compareAndDelete(keys []string, args []interface{}) *redis.Cmd {
	if f.strings[keys[0]] == fmt.Sprint(args[0]) {
		delete(f.strings, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func (f *fakeRedis) EvalSha(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.compareAndDelete(keys, args)
}

func (f *fakeRedis) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.compareAndDelete(keys, args)
}

func TestLedgerHistory(t *testing.T) {
	fake := newFakeRedis()
	ledger := NewLedger(fake, 3)
	ctx := context.Background()

	for id := int64(1); id <= 4; id++ {
		if err := ledger.Deliver(ctx, sampleDelivery(id)); err != nil {
			t.Fatalf("deliver %d: %v", id, err)
		}
	}

	items, total, err := ledger.ListDelivered(ctx, 7, 0, 2)
	if err != nil {
		t.Fatalf("list delivered: %v", err)
	}
	if total != 3 {
		t.Errorf("expected history trimmed to 3, got %d", total)
	}
	if len(items) != 2 || items[0].MessageID != 4 || items[1].MessageID != 3 {
		t.Fatalf("expected newest first, got %+v", items)
	}
	if items[0].Username != "alice" || !items[0].DeliveredAt.Equal(sampleDelivery(4).DeliveredAt) {
		t.Errorf("unexpected delivery %+v", items[0])
	}

	if _, ok := fake.hashes[deliveryKey(1)]; ok {
		t.Errorf("expected hash of trimmed delivery 1 to be deleted")
	}
	for id := int64(2); id <= 4; id++ {
		if _, ok := fake.hashes[deliveryKey(id)]; !ok {
			t.Errorf("expected hash of delivery %d to be kept", id)
		}
	}

	items, _, err = ledger.ListDelivered(ctx, 8, 0, 10)
	if err != nil || len(items) != 0 {
		t.Errorf("expected empty history for other user: %v %v", items, err)
	}
}

func TestLedgerLock(t *testing.T) {
	fake := newFakeRedis()
	ledger := NewLedger(fake, 0)
	ctx := context.Background()

	ok, err := ledger.Acquire(ctx, "delivery_lock:2030-06-16", "a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: %v %v", ok, err)
	}
	ok, _ = ledger.Acquire(ctx, "delivery_lock:2030-06-16", "b", time.Minute)
	if ok {
		t.Fatal("second acquire should fail while held")
	}

	if err := ledger.Release(ctx, "delivery_lock:2030-06-16", "b"); err != nil {
		t.Fatalf("foreign release: %v", err)
	}
	if _, held := fake.strings["delivery_lock:2030-06-16"]; !held {
		t.Fatal("lock released by a token that does not own it")
	}

	if err := ledger.Release(ctx, "delivery_lock:2030-06-16", "a"); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, _ = ledger.Acquire(ctx, "delivery_lock:2030-06-16", "b", time.Minute)
	if !ok {
		t.Error("expected acquire after release")
	}
}
