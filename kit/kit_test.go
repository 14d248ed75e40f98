package kit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestChain_Order(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				order = append(order, name+"_before")
				resp, err := next(ctx, req)
				order = append(order, name+"_after")
				return resp, err
			}
		}
	}

	base := func(_ context.Context, _ any) (any, error) {
		order = append(order, "endpoint")
		return "ok", nil
	}

	chained := Chain(mw("a"), mw("b"), mw("c"))(base)
	resp, err := chained(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp != "ok" {
		t.Fatalf("response: got %v", resp)
	}

	expected := []string{"a_before", "b_before", "c_before", "endpoint", "c_after", "b_after", "a_after"}
	if len(order) != len(expected) {
		t.Fatalf("order length: got %d, want %d", len(order), len(expected))
	}
	for i, v := range expected {
		if order[i] != v {
			t.Fatalf("order[%d]: got %q, want %q", i, order[i], v)
		}
	}
}

func TestChain_ErrorPropagation(t *testing.T) {
	errFail := errors.New("fail")
	base := func(_ context.Context, _ any) (any, error) {
		return nil, errFail
	}

	noop := func(next Endpoint) Endpoint { return next }
	chained := Chain(noop)(base)

	_, err := chained(context.Background(), nil)
	if !errors.Is(err, errFail) {
		t.Fatalf("error: got %v, want %v", err, errFail)
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fail := Logging(logger, "convert")(func(context.Context, any) (any, error) {
		return nil, errors.New("bad input")
	})
	if _, err := fail(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "endpoint=convert") {
		t.Errorf("log = %q", out)
	}
}

func TestRequestIDReachesLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var seen string
	base := func(ctx context.Context, _ any) (any, error) {
		seen = GetRequestID(ctx)
		return nil, nil
	}
	ep := Chain(RequestID(func() string { return "req-1" }), Logging(logger, "list"))(base)

	ctx := WithTransport(context.Background(), "mcp")
	if _, err := ep(ctx, nil); err != nil {
		t.Fatal(err)
	}
	if seen != "req-1" {
		t.Errorf("endpoint saw request id %q", seen)
	}
	out := buf.String()
	if !strings.Contains(out, "request_id=req-1") || !strings.Contains(out, "transport=mcp") {
		t.Errorf("log = %q", out)
	}

	// An id already on the context is kept.
	if _, err := ep(WithRequestID(context.Background(), "outer"), nil); err != nil {
		t.Fatal(err)
	}
	if seen != "outer" {
		t.Errorf("request id = %q, want outer", seen)
	}
}

func TestTransportDefault(t *testing.T) {
	if got := GetTransport(context.Background()); got != "direct" {
		t.Errorf("GetTransport = %q", got)
	}
}
