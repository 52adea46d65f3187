package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/bobmcallan/atlassian-mcp/internal/atlassian"
	"github.com/bobmcallan/atlassian-mcp/internal/common"
	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
	"github.com/bobmcallan/atlassian-mcp/internal/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(
		protocol.ToolDescriptor{
			Name:        "echo",
			Description: "Echo parameters",
			Parameters: []protocol.ParameterSpec{
				{Name: "text", Type: protocol.TypeString, Description: "Text", Required: true},
				{Name: "count", Type: protocol.TypeInteger, Description: "Count"},
			},
		},
		protocol.ToolDescriptor{Name: "boom", Description: "Always fails"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return reg
}

// countingHandler records calls and returns fixed values.
type countingHandler struct {
	calls  int
	params map[string]any
	result map[string]any
	err    error
}

func (h *countingHandler) Invoke(_ context.Context, params map[string]any) (map[string]any, error) {
	h.calls++
	h.params = params
	return h.result, h.err
}

func newDispatcher(t *testing.T, echo, boom Handler) *Dispatcher {
	t.Helper()
	d := New(testRegistry(t), common.NewSilentLogger())
	if err := d.Register("echo", echo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Register("boom", boom); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return d
}

func TestRegister_UnknownTool(t *testing.T) {
	d := New(testRegistry(t), common.NewSilentLogger())
	if err := d.Register("nope", &countingHandler{}); err == nil {
		t.Fatal("expected error for tool not in registry")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	d := New(testRegistry(t), common.NewSilentLogger())
	if err := d.Register("echo", &countingHandler{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Register("echo", &countingHandler{}); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestVerify_MissingHandler(t *testing.T) {
	d := New(testRegistry(t), common.NewSilentLogger())
	_ = d.Register("echo", &countingHandler{})

	err := d.Verify()
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected error naming boom, got %v", err)
	}
}

func TestVerify_Complete(t *testing.T) {
	d := newDispatcher(t, &countingHandler{}, &countingHandler{})
	if err := d.Verify(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDispatch_Success(t *testing.T) {
	echo := &countingHandler{result: map[string]any{"ok": true}}
	d := newDispatcher(t, echo, &countingHandler{})

	out := d.Dispatch(context.Background(), protocol.InvocationRequest{
		Name:       "echo",
		Parameters: map[string]any{"text": "hi", "count": "3"},
	})

	if out.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", out.Status)
	}
	if out.Result.Failed() || out.Result.Kind != protocol.KindNone {
		t.Errorf("expected clean success, got %+v", out.Result)
	}
	if out.Result.Result["ok"] != true {
		t.Errorf("expected handler result, got %v", out.Result.Result)
	}
	if echo.params["count"] != 3 {
		t.Errorf("expected coerced count 3, got %T(%v)", echo.params["count"], echo.params["count"])
	}
}

func TestDispatch_NilResultBecomesEmptyObject(t *testing.T) {
	d := newDispatcher(t, &countingHandler{}, &countingHandler{})

	out := d.Dispatch(context.Background(), protocol.InvocationRequest{
		Name: "echo", Parameters: map[string]any{"text": "hi"},
	})
	if out.Result.Result == nil {
		t.Error("expected non-nil result on success")
	}
}

func TestDispatch_EmptyName(t *testing.T) {
	d := newDispatcher(t, &countingHandler{}, &countingHandler{})

	out := d.Dispatch(context.Background(), protocol.InvocationRequest{})
	if out.Status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", out.Status)
	}
	if out.Result.Result != nil || !out.Result.Failed() {
		t.Errorf("expected error envelope, got %+v", out.Result)
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	d := newDispatcher(t, &countingHandler{}, &countingHandler{})

	out := d.Dispatch(context.Background(), protocol.InvocationRequest{Name: "does_not_exist"})
	if out.Status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", out.Status)
	}
	if !strings.Contains(out.Result.Error, "does_not_exist") {
		t.Errorf("expected error naming the tool, got %q", out.Result.Error)
	}
	if out.Result.Kind != protocol.KindProtocol {
		t.Errorf("expected protocol kind, got %q", out.Result.Kind)
	}
}

func TestDispatch_InvalidParametersSkipHandler(t *testing.T) {
	echo := &countingHandler{}
	d := newDispatcher(t, echo, &countingHandler{})

	out := d.Dispatch(context.Background(), protocol.InvocationRequest{
		Name: "echo", Parameters: map[string]any{"count": 1},
	})
	if out.Status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", out.Status)
	}
	if out.Result.Error != "text is required" {
		t.Errorf("unexpected error: %q", out.Result.Error)
	}
	if echo.calls != 0 {
		t.Errorf("expected handler not to be called, got %d calls", echo.calls)
	}
}

func TestDispatch_UpstreamReportedError(t *testing.T) {
	upstream := map[string]any{"error": "Issue does not exist", "status_code": 404}
	d := newDispatcher(t, &countingHandler{result: upstream}, &countingHandler{})

	out := d.Dispatch(context.Background(), protocol.InvocationRequest{
		Name: "echo", Parameters: map[string]any{"text": "x"},
	})
	if out.Status != http.StatusOK {
		t.Errorf("expected 200, got %d", out.Status)
	}
	if out.Result.Kind != protocol.KindUpstream {
		t.Errorf("expected upstream kind, got %q", out.Result.Kind)
	}
	if out.Result.Result["status_code"] != 404 || out.Result.Failed() {
		t.Errorf("expected upstream result carried unchanged, got %+v", out.Result)
	}
}

func TestDispatch_HandlerError(t *testing.T) {
	boom := &countingHandler{err: errors.New("kaboom")}
	d := newDispatcher(t, &countingHandler{}, boom)

	out := d.Dispatch(context.Background(), protocol.InvocationRequest{Name: "boom"})
	if out.Status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", out.Status)
	}
	if out.Result.Error != "kaboom" || out.Result.Kind != protocol.KindHandler {
		t.Errorf("unexpected envelope: %+v", out.Result)
	}
}

func TestDispatch_TransportError(t *testing.T) {
	boom := &countingHandler{err: fmt.Errorf("%w: connection refused", atlassian.ErrTransport)}
	d := newDispatcher(t, &countingHandler{}, boom)

	out := d.Dispatch(context.Background(), protocol.InvocationRequest{Name: "boom"})
	if out.Status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", out.Status)
	}
	if out.Result.Kind != protocol.KindTransport {
		t.Errorf("expected transport kind, got %q", out.Result.Kind)
	}
}

func TestDispatch_PanicRecovered(t *testing.T) {
	boom := HandlerFunc(func(context.Context, map[string]any) (map[string]any, error) {
		panic("nil map write")
	})
	d := newDispatcher(t, &countingHandler{}, boom)

	out := d.Dispatch(context.Background(), protocol.InvocationRequest{Name: "boom"})
	if out.Status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", out.Status)
	}
	if out.Result.Error != "nil map write" {
		t.Errorf("expected panic message only, got %q", out.Result.Error)
	}
	if strings.Contains(out.Result.Error, "goroutine") {
		t.Error("stack trace leaked into error")
	}
}

func TestDispatch_BlankFailureMessageKeepsErrorNonNull(t *testing.T) {
	cases := map[string]Handler{
		"empty error": &countingHandler{err: errors.New("")},
		"empty panic": HandlerFunc(func(context.Context, map[string]any) (map[string]any, error) {
			panic("")
		}),
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			d := newDispatcher(t, &countingHandler{}, h)

			out := d.Dispatch(context.Background(), protocol.InvocationRequest{Name: "boom"})
			if out.Status != http.StatusInternalServerError {
				t.Errorf("expected 500, got %d", out.Status)
			}
			data, err := json.Marshal(out.Result)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := `{"result":null,"error":"tool failed","kind":"handler"}`
			if string(data) != want {
				t.Errorf("expected %s, got %s", want, data)
			}
		})
	}
}

func TestDispatch_OutOfRangeIntegerRejected(t *testing.T) {
	echo := &countingHandler{}
	d := newDispatcher(t, echo, &countingHandler{})

	for _, raw := range []any{json.Number("99999999999999999999"), float64(1e300)} {
		out := d.Dispatch(context.Background(), protocol.InvocationRequest{
			Name: "echo", Parameters: map[string]any{"text": "x", "count": raw},
		})
		if out.Status != http.StatusBadRequest {
			t.Errorf("%v: expected 400, got %d", raw, out.Status)
		}
		if out.Result.Error != "count must be an integer" {
			t.Errorf("%v: unexpected error %q", raw, out.Result.Error)
		}
	}
	if echo.calls != 0 {
		t.Errorf("expected handler not to be called, got %d calls", echo.calls)
	}
}

func TestDispatch_LogTaggedWithCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	d := New(testRegistry(t), common.NewLoggerWithOutput("info", &buf))
	_ = d.Register("echo", &countingHandler{})
	_ = d.Register("boom", &countingHandler{})

	ctx := common.WithCorrelationID(context.Background(), "corr-42")
	d.Dispatch(ctx, protocol.InvocationRequest{Name: "echo", Parameters: map[string]any{"text": "x"}})

	if !strings.Contains(buf.String(), "correlation_id=corr-42") {
		t.Errorf("expected dispatch log tagged with correlation ID, got %q", buf.String())
	}
}
