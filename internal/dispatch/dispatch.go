// Package dispatch routes tool invocations to registered handlers and maps every
// outcome onto an HTTP status and a protocol envelope.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/atlassian-mcp/internal/atlassian"
	"github.com/bobmcallan/atlassian-mcp/internal/common"
	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
	"github.com/bobmcallan/atlassian-mcp/internal/registry"
)

// Handler executes one tool. A returned map containing an "error" key is an
// upstream-reported failure; a returned error is a fault.
type Handler interface {
	Invoke(ctx context.Context, params map[string]any) (map[string]any, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, params map[string]any) (map[string]any, error)

func (f HandlerFunc) Invoke(ctx context.Context, params map[string]any) (map[string]any, error) {
	return f(ctx, params)
}

// Outcome is the HTTP status and envelope for one invocation.
type Outcome struct {
	Status int
	Result protocol.InvocationResult
}

// Dispatcher maps registered tool names to handlers. Registration happens at
// startup; Dispatch is safe for concurrent use afterwards.
type Dispatcher struct {
	registry *registry.Registry
	handlers map[string]Handler
	logger   *common.Logger
}

// New creates a dispatcher over reg.
func New(reg *registry.Registry, logger *common.Logger) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		handlers: make(map[string]Handler, reg.Len()),
		logger:   logger,
	}
}

// Registry returns the registry the dispatcher validates against.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Register binds h to a tool declared in the registry.
func (d *Dispatcher) Register(name string, h Handler) error {
	if _, ok := d.registry.Lookup(name); !ok {
		return fmt.Errorf("tool %q is not declared in the registry", name)
	}
	if _, dup := d.handlers[name]; dup {
		return fmt.Errorf("tool %q already has a handler", name)
	}
	if h == nil {
		return fmt.Errorf("tool %q: nil handler", name)
	}
	d.handlers[name] = h
	return nil
}

// Verify fails if any registry tool has no handler.
func (d *Dispatcher) Verify() error {
	var missing []string
	for _, name := range d.registry.Names() {
		if _, ok := d.handlers[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("tools without handlers: %v", missing)
	}
	return nil
}

// Dispatch validates and runs one invocation.
func (d *Dispatcher) Dispatch(ctx context.Context, req protocol.InvocationRequest) Outcome {
	start := time.Now()
	out := d.dispatch(ctx, req)

	logger := d.logger.ForContext(ctx)
	evt := logger.Info()
	if out.Status >= http.StatusInternalServerError {
		evt = logger.Error()
	} else if out.Status >= http.StatusBadRequest {
		evt = logger.Warn()
	}
	evt.Str("tool", req.Name).
		Int("status", out.Status).
		Str("kind", string(out.Result.Kind)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("tool invoked")

	return out
}

func (d *Dispatcher) dispatch(ctx context.Context, req protocol.InvocationRequest) Outcome {
	if req.Name == "" {
		return failure(http.StatusBadRequest, protocol.KindProtocol, "Tool name is required")
	}

	h, ok := d.handlers[req.Name]
	if !ok {
		return failure(http.StatusNotFound, protocol.KindProtocol, fmt.Sprintf("Unknown tool: %s", req.Name))
	}

	params, err := d.registry.ValidateParameters(req.Name, req.Parameters)
	if err != nil {
		var ve *registry.ValidationError
		if errors.As(err, &ve) {
			return failure(http.StatusBadRequest, protocol.KindProtocol, ve.Message)
		}
		return failure(http.StatusNotFound, protocol.KindProtocol, fmt.Sprintf("Unknown tool: %s", req.Name))
	}

	result, err := invoke(ctx, h, params)
	if err != nil {
		if errors.Is(err, atlassian.ErrTransport) {
			return failure(http.StatusInternalServerError, protocol.KindTransport, err.Error())
		}
		return failure(http.StatusInternalServerError, protocol.KindHandler, err.Error())
	}
	if result == nil {
		result = map[string]any{}
	}

	res := protocol.Success(result)
	if _, reported := result["error"]; reported {
		res.Kind = protocol.KindUpstream
	}
	return Outcome{Status: http.StatusOK, Result: res}
}

// invoke runs h, converting a panic into an error carrying only its message.
func invoke(ctx context.Context, h Handler, params map[string]any) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%v", r)
		}
	}()
	return h.Invoke(ctx, params)
}

func failure(status int, kind protocol.ErrorKind, msg string) Outcome {
	return Outcome{Status: status, Result: protocol.Failure(kind, msg)}
}
