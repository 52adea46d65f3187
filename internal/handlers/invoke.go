package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bobmcallan/atlassian-mcp/internal/common"
	"github.com/bobmcallan/atlassian-mcp/internal/dispatch"
	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
)

// InvokeHandler decodes invocation requests and hands them to the dispatcher.
type InvokeHandler struct {
	dispatcher *dispatch.Dispatcher
	logger     *common.Logger
}

// NewInvokeHandler creates a new invoke handler.
func NewInvokeHandler(d *dispatch.Dispatcher, logger *common.Logger) *InvokeHandler {
	return &InvokeHandler{dispatcher: d, logger: logger}
}

type invokeBody struct {
	Name       string          `json:"name"`
	Parameters json.RawMessage `json:"parameters"`
}

// ServeHTTP handles POST /mcp/v1/invoke.
func (h *InvokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, protocol.KindProtocol, "Request body too large")
			return
		}
		WriteError(w, http.StatusBadRequest, protocol.KindProtocol, "Failed to read request body")
		return
	}

	req, msg := decodeInvocation(data)
	if msg != "" {
		h.logger.Debug().Str("error", msg).Msg("rejected invocation body")
		WriteError(w, http.StatusBadRequest, protocol.KindProtocol, msg)
		return
	}

	out := h.dispatcher.Dispatch(r.Context(), req)
	WriteJSON(w, out.Status, out.Result)
}

// decodeInvocation parses an invocation body. An empty body counts as {}.
// Parameter numbers are kept as json.Number so integers survive unchanged.
func decodeInvocation(data []byte) (protocol.InvocationRequest, string) {
	var req protocol.InvocationRequest
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}

	var body invokeBody
	if err := json.Unmarshal(data, &body); err != nil {
		return req, "Invalid JSON"
	}
	req.Name = body.Name

	raw := bytes.TrimSpace(body.Parameters)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		req.Parameters = map[string]any{}
		return req, ""
	}
	if raw[0] != '{' {
		return req, "parameters must be an object"
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&req.Parameters); err != nil {
		return req, "parameters must be an object"
	}
	return req, ""
}
