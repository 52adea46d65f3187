package registry

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/bobmcallan/atlassian-mcp/internal/protocol"
)

func testDescriptors() []protocol.ToolDescriptor {
	return []protocol.ToolDescriptor{
		{
			Name:        "issue_search",
			Description: "Search issues",
			Parameters: []protocol.ParameterSpec{
				{Name: "query", Type: protocol.TypeString, Description: "JQL"},
				{Name: "max_results", Type: protocol.TypeInteger, Description: "Limit"},
			},
		},
		{
			Name:        "issue_create",
			Description: "Create an issue",
			Parameters: []protocol.ParameterSpec{
				{Name: "project_key", Type: protocol.TypeString, Description: "Project", Required: true},
				{Name: "summary", Type: protocol.TypeString, Description: "Title", Required: true},
				{Name: "notify", Type: protocol.TypeBoolean, Description: "Notify watchers"},
			},
		},
		{
			Name:        "project_list",
			Description: "List projects",
		},
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New(testDescriptors()...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

// --- Construction ---

func TestNew_PreservesOrder(t *testing.T) {
	r := newTestRegistry(t)

	names := r.Names()
	want := []string{"issue_search", "issue_create", "project_list"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("expected order %v, got %v", want, names)
	}
	if r.Len() != 3 {
		t.Errorf("expected 3 tools, got %d", r.Len())
	}
}

func TestNew_RejectsEmptyName(t *testing.T) {
	_, err := New(protocol.ToolDescriptor{Description: "x"})
	if err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestNew_RejectsEmptyDescription(t *testing.T) {
	_, err := New(protocol.ToolDescriptor{Name: "x"})
	if err == nil || !strings.Contains(err.Error(), "empty description") {
		t.Fatalf("expected empty description error, got %v", err)
	}
}

func TestNew_RejectsDuplicateTool(t *testing.T) {
	d := protocol.ToolDescriptor{Name: "x", Description: "x"}
	_, err := New(d, d)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestNew_RejectsDuplicateParameter(t *testing.T) {
	_, err := New(protocol.ToolDescriptor{
		Name:        "x",
		Description: "x",
		Parameters: []protocol.ParameterSpec{
			{Name: "a", Type: protocol.TypeString},
			{Name: "a", Type: protocol.TypeString},
		},
	})
	if err == nil {
		t.Fatal("expected duplicate parameter error")
	}
}

func TestNew_RejectsUnknownType(t *testing.T) {
	_, err := New(protocol.ToolDescriptor{
		Name:        "x",
		Description: "x",
		Parameters:  []protocol.ParameterSpec{{Name: "a", Type: "number"}},
	})
	if err == nil || !strings.Contains(err.Error(), "unsupported type") {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
}

// --- Listing ---

func TestList_ReturnsCopies(t *testing.T) {
	r := newTestRegistry(t)

	first := r.List()
	first[0].Name = "mutated"
	first[0].Parameters[0].Name = "mutated"

	second := r.List()
	if second[0].Name != "issue_search" || second[0].Parameters[0].Name != "query" {
		t.Error("List must not expose internal state")
	}
}

func TestList_StableAcrossCalls(t *testing.T) {
	r := newTestRegistry(t)
	if !reflect.DeepEqual(r.List(), r.List()) {
		t.Error("expected identical listings across calls")
	}
}

func TestList_EmptyParametersEncodeAsArray(t *testing.T) {
	r := newTestRegistry(t)
	d, _ := r.Lookup("project_list")

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), `"parameters":[]`) {
		t.Errorf("expected empty parameters array, got %s", data)
	}
}

func TestLookup(t *testing.T) {
	r := newTestRegistry(t)
	if _, ok := r.Lookup("issue_create"); !ok {
		t.Error("expected issue_create to be found")
	}
	if _, ok := r.Lookup("does_not_exist"); ok {
		t.Error("expected does_not_exist to be missing")
	}
}

// --- Parameter validation ---

func TestValidateParameters_UnknownTool(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.ValidateParameters("does_not_exist", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestValidateParameters_MissingRequired(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.ValidateParameters("issue_create", map[string]any{"summary": "Title"})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Message != "project_key and summary are required" {
		t.Errorf("unexpected message: %q", ve.Message)
	}
	if ve.Parameter != "project_key" {
		t.Errorf("expected parameter project_key, got %q", ve.Parameter)
	}
}

func TestValidateParameters_EmptyStringIsMissing(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.ValidateParameters("issue_create", map[string]any{"project_key": "  ", "summary": "Title"})
	if err == nil {
		t.Fatal("expected blank project_key to be rejected")
	}
}

func TestValidateParameters_CoercesIntegers(t *testing.T) {
	r := newTestRegistry(t)

	for _, raw := range []any{5, float64(5), json.Number("5"), "5", int64(5)} {
		out, err := r.ValidateParameters("issue_search", map[string]any{"max_results": raw})
		if err != nil {
			t.Fatalf("%T(%v): unexpected error: %v", raw, raw, err)
		}
		if out["max_results"] != 5 {
			t.Errorf("%T(%v): expected int 5, got %T(%v)", raw, raw, out["max_results"], out["max_results"])
		}
	}
}

func TestValidateParameters_RejectsNonIntegers(t *testing.T) {
	r := newTestRegistry(t)

	for _, raw := range []any{2.5, "five", json.Number("2.5")} {
		_, err := r.ValidateParameters("issue_search", map[string]any{"max_results": raw})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%v: expected ValidationError, got %v", raw, err)
		}
		if ve.Message != "max_results must be an integer" {
			t.Errorf("%v: unexpected message %q", raw, ve.Message)
		}
	}
}

func TestValidateParameters_RejectsOutOfRangeIntegers(t *testing.T) {
	r := newTestRegistry(t)

	for _, raw := range []any{
		json.Number("99999999999999999999"),
		json.Number("-1e19"),
		float64(1e300),
		math.Inf(1),
		"99999999999999999999",
	} {
		_, err := r.ValidateParameters("issue_search", map[string]any{"max_results": raw})
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%v: expected ValidationError, got %v", raw, err)
		}
		if ve.Message != "max_results must be an integer" {
			t.Errorf("%v: unexpected message %q", raw, ve.Message)
		}
	}
}

func TestValidateParameters_CoercesBooleans(t *testing.T) {
	r := newTestRegistry(t)
	out, err := r.ValidateParameters("issue_create", map[string]any{
		"project_key": "PROJ", "summary": "Title", "notify": "true",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["notify"] != true {
		t.Errorf("expected notify=true, got %v", out["notify"])
	}
}

func TestValidateParameters_WrongTypeForString(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.ValidateParameters("issue_create", map[string]any{
		"project_key": float64(42), "summary": "Title",
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Parameter != "project_key" {
		t.Errorf("expected error on project_key, got %q (%s)", ve.Parameter, ve.Message)
	}
	if !strings.Contains(ve.Message, "project_key") {
		t.Errorf("expected message naming project_key, got %q", ve.Message)
	}
}

func TestValidateParameters_PassesUndeclared(t *testing.T) {
	r := newTestRegistry(t)
	out, err := r.ValidateParameters("project_list", map[string]any{"extra": "kept"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["extra"] != "kept" {
		t.Errorf("expected undeclared parameter to pass through, got %v", out)
	}
}

func TestValidateParameters_DropsNulls(t *testing.T) {
	r := newTestRegistry(t)
	out, err := r.ValidateParameters("issue_search", map[string]any{"query": nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out["query"]; ok {
		t.Error("expected null optional parameter to be dropped")
	}
}

func TestValidateParameters_DoesNotMutateInput(t *testing.T) {
	r := newTestRegistry(t)
	in := map[string]any{"max_results": "3"}
	if _, err := r.ValidateParameters("issue_search", in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in["max_results"] != "3" {
		t.Error("input map must not be modified")
	}
}
