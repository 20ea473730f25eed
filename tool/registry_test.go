package tool

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type stubTool struct {
	spec   Spec
	result string
}

func (s stubTool) Spec() Spec { return s.spec }

func (s stubTool) Run(context.Context, string) string { return s.result }

func newStub(id string) stubTool {
	return stubTool{spec: Spec{ID: id, Permission: PermissionAuto}, result: `{"ok":true}`}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(newStub("pause"), newStub("play"))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}
	if got := strings.Join(reg.IDs(), ","); got != "pause,play" {
		t.Fatalf("IDs() = %q, want sorted ids", got)
	}
	if _, ok := reg.Lookup("play"); !ok {
		t.Fatal("Lookup(play) not found")
	}
	if _, ok := reg.Lookup("stop"); ok {
		t.Fatal("Lookup(stop) found, want missing")
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(newStub("play"), newStub("play"))
	if !errors.Is(err, ErrDuplicateTool) {
		t.Fatalf("NewRegistry() error = %v, want ErrDuplicateTool", err)
	}
}

func TestNewRegistryRejectsEmptyID(t *testing.T) {
	_, err := NewRegistry(newStub("  "))
	if !errors.Is(err, ErrEmptyToolID) {
		t.Fatalf("NewRegistry() error = %v, want ErrEmptyToolID", err)
	}
	_, err = NewRegistry(nil)
	if !errors.Is(err, ErrEmptyToolID) {
		t.Fatalf("NewRegistry(nil) error = %v, want ErrEmptyToolID", err)
	}
}

func TestMustRegistryPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustRegistry() did not panic")
		}
	}()
	MustRegistry(newStub("play"), newStub("play"))
}

func TestRegistryIDsReturnsCopy(t *testing.T) {
	reg := MustRegistry(newStub("play"))
	ids := reg.IDs()
	ids[0] = "mutated"
	if reg.IDs()[0] != "play" {
		t.Fatal("IDs() exposed internal slice")
	}
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry
	if _, ok := reg.Lookup("play"); ok {
		t.Fatal("nil registry Lookup found a tool")
	}
	if reg.Len() != 0 || reg.IDs() != nil || reg.Specs() != nil {
		t.Fatal("nil registry should be empty")
	}
}

func TestRegistryConcurrentReads(t *testing.T) {
	reg := MustRegistry(newStub("play"), newStub("pause"), newStub("next_track"))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, ok := reg.Lookup("pause"); !ok {
					t.Error("Lookup(pause) missing")
					return
				}
				_ = reg.Specs()
			}
		}()
	}
	wg.Wait()
}

func TestSpecRequiredParameters(t *testing.T) {
	spec := Spec{
		ID: "search_songs",
		Parameters: map[string]FieldSpec{
			"query": {Type: TypeString, Required: true},
			"limit": {Type: TypeInteger, Default: 10},
		},
	}
	if got := strings.Join(spec.ParameterNames(), ","); got != "limit,query" {
		t.Fatalf("ParameterNames() = %q", got)
	}
	if got := strings.Join(spec.RequiredParameters(), ","); got != "query" {
		t.Fatalf("RequiredParameters() = %q", got)
	}
}
