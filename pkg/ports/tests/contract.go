package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// DefinitionLoaderContractTest is a reusable test suite that verifies if an adapter complies
// with ports.DefinitionLoader. expected maps machine names to their initial state.
func DefinitionLoaderContractTest(t *testing.T, loader ports.DefinitionLoader, expected map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Success", func(t *testing.T) {
		for name, initial := range expected {
			m, err := loader.Load(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error loading machine %s: %v", name, err)
			}
			if m.Initial.String() != initial {
				t.Errorf("initial state mismatch for %s. got %q, want %q", name, m.Initial, initial)
			}
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-machine")
		if err == nil {
			t.Fatal("expected error for non-existent machine, got nil")
		}
		if !errors.Is(err, domain.ErrMachineNotFound) {
			t.Errorf("expected ErrMachineNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := loader.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing machines: %v", err)
		}

		if len(names) != len(expected) {
			t.Errorf("expected %d machines, got %d", len(expected), len(names))
		}

		lookup := make(map[string]bool)
		for _, n := range names {
			lookup[n] = true
		}
		for n := range expected {
			if !lookup[n] {
				t.Errorf("machine %s missing from list", n)
			}
		}
	})
}
