package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unaryDefinition() *domain.Definition[int, string] {
	return &domain.Definition[int, string]{
		States:   []string{"A", "B", "C", "HALT"},
		Alphabet: []int{0, 1},
		Blank:    0,
		Input:    []int{1},
		Initial:  "A",
		Final:    []string{"HALT"},
	}
}

func TestDefinition_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *domain.Definition[int, string])
		kind   domain.DefinitionErrorKind
		value  any
	}{
		{"empty states", func(d *domain.Definition[int, string]) { d.States = nil }, domain.EmptyStates, nil},
		{"empty alphabet", func(d *domain.Definition[int, string]) { d.Alphabet = nil }, domain.EmptyAlphabet, nil},
		{"blank outside alphabet", func(d *domain.Definition[int, string]) { d.Blank = 7 }, domain.BlankNotInAlphabet, 7},
		{"input outside alphabet", func(d *domain.Definition[int, string]) { d.Input = []int{1, 2} }, domain.InputNotSubsetOfAlphabet, 2},
		{"unknown initial state", func(d *domain.Definition[int, string]) { d.Initial = "Z" }, domain.InitialStateUnknown, "Z"},
		{"final state outside states", func(d *domain.Definition[int, string]) { d.Final = []string{"HALT", "H"} }, domain.FinalStateNotInStates, "H"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := unaryDefinition()
			tt.mutate(def)

			err := def.Validate()
			var defErr *domain.DefinitionError
			require.True(t, errors.As(err, &defErr), "expected DefinitionError, got %v", err)
			assert.Equal(t, tt.kind, defErr.Kind)
			assert.Equal(t, tt.value, defErr.Value)
		})
	}

	t.Run("valid", func(t *testing.T) {
		def := unaryDefinition()
		require.NoError(t, def.Validate())
		assert.True(t, def.HasState("HALT"))
		assert.True(t, def.IsFinal("HALT"))
		assert.False(t, def.IsFinal("A"))
		assert.True(t, def.HasSymbol(0))
		assert.False(t, def.HasSymbol(2))
	})
}

func TestDefinition_MembershipWithoutValidate(t *testing.T) {
	def := unaryDefinition()
	assert.True(t, def.HasState("B"))
	assert.False(t, def.HasState("Z"))
	assert.True(t, def.IsFinal("HALT"))
}

func TestDefinition_CheckTape(t *testing.T) {
	def := unaryDefinition()
	require.NoError(t, def.Validate())

	assert.Empty(t, def.CheckTape([]int{0, 1, 1}))
	assert.Equal(t, []int{1, 3}, def.CheckTape([]int{0, 5, 1, 9}))
}

func TestMove_Valid(t *testing.T) {
	assert.True(t, domain.Left.Valid())
	assert.True(t, domain.Right.Valid())
	assert.False(t, domain.Move("N").Valid())
	assert.False(t, domain.Move("").Valid())
}
