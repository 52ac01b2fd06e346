package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_RejectsInvalidDefinition(t *testing.T) {
	def := unaryDefinition()
	def.Blank = 9

	_, err := domain.NewTable(def)
	var defErr *domain.DefinitionError
	require.True(t, errors.As(err, &defErr))
	assert.Equal(t, domain.BlankNotInAlphabet, defErr.Kind)
}

func TestTable_AddLookupRoundTrip(t *testing.T) {
	table, err := domain.NewTable(unaryDefinition())
	require.NoError(t, err)

	require.NoError(t, table.Add(0, "A", 1, domain.Right, "B"))
	require.NoError(t, table.Add(1, "A", 1, domain.Left, "C"))

	rule, ok := table.Lookup(0, "A")
	require.True(t, ok)
	assert.Equal(t, domain.Rule[int, string]{Write: 1, Move: domain.Right, Next: "B"}, rule)

	_, ok = table.Lookup(0, "C")
	assert.False(t, ok, "unregistered pair must not resolve")

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, table.Add(0, "A", 0, domain.Left, "HALT"))

		rule, ok := table.Lookup(0, "A")
		require.True(t, ok)
		assert.Equal(t, domain.Rule[int, string]{Write: 0, Move: domain.Left, Next: "HALT"}, rule)
		assert.Equal(t, 2, table.Len())

		entries := table.Rules()
		require.Len(t, entries, 2)
		assert.Equal(t, domain.Key[int, string]{Read: 0, State: "A"}, entries[0].Key)
		assert.Equal(t, "HALT", entries[0].Next)
	})
}

func TestTable_AddRejects(t *testing.T) {
	tests := []struct {
		name  string
		add   func(*domain.Table[int, string]) error
		kind  domain.TableErrorKind
		field string
		value any
	}{
		{
			name:  "unknown current state",
			add:   func(tb *domain.Table[int, string]) error { return tb.Add(0, "Z", 1, domain.Right, "B") },
			kind:  domain.UnknownState,
			field: "current_state",
			value: "Z",
		},
		{
			name:  "unknown write symbol",
			add:   func(tb *domain.Table[int, string]) error { return tb.Add(0, "A", 3, domain.Right, "B") },
			kind:  domain.UnknownSymbol,
			field: "write_symbol",
			value: 3,
		},
		{
			name:  "invalid move",
			add:   func(tb *domain.Table[int, string]) error { return tb.Add(0, "A", 1, domain.Move("S"), "B") },
			kind:  domain.InvalidMove,
			field: "move",
			value: domain.Move("S"),
		},
		{
			name:  "unknown next state",
			add:   func(tb *domain.Table[int, string]) error { return tb.Add(0, "A", 1, domain.Right, "NOWHERE") },
			kind:  domain.UnknownState,
			field: "next_state",
			value: "NOWHERE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := domain.NewTable(unaryDefinition())
			require.NoError(t, err)
			require.NoError(t, table.Add(0, "A", 1, domain.Right, "B"))

			err = tt.add(table)
			var tableErr *domain.TableError
			require.True(t, errors.As(err, &tableErr), "expected TableError, got %v", err)
			assert.Equal(t, tt.kind, tableErr.Kind)
			assert.Equal(t, tt.field, tableErr.Field)
			assert.Equal(t, tt.value, tableErr.Value)
			assert.Contains(t, err.Error(), tt.field)

			// The table is untouched by a rejected insert.
			assert.Equal(t, 1, table.Len())
			rule, ok := table.Lookup(0, "A")
			require.True(t, ok)
			assert.Equal(t, "B", rule.Next)
		})
	}
}

func TestTable_NonNumericSymbols(t *testing.T) {
	type sym struct{ mark rune }
	def := &domain.Definition[sym, int]{
		States:   []int{0, 1},
		Alphabet: []sym{{'_'}, {'x'}},
		Blank:    sym{'_'},
		Initial:  0,
		Final:    []int{1},
	}
	table, err := domain.NewTable(def)
	require.NoError(t, err)
	require.NoError(t, table.Add(sym{'_'}, 0, sym{'x'}, domain.Right, 1))

	rule, ok := table.Lookup(sym{'_'}, 0)
	require.True(t, ok)
	assert.Equal(t, sym{'x'}, rule.Write)
}
