package domain_test

import (
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguration_NewCopiesTape(t *testing.T) {
	def := unaryDefinition()
	tape := []int{0, 1}
	cfg := domain.NewConfiguration(def, tape)

	tape[0] = 1
	assert.Equal(t, []int{0, 1}, cfg.Tape)
	assert.Equal(t, 0, cfg.Head)
	assert.Equal(t, "A", cfg.State)
	assert.False(t, cfg.Halted)
}

func TestConfiguration_ReadPastEndIsBlank(t *testing.T) {
	cfg := domain.NewConfiguration(unaryDefinition(), nil)
	assert.Equal(t, 0, cfg.Read(0))
	assert.Empty(t, cfg.Tape, "reading must not extend the tape")
}

func TestConfiguration_Apply(t *testing.T) {
	def := unaryDefinition()

	t.Run("right move extends tape", func(t *testing.T) {
		cfg := domain.NewConfiguration(def, []int{0})
		err := cfg.Apply(domain.Rule[int, string]{Write: 1, Move: domain.Right, Next: "B"}, 0, false)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 0}, cfg.Tape)
		assert.Equal(t, 1, cfg.Head)
		assert.Equal(t, "B", cfg.State)
		assert.Equal(t, 1, cfg.Steps)
	})

	t.Run("atomic underflow applies nothing", func(t *testing.T) {
		cfg := domain.NewConfiguration(def, []int{0})
		err := cfg.Apply(domain.Rule[int, string]{Write: 1, Move: domain.Left, Next: "C"}, 0, false)
		assert.ErrorIs(t, err, domain.ErrHeadUnderflow)
		assert.Equal(t, []int{0}, cfg.Tape)
		assert.Equal(t, "A", cfg.State)
		assert.Equal(t, 0, cfg.Head)
		assert.Equal(t, 0, cfg.Steps)
	})

	t.Run("partial underflow keeps write and state", func(t *testing.T) {
		cfg := domain.NewConfiguration(def, []int{0})
		err := cfg.Apply(domain.Rule[int, string]{Write: 1, Move: domain.Left, Next: "C"}, 0, true)
		assert.ErrorIs(t, err, domain.ErrHeadUnderflow)
		assert.Equal(t, []int{1}, cfg.Tape)
		assert.Equal(t, "C", cfg.State)
		assert.Equal(t, 0, cfg.Head)
	})
}

func TestConfiguration_Clone(t *testing.T) {
	cfg := domain.NewConfiguration(unaryDefinition(), []int{1, 1})
	cp := cfg.Clone()
	cp.Tape[0] = 0
	cp.Head = 1
	assert.Equal(t, []int{1, 1}, cfg.Tape)
	assert.Equal(t, 0, cfg.Head)
}

func TestSession_RoundTrip(t *testing.T) {
	def := &domain.Definition[string, string]{
		States: []string{"q0", "qf"}, Alphabet: []string{"_", "1"}, Blank: "_", Initial: "q0", Final: []string{"qf"},
	}
	cfg := domain.NewConfiguration(def, []string{"1"})
	sess := domain.NewSession("s-1", "ones", cfg)
	assert.Equal(t, domain.StatusActive, sess.Status)

	cfg.Halted = true
	cfg.State = "qf"
	sess.Capture(cfg)
	assert.Equal(t, domain.StatusHalted, sess.Status)

	restored := sess.Configuration()
	assert.Equal(t, cfg, restored)

	snap := sess.Snapshot()
	snap.Tape[0] = "_"
	assert.Equal(t, []string{"1"}, sess.Tape)
}
