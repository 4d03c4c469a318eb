package machine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/tickworks/internal/recipe"
	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/tick"
)

var (
	kindA = resource.NewKind("a")
	kindB = resource.NewKind("b")
	kindC = resource.NewKind("c")
)

// at is a fixed tick for tests that need to move time by hand.
type at uint64

func (a at) Cur() uint64 { return uint64(a) }

func smelter(cycleTime uint64, in, out uint32) *recipe.Recipe {
	return &recipe.Recipe{
		Name:      "smelt",
		Category:  recipe.Furnace,
		CycleTime: cycleTime,
		Inputs:    []recipe.Item{{Kind: kindA, Amount: in}},
		Outputs:   []recipe.Item{{Kind: kindB, Amount: out}},
	}
}

func quietClock() *tick.Clock {
	return tick.New(tick.WithLogging(false))
}

func TestScenarioA(t *testing.T) {
	t.Run("step to tick 10", func(t *testing.T) {
		c := quietClock()
		m := New(c, smelter(10, 2, 1))
		m.Input(c, 0).Add(resource.Mint(kindA, 20))

		c.AdvanceTo(10)
		assert.Equal(t, uint32(1), m.Output(c, 0).Amount())
		assert.Equal(t, uint32(18), m.Input(c, 0).Amount())
		assert.Equal(t, uint64(0), m.Banked())
	})

	t.Run("jump to tick 100", func(t *testing.T) {
		c := quietClock()
		m := New(c, smelter(10, 2, 1))
		m.Input(c, 0).Add(resource.Mint(kindA, 20))

		c.AdvanceTo(100)
		assert.Equal(t, uint32(10), m.Output(c, 0).Amount())
		assert.Equal(t, uint32(0), m.Input(c, 0).Amount())
	})
}

func TestScenarioB(t *testing.T) {
	c := quietClock()
	m := New(c, smelter(10, 2, 1))
	m.Input(c, 0).Add(resource.Mint(kindA, 3))

	c.AdvanceTo(100)
	assert.Equal(t, uint32(1), m.Output(c, 0).Amount())
	assert.Equal(t, uint32(1), m.Input(c, 0).Amount())
	assert.Equal(t, uint64(0), m.Banked(), "one A left cannot start a cycle")
}

func TestScenarioC(t *testing.T) {
	c := quietClock()
	m := New(c, smelter(10, 2, 1))
	m.Output(c, 0).Add(resource.Mint(kindB, 5))

	other := smelter(3, 1, 1)
	other.Name = "other"

	same, err := m.ChangeRecipe(c, other)
	var notEmpty *NotEmptyError
	require.True(t, errors.As(err, &notEmpty))
	assert.Same(t, m, same)
	assert.Same(t, m, notEmpty.Machine)
	assert.Equal(t, OutputSlot, notEmpty.Slot)
	assert.Equal(t, "b", notEmpty.Resource)
	assert.Equal(t, uint32(5), notEmpty.Amount)
	assert.EqualError(t, err, "machine not empty: output buffer holds 5 b")

	m.Output(c, 0).Drain()
	next, err := m.ChangeRecipe(c, other)
	require.NoError(t, err)
	assert.NotSame(t, m, next)
	assert.Equal(t, "other", next.Recipe().Name)
	assert.Equal(t, uint32(0), next.Input(c, 0).Amount())
	assert.Equal(t, uint32(0), next.Output(c, 0).Amount())
	assert.Equal(t, uint64(0), next.Banked())
	assert.Equal(t, c.Cur(), next.LastTick())

	assert.Panics(t, func() { m.Sync(c) }, "the replaced machine is retired")
}

func TestChangeRecipeReportsInputsFirst(t *testing.T) {
	c := quietClock()
	m := New(c, smelter(10, 2, 1))
	m.Input(c, 0).Add(resource.Mint(kindA, 1))
	m.Output(c, 0).Add(resource.Mint(kindB, 5))

	_, err := m.ChangeRecipe(c, smelter(1, 1, 1))
	var notEmpty *NotEmptyError
	require.True(t, errors.As(err, &notEmpty))
	assert.Equal(t, InputSlot, notEmpty.Slot)
	assert.Equal(t, "a", notEmpty.Resource)
	assert.Equal(t, uint32(1), notEmpty.Amount)
}

func TestChangeRecipeSyncsFirst(t *testing.T) {
	c := quietClock()
	m := New(c, smelter(10, 2, 1))
	m.Input(c, 0).Add(resource.Mint(kindA, 2))

	c.AdvanceTo(10)
	// The pending cycle completes during the change, so the output is not empty.
	_, err := m.ChangeRecipe(c, smelter(1, 1, 1))
	var notEmpty *NotEmptyError
	require.True(t, errors.As(err, &notEmpty))
	assert.Equal(t, OutputSlot, notEmpty.Slot)
	assert.Equal(t, uint32(1), notEmpty.Amount)
}

func TestIdempotentSync(t *testing.T) {
	c := quietClock()
	m := New(c, smelter(10, 2, 1))
	m.Input(c, 0).Add(resource.Mint(kindA, 100))

	c.AdvanceTo(35)
	m.Sync(c)
	out := m.Output(c, 0).Amount()
	banked := m.Banked()
	m.Sync(c)
	m.Sync(c)

	assert.Equal(t, uint32(3), out)
	assert.Equal(t, out, m.Output(c, 0).Amount())
	assert.Equal(t, uint64(5), banked)
	assert.Equal(t, banked, m.Banked())
}

func TestTimeTravelPanics(t *testing.T) {
	m := New(at(50), smelter(10, 2, 1))
	m.Sync(at(60))
	assert.Panics(t, func() { m.Sync(at(59)) })
	assert.Equal(t, uint64(60), m.LastTick())
}

func TestForfeiture(t *testing.T) {
	m := New(at(0), smelter(10, 2, 1))
	m.Input(at(0), 0).Add(resource.Mint(kindA, 3))

	m.Sync(at(5))
	require.Equal(t, uint64(5), m.Banked())

	// Take two A out and put them straight back at the same tick.
	// The sync that sees the shortfall still drops the banked time.
	taken, err := m.Input(at(5), 0).SplitOff(2)
	require.NoError(t, err)
	m.Input(at(5), 0).Add(taken)
	assert.Equal(t, uint64(0), m.Banked())

	m.Sync(at(6))
	assert.Equal(t, uint64(1), m.Banked())
}

func TestForfeitureOnLaterSync(t *testing.T) {
	m := New(at(0), smelter(10, 2, 1))
	m.Input(at(0), 0).Add(resource.Mint(kindA, 2))
	m.Sync(at(7))
	require.Equal(t, uint64(7), m.Banked())

	m.Input(at(7), 0).Drain()
	m.Sync(at(9))
	assert.Equal(t, uint64(0), m.Banked())
	assert.Equal(t, uint32(0), m.Output(at(30), 0).Amount(), "banked progress was not preserved")
}

func TestZeroCycleTime(t *testing.T) {
	m := New(at(0), smelter(0, 3, 2))
	m.Input(at(0), 0).Add(resource.Mint(kindA, 10))
	assert.Equal(t, uint32(6), m.Output(at(0), 0).Amount(), "instant recipes are bounded by inputs only")
	assert.Equal(t, uint32(1), m.Input(at(0), 0).Amount())
}

func TestMultipleInputsBoundedByScarcest(t *testing.T) {
	r := &recipe.Recipe{
		Name:      "circuit",
		Category:  recipe.Assembler,
		CycleTime: 5,
		Inputs:    []recipe.Item{{Kind: kindA, Amount: 1}, {Kind: kindB, Amount: 3}},
		Outputs:   []recipe.Item{{Kind: kindC, Amount: 1}},
	}
	m := New(at(0), r)
	a, ok := m.InputOf(at(0), kindA)
	require.True(t, ok)
	a.Add(resource.Mint(kindA, 10))
	b, ok := m.InputOf(at(0), kindB)
	require.True(t, ok)
	b.Add(resource.Mint(kindB, 10))

	out, ok := m.OutputOf(at(1000), kindC)
	require.True(t, ok)
	assert.Equal(t, uint32(3), out.Amount())
	assert.Equal(t, uint32(7), m.Input(at(1000), 0).Amount())
	assert.Equal(t, uint32(1), m.Input(at(1000), 1).Amount())

	_, ok = m.OutputOf(at(1000), kindA)
	assert.False(t, ok)
}

func TestConservation(t *testing.T) {
	tests := []struct {
		name      string
		cycleTime uint64
		in, out   uint32
		fill      uint32
		steps     []uint64
	}{
		{"time bound", 10, 2, 1, 100, []uint64{3, 10, 27, 40}},
		{"input bound", 4, 3, 5, 10, []uint64{100}},
		{"ragged", 7, 1, 3, 50, []uint64{1, 1, 5, 13, 6, 30, 200}},
		{"instant", 0, 4, 1, 33, []uint64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := quietClock()
			m := New(c, smelter(tt.cycleTime, tt.in, tt.out))
			m.Input(c, 0).Add(resource.Mint(kindA, tt.fill))

			for _, step := range tt.steps {
				before := m.Output(c, 0).Amount()
				beforeIn := m.Input(c, 0).Amount()
				c.AdvanceBy(step)
				m.Sync(c)
				produced := m.Output(c, 0).Amount() - before
				consumed := beforeIn - m.Input(c, 0).Amount()

				require.Zero(t, produced%tt.out)
				cycles := produced / tt.out
				assert.Equal(t, cycles*tt.in, consumed)
			}
			total := m.Output(c, 0).Amount() / tt.out
			assert.Equal(t, tt.fill, total*tt.in+m.Input(c, 0).Amount())
		})
	}
}

func TestRetiredMachinePanicsOnEveryAccess(t *testing.T) {
	c := quietClock()
	m := New(c, smelter(1, 1, 1))
	_, err := m.ChangeRecipe(c, smelter(2, 1, 1))
	require.NoError(t, err)

	assert.Panics(t, func() { m.Input(c, 0) })
	assert.Panics(t, func() { m.Output(c, 0) })
	assert.Panics(t, func() { _, _ = m.ChangeRecipe(c, smelter(2, 1, 1)) })
}

func TestNewRejectsInvalidRecipe(t *testing.T) {
	assert.Panics(t, func() { New(at(0), smelter(10, 0, 1)) })
}

func TestRecipeIsCopied(t *testing.T) {
	r := smelter(10, 2, 1)
	m := New(at(0), r)
	r.Inputs[0].Amount = 50
	assert.Equal(t, uint32(2), m.Recipe().Inputs[0].Amount)
}

// FuzzBatchingEquivalence checks that one long advance gives the same
// machine state as the same distance walked one tick at a time.
func FuzzBatchingEquivalence(f *testing.F) {
	f.Add(uint8(10), uint8(2), uint8(1), uint16(20), uint16(100))
	f.Add(uint8(10), uint8(2), uint8(1), uint16(3), uint16(100))
	f.Add(uint8(0), uint8(3), uint8(2), uint16(10), uint16(5))
	f.Add(uint8(1), uint8(1), uint8(1), uint16(0), uint16(17))
	f.Add(uint8(7), uint8(5), uint8(9), uint16(499), uint16(999))

	f.Fuzz(func(t *testing.T, cycleTime, in, out uint8, fill, n uint16) {
		if in == 0 || out == 0 {
			return
		}
		r := smelter(uint64(cycleTime), uint32(in), uint32(out))

		jump := quietClock()
		batched := New(jump, r)
		batched.Input(jump, 0).Add(resource.Mint(kindA, uint32(fill)))
		jump.AdvanceBy(uint64(n))

		walk := quietClock()
		stepped := New(walk, r)
		stepped.Input(walk, 0).Add(resource.Mint(kindA, uint32(fill)))
		for i := uint16(0); i < n; i++ {
			walk.Advance()
			stepped.Sync(walk)
		}

		if got, want := batched.Output(jump, 0).Amount(), stepped.Output(walk, 0).Amount(); got != want {
			t.Fatalf("output: batched %d, stepped %d", got, want)
		}
		if got, want := batched.Input(jump, 0).Amount(), stepped.Input(walk, 0).Amount(); got != want {
			t.Fatalf("input: batched %d, stepped %d", got, want)
		}
		if got, want := batched.Banked(), stepped.Banked(); got != want {
			t.Fatalf("banked: batched %d, stepped %d", got, want)
		}
	})
}

func BenchmarkSyncLongJump(b *testing.B) {
	c := quietClock()
	m := New(c, smelter(3, 1, 1))
	m.Input(c, 0).Add(resource.Mint(kindA, 1<<30))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.AdvanceBy(1_000_000)
		m.Output(c, 0).Drain()
	}
}
