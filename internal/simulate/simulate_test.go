package simulate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/tickworks/internal/catalog"
	"github.com/napolitain/tickworks/internal/tick"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func run(t *testing.T, p Params) (Report, error) {
	t.Helper()
	return Run(defaultCatalog(t), p, tick.WithLogging(false))
}

func TestRunUntilCondition(t *testing.T) {
	rep, err := run(t, Params{
		Recipe:   "copper_smelting",
		Fill:     4,
		Until:    `Outputs["copper"] >= 4`,
		MaxTicks: 1000,
	})
	require.NoError(t, err)

	assert.True(t, rep.Held)
	assert.Equal(t, uint64(40), rep.Ticks)
	assert.Equal(t, uint32(4), rep.Cycles)
	assert.Equal(t, []Buffer{{Resource: "copper_ore", Amount: 0}}, rep.Inputs)
	assert.Equal(t, []Buffer{{Resource: "copper", Amount: 4}}, rep.Outputs)
	assert.Zero(t, rep.Banked, "an empty machine forfeits its partial cycle")
}

func TestRunWithoutCondition(t *testing.T) {
	rep, err := run(t, Params{Recipe: "iron_smelting", Fill: 2, MaxTicks: 100})
	require.NoError(t, err)

	assert.False(t, rep.Held)
	assert.Equal(t, uint64(100), rep.Ticks)
	assert.Equal(t, uint32(2), rep.Cycles)
}

func TestRunBudget(t *testing.T) {
	rep, err := run(t, Params{
		Recipe:   "steel_smelting",
		Fill:     10,
		Until:    `Outputs["steel"] == 10`,
		MaxTicks: 50,
	})
	require.NoError(t, err)

	assert.False(t, rep.Held)
	assert.Equal(t, uint64(50), rep.Ticks)
	assert.Equal(t, uint32(2), rep.Cycles)
	assert.Equal(t, uint64(10), rep.Banked)
	assert.Equal(t, []Buffer{{Resource: "iron", Amount: 40}}, rep.Inputs)
}

func TestRunLockedRecipe(t *testing.T) {
	rep, err := run(t, Params{
		Recipe:   "point",
		Fill:     3,
		Until:    `Outputs["point"] == 3 && Inputs["steel"] == 0`,
		MaxTicks: 1000,
	})
	require.NoError(t, err)
	assert.True(t, rep.Held)
	assert.Equal(t, uint64(30), rep.Ticks)
}

func TestRunConditionSeesTick(t *testing.T) {
	rep, err := run(t, Params{Recipe: "copper_wire", Until: "Tick >= 7", MaxTicks: 100})
	require.NoError(t, err)
	assert.True(t, rep.Held)
	assert.Equal(t, uint64(7), rep.Ticks)
	assert.Zero(t, rep.Cycles)
}

func TestRunConditionOnLastTickIsNotHeld(t *testing.T) {
	rep, err := run(t, Params{Recipe: "copper_wire", Until: "Tick >= 10", MaxTicks: 10})
	require.NoError(t, err)
	assert.False(t, rep.Held)
	assert.Equal(t, uint64(10), rep.Ticks)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   error
	}{
		{
			name:   "no budget",
			params: Params{Recipe: "iron_smelting"},
			want:   ErrInvalidParams,
		},
		{
			name:   "unknown recipe",
			params: Params{Recipe: "gold_smelting", MaxTicks: 10},
			want:   catalog.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.params)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCompile(t *testing.T) {
	valid := []string{
		`Outputs["iron"] > 3`,
		`Tick > 10 || Banked == 0`,
		`len(Inputs) == 1`,
	}
	for _, src := range valid {
		_, err := Compile(src)
		assert.NoError(t, err, src)
	}

	invalid := []string{
		`Tick + 1`,
		`Outputs[`,
		`Unknown > 1`,
	}
	for _, src := range invalid {
		_, err := Compile(src)
		assert.Error(t, err, src)
	}
}

func TestRunRejectsBadCondition(t *testing.T) {
	_, err := run(t, Params{Recipe: "iron_smelting", Until: "Tick + 1", MaxTicks: 10})
	assert.Error(t, err)
}
