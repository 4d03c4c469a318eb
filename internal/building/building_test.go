package building

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/tickworks/internal/machine"
	"github.com/napolitain/tickworks/internal/recipe"
	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/tick"
)

var (
	ironOre   = resource.NewKind("iron_ore")
	copperOre = resource.NewKind("copper_ore")
	iron      = resource.NewKind("iron")
	copper    = resource.NewKind("copper")
	wire      = resource.NewKind("copper_wire")

	furnaceCost = []resource.Cost{{Kind: iron, Amount: 10}}
)

func smelting(name string, ore, out resource.Kind) *recipe.Recipe {
	return &recipe.Recipe{
		Name:      name,
		Category:  recipe.Furnace,
		CycleTime: 10,
		Inputs:    []recipe.Item{{Kind: ore, Amount: 2}},
		Outputs:   []recipe.Item{{Kind: out, Amount: 1}},
	}
}

func newFurnace(t *testing.T, c tick.Reader, r *recipe.Recipe) *Building {
	t.Helper()
	b, err := Build(c, Furnace, r, furnaceCost, resource.MintBundle(iron, 10))
	require.NoError(t, err)
	return b
}

func TestBuildPaysCost(t *testing.T) {
	c := tick.New(tick.WithLogging(false))
	payment := resource.MintBundle(iron, 10)
	b, err := Build(c, Furnace, smelting("iron_smelting", ironOre, iron), furnaceCost, payment)
	require.NoError(t, err)
	assert.False(t, payment.Valid())
	assert.Equal(t, Furnace, b.Type())
	assert.Equal(t, "furnace running iron_smelting", b.String())
}

func TestBuildRejectsWrongPayment(t *testing.T) {
	c := tick.New(tick.WithLogging(false))
	payment := resource.MintBundle(iron, 9)
	_, err := Build(c, Furnace, smelting("iron_smelting", ironOre, iron), furnaceCost, payment)
	var mismatch *resource.PaymentError
	assert.True(t, errors.As(err, &mismatch))
	assert.True(t, payment.Valid())
}

func TestBuildRejectsWrongCategory(t *testing.T) {
	c := tick.New(tick.WithLogging(false))
	wireRecipe := &recipe.Recipe{
		Name:      "copper_wire",
		Category:  recipe.Assembler,
		CycleTime: 1,
		Inputs:    []recipe.Item{{Kind: copper, Amount: 1}},
		Outputs:   []recipe.Item{{Kind: wire, Amount: 2}},
	}
	payment := resource.MintBundle(iron, 10)
	_, err := Build(c, Furnace, wireRecipe, furnaceCost, payment)
	assert.True(t, errors.Is(err, ErrWrongCategory))
	assert.True(t, payment.Valid(), "nothing is spent on a rejected build")
}

func TestFurnaceProduces(t *testing.T) {
	c := tick.New(tick.WithLogging(false))
	f := newFurnace(t, c, smelting("copper_smelting", copperOre, copper))

	in, ok := f.InputOf(c, copperOre)
	require.True(t, ok)
	in.AddBundle(resource.MintBundle(copperOre, 8))

	c.AdvanceBy(40)
	out, ok := f.OutputOf(c, copper)
	require.True(t, ok)
	assert.Equal(t, uint32(4), out.Amount())
}

func TestChangeRecipeKeepsHandle(t *testing.T) {
	c := tick.New(tick.WithLogging(false))
	f := newFurnace(t, c, smelting("iron_smelting", ironOre, iron))
	old := f.Machine()

	f.Input(c, 0).Add(resource.Mint(ironOre, 3))
	err := f.ChangeRecipe(c, smelting("copper_smelting", copperOre, copper))
	var notEmpty *machine.NotEmptyError
	require.True(t, errors.As(err, &notEmpty))
	assert.Equal(t, machine.InputSlot, notEmpty.Slot)
	assert.Equal(t, "iron_smelting", f.Recipe().Name)

	f.Input(c, 0).Drain()
	require.NoError(t, f.ChangeRecipe(c, smelting("copper_smelting", copperOre, copper)))
	assert.Equal(t, "copper_smelting", f.Recipe().Name)
	assert.NotSame(t, old, f.Machine())

	_, ok := f.InputOf(c, copperOre)
	assert.True(t, ok)
}

func TestChangeRecipeRejectsInvalidRecipe(t *testing.T) {
	c := tick.New(tick.WithLogging(false))
	f := newFurnace(t, c, smelting("iron_smelting", ironOre, iron))
	old := f.Machine()
	f.Output(c, 0).Add(resource.Mint(iron, 2))

	broken := smelting("copper_smelting", copperOre, copper)
	broken.Outputs = nil
	c.AdvanceBy(5)

	var err error
	require.NotPanics(t, func() { err = f.ChangeRecipe(c, broken) })
	assert.True(t, errors.Is(err, recipe.ErrInvalid), "got %v", err)
	assert.Same(t, old, f.Machine())
	assert.Equal(t, uint64(0), old.LastTick(), "rejected before the machine syncs")
	assert.Equal(t, "iron_smelting", f.Recipe().Name)
}
