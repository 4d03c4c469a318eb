package research

import (
	"fmt"

	"github.com/napolitain/tickworks/internal/machine"
	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/tick"
)

// Lab produces the points of one technology at a time.
type Lab struct {
	tech    *Technology
	machine *machine.Machine
}

// BuildLab pays costs with bundles and returns a lab working on tech.
func BuildLab(t tick.Reader, tech *Technology, costs []resource.Cost, bundles ...resource.Bundle) (*Lab, error) {
	if err := resource.Pay(costs, bundles...); err != nil {
		return nil, fmt.Errorf("build lab: %w", err)
	}
	return &Lab{tech: tech, machine: machine.New(t, tech.recipe)}, nil
}

// Technology returns the technology the lab works on.
func (l *Lab) Technology() *Technology { return l.tech }

func (l *Lab) Input(t tick.Reader, i int) *resource.Resource { return l.machine.Input(t, i) }

func (l *Lab) InputOf(t tick.Reader, kind resource.Kind) (*resource.Resource, bool) {
	return l.machine.InputOf(t, kind)
}

// Points syncs and returns the points accumulated so far.
func (l *Lab) Points(t tick.Reader) *resource.Resource { return l.machine.Output(t, 0) }

// ChangeTechnology retargets the lab. Like a recipe change it requires
// empty buffers and returns a *machine.NotEmptyError otherwise.
func (l *Lab) ChangeTechnology(t tick.Reader, tech *Technology) error {
	next, err := l.machine.ChangeRecipe(t, tech.recipe)
	if err != nil {
		return fmt.Errorf("lab: %w", err)
	}
	l.tech = tech
	l.machine = next
	return nil
}

func (l *Lab) String() string {
	return fmt.Sprintf("lab researching %s", l.tech.name)
}
