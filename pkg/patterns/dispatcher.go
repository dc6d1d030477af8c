package patterns

import "fmt"

// Dispatcher owns at most one live Pattern and forwards calls to it.
type Dispatcher struct {
	pattern *Pattern
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Select constructs the pattern called name, replacing any live one. An
// unknown name leaves no pattern selected.
func (d *Dispatcher) Select(name string) (*Pattern, error) {
	d.Release()

	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}

	d.pattern = New(kind)

	return d.pattern, nil
}

// Init selects the pattern called name and binds it to region.
func (d *Dispatcher) Init(name string, region []byte, opts Options) error {
	p, err := d.Select(name)
	if err != nil {
		return err
	}

	return p.Init(region, opts)
}

func (d *Dispatcher) Access() (Result, error) {
	if d.pattern == nil {
		return Result{}, fmt.Errorf("%w: no access pattern selected", ErrNotInitialized)
	}

	return d.pattern.Access()
}

// Current returns the selected pattern's name, or "none".
func (d *Dispatcher) Current() string {
	if d.pattern == nil {
		return "none"
	}

	return d.pattern.Name()
}

// Release drops the live pattern; the region may be freed afterwards.
func (d *Dispatcher) Release() {
	if d.pattern != nil {
		d.pattern.Release()
	}

	d.pattern = nil
}
