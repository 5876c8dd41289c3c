package system

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/travelcam/ecs"
	"github.com/milk9111/travelcam/ecs/component"
)

const driverResultVar = "__out"

// DriverSystem evaluates every driver expression once per pass and writes
// the result to the driven data path. Drivers that read another driver's
// output run after it.
type DriverSystem struct {
	cache  map[string]*tengo.Compiled
	failed map[string]bool
}

func NewDriverSystem() *DriverSystem {
	return &DriverSystem{
		cache:  map[string]*tengo.Compiled{},
		failed: map[string]bool{},
	}
}

type driverRef struct {
	owner  ecs.Entity
	driver component.Driver
}

func pathKey(e ecs.Entity, path string) string {
	return e.String() + "|" + path
}

func (d *DriverSystem) Update(w *ecs.World) {
	if d == nil || w == nil {
		return
	}

	var refs []driverRef
	writers := map[string]int{}
	ecs.ForEach(w, component.DriverStackComponent.Kind(), func(e ecs.Entity, stack *component.DriverStack) {
		for _, drv := range stack.Items {
			writers[pathKey(e, drv.Path)] = len(refs)
			refs = append(refs, driverRef{owner: e, driver: drv})
		}
	})

	const (
		pending = iota
		visiting
		done
	)
	state := make([]int, len(refs))

	var visit func(i int)
	visit = func(i int) {
		switch state[i] {
		case done:
			return
		case visiting:
			d.reportOnce("cycle|"+pathKey(refs[i].owner, refs[i].driver.Path),
				"driver: entity=%d %s: dependency cycle", refs[i].owner, refs[i].driver.Path)
			return
		}
		state[i] = visiting
		for _, v := range refs[i].driver.Variables {
			if j, ok := writers[pathKey(ecs.Entity(v.Source), v.Path)]; ok {
				visit(j)
			}
		}
		d.evaluate(w, refs[i])
		state[i] = done
	}

	for i := range refs {
		visit(i)
	}
}

func (d *DriverSystem) evaluate(w *ecs.World, ref driverRef) {
	drv := ref.driver
	key := pathKey(ref.owner, drv.Path)

	compiled, err := d.compile(drv)
	if err != nil {
		d.reportOnce("compile|"+key, "driver: entity=%d %s: compile %q: %v", ref.owner, drv.Path, drv.Expression, err)
		return
	}

	for _, v := range drv.Variables {
		value, err := ReadPath(w, ecs.Entity(v.Source), v.Path)
		if err != nil {
			d.reportOnce("var|"+key+"|"+v.Name, "driver: entity=%d %s: variable %s: %v", ref.owner, drv.Path, v.Name, err)
			return
		}
		if err := compiled.Set(v.Name, value); err != nil {
			d.reportOnce("set|"+key+"|"+v.Name, "driver: entity=%d %s: set %s: %v", ref.owner, drv.Path, v.Name, err)
			return
		}
	}

	if err := compiled.Run(); err != nil {
		d.reportOnce("run|"+key, "driver: entity=%d %s: run %q: %v", ref.owner, drv.Path, drv.Expression, err)
		return
	}

	out := compiled.Get(driverResultVar)
	if out == nil || out.IsUndefined() {
		d.reportOnce("undef|"+key, "driver: entity=%d %s: %q produced no value", ref.owner, drv.Path, drv.Expression)
		return
	}
	if err := WritePath(w, ref.owner, drv.Path, out.Float()); err != nil {
		d.reportOnce("write|"+key, "driver: entity=%d %s: %v", ref.owner, drv.Path, err)
	}
}

// compile returns a cached program for the driver's expression and
// variable names.
func (d *DriverSystem) compile(drv component.Driver) (*tengo.Compiled, error) {
	names := make([]string, 0, len(drv.Variables))
	for _, v := range drv.Variables {
		names = append(names, v.Name)
	}
	sort.Strings(names)
	cacheKey := drv.Expression + "|" + strings.Join(names, ",")
	if c, ok := d.cache[cacheKey]; ok {
		return c, nil
	}

	src := fmt.Sprintf("%s := (%s)\n", driverResultVar, drv.Expression)
	script := tengo.NewScript([]byte(src))
	for _, name := range names {
		if err := script.Add(name, 0.0); err != nil {
			return nil, err
		}
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	d.cache[cacheKey] = compiled
	return compiled, nil
}

// Validate compiles expr against the given variable names without
// evaluating it.
func (d *DriverSystem) Validate(expr string, vars ...string) error {
	if d == nil {
		d = NewDriverSystem()
	}
	drv := component.Driver{Expression: expr}
	for _, v := range vars {
		drv.Variables = append(drv.Variables, component.DriverVariable{Name: v})
	}
	_, err := d.compile(drv)
	return err
}

func (d *DriverSystem) reportOnce(key, format string, args ...any) {
	if d.failed[key] {
		return
	}
	d.failed[key] = true
	log.Printf(format, args...)
}
