package component

// Bounds restricts a numeric custom property. Nil ends are open.
type Bounds struct {
	Min *float64
	Max *float64
}

// Clamp returns v limited to the bounds.
func (b Bounds) Clamp(v float64) float64 {
	if b.Min != nil && v < *b.Min {
		v = *b.Min
	}
	if b.Max != nil && v > *b.Max {
		v = *b.Max
	}
	return v
}

// Properties are per-object custom attributes. Values hold float64 or
// string.
type Properties struct {
	Values map[string]any
	Bounds map[string]Bounds
}

func (p *Properties) Get(name string) (any, bool) {
	if p == nil || p.Values == nil {
		return nil, false
	}
	v, ok := p.Values[name]
	return v, ok
}

func (p *Properties) Float(name string) (float64, bool) {
	v, ok := p.Get(name)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// Set stores value, clamping floats to any bounds registered for name.
func (p *Properties) Set(name string, value any) {
	if p.Values == nil {
		p.Values = map[string]any{}
	}
	if f, ok := value.(float64); ok {
		if b, ok := p.Bounds[name]; ok {
			f = b.Clamp(f)
		}
		value = f
	}
	p.Values[name] = value
}

var PropertiesComponent = NewComponent[Properties]()
