package loader

import "github.com/reoring/valtree"

var decoratorKeys = []string{valtree.PreKey, valtree.PostKey, valtree.WrapKey}

// Funcs maps the names a schema document uses for its hooks to callables.
type Funcs map[string]valtree.Callable

// Merge returns a new table holding f overlaid with other.
func (f Funcs) Merge(other Funcs) Funcs {
	out := make(Funcs, len(f)+len(other))
	for k, c := range f {
		out[k] = c
	}
	for k, c := range other {
		out[k] = c
	}
	return out
}

// Resolve returns a copy of cfg in which string values under the decorator
// keys are replaced by the named callable. Unknown names are left as strings,
// so building the schema reports them as not callable.
func (f Funcs) Resolve(cfg valtree.Config) valtree.Config {
	out, _ := f.resolve(cfg).(valtree.Config)
	return out
}

func (f Funcs) resolve(v any) any {
	switch t := v.(type) {
	case valtree.Config:
		return f.resolveMap(t)
	case map[string]any:
		return f.resolveMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = f.resolve(e)
		}
		return out
	default:
		return v
	}
}

func (f Funcs) resolveMap(m map[string]any) valtree.Config {
	out := make(valtree.Config, len(m))
	for k, v := range m {
		out[k] = f.resolve(v)
	}
	if kind, _ := out.Kind(); kind != valtree.DecoratorKind {
		return out
	}
	for _, key := range decoratorKeys {
		name, ok := out[key].(string)
		if !ok {
			continue
		}
		if c, ok := f[name]; ok {
			out[key] = valtree.Named(name, c)
		}
	}
	return out
}
