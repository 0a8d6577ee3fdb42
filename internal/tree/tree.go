// Package tree models the techno-economic input configuration as a typed,
// path-addressable tree with explicit get/set-by-path operations.
package tree

import (
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
)

// Tree is a nested string-keyed configuration tree. Leaves are numeric
// scalars (or strings parseable as such). Mutating operations are in-place;
// concurrent users must work on clones.
type Tree struct {
	root map[string]any
}

// Load reads and parses a YAML model file.
func Load(path string) (*Tree, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tree: read %s", path)
	}
	t, err := Parse(raw)
	if err != nil {
		return nil, eris.Wrapf(err, "tree: parse %s", path)
	}
	return t, nil
}

// Parse decodes YAML bytes into a Tree.
func Parse(raw []byte) (*Tree, error) {
	root := map[string]any{}
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, eris.Wrap(err, "tree: unmarshal yaml")
	}
	return &Tree{root: root}, nil
}

// New builds a tree from an existing nested map. The map is not copied.
func New(root map[string]any) *Tree {
	if root == nil {
		root = map[string]any{}
	}
	return &Tree{root: root}
}

// Get resolves path to a numeric leaf value.
func (t *Tree) Get(path model.Path) (float64, error) {
	node, err := t.walk(path[:len(path)-1])
	if err != nil {
		return 0, err
	}
	leaf, ok := node[path[len(path)-1]]
	if !ok {
		return 0, eris.Errorf("tree: %q not found under %q", path[len(path)-1], path[:len(path)-1].String())
	}
	v, err := toNumber(leaf)
	if err != nil {
		return 0, eris.Wrapf(err, "tree: value at %q", path.String())
	}
	return v, nil
}

// Has reports whether path resolves to an existing leaf.
func (t *Tree) Has(path model.Path) bool {
	node, err := t.walk(path[:len(path)-1])
	if err != nil {
		return false
	}
	_, ok := node[path[len(path)-1]]
	return ok
}

// Set writes value at path. With ValueTypeFactor the existing numeric value
// is multiplied by value instead of replaced. The leaf must already exist.
func (t *Tree) Set(path model.Path, value float64, vt model.ValueType) error {
	node, err := t.walk(path[:len(path)-1])
	if err != nil {
		return err
	}
	key := path[len(path)-1]
	if vt == model.ValueTypeFactor {
		current, ok := node[key]
		if !ok {
			return eris.Errorf("tree: %q not found under %q", key, path[:len(path)-1].String())
		}
		base, err := toNumber(current)
		if err != nil {
			return eris.Wrapf(err, "tree: factor target at %q", path.String())
		}
		node[key] = base * value
		return nil
	}
	if _, ok := node[key]; !ok {
		return eris.Errorf("tree: %q not found under %q", key, path[:len(path)-1].String())
	}
	node[key] = value
	return nil
}

// Clone returns a deep copy of the tree. Used by the evaluator so each
// sampled row mutates a private copy.
func (t *Tree) Clone() *Tree {
	return &Tree{root: cloneMap(t.root)}
}

func (t *Tree) walk(path model.Path) (map[string]any, error) {
	node := t.root
	for i, key := range path {
		child, ok := node[key]
		if !ok {
			return nil, eris.Errorf("tree: %q not found under %q", key, path[:i].String())
		}
		childMap, err := asMap(child)
		if err != nil {
			return nil, eris.Wrapf(err, "tree: at %q", path[:i+1].String())
		}
		node = childMap
	}
	return node, nil
}

func asMap(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		// yaml.v2-style decoding; normalize keys.
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, eris.Errorf("non-string key %v", k)
			}
			out[key] = val
		}
		return out, nil
	default:
		return nil, eris.Errorf("expected mapping, found %T", v)
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch child := v.(type) {
		case map[string]any:
			out[k] = cloneMap(child)
		case []any:
			s := make([]any, len(child))
			copy(s, child)
			out[k] = s
		default:
			out[k] = v
		}
	}
	return out
}

func toNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return ParseNumber(n)
	default:
		return 0, eris.Errorf("not a number: %v (%T)", v, v)
	}
}

// ParseNumber converts a scalar string to a float64. Thousands separators
// (commas) are stripped, and a trailing "%" divides the value by 100.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, eris.New("empty number")
	}
	if strings.HasSuffix(s, "%") {
		v, err := ParseNumber(strings.TrimSuffix(s, "%"))
		if err != nil {
			return 0, err
		}
		return v / 100, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, eris.Errorf("cannot parse %q as number", s)
	}
	return v, nil
}
