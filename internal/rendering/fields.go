package rendering

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/sceneview/internal/errors"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type fieldSpec struct {
	key      string
	index    int
	hasRange bool
	min, max float64
	enum     []string
	color    bool
}

type fieldIndex struct {
	ordered []*fieldSpec
	byKey   map[string]*fieldSpec
}

var fields = sync.OnceValue(func() *fieldIndex {
	t := reflect.TypeFor[Parameter]()
	idx := &fieldIndex{byKey: make(map[string]*fieldSpec, t.NumField())}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		spec := &fieldSpec{key: key, index: i, color: f.Tag.Get("format") == "color"}

		if r := f.Tag.Get("range"); r != "" {
			lo, hi, _ := strings.Cut(r, ",")
			spec.min, _ = strconv.ParseFloat(lo, 64)
			spec.max, _ = strconv.ParseFloat(hi, 64)
			spec.hasRange = true
		}
		if e := f.Tag.Get("enum"); e != "" {
			spec.enum = strings.Split(e, "|")
		}

		idx.ordered = append(idx.ordered, spec)
		idx.byKey[key] = spec
	}
	return idx
})

// Keys returns every parameter key in declaration order
func Keys() []string {
	idx := fields()
	keys := make([]string, len(idx.ordered))
	for i, f := range idx.ordered {
		keys[i] = f.key
	}
	return keys
}

// Get returns the value stored under key
func (p *Parameter) Get(key string) (any, error) {
	spec, ok := fields().byKey[key]
	if !ok {
		return nil, errors.NotFoundf("rendering parameter %q", key)
	}
	return reflect.ValueOf(p).Elem().Field(spec.index).Interface(), nil
}

// Set converts value to the type of key and stores it if it passes the key's
// constraints. Numbers may be given as any numeric type or as a string.
func (p *Parameter) Set(key string, value any) error {
	spec, ok := fields().byKey[key]
	if !ok {
		return errors.NotFoundf("rendering parameter %q", key)
	}

	field := reflect.ValueOf(p).Elem().Field(spec.index)
	converted, err := convert(field.Type(), value)
	if err != nil {
		return errors.Wrapf(err, "rendering parameter %q", key).WithMeta("key", key)
	}
	if err := spec.check(converted); err != nil {
		return err
	}

	field.Set(converted)
	return nil
}

// Validate checks every constrained parameter and reports all violations
func (p *Parameter) Validate() error {
	v := reflect.ValueOf(p).Elem()

	var problems []error
	for _, spec := range fields().ordered {
		if err := spec.check(v.Field(spec.index)); err != nil {
			problems = append(problems, err)
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.WrapWithCode(stderrors.Join(problems...), errors.CodeValidation, "invalid rendering parameters").
		WithMeta("violations", len(problems))
}

// MergeYAML overlays the keys present in data onto p. Unknown keys and
// invalid values are rejected and p is left unchanged.
func (p *Parameter) MergeYAML(data []byte) error {
	next := p.Clone()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(next); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "decode rendering parameters")
	}

	return p.adopt(next)
}

// MergeNode overlays an already parsed YAML mapping onto p
func (p *Parameter) MergeNode(node *yaml.Node) error {
	if node == nil || node.IsZero() {
		return nil
	}

	next := p.Clone()
	if err := node.Decode(next); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "decode rendering parameters")
	}

	return p.adopt(next)
}

func (p *Parameter) adopt(next *Parameter) error {
	if err := next.Validate(); err != nil {
		return err
	}
	*p = *next
	return nil
}

// Diff returns the keys whose values differ between a and b, in declaration order
func Diff(a, b *Parameter) []string {
	if a == nil || b == nil {
		if a == b {
			return nil
		}
		return Keys()
	}

	av := reflect.ValueOf(a).Elem()
	bv := reflect.ValueOf(b).Elem()

	var changed []string
	for _, spec := range fields().ordered {
		if !reflect.DeepEqual(av.Field(spec.index).Interface(), bv.Field(spec.index).Interface()) {
			changed = append(changed, spec.key)
		}
	}
	return changed
}

func (f *fieldSpec) check(v reflect.Value) error {
	switch {
	case f.hasRange:
		n := v.Float()
		if n < f.min || n > f.max {
			return errors.Validationf("%s must be within [%g, %g], got %g", f.key, f.min, f.max, n).
				WithMeta("key", f.key)
		}
	case f.enum != nil:
		s := v.String()
		for _, allowed := range f.enum {
			if s == allowed {
				return nil
			}
		}
		return errors.Validationf("%s must be one of %s, got %q", f.key, strings.Join(f.enum, ", "), s).
			WithMeta("key", f.key)
	case f.color:
		if !colorPattern.MatchString(v.String()) {
			return errors.Validationf("%s must be a #rrggbb colour, got %q", f.key, v.String()).
				WithMeta("key", f.key)
		}
	}
	return nil
}

var vec3Type = reflect.TypeFor[mgl32.Vec3]()

func convert(to reflect.Type, value any) (reflect.Value, error) {
	switch to.Kind() {
	case reflect.Bool:
		switch b := value.(type) {
		case bool:
			return reflect.ValueOf(b), nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return reflect.Value{}, errors.InvalidArgumentf("%q is not a boolean", b)
			}
			return reflect.ValueOf(parsed), nil
		}
	case reflect.Float64:
		n, err := toFloat(value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n), nil
	case reflect.String:
		if s, ok := value.(string); ok {
			return reflect.ValueOf(s), nil
		}
	case reflect.Array:
		if to == vec3Type {
			vec, err := toVec3(value)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(vec), nil
		}
	}
	return reflect.Value{}, errors.InvalidArgumentf("cannot use %T as %v", value, to)
}

func toFloat(value any) (float64, error) {
	if s, ok := value.(string); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, errors.InvalidArgumentf("%q is not a number", s)
		}
		return n, nil
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	}
	return 0, errors.InvalidArgumentf("cannot use %T as a number", value)
}

func toVec3(value any) (mgl32.Vec3, error) {
	switch vec := value.(type) {
	case mgl32.Vec3:
		return vec, nil
	case string:
		parts := strings.Split(vec, ",")
		items := make([]any, len(parts))
		for i, part := range parts {
			items[i] = part
		}
		return toVec3(items)
	}

	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return mgl32.Vec3{}, errors.InvalidArgumentf("cannot use %T as a vector", value)
	}
	if v.Len() != 3 {
		return mgl32.Vec3{}, errors.InvalidArgumentf("vector needs 3 components, got %d", v.Len())
	}

	var out mgl32.Vec3
	for i := range 3 {
		n, err := toFloat(v.Index(i).Interface())
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = float32(n)
	}
	return out, nil
}
