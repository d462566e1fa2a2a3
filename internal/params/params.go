package params

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Physical constants shared by every chemistry.
const (
	Faraday     = 96485.33212
	GasConstant = 8.314462618
)

// Values is a named parameter set. Submodels read from it by key; unknown
// keys are a hard error so a typo fails at build time rather than
// silently zeroing a coefficient.
type Values map[string]float64

// MissingError is the panic value Get raises for an absent parameter.
// The model builder recovers it into a regular error.
type MissingError struct {
	Name string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("params: missing parameter %q", e.Name)
}

func (v Values) Get(name string) float64 {
	val, ok := v[name]
	if !ok {
		panic(&MissingError{Name: name})
	}
	return val
}

func (v Values) Lookup(name string) (float64, bool) {
	val, ok := v[name]
	return val, ok
}

func (v Values) GetOr(name string, fallback float64) float64 {
	if val, ok := v[name]; ok {
		return val
	}
	return fallback
}

func (v Values) Set(name string, val float64) {
	v[name] = val
}

func (v Values) Clone() Values {
	c := make(Values, len(v))
	for k, val := range v {
		c[k] = val
	}
	return c
}

// Merge overlays other on top of v, returning a new set.
func (v Values) Merge(other Values) Values {
	c := v.Clone()
	for k, val := range other {
		c[k] = val
	}
	return c
}

func (v Values) Names() []string {
	names := make([]string, 0, len(v))
	for k := range v {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Load reads a yaml override file of parameter name -> value.
func Load(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v := make(Values)
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("params: parse %s: %w", path, err)
	}
	return v, nil
}

func Save(path string, v Values) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
