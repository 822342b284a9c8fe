package directive

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// configFile is the root of a YAML directive document.
type configFile struct {
	Version string       `yaml:"version,omitempty"`
	Types   []typeConfig `yaml:"types"`
}

type typeConfig struct {
	// Name refers to a type registered in the TypeRegistry.
	Name string `yaml:"name"`

	Convertible bool `yaml:"convertible,omitempty"`

	// MappedFrom names the concrete source type this variant corresponds to.
	MappedFrom string `yaml:"mappedFrom,omitempty"`

	// Variants names the ordered closed set of concrete subtypes.
	Variants []string `yaml:"variants,omitempty"`

	Fields map[string]fieldConfig `yaml:"fields,omitempty"`
}

// fieldConfig accepts either the full mapping form {const: "342"} /
// {from: "Customer.Email"} or a bare scalar shorthand for a from-path.
type fieldConfig struct {
	Const *string `yaml:"const,omitempty"`
	From  string  `yaml:"from,omitempty"`
}

// UnmarshalYAML implements custom YAML unmarshaling for fieldConfig.
func (f *fieldConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var path string
		if err := node.Decode(&path); err != nil {
			return err
		}

		*f = fieldConfig{From: path}

		return nil

	case yaml.MappingNode:
		type plain fieldConfig

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*f = fieldConfig(p)

		return nil

	default:
		return fmt.Errorf("expected string or mapping for field directive, got %v", node.Kind)
	}
}

// LoadFile loads a YAML directive document from a path into table.
func LoadFile(path string, types *TypeRegistry, table *Table) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read directive file %s: %w", path, err)
	}

	return Load(data, types, table)
}

// Load parses a YAML directive document and registers its declarations into
// table, resolving type names through types.
func Load(data []byte, types *TypeRegistry, table *Table) error {
	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("failed to parse directive YAML: %w", err)
	}

	for _, tc := range cf.Types {
		if err := applyTypeConfig(tc, types, table); err != nil {
			return err
		}
	}

	return nil
}

func applyTypeConfig(tc typeConfig, types *TypeRegistry, table *Table) error {
	typ, ok := types.Lookup(tc.Name)
	if !ok {
		return fmt.Errorf("directive config names unknown type %q", tc.Name)
	}

	var opts []Option

	if tc.Convertible {
		opts = append(opts, WithConvertible())
	}

	if tc.MappedFrom != "" {
		src, ok := types.Lookup(tc.MappedFrom)
		if !ok {
			return fmt.Errorf("type %q maps from unknown type %q", tc.Name, tc.MappedFrom)
		}

		opts = append(opts, WithMappedFrom(src))
	}

	for _, name := range tc.Variants {
		sub, ok := types.Lookup(name)
		if !ok {
			return fmt.Errorf("type %q lists unknown variant %q", tc.Name, name)
		}

		opts = append(opts, WithVariants(sub))
	}

	for property, fc := range tc.Fields {
		f, err := fieldFromConfig(fc)
		if err != nil {
			return fmt.Errorf("type %q, property %q: %w", tc.Name, property, err)
		}

		opts = append(opts, WithField(property, f))
	}

	table.Register(typ, opts...)

	return nil
}

func fieldFromConfig(fc fieldConfig) (Field, error) {
	switch {
	case fc.Const != nil && fc.From != "":
		return Field{}, fmt.Errorf("const and from are mutually exclusive")

	case fc.Const != nil:
		return Field{Kind: KindConst, Value: *fc.Const}, nil

	case fc.From != "":
		p, err := ParsePath(fc.From)
		if err != nil {
			return Field{}, err
		}

		return Field{Kind: KindFrom, Path: p}, nil

	default:
		return Field{}, fmt.Errorf("empty field directive")
	}
}
