// Package table loads declarative instruction tables and turns them into registrars for
// an insnmap.Map.
//
// A table is a YAML (or JSON/TOML) document:
//
//	width: 32
//	instructions:
//	  - name: addi
//	    pattern: 32b?????????????????000?????0010011
//	    format: I
package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/aglyzov/go-insn/insnmap"
)

// Formats are the instruction format tags a table may use.
var Formats = []string{
	"USER_DEFINE",
	"R", "I", "S", "B", "U", "J",
	"CR", "CIW", "CI", "CSS", "CL", "CS", "CB", "CA", "CJ",
}

// Table is a list of instruction patterns of a single width.
type Table struct {
	Width        int           `mapstructure:"width"`
	Instructions []Instruction `mapstructure:"instructions"`
}

// Instruction is a single table row. It is also the payload of the built map.
type Instruction struct {
	Name    string `mapstructure:"name"`
	Pattern string `mapstructure:"pattern"`
	Format  string `mapstructure:"format"`

	// Code and Mask are filled in by Validate
	Code uint64 `mapstructure:"-"`
	Mask uint64 `mapstructure:"-"`
}

func (in *Instruction) String() string {
	return fmt.Sprintf("%s[%s] %s", in.Name, in.Format, in.Pattern)
}

// Load reads a table file; the format is derived from the file extension.
func Load(path string) (*Table, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}

	return decode(v)
}

// Read reads a table of the given kind ("yaml", "json", "toml", ...) from r.
func Read(r io.Reader, kind string) (*Table, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType(kind)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("width", 32)
}

func decode(v *viper.Viper) (*Table, error) {
	var tbl Table

	if err := v.Unmarshal(&tbl); err != nil {
		return nil, fmt.Errorf("failed to unmarshal table: %w", err)
	}
	if err := tbl.Validate(); err != nil {
		return nil, err
	}

	return &tbl, nil
}

// Validate checks the table and resolves every pattern into its code and mask.
func (t *Table) Validate() error {
	if t.Width < 1 || t.Width > 64 {
		return fmt.Errorf("invalid table width: %d", t.Width)
	}

	seen := make(map[string]struct{}, len(t.Instructions))

	for i := range t.Instructions {
		in := &t.Instructions[i]

		if in.Name == "" {
			return fmt.Errorf("instruction #%d has no name", i)
		}
		if _, dup := seen[in.Name]; dup {
			return fmt.Errorf("instruction %s is defined twice", in.Name)
		}
		seen[in.Name] = struct{}{}

		if in.Format == "" {
			in.Format = Formats[0]
		}
		in.Format = strings.ToUpper(in.Format)
		if !validFormat(in.Format) {
			return fmt.Errorf("instruction %s: invalid format %q, valid values are %v",
				in.Name, in.Format, Formats)
		}

		p, err := insnmap.ParsePattern(in.Pattern)
		if err != nil {
			return fmt.Errorf("instruction %s: %w", in.Name, err)
		}
		if p.Width != t.Width {
			return fmt.Errorf("instruction %s: %w: pattern has %d bits, table has %d",
				in.Name, insnmap.ErrWidth, p.Width, t.Width)
		}

		in.Code, in.Mask = p.Code, p.Mask
	}

	return nil
}

func validFormat(f string) bool {
	for _, valid := range Formats {
		if f == valid {
			return true
		}
	}
	return false
}

// Registrar returns a registrar adding every table row, in table order.
func (t *Table) Registrar() insnmap.Registrar[*Instruction] {
	return func(m *insnmap.Map[*Instruction]) error {
		entries := make([]insnmap.Entry[*Instruction], len(t.Instructions))

		for i := range t.Instructions {
			in := &t.Instructions[i]
			entries[i] = insnmap.Entry[*Instruction]{
				Name:    in.Name,
				Code:    in.Code,
				Mask:    in.Mask,
				Payload: in,
			}
		}

		return m.RegisterAll(entries...)
	}
}

// Build validates the table and builds a frozen map out of it.
func (t *Table) Build(opts ...insnmap.Option) (*insnmap.Map[*Instruction], error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	opts = append([]insnmap.Option{insnmap.WithCapacity(len(t.Instructions))}, opts...)

	return insnmap.Build(t.Width, []insnmap.Registrar[*Instruction]{t.Registrar()}, opts...)
}
