// Package level loads, validates and applies level layouts
package level

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/ripple/engine"
	"github.com/lixenwraith/ripple/music"
	"github.com/lixenwraith/ripple/vmath"
)

// MaxFileSize bounds level files read from disk
const MaxFileSize = 1 << 20

// Object kinds accepted in level files
const (
	KindNote      = "note"
	KindActivator = "activator"
	KindMain      = "main"
)

var (
	// ErrNoMainActivator is returned for a level without exactly one main activator
	ErrNoMainActivator = errors.New("level must place exactly one main activator")
	// ErrUnknownLevel is returned by Builtin for an unknown name
	ErrUnknownLevel = errors.New("unknown level")
)

//go:embed levels/*.yaml
var builtinFS embed.FS

var validate = newValidator()

// ScaleConfig selects the scale notes are voiced in
type ScaleConfig struct {
	Root string `yaml:"root" validate:"omitempty,note"`
	Mode string `yaml:"mode" validate:"omitempty,oneof=natural_minor minor major pentatonic"`
}

// ObjectConfig is one placed object
type ObjectConfig struct {
	Kind string  `yaml:"kind" validate:"required,oneof=note activator main"`
	X    float64 `yaml:"x" validate:"finite"`
	Y    float64 `yaml:"y" validate:"finite"`
}

// Config is a level file
type Config struct {
	Name        string         `yaml:"name" validate:"required,max=64"`
	Description string         `yaml:"description" validate:"max=256"`
	GrowRate    float64        `yaml:"grow_rate" validate:"gt=0,finite"`
	Scale       ScaleConfig    `yaml:"scale"`
	Objects     []ObjectConfig `yaml:"objects" validate:"required,min=1,max=4096,dive"`
}

// mustRegister panics on a bad tag so a level rule can never be silently skipped
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("level: register %q validation: %v", tag, err))
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "note", func(fl validator.FieldLevel) bool {
		_, err := music.ParseNote(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "finite", func(fl validator.FieldLevel) bool {
		return vmath.V(fl.Field().Float(), 0).IsFinite()
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		cfg := sl.Current().Interface().(Config)
		mains := 0
		for _, obj := range cfg.Objects {
			if obj.Kind == KindMain {
				mains++
			}
		}
		if mains != 1 {
			sl.ReportError(cfg.Objects, "Objects", "objects", "onemain", "")
		}
	}, Config{})
	return v
}

// Validate checks field constraints and the single-main rule
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() == "onemain" {
					return fmt.Errorf("level %q: %w", c.Name, ErrNoMainActivator)
				}
			}
		}
		return fmt.Errorf("level %q: %w", c.Name, err)
	}
	return nil
}

// MusicScale builds the configured scale, natural minor on A when unset
func (c *Config) MusicScale() (music.Scale, error) {
	root := music.A
	if c.Scale.Root != "" {
		n, err := music.ParseNote(c.Scale.Root)
		if err != nil {
			return nil, err
		}
		root = n
	}
	return music.NewScale(c.Scale.Mode, root)
}

// Parse decodes and validates a level document
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse level: empty document")
		}
		return nil, fmt.Errorf("parse level: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads a level file from disk
func Load(filename string) (*Config, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("load level %s: file too large: %d bytes (max %d)", filename, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("load level: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// Builtin returns an embedded level by name
func Builtin(name string) (*Config, error) {
	data, err := builtinFS.ReadFile(path.Join("levels", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLevel, name)
	}
	return Parse(data)
}

// Names lists the embedded levels, sorted
func Names() []string {
	entries, _ := builtinFS.ReadDir("levels")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	slices.Sort(names)
	return names
}

// Resolve loads ref as a built-in name first, then as a file path
func Resolve(ref string) (*Config, error) {
	if slices.Contains(Names(), ref) {
		return Builtin(ref)
	}
	return Load(ref)
}

// Apply replaces the engine layout with the level and sets its grow rate
// The engine must be in the build phase
func (c *Config) Apply(e *engine.Engine) error {
	if err := e.Clear(); err != nil {
		return fmt.Errorf("apply level %q: %w", c.Name, err)
	}
	if err := e.SetGrowRate(c.GrowRate); err != nil {
		return fmt.Errorf("apply level %q: %w", c.Name, err)
	}
	for i, obj := range c.Objects {
		pos := vmath.V(obj.X, obj.Y)
		var err error
		switch obj.Kind {
		case KindMain:
			_, err = e.PlaceMain(pos)
		case KindActivator:
			_, err = e.Place(engine.KindActivator, pos)
		case KindNote:
			_, err = e.Place(engine.KindNote, pos)
		default:
			err = fmt.Errorf("unknown kind %q", obj.Kind)
		}
		if err != nil {
			return fmt.Errorf("apply level %q object %d: %w", c.Name, i, err)
		}
	}
	return nil
}
