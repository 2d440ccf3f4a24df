package level

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ripple/engine"
	"github.com/lixenwraith/ripple/music"
	"github.com/lixenwraith/ripple/vmath"
)

const validLevel = `
name: tiny
grow_rate: 25
scale:
  root: C
  mode: major
objects:
  - {kind: main, x: 0, y: 0}
  - {kind: note, x: 10, y: 0}
  - {kind: activator, x: -5, y: 5}
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validLevel))
	require.NoError(t, err)

	assert.Equal(t, "tiny", cfg.Name)
	assert.Equal(t, 25.0, cfg.GrowRate)
	require.Len(t, cfg.Objects, 3)
	assert.Equal(t, KindActivator, cfg.Objects[2].Kind)

	scale, err := cfg.MusicScale()
	require.NoError(t, err)
	assert.Equal(t, music.C, scale.Root())
	assert.Equal(t, music.Major(music.C).Steps(), scale.Steps())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		mainErr bool
	}{
		{"empty", ``, false},
		{"zero grow rate", "name: x\ngrow_rate: 0\nobjects: [{kind: main}]", false},
		{"negative grow rate", "name: x\ngrow_rate: -3\nobjects: [{kind: main}]", false},
		{"unknown kind", "name: x\ngrow_rate: 1\nobjects: [{kind: main}, {kind: drum}]", false},
		{"unknown field", "name: x\ngrow_rate: 1\ncolor: red\nobjects: [{kind: main}]", false},
		{"bad root", "name: x\ngrow_rate: 1\nscale: {root: H}\nobjects: [{kind: main}]", false},
		{"bad mode", "name: x\ngrow_rate: 1\nscale: {root: A, mode: lydian}\nobjects: [{kind: main}]", false},
		{"no main", "name: x\ngrow_rate: 1\nobjects: [{kind: note}]", true},
		{"two mains", "name: x\ngrow_rate: 1\nobjects: [{kind: main}, {kind: main, x: 1}]", true},
		{"missing name", "grow_rate: 1\nobjects: [{kind: main}]", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			if tt.mainErr {
				assert.ErrorIs(t, err, ErrNoMainActivator)
			}
		})
	}
}

func TestValidatorCustomRules(t *testing.T) {
	assert.NoError(t, validate.Var("Cs", "note"))
	assert.Error(t, validate.Var("H", "note"))
	assert.NoError(t, validate.Var(1.5, "finite"))
	assert.Error(t, validate.Var(math.NaN(), "finite"))
	assert.Error(t, validate.Var(math.Inf(1), "finite"))
}

func TestMustRegisterPanicsOnBadTag(t *testing.T) {
	v := validator.New()
	assert.Panics(t, func() {
		mustRegister(v, "", func(validator.FieldLevel) bool { return true })
	})
	assert.NotPanics(t, func() {
		mustRegister(v, "always", func(validator.FieldLevel) bool { return true })
	})
}

func TestBuiltinLevels(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"chain", "creative", "demo"}, names)

	for _, name := range names {
		cfg, err := Builtin(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, cfg.Name)
	}

	_, err := Builtin("missing")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tiny.yaml")
	require.NoError(t, os.WriteFile(file, []byte(validLevel), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "tiny", cfg.Name)

	cfg, err = Resolve("demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Name)

	cfg, err = Resolve(file)
	require.NoError(t, err)
	assert.Equal(t, "tiny", cfg.Name)

	_, err = Load(filepath.Join(dir, "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApply(t *testing.T) {
	cfg, err := Parse([]byte(validLevel))
	require.NoError(t, err)

	e := engine.New()
	_, err = e.Place(engine.KindNote, vmath.V(99, 99))
	require.NoError(t, err)

	require.NoError(t, cfg.Apply(e))
	assert.Equal(t, 25.0, e.GrowRate())

	objs := e.Objects()
	require.Len(t, objs, 3, "previous layout is replaced")
	assert.True(t, objs[0].Main)
	assert.Equal(t, engine.KindNote, objs[1].Kind)
	assert.Equal(t, vmath.V(10, 0), objs[1].Pos)
	assert.Equal(t, engine.KindActivator, objs[2].Kind)

	require.NoError(t, e.EnterExecution())
	assert.ErrorIs(t, cfg.Apply(e), engine.ErrExecutionActive)
}
