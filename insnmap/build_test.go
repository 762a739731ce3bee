package insnmap

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	m, err := Build(32, []Registrar[string]{
		EntryRegistrar(
			MustEntry("lui", "32b?????????????????????????0110111", "lui"),
			MustEntry("auipc", "32b?????????????????????????0010111", "auipc"),
		),
		func(m *Map[string]) error {
			return m.RegisterPattern("jal", "32b?????????????????????????1101111", "jal")
		},
	}, WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	require.NoError(t, err)
	assert.True(t, m.Frozen())
	assert.Equal(t, 3, m.Len())
	assert.ErrorIs(t, m.Register(MustEntry("ecall", "32b00000000000000000000000001110011", "ecall")), ErrFrozen)

	for _, tcase := range []*struct {
		Word   uint64
		ExpVal string
	}{
		{0x000012b7, "lui"},   // lui t0, 1
		{0x00000297, "auipc"}, // auipc t0, 0
		{0x0000006f, "jal"},   // jal x0, 0
	} {
		val, err := m.Decode(tcase.Word)

		require.NoError(t, err)
		assert.Equal(t, tcase.ExpVal, val)
	}

	assert.Contains(t, buf.String(), "instruction map frozen")
	assert.Contains(t, buf.String(), `"nodes_before"`)
}

func TestBuild_Failure(t *testing.T) {
	t.Parallel()

	var (
		buf   bytes.Buffer
		boom  = errors.New("boom")
		calls int
	)

	m, err := Build(8, []Registrar[string]{
		EntryRegistrar(entry("a", 0x01, 0xFF), entry("b", 0x01, 0x0F)),
		func(*Map[string]) error { calls++; return boom },
		func(*Map[string]) error { calls++; return nil },
	}, WithLogger(zerolog.New(&buf)))

	assert.Nil(t, m)
	assert.Equal(t, 2, calls)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)

	var conflict *ConflictError
	assert.ErrorAs(t, errs[0], &conflict)
	assert.ErrorIs(t, errs[1], boom)

	assert.Contains(t, buf.String(), "instruction map build failed")
	assert.Contains(t, buf.String(), `"failures":2`)
}

func TestBuild_Width(t *testing.T) {
	t.Parallel()

	m, err := Build[string](0, nil)

	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrWidth)

	m, err = Build[string](16, nil)

	require.NoError(t, err)
	assert.True(t, m.Frozen())
	assert.Zero(t, m.Len())
}
