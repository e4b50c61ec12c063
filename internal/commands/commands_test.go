package commands

import (
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	args, ok := Parse("cmd press -id radius_up")
	require.True(t, ok)
	assert.Equal(t, []string{"press", "-id", "radius_up"}, args)

	args, ok = Parse("cmd   ")
	assert.True(t, ok)
	assert.Nil(t, args)

	_, ok = Parse("hello there")
	assert.False(t, ok)
	_, ok = Parse("CMD reset")
	assert.False(t, ok)
}

func TestExecuteReadsFlags(t *testing.T) {
	r := NewRegistry()
	fs := flag.NewFlagSet("press", flag.ContinueOnError)
	id := fs.String("id", "", "widget id")
	var got string
	r.Register("press", "-id <widget>", fs, func() error {
		got = *id
		return nil
	})

	require.NoError(t, r.Execute([]string{"press", "-id", "clip_up"}))
	assert.Equal(t, "clip_up", got)
}

func TestExecuteErrors(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register("reset", "", nil, func() error { return boom })

	assert.Error(t, r.Execute(nil))
	assert.ErrorIs(t, r.Execute([]string{"nope"}), ErrUnknown)
	assert.ErrorIs(t, r.Execute([]string{"reset"}), boom)
	assert.Error(t, r.Execute([]string{"reset", "-x"}))
}

func TestSubmit(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register("env", "next environment", nil, func() error {
		calls++
		return nil
	})

	handled, err := r.Submit("cmd env")
	assert.True(t, handled)
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)

	handled, err = r.Submit("just chatting")
	assert.False(t, handled)
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestHelpIsSorted(t *testing.T) {
	r := NewRegistry()
	r.Register("reset", "back to the dome", nil, func() error { return nil })
	r.Register("env", "next environment", nil, func() error { return nil })
	assert.Equal(t, []string{"env", "reset"}, r.Names())
	assert.Equal(t, []string{"env  next environment", "reset  back to the dome"}, r.Help())
}
