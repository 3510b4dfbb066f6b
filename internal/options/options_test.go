package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testTarget struct {
	limit int
	name  string
}

func (c *testTarget) setLimit(n int) error {
	if n < 0 {
		return errors.New("limit cannot be negative")
	}
	c.limit = n

	return nil
}

func TestNew(t *testing.T) {
	target := &testTarget{}

	opt := New(func(c *testTarget) error {
		return c.setLimit(42)
	})
	require.NoError(t, opt.apply(target))
	require.Equal(t, 42, target.limit)

	// Errors from the option function propagate.
	opt = New(func(c *testTarget) error {
		return c.setLimit(-1)
	})
	err := opt.apply(target)
	require.Error(t, err)
	require.Contains(t, err.Error(), "limit cannot be negative")
}

func TestNoError(t *testing.T) {
	target := &testTarget{}

	opt := NoError(func(c *testTarget) {
		c.name = "Demo"
	})
	require.NoError(t, opt.apply(target))
	require.Equal(t, "Demo", target.name)
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		target := &testTarget{}

		err := Apply(target,
			New(func(c *testTarget) error { return c.setLimit(1) }),
			New(func(c *testTarget) error { return c.setLimit(2) }),
			NoError(func(c *testTarget) { c.name = "Demo" }),
		)
		require.NoError(t, err)
		require.Equal(t, 2, target.limit)
		require.Equal(t, "Demo", target.name)
	})

	t.Run("stops at first error", func(t *testing.T) {
		target := &testTarget{}

		err := Apply(target,
			New(func(c *testTarget) error { return c.setLimit(5) }),
			New(func(c *testTarget) error { return c.setLimit(-1) }),
			NoError(func(c *testTarget) { c.name = "unreached" }),
		)
		require.Error(t, err)
		require.Equal(t, 5, target.limit)
		require.Equal(t, "", target.name)
	})

	t.Run("no options is a no-op", func(t *testing.T) {
		target := &testTarget{}
		require.NoError(t, Apply(target))
		require.Equal(t, &testTarget{}, target)
	})
}

func TestOption_HelperPattern(t *testing.T) {
	// The WithXxx helper shape used by the table and packet packages.
	withLimit := func(n int) Option[*testTarget] {
		return New(func(c *testTarget) error { return c.setLimit(n) })
	}
	withName := func(name string) Option[*testTarget] {
		return NoError(func(c *testTarget) { c.name = name })
	}

	target := &testTarget{}
	require.NoError(t, Apply(target, withLimit(100), withName("Demo")))
	require.Equal(t, 100, target.limit)
	require.Equal(t, "Demo", target.name)
}
