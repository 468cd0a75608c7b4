package react

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInput(t *testing.T) {
	t.Run("holds the initial value", func(t *testing.T) {
		r := New[int]()

		a := r.CreateInput(42)

		v, ok := r.Value(a)
		assert.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("ids are distinct and stable", func(t *testing.T) {
		r := New[int]()

		a := r.CreateInput(1)
		b := r.CreateInput(2)
		assert.NotEqual(t, a, b)

		va, _ := r.Value(a)
		vb, _ := r.Value(b)
		assert.Equal(t, 1, va)
		assert.Equal(t, 2, vb)
	})
}

func TestCreateCompute(t *testing.T) {
	t.Run("evaluates immediately against current values", func(t *testing.T) {
		r := New[int]()

		a := r.CreateInput(1)
		b := r.CreateInput(2)
		c, err := r.CreateCompute([]CellID{a, b}, func(v []int) int {
			return v[0] + v[1]
		})
		require.NoError(t, err)

		v, ok := r.Value(c)
		assert.True(t, ok)
		assert.Equal(t, 3, v)
	})

	t.Run("preserves declared argument order", func(t *testing.T) {
		r := New[int]()

		a := r.CreateInput(10)
		b := r.CreateInput(3)

		sub, err := r.CreateCompute([]CellID{a, b}, func(v []int) int {
			return v[0] - v[1]
		})
		require.NoError(t, err)

		flipped, err := r.CreateCompute([]CellID{b, a}, func(v []int) int {
			return v[0] - v[1]
		})
		require.NoError(t, err)

		v, _ := r.Value(sub)
		assert.Equal(t, 7, v)
		v, _ = r.Value(flipped)
		assert.Equal(t, -7, v)
	})

	t.Run("can depend on other computed cells", func(t *testing.T) {
		r := New[int]()

		a := r.CreateInput(1)
		double, err := r.CreateCompute([]CellID{a}, func(v []int) int {
			return v[0] * 2
		})
		require.NoError(t, err)

		plustwo, err := r.CreateCompute([]CellID{double}, func(v []int) int {
			return v[0] + 2
		})
		require.NoError(t, err)

		v, _ := r.Value(plustwo)
		assert.Equal(t, 4, v)
	})

	t.Run("reports every missing dependency", func(t *testing.T) {
		r := New[int]()

		a := r.CreateInput(1)

		_, err := r.CreateCompute([]CellID{a, 42, 7}, func(v []int) int {
			return v[0]
		})

		var missing *MissingDependenciesError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []CellID{42, 7}, missing.Missing)
	})

	t.Run("leaves the graph untouched on failure", func(t *testing.T) {
		r := New[int]()

		a := r.CreateInput(1)

		_, err := r.CreateCompute([]CellID{a, 99}, func(v []int) int {
			return v[0]
		})
		require.Error(t, err)

		// the failed cell must not have been inserted, and the failed
		// edge must not fire anything on a later write
		b := r.CreateInput(2)
		assert.Equal(t, a+1, b)

		require.NoError(t, r.SetValue(a, 5))
		v, _ := r.Value(a)
		assert.Equal(t, 5, v)
	})
}

func TestValue(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		r := New[int]()

		_, ok := r.Value(99)
		assert.False(t, ok)
	})
}

func TestSetValueErrors(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		r := New[int]()

		err := r.SetValue(99, 1)
		assert.ErrorIs(t, err, ErrMissingCell)
	})

	t.Run("computed cell", func(t *testing.T) {
		r := New[int]()

		a := r.CreateInput(1)
		c, err := r.CreateCompute([]CellID{a}, func(v []int) int {
			return v[0]
		})
		require.NoError(t, err)

		err = r.SetValue(c, 10)
		assert.ErrorIs(t, err, ErrExpectedInputCell)

		// the failed write must not have touched the cache
		v, _ := r.Value(c)
		assert.Equal(t, 1, v)
	})
}

func TestAddCallbackErrors(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		r := New[int]()

		_, err := r.AddCallback(99, func(int) {})
		assert.ErrorIs(t, err, ErrMissingCell)
	})

	t.Run("input cell", func(t *testing.T) {
		r := New[int]()

		a := r.CreateInput(1)
		_, err := r.AddCallback(a, func(int) {})
		assert.ErrorIs(t, err, ErrExpectedComputedCell)
	})
}

func TestRemoveCallbackErrors(t *testing.T) {
	t.Run("unknown cell", func(t *testing.T) {
		r := New[int]()

		err := r.RemoveCallback(99, 0)
		assert.ErrorIs(t, err, ErrMissingCell)
	})

	t.Run("input cell", func(t *testing.T) {
		r := New[int]()

		a := r.CreateInput(1)
		err := r.RemoveCallback(a, 0)
		assert.ErrorIs(t, err, ErrExpectedComputedCell)
	})

	t.Run("unknown callback id", func(t *testing.T) {
		r := New[int]()

		a := r.CreateInput(1)
		c, err := r.CreateCompute([]CellID{a}, func(v []int) int {
			return v[0]
		})
		require.NoError(t, err)

		err = r.RemoveCallback(c, 123)
		assert.ErrorIs(t, err, ErrCallbackDoesntExist)
	})

	t.Run("double removal", func(t *testing.T) {
		r := New[int]()

		a := r.CreateInput(1)
		c, err := r.CreateCompute([]CellID{a}, func(v []int) int {
			return v[0]
		})
		require.NoError(t, err)

		cb, err := r.AddCallback(c, func(int) {})
		require.NoError(t, err)

		require.NoError(t, r.RemoveCallback(c, cb))
		err = r.RemoveCallback(c, cb)
		assert.ErrorIs(t, err, ErrCallbackDoesntExist)
	})
}

func TestGenericValues(t *testing.T) {
	t.Run("strings", func(t *testing.T) {
		r := New[string]()

		first := r.CreateInput("hello")
		second := r.CreateInput("world")
		joined, err := r.CreateCompute([]CellID{first, second}, func(v []string) string {
			return v[0] + " " + v[1]
		})
		require.NoError(t, err)

		v, _ := r.Value(joined)
		assert.Equal(t, "hello world", v)

		require.NoError(t, r.SetValue(first, "goodbye"))
		v, _ = r.Value(joined)
		assert.Equal(t, "goodbye world", v)
	})
}
