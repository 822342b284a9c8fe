package convert

import (
	"errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndFind(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Len())

	RegisterFunc(r, func(s string) (int, error) {
		return strconv.Atoi(s)
	})
	require.Equal(t, 1, r.Len())

	fn, ok := r.Find(reflect.TypeFor[string](), reflect.TypeFor[int]())
	require.True(t, ok)

	out, err := fn("17")
	require.NoError(t, err)
	assert.Equal(t, 17, out)

	_, ok = r.Find(reflect.TypeFor[int](), reflect.TypeFor[string]())
	assert.False(t, ok)
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()

	RegisterFunc(r, func(s string) (int, error) { return 1, nil })
	RegisterFunc(r, func(s string) (int, error) { return 2, nil })
	assert.Equal(t, 1, r.Len())

	fn, ok := r.Find(reflect.TypeFor[string](), reflect.TypeFor[int]())
	require.True(t, ok)

	out, err := fn("anything")
	require.NoError(t, err)
	assert.Equal(t, 2, out)
}

func TestRegisterNilPanics(t *testing.T) {
	r := NewRegistry()

	assert.Panics(t, func() {
		r.Register(reflect.TypeFor[string](), reflect.TypeFor[int](), nil)
	})
}

func TestRegisteredFuncRejectsWrongInput(t *testing.T) {
	r := NewRegistry()
	RegisterFunc(r, func(s string) (int, error) { return 0, nil })

	fn, ok := r.Find(reflect.TypeFor[string](), reflect.TypeFor[int]())
	require.True(t, ok)

	_, err := fn(3.14)
	assert.Error(t, err)
}

func TestRuleConsultedAfterTable(t *testing.T) {
	r := NewRegistry()

	tableErr := errors.New("table")
	RegisterFunc(r, func(s string) (int, error) { return 0, tableErr })

	r.AddRule(func(src, dst reflect.Type) (Func, bool) {
		return func(any) (any, error) { return 99, nil }, true
	})

	// Exact table entry wins over the catch-all rule.
	fn, ok := r.Find(reflect.TypeFor[string](), reflect.TypeFor[int]())
	require.True(t, ok)
	_, err := fn("x")
	assert.ErrorIs(t, err, tableErr)

	// Unlisted pair falls through to the rule.
	fn, ok = r.Find(reflect.TypeFor[bool](), reflect.TypeFor[int]())
	require.True(t, ok)
	out, err := fn(true)
	require.NoError(t, err)
	assert.Equal(t, 99, out)
}
