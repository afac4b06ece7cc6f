package adapter_test

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/sghaida/goadapt/adapter"
	firstident "github.com/sghaida/goadapt/adapter/internal/first/ident"
	secondident "github.com/sghaida/goadapt/adapter/internal/second/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// greeterRouter is the hand-written equivalent of what cmd/adaptgen
// emits: a concrete type implementing the target by forwarding every
// method to the handler.
type greeterRouter struct {
	h *adapter.Handler[adapter.Greeter]
}

func (r *greeterRouter) Greet(name string) string {
	out, err := r.h.Call(r, "Greet", name)
	if err != nil {
		panic(err)
	}
	res0, _ := out[0].(string)
	return res0
}

func (r *greeterRouter) Farewell(name string) string {
	out, err := r.h.Call(r, "Farewell", name)
	if err != nil {
		panic(err)
	}
	res0, _ := out[0].(string)
	return res0
}

func (r *greeterRouter) Silence() {
	if _, err := r.h.Call(r, "Silence"); err != nil {
		panic(err)
	}
}

// Construction

func TestNew_Succeeds(t *testing.T) {
	t.Parallel()

	h, err := adapter.New[adapter.Greeter](&adapter.Phrasebook{}, adapter.Courtesies{})
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, reflect.TypeOf((*adapter.Greeter)(nil)).Elem(), h.Target())

	m, ok := h.Method("Greet")
	require.True(t, ok)
	assert.Equal(t, "Greet", m.Name)
	_, ok = h.Method("Shout")
	assert.False(t, ok)
}

func TestNew_TargetNotInterface(t *testing.T) {
	t.Parallel()

	_, err := adapter.New[adapter.Phrasebook](&adapter.Phrasebook{}, adapter.Courtesies{})
	require.Error(t, err)

	var nie adapter.NotInterfaceError
	require.ErrorAs(t, err, &nie)
	assert.Equal(t, reflect.TypeOf(adapter.Phrasebook{}), nie.Type)
}

func TestNew_NilInstances(t *testing.T) {
	t.Parallel()

	_, err := adapter.New[adapter.Greeter](nil, adapter.Courtesies{})
	require.ErrorIs(t, err, adapter.ErrNilAdaptee)

	_, err = adapter.New[adapter.Greeter](&adapter.Phrasebook{}, nil)
	require.ErrorIs(t, err, adapter.ErrNilAdapter)
}

type hiddenGreeter struct{}

func (hiddenGreeter) Greet(name string) string    { return name }
func (hiddenGreeter) Farewell(name string) string { return name }
func (hiddenGreeter) Silence()                    {}

// TestNew_UnexportedTypes verifies the visibility precondition fires for
// both roles before any coverage checking happens: hiddenGreeter would
// cover the whole target, yet construction still fails.
func TestNew_UnexportedTypes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		adaptee  any
		adapter  any
		wantRole string
	}{
		{name: "unexported adaptee", adaptee: hiddenGreeter{}, adapter: adapter.Courtesies{}, wantRole: "adaptee"},
		{name: "unexported adapter", adaptee: &adapter.Phrasebook{}, adapter: hiddenGreeter{}, wantRole: "adapter"},
		{name: "anonymous adaptee", adaptee: struct{}{}, adapter: adapter.Courtesies{}, wantRole: "adaptee"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := adapter.New[adapter.Greeter](tc.adaptee, tc.adapter)
			require.Error(t, err)

			var ute adapter.UnexportedTypeError
			require.ErrorAs(t, err, &ute)
			assert.Equal(t, tc.wantRole, ute.Role)
		})
	}
}

func TestNew_IncompleteTarget(t *testing.T) {
	t.Parallel()

	// Phrasebook lacks Farewell and Noop contributes nothing.
	_, err := adapter.New[adapter.Greeter](&adapter.Phrasebook{}, adapter.Noop{})
	require.Error(t, err)

	var mme adapter.MissingMethodsError
	require.ErrorAs(t, err, &mme)
	require.Len(t, mme.Missing, 1)
	assert.Equal(t, "Farewell(string)", mme.Missing[0].String())
	assert.Equal(t, "adapter: target methods not implemented: [Farewell(string)]", err.Error())
}

// TestNew_IncompleteTarget_SortedMessage verifies the failure enumerates
// every uncovered signature deterministically.
func TestNew_IncompleteTarget_SortedMessage(t *testing.T) {
	t.Parallel()

	_, err := adapter.New[adapter.Greeter](adapter.Noop{}, adapter.Noop{})
	require.Error(t, err)

	var mme adapter.MissingMethodsError
	require.ErrorAs(t, err, &mme)
	require.Len(t, mme.Missing, 3)
	assert.Equal(t, "Farewell(string)", mme.Missing[0].String())
	assert.Equal(t, "Greet(string)", mme.Missing[1].String())
	assert.Equal(t, "Silence()", mme.Missing[2].String())
}

// TestNew_PromotedMethodDoesNotCover verifies the adapter's declared-only
// scope: a method the adapter merely inherits from an embedded type does
// not count towards coverage.
func TestNew_PromotedMethodDoesNotCover(t *testing.T) {
	t.Parallel()

	// ShareAdapter promotes Shared from SharedBase; with an adaptee that
	// lacks Shared, the target is not coverable.
	_, err := adapter.New[adapter.Sharing](adapter.Noop{}, adapter.ShareAdapter{})
	require.Error(t, err)

	var mme adapter.MissingMethodsError
	require.ErrorAs(t, err, &mme)
	require.Len(t, mme.Missing, 1)
	assert.Equal(t, "Shared()", mme.Missing[0].String())
}

// tokenSink consumes a token from internal/first/ident; the sibling
// package's identically rendered type must not satisfy it.
type tokenSink interface {
	Consume(tok firstident.Token) int
}

// RightSink covers tokenSink with the correct parameter type.
type RightSink struct{}

func (RightSink) Consume(tok firstident.Token) int { return tok.V }

// WrongSink takes the same-named type from the sibling package.
type WrongSink struct{}

func (WrongSink) Consume(tok secondident.Token) int { return tok.V }

// TestNew_SameBaseNamePackageMismatch verifies the completeness check
// fails fast when the only candidate method takes a different type that
// merely renders to the same short name, and that the genuinely matching
// type still constructs and dispatches.
func TestNew_SameBaseNamePackageMismatch(t *testing.T) {
	t.Parallel()

	_, err := adapter.New[tokenSink](WrongSink{}, adapter.Noop{})
	require.Error(t, err)

	var mme adapter.MissingMethodsError
	require.ErrorAs(t, err, &mme)
	require.Len(t, mme.Missing, 1)
	assert.Equal(t, "Consume", mme.Missing[0].Name())
	assert.Contains(t, mme.Missing[0].String(), "first/ident.Token")

	h, err := adapter.New[tokenSink](RightSink{}, adapter.Noop{})
	require.NoError(t, err)

	out, err := h.Call(nil, "Consume", firstident.Token{V: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, out[0])
}

// Dispatch

// TestDispatch_AdapterShadowsAdaptee verifies the precedence property:
// both layers cover Greet, and the adapter's sentinel wins.
func TestDispatch_AdapterShadowsAdaptee(t *testing.T) {
	t.Parallel()

	h, err := adapter.New[adapter.Greeter](&adapter.Phrasebook{}, adapter.Courtesies{})
	require.NoError(t, err)

	var g adapter.Greeter = &greeterRouter{h: h}
	assert.Equal(t, "good day ada", g.Greet("ada"))
	assert.Equal(t, "goodbye ada", g.Farewell("ada"))

	assert.Equal(t, adapter.SourceAdapter, h.Source(adapter.KeyFor("Greet", reflect.TypeOf(""))))
	assert.Equal(t, adapter.SourceAdaptee, h.Source(adapter.KeyFor("Silence")))
	assert.Equal(t, adapter.SourceNone, h.Source(adapter.KeyFor("Shout")))
}

// TestDispatch_AdapteeServesUncoveredOps verifies fallthrough to the
// adaptee, including mutation of the adaptee's own state.
func TestDispatch_AdapteeServesUncoveredOps(t *testing.T) {
	t.Parallel()

	book := &adapter.Phrasebook{}
	h, err := adapter.New[adapter.Greeter](book, adapter.Courtesies{})
	require.NoError(t, err)

	g := &greeterRouter{h: h}
	g.Silence()
	g.Silence()
	assert.Equal(t, 2, book.SilenceCalls)
}

// TestDispatch_EveryTargetMethodRoutes is the completeness invariant at
// call time: a constructed handler never reports a missing binding for
// any operation the target declares.
func TestDispatch_EveryTargetMethodRoutes(t *testing.T) {
	t.Parallel()

	h, err := adapter.New[adapter.Greeter](&adapter.Phrasebook{}, adapter.Courtesies{})
	require.NoError(t, err)

	target := h.Target()
	for i := 0; i < target.NumMethod(); i++ {
		m := target.Method(i)
		args := make([]reflect.Value, 0, m.Type.NumIn())
		for j := 0; j < m.Type.NumIn(); j++ {
			args = append(args, reflect.Zero(m.Type.In(j)))
		}

		_, err := h.Invoke(&greeterRouter{h: h}, m, args)
		require.NoError(t, err, "method %s", m.Name)
	}
}

// TestInvoke_MissingBindingForForeignMethod drives Invoke with a method
// descriptor the target never declared; the lookup misses every layer and
// surfaces the internal-contract error instead of panicking.
func TestInvoke_MissingBindingForForeignMethod(t *testing.T) {
	t.Parallel()

	h, err := adapter.New[adapter.Greeter](&adapter.Phrasebook{}, adapter.Courtesies{})
	require.NoError(t, err)

	foreign := reflect.Method{Name: "Shout", Type: reflect.TypeOf(func() {})}
	_, err = h.Invoke(nil, foreign, nil)
	require.Error(t, err)

	var mbe adapter.MissingBindingError
	require.ErrorAs(t, err, &mbe)
	assert.Equal(t, adapter.KeyFor("Shout"), mbe.Key)
}

// TestDispatch_DeclaredOnlyShadowing verifies a method the adapter shares
// with the adaptee via an embedded type routes to the adaptee, not the
// promotion.
func TestDispatch_DeclaredOnlyShadowing(t *testing.T) {
	t.Parallel()

	h, err := adapter.New[adapter.Sharing](adapter.ShareAdaptee{}, adapter.ShareAdapter{})
	require.NoError(t, err)

	assert.Equal(t, adapter.SourceAdaptee, h.Source(adapter.KeyFor("Shared")))
	assert.Equal(t, adapter.SourceAdapter, h.Source(adapter.KeyFor("Extra")))

	out, err := h.Call(nil, "Shared")
	require.NoError(t, err)
	assert.Equal(t, "adaptee", out[0])
}

// Failure transparency

// TestDispatch_ErrorValuePropagatesUnwrapped verifies an error produced
// by the serving operation arrives as that exact value.
func TestDispatch_ErrorValuePropagatesUnwrapped(t *testing.T) {
	t.Parallel()

	h, err := adapter.New[adapter.Flaky](adapter.Grenade{}, adapter.Noop{})
	require.NoError(t, err)

	out, err := h.Call(nil, "Fail")
	require.NoError(t, err)
	require.Len(t, out, 1)

	got, ok := out[0].(error)
	require.True(t, ok)
	assert.Equal(t, adapter.ErrBoom, got)
	assert.True(t, errors.Is(got, adapter.ErrBoom))
}

// TestDispatch_PanicPropagates verifies a panic raised by the serving
// operation reaches the caller unchanged.
func TestDispatch_PanicPropagates(t *testing.T) {
	t.Parallel()

	h, err := adapter.New[adapter.Flaky](adapter.Grenade{}, adapter.Noop{})
	require.NoError(t, err)

	require.PanicsWithValue(t, "kaboom", func() {
		_, _ = h.Call(nil, "Explode")
	})
}

// Call argument handling

func TestCall_UnknownMethod(t *testing.T) {
	t.Parallel()

	h, err := adapter.New[adapter.Greeter](&adapter.Phrasebook{}, adapter.Courtesies{})
	require.NoError(t, err)

	_, err = h.Call(nil, "Shout", "ada")
	require.Error(t, err)

	var ume adapter.UnknownMethodError
	require.ErrorAs(t, err, &ume)
	assert.Equal(t, "Shout", ume.Name)
}

func TestCall_ArgumentErrors(t *testing.T) {
	t.Parallel()

	h, err := adapter.New[adapter.Greeter](&adapter.Phrasebook{}, adapter.Courtesies{})
	require.NoError(t, err)

	_, err = h.Call(nil, "Greet")
	var ace adapter.ArgumentCountError
	require.ErrorAs(t, err, &ace)
	assert.Equal(t, "Greet", ace.Name)
	assert.Equal(t, 1, ace.Want)
	assert.Equal(t, 0, ace.Got)

	_, err = h.Call(nil, "Greet", 42)
	var ate adapter.ArgumentTypeError
	require.ErrorAs(t, err, &ate)
	assert.Equal(t, "Greet", ate.Name)
	assert.Equal(t, 0, ate.Index)
	assert.Equal(t, reflect.TypeOf(""), ate.Want)
	assert.Equal(t, reflect.TypeOf(0), ate.Got)
}

// Variadic dispatch

func TestCall_Variadic(t *testing.T) {
	t.Parallel()

	h, err := adapter.New[adapter.Joiner](adapter.VariadicJoin{}, adapter.Noop{})
	require.NoError(t, err)

	out, err := h.Call(nil, "Join", "-", "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, "a-b-c", out[0])

	// Explicit bundle form.
	out, err = h.Call(nil, "Join", "-", []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, "x-y", out[0])

	// Empty tail.
	out, err = h.Call(nil, "Join", "-")
	require.NoError(t, err)
	assert.Equal(t, "", out[0])
}

// TestCall_VariadicServedBySliceProvider verifies a variadic target
// operation can be served by a provider taking a plain slice: the keys
// match and the bundle travels as one argument.
func TestCall_VariadicServedBySliceProvider(t *testing.T) {
	t.Parallel()

	h, err := adapter.New[adapter.Joiner](adapter.SliceJoin{}, adapter.Noop{})
	require.NoError(t, err)

	out, err := h.Call(nil, "Join", "+", "1", "2")
	require.NoError(t, err)
	assert.Equal(t, "1+2", out[0])
}

// Concurrency

// TestDispatch_ConcurrentCalls exercises read-only dispatch from many
// goroutines; run with -race.
func TestDispatch_ConcurrentCalls(t *testing.T) {
	t.Parallel()

	h, err := adapter.New[adapter.Greeter](&adapter.Phrasebook{}, adapter.Courtesies{})
	require.NoError(t, err)
	g := &greeterRouter{h: h}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = g.Greet("ada")
				_ = g.Farewell("ada")
			}
		}()
	}
	wg.Wait()
}

// Error strings

func TestErrors_StringForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "NotInterfaceError",
			err:  adapter.NotInterfaceError{Type: reflect.TypeOf(adapter.Phrasebook{})},
			want: "adapter: target type adapter.Phrasebook is not an interface",
		},
		{
			name: "UnexportedTypeError",
			err:  adapter.UnexportedTypeError{Role: "adaptee", Type: reflect.TypeOf(struct{}{})},
			want: "adapter: adaptee type struct {} needs to be exported",
		},
		{
			name: "DefaultBindError",
			err:  adapter.DefaultBindError{Name: "Empty", Reason: adapter.ErrBodyNotFunc},
			want: `adapter: default body "Empty": body is not a func`,
		},
		{
			name: "MissingMethodsError",
			err:  adapter.MissingMethodsError{Missing: []adapter.Key{adapter.KeyFor("Pop"), adapter.KeyFor("Top")}},
			want: "adapter: target methods not implemented: [Pop(), Top()]",
		},
		{
			name: "UnknownMethodError",
			err:  adapter.UnknownMethodError{Name: "Pop"},
			want: `adapter: target has no method "Pop"`,
		},
		{
			name: "ArgumentCountError",
			err:  adapter.ArgumentCountError{Name: "Push", Want: 1, Got: 2},
			want: "adapter: Push expects 1 argument(s), got 2",
		},
		{
			name: "ArgumentTypeError",
			err:  adapter.ArgumentTypeError{Name: "Push", Index: 0, Want: reflect.TypeOf(""), Got: reflect.TypeOf(0)},
			want: "adapter: Push argument 0 has wrong type (int, want string)",
		},
		{
			name: "MissingBindingError",
			err:  adapter.MissingBindingError{Key: adapter.KeyFor("Pop")},
			want: "adapter: no binding for Pop()",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestSource_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "adapter", adapter.SourceAdapter.String())
	assert.Equal(t, "adaptee", adapter.SourceAdaptee.String())
	assert.Equal(t, "default", adapter.SourceDefault.String())
	assert.Equal(t, "none", adapter.SourceNone.String())
}
