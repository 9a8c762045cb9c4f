package gin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParse_Bindings(t *testing.T) {
	src := `
include 'learners/baseline_config.gin'

# Benchmark parameters.
DataConfig.num_ways = 5
LearnerConfig.learning_rate = 0.0022026260483103913
LearnerConfig.pretrained_checkpoint = ''
LearnerConfig.decay_every = 5000
LearnerConfig.debug_log = False
weight_decay = 0.0
`
	frag, diags := Parse("entry.gin", []byte(src))
	require.False(t, diags.HasErrors(), "unexpected diagnostics: %s", diags.Error())

	require.Len(t, frag.Includes, 1)
	assert.Equal(t, "learners/baseline_config.gin", frag.Includes[0].Path)

	require.Len(t, frag.Bindings, 5)
	assert.Equal(t, "DataConfig.num_ways", frag.Bindings[0].Key.String())
	assert.True(t, cty.NumberIntVal(5).RawEquals(frag.Bindings[0].Value))

	lr := frag.Bindings[1].Value
	require.Equal(t, cty.Number, lr.Type())
	f, _ := lr.AsBigFloat().Float64()
	assert.Equal(t, 0.0022026260483103913, f)

	// Empty string is a real value, not an absent one.
	assert.Equal(t, cty.StringVal(""), frag.Bindings[2].Value)
	assert.Equal(t, cty.False, frag.Bindings[4].Value)

	require.Len(t, frag.Macros, 1)
	assert.Equal(t, "weight_decay", frag.Macros[0].Name)
	assert.True(t, cty.Zero.RawEquals(frag.Macros[0].Value))
}

func TestParse_MacroReference(t *testing.T) {
	src := "LearnerConfig.weight_decay = %weight_decay\n"
	frag, diags := Parse("f.gin", []byte(src))
	require.False(t, diags.HasErrors())

	require.Len(t, frag.Bindings, 1)
	assert.Equal(t, "weight_decay", frag.Bindings[0].MacroRef)
	assert.Equal(t, cty.NilVal, frag.Bindings[0].Value)
}

func TestParse_Literals(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want cty.Value
	}{
		{"bool true", "A.f = True", cty.True},
		{"none", "A.f = None", cty.NullVal(cty.DynamicPseudoType)},
		{"negative int", "A.f = -3", cty.NumberIntVal(-3)},
		{"exponent", "A.f = 1e-4", cty.MustParseNumberVal("1e-4")},
		{"double quoted", `A.f = "hi"`, cty.StringVal("hi")},
		{"escapes", `A.f = 'it\'s\n'`, cty.StringVal("it's\n")},
		{"reference", "A.f = @MyLearner", cty.StringVal("@MyLearner")},
		{"empty list", "A.f = []", cty.EmptyTupleVal},
		{"list", "A.f = [1, 'two', True]", cty.TupleVal([]cty.Value{
			cty.NumberIntVal(1), cty.StringVal("two"), cty.True,
		})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frag, diags := Parse("f.gin", []byte(tc.src))
			require.False(t, diags.HasErrors(), "diagnostics: %s", diags.Error())
			require.Len(t, frag.Bindings, 1)
			assert.True(t, tc.want.RawEquals(frag.Bindings[0].Value),
				"want %#v, got %#v", tc.want, frag.Bindings[0].Value)
		})
	}
}

func TestParse_Comments(t *testing.T) {
	src := `
# full-line comment
A.f = 'a # not a comment' # trailing comment
`
	frag, diags := Parse("f.gin", []byte(src))
	require.False(t, diags.HasErrors())
	require.Len(t, frag.Bindings, 1)
	assert.Equal(t, cty.StringVal("a # not a comment"), frag.Bindings[0].Value)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		summary string
	}{
		{"bad literal", "A.f = flse", "Unparsable literal"},
		{"no assignment", "just some words", "Malformed line"},
		{"bad key", "A..f = 1", "Malformed binding key"},
		{"bad macro name", "9lives = 1", "Malformed macro name"},
		{"unterminated string", "A.f = 'oops", "Unparsable literal"},
		{"bare include", "include", "Invalid include directive"},
		{"unquoted include", "include base.gin", "Invalid include directive"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, diags := Parse("f.gin", []byte(tc.src))
			require.True(t, diags.HasErrors())
			assert.Equal(t, tc.summary, diags[0].Summary)
		})
	}
}

func TestParse_DiagnosticRanges(t *testing.T) {
	src := "A.f = 1\nB.g = ???\n"
	_, diags := Parse("f.gin", []byte(src))
	require.Len(t, diags, 1)

	subject := diags[0].Subject
	require.NotNil(t, subject)
	assert.Equal(t, "f.gin", subject.Filename)
	assert.Equal(t, 2, subject.Start.Line)
}

func TestParse_ReportsEveryBadLine(t *testing.T) {
	src := "A.f = ???\nB.g = !!!\n"
	_, diags := Parse("f.gin", []byte(src))
	assert.Len(t, diags, 2)
}
