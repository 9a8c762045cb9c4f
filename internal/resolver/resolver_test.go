package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/ginflatgo/internal/fragment"
	"github.com/specialistvlad/ginflatgo/internal/gin"
	"github.com/specialistvlad/ginflatgo/internal/resolved"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFragments lays out a fragment tree under a fresh temp root and
// returns a resolver reading from it.
func writeFragments(t *testing.T, opts Options, files map[string]string) *Resolver {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return New(gin.NewLoader(root), opts)
}

func mustResolve(t *testing.T, r *Resolver, entry string) *resolved.Config {
	t.Helper()
	cfg, err := r.Resolve(context.Background(), entry)
	require.NoError(t, err)
	return cfg
}

func TestResolve_LocalOverridesInclude(t *testing.T) {
	r := writeFragments(t, Options{}, map[string]string{
		"five_way_five_shot.gin":      "DataConfig.num_ways = 5\n",
		"baselinefinetune_config.gin": "BaselineFinetuneLearner.num_finetune_steps = 50\n",
		"baselinefinetune_5shot.gin": `include 'five_way_five_shot.gin'
include 'baselinefinetune_config.gin'
BaselineFinetuneLearner.num_finetune_steps = 75
`,
	})

	cfg := mustResolve(t, r, "baselinefinetune_5shot.gin")

	require.Equal(t, 2, cfg.Len())
	ways, err := cfg.Int("DataConfig.num_ways")
	require.NoError(t, err)
	assert.Equal(t, int64(5), ways)

	steps, err := cfg.Int("BaselineFinetuneLearner.num_finetune_steps")
	require.NoError(t, err)
	assert.Equal(t, int64(75), steps)
}

func TestResolve_LaterIncludeWins(t *testing.T) {
	r := writeFragments(t, Options{}, map[string]string{
		"first.gin":  "A.f = 1\n",
		"second.gin": "A.f = 2\n",
		"entry.gin":  "include 'first.gin'\ninclude 'second.gin'\n",
	})

	cfg := mustResolve(t, r, "entry.gin")
	v, err := cfg.Int("A.f")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestResolve_DiamondAppliesSharedFragmentOnce(t *testing.T) {
	// base is included via both branches; its binding must lose to the
	// branch that re-binds it, regardless of the second include path.
	r := writeFragments(t, Options{}, map[string]string{
		"base.gin":  "A.f = 'base'\nA.g = 'base'\n",
		"left.gin":  "include 'base.gin'\nA.f = 'left'\n",
		"right.gin": "include 'base.gin'\n",
		"entry.gin": "include 'left.gin'\ninclude 'right.gin'\n",
	})

	cfg := mustResolve(t, r, "entry.gin")
	f, err := cfg.String("A.f")
	require.NoError(t, err)
	assert.Equal(t, "left", f)

	g, err := cfg.String("A.g")
	require.NoError(t, err)
	assert.Equal(t, "base", g)
}

func TestResolve_EmptyStringIsNotAbsent(t *testing.T) {
	r := writeFragments(t, Options{}, map[string]string{
		"entry.gin": "LearnerConfig.pretrained_checkpoint = ''\n",
	})

	cfg := mustResolve(t, r, "entry.gin")

	v, ok := cfg.Get("LearnerConfig.pretrained_checkpoint")
	require.True(t, ok)
	assert.Equal(t, "", v.AsString())

	_, ok = cfg.Get("LearnerConfig.unbound")
	assert.False(t, ok)
}

func TestResolve_FloatRoundTrip(t *testing.T) {
	r := writeFragments(t, Options{}, map[string]string{
		"entry.gin": "LearnerConfig.learning_rate = 0.0022026260483103913\n",
	})

	cfg := mustResolve(t, r, "entry.gin")
	lr, err := cfg.Float("LearnerConfig.learning_rate")
	require.NoError(t, err)
	assert.Equal(t, 0.0022026260483103913, lr)
}

func TestResolve_MacroSubstitution(t *testing.T) {
	t.Run("macro defined in entry, referenced by include", func(t *testing.T) {
		r := writeFragments(t, Options{}, map[string]string{
			"base.gin":  "LearnerConfig.weight_decay = %weight_decay\n",
			"entry.gin": "include 'base.gin'\nweight_decay = 0.0\n",
		})

		cfg := mustResolve(t, r, "entry.gin")
		wd, err := cfg.Float("LearnerConfig.weight_decay")
		require.NoError(t, err)
		assert.Equal(t, 0.0, wd)
	})

	t.Run("later macro definition wins", func(t *testing.T) {
		r := writeFragments(t, Options{}, map[string]string{
			"base.gin":  "lr = 0.1\nA.lr = %lr\n",
			"entry.gin": "include 'base.gin'\nlr = 0.5\n",
		})

		cfg := mustResolve(t, r, "entry.gin")
		lr, err := cfg.Float("A.lr")
		require.NoError(t, err)
		assert.Equal(t, 0.5, lr)
	})

	t.Run("macro chains resolve", func(t *testing.T) {
		r := writeFragments(t, Options{}, map[string]string{
			"entry.gin": "a = %b\nb = 3\nA.f = %a\n",
		})

		cfg := mustResolve(t, r, "entry.gin")
		v, err := cfg.Int("A.f")
		require.NoError(t, err)
		assert.Equal(t, int64(3), v)
	})

	t.Run("undefined macro fails", func(t *testing.T) {
		r := writeFragments(t, Options{}, map[string]string{
			"entry.gin": "A.f = %nope\n",
		})

		_, err := r.Resolve(context.Background(), "entry.gin")
		var macroErr *fragment.MacroError
		require.ErrorAs(t, err, &macroErr)
		assert.Equal(t, "nope", macroErr.Name)
		assert.False(t, macroErr.Cycle)
	})

	t.Run("macro definition cycle fails", func(t *testing.T) {
		r := writeFragments(t, Options{}, map[string]string{
			"entry.gin": "a = %b\nb = %a\nA.f = %a\n",
		})

		_, err := r.Resolve(context.Background(), "entry.gin")
		var macroErr *fragment.MacroError
		require.ErrorAs(t, err, &macroErr)
		assert.True(t, macroErr.Cycle)
	})
}

func TestResolve_CycleDetection(t *testing.T) {
	t.Run("two-fragment cycle", func(t *testing.T) {
		r := writeFragments(t, Options{}, map[string]string{
			"a.gin": "include 'b.gin'\nA.f = 1\n",
			"b.gin": "include 'a.gin'\nB.f = 2\n",
		})

		_, err := r.Resolve(context.Background(), "a.gin")
		var cycleErr *fragment.CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, []string{"a.gin", "b.gin", "a.gin"}, cycleErr.Path)
	})

	t.Run("self-include", func(t *testing.T) {
		r := writeFragments(t, Options{}, map[string]string{
			"a.gin": "include 'a.gin'\n",
		})

		_, err := r.Resolve(context.Background(), "a.gin")
		var cycleErr *fragment.CycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.Equal(t, []string{"a.gin", "a.gin"}, cycleErr.Path)
	})
}

func TestResolve_MissingInclude(t *testing.T) {
	r := writeFragments(t, Options{}, map[string]string{
		"entry.gin": "include 'gone.gin'\n",
	})

	_, err := r.Resolve(context.Background(), "entry.gin")
	var notFound *fragment.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "gone.gin", notFound.Path)
	assert.Equal(t, "entry.gin", notFound.IncludedFrom)
	assert.Equal(t, 1, notFound.Range.Start.Line)
}

func TestResolve_MissingEntry(t *testing.T) {
	r := writeFragments(t, Options{}, nil)

	_, err := r.Resolve(context.Background(), "entry.gin")
	var notFound *fragment.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, notFound.IncludedFrom)
}

func TestResolve_ParseErrorPropagates(t *testing.T) {
	r := writeFragments(t, Options{}, map[string]string{
		"bad.gin":   "A.f = ???\n",
		"entry.gin": "include 'bad.gin'\n",
	})

	_, err := r.Resolve(context.Background(), "entry.gin")
	var parseErr *fragment.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "bad.gin", parseErr.Path)
}

func TestResolve_StrictTypeMismatch(t *testing.T) {
	files := map[string]string{
		"base.gin":  "A.f = 5\n",
		"entry.gin": "include 'base.gin'\nA.f = 'five'\n",
	}

	t.Run("strict mode rejects", func(t *testing.T) {
		r := writeFragments(t, Options{Strict: true}, files)

		_, err := r.Resolve(context.Background(), "entry.gin")
		var mismatch *fragment.TypeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "A.f", mismatch.Key)
	})

	t.Run("default mode lets the last writer win", func(t *testing.T) {
		r := writeFragments(t, Options{}, files)

		cfg := mustResolve(t, r, "entry.gin")
		v, err := cfg.String("A.f")
		require.NoError(t, err)
		assert.Equal(t, "five", v)
	})

	t.Run("strict mode allows same-type re-binding", func(t *testing.T) {
		r := writeFragments(t, Options{Strict: true}, map[string]string{
			"base.gin":  "A.f = 5\n",
			"entry.gin": "include 'base.gin'\nA.f = 7\n",
		})

		cfg := mustResolve(t, r, "entry.gin")
		v, err := cfg.Int("A.f")
		require.NoError(t, err)
		assert.Equal(t, int64(7), v)
	})
}

func TestResolve_MaxDepth(t *testing.T) {
	files := map[string]string{
		"a.gin": "include 'b.gin'\n",
		"b.gin": "include 'c.gin'\n",
		"c.gin": "C.f = 1\n",
	}

	t.Run("within the bound", func(t *testing.T) {
		r := writeFragments(t, Options{MaxDepth: 3}, files)
		cfg := mustResolve(t, r, "a.gin")
		assert.Equal(t, 1, cfg.Len())
	})

	t.Run("beyond the bound", func(t *testing.T) {
		r := writeFragments(t, Options{MaxDepth: 2}, files)
		_, err := r.Resolve(context.Background(), "a.gin")
		require.ErrorContains(t, err, "exceeds the configured limit")
	})
}

func TestResolve_Idempotent(t *testing.T) {
	r := writeFragments(t, Options{}, map[string]string{
		"base.gin":  "A.f = 1\nB.g = 'x'\n",
		"entry.gin": "include 'base.gin'\nA.f = 2\nC.h = True\n",
	})

	first := mustResolve(t, r, "entry.gin")
	second := mustResolve(t, r, "entry.gin")

	require.Equal(t, first.Keys(), second.Keys())
	for _, key := range first.Keys() {
		v1, _ := first.Get(key)
		v2, _ := second.Get(key)
		assert.True(t, v1.RawEquals(v2), "key %s differs between runs", key)
	}
}
