package match

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kitzur/internal/errs"
)

func TestExact(t *testing.T) {
	assert.True(t, Exact("שַׁבָּת", "שבת"))
	assert.True(t, Exact("  מלך ", "מלכ"))
	assert.True(t, Exact("Shabbat", "SHABBAT"))
	assert.False(t, Exact("שבת", "שבתות"))
	assert.True(t, Exact("", "   "))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("שבת", "הִלְכוֹת שַׁבָּת"))
	assert.True(t, Contains("ערוך", "קיצור שולחן עָרוּךְ"))
	assert.False(t, Contains("הלכות שבת", "שבת"), "query is the needle")
	assert.True(t, Contains("", "anything"))
	assert.False(t, Contains("x", ""))
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "שבת", "שבת", 1},
		{"nikud ignored", "שבת", "שַׁבָּת", 1},
		{"both empty", "", "", 1},
		{"one empty", "", "abc", 0},
		{"shifted", "abcd", "bcde", 0.75},
		{"kitten", "kitten", "sitting", 8.0 / 13.0},
		{"swap", "ab", "ba", 0.5},
		{"prefix", "הלכות שבת", "הלכות שבתות", 0.9},
		{"substring", "שבת קודש", "שבת", 6.0 / 11.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"גא בתת הדא", "בהבדתא"},
		{"abcd", "bcde"},
		{"קיצור שולחן ערוך", "שולחן ערוך"},
		{"kitten", "sitting"},
	}
	for _, p := range pairs {
		assert.Equal(t, Ratio(p[0], p[1]), Ratio(p[1], p[0]), "%q vs %q", p[0], p[1])
	}

	ok1, err := Fuzzy("גא בתת הדא", "בהבדתא", 0.45)
	require.NoError(t, err)
	ok2, err := Fuzzy("בהבדתא", "גא בתת הדא", 0.45)
	require.NoError(t, err)
	assert.Equal(t, ok1, ok2)
}

func TestRatio_SymmetricRandom(t *testing.T) {
	alphabets := [][]rune{
		[]rune("אבגדהו "),
		[]rune("abcde "),
		[]rune("אבגab "),
	}
	rng := rand.New(rand.NewSource(7))
	word := func(alphabet []rune) string {
		n := rng.Intn(12)
		out := make([]rune, n)
		for i := range out {
			out[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(out)
	}

	for i := 0; i < 500; i++ {
		alphabet := alphabets[i%len(alphabets)]
		a, b := word(alphabet), word(alphabet)
		require.Equal(t, Ratio(a, b), Ratio(b, a), "%q vs %q", a, b)

		m := NewMatcher(a)
		for _, th := range []float64{0.3, 0.5, 0.8} {
			want, err := Fuzzy(b, a, th)
			require.NoError(t, err)
			got, err := m.Fuzzy(b, th)
			require.NoError(t, err)
			require.Equal(t, want, got, "%q vs %q at %v", a, b, th)
		}
	}
}

func TestRatio_LongInputNoAutojunk(t *testing.T) {
	// Past 200 runes difflib's autojunk would discard frequent runes and
	// drop this to 0.
	long := ""
	for i := 0; i < 300; i++ {
		long += "א"
	}
	assert.InDelta(t, 1.0, Ratio(long, long), 1e-9)
}

func TestFuzzy(t *testing.T) {
	ok, err := Fuzzy("שבת", "שַׁבָּת", DefaultThreshold)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Fuzzy("הלכות שבת", "הלכות שבתות", DefaultThreshold)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Fuzzy("שבת קודש", "שבת", DefaultThreshold)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Fuzzy("abc", "xyz", 0)
	require.NoError(t, err)
	assert.True(t, ok, "threshold 0 accepts everything")

	ok, err = Fuzzy("abc", "abd", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFuzzy_InvalidThreshold(t *testing.T) {
	for _, th := range []float64{1.5, -0.1, math.NaN(), math.Inf(1)} {
		_, err := Fuzzy("a", "a", th)
		require.Error(t, err, "threshold %v", th)
		assert.True(t, errs.IsInvalidArgument(err))
	}
}

func TestMatcher(t *testing.T) {
	m := NewMatcher("הִלְכוֹת שַׁבָּת")

	assert.Equal(t, "הִלְכוֹת שַׁבָּת", m.Original())
	assert.Equal(t, "הלכות שבת", m.Normalized())
	assert.True(t, m.Matches("הלכות שבת"))
	assert.True(t, m.Contains("שבת"))
	assert.False(t, m.Contains("יום טוב"))

	ok, err := m.Fuzzy("הלכות שבתות", DefaultThreshold)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = m.Fuzzy("x", 2)
	assert.True(t, errs.IsInvalidArgument(err))
}

func TestFuzzy_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := Fuzzy("שבת", "שַׁבָּת", DefaultThreshold)
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}
