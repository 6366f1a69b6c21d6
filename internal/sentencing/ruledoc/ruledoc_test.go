package ruledoc

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentencer/internal/sentencing"
)

func TestRoundTripPreservesBuiltinRules(t *testing.T) {
	want := sentencing.DefaultRegistry()

	for _, format := range []Format{FormatYAML, FormatTOML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, FromRegistry(want), format))

			doc, err := Decode(&buf, format)
			require.NoError(t, err)
			got, err := doc.Registry()
			require.NoError(t, err)

			assert.Equal(t, want.Jurisdictions().Standards(), got.Jurisdictions().Standards())
			assert.Equal(t, want.Jurisdictions().Synonyms(), got.Jurisdictions().Synonyms())
			assert.Equal(t, want.Fallback().Config(), got.Fallback().Config())

			wantSets, gotSets := want.RuleSets(), got.RuleSets()
			require.Len(t, gotSets, len(wantSets))
			for i := range wantSets {
				assert.Equal(t, wantSets[i].Config(), gotSets[i].Config(), wantSets[i].Name())
			}
		})
	}
}

const partialTheftYAML = `
version: 1
rule_sets:
  - name: theft
    category: 盗窃罪
    amounts:
      below_months: 6
      large: {floor: 6, ceiling: 36, step: 2000, increment: 2}
      huge: {floor: 36, ceiling: 72, step: 3000, increment: 1.5}
      especially_huge: {floor: 120, ceiling: 180, step: 50000, increment: 1}
    coefficients:
      tier1: [{name: 从犯, ratio: 0.8}]
      tier2: [{name: 累犯, ratio: 1.3}]
    legal_ranges:
      default: {min_months: 6, max_months: 180}
`

func TestPartialDocumentUsesBuiltinTables(t *testing.T) {
	doc, err := Decode(strings.NewReader(partialTheftYAML), FormatYAML)
	require.NoError(t, err)

	reg, err := doc.Registry()
	require.NoError(t, err)

	theft, ok := reg.For(sentencing.CategoryTheft)
	require.True(t, ok)
	assert.Equal(t, sentencing.DefaultWidth, theft.Config().Width)
	assert.Equal(t, sentencing.DefaultFallbackMonths, theft.Config().Amounts.MissingMonths)

	_, ok = reg.For(sentencing.CategoryFraud)
	assert.False(t, ok, "rule sets listed in the document replace the builtin list")

	engine := sentencing.NewEngine(sentencing.WithRegistry(reg))
	amount := 5000.0
	out, err := engine.Compute(sentencing.CaseInput{Category: sentencing.CategoryTheft, Jurisdiction: "default", Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Result.BaseMonths)
}

func TestDecodeRejectsInvalidDocuments(t *testing.T) {
	t.Run("unknown yaml field", func(t *testing.T) {
		_, err := Decode(strings.NewReader("version: 1\nsurprise: true\n"), FormatYAML)
		assert.Error(t, err)
	})

	t.Run("unknown toml key", func(t *testing.T) {
		_, err := Decode(strings.NewReader("version = 1\nsurprise = true\n"), FormatTOML)
		assert.Error(t, err)
	})

	t.Run("descending thresholds", func(t *testing.T) {
		doc, err := Decode(strings.NewReader(`{
			"version": 1,
			"jurisdictions": {
				"default": {"theft": {"large": "5000", "huge": "1000", "especially_huge": "9000"}}
			}
		}`), FormatJSON)
		require.NoError(t, err)
		_, err = doc.Registry()
		assert.ErrorIs(t, err, sentencing.ErrInvalidRules)
	})

	t.Run("severity category in jurisdiction table", func(t *testing.T) {
		doc := &Document{Jurisdictions: map[string]map[string]Thresholds{
			"default": {"intentional_injury": {}},
		}}
		_, err := doc.Registry()
		assert.ErrorIs(t, err, sentencing.ErrInvalidRules)
	})

	t.Run("unsupported version", func(t *testing.T) {
		_, err := (&Document{Version: 9}).Registry()
		assert.ErrorIs(t, err, sentencing.ErrInvalidRules)
	})
}

func TestLoadRegistryFromFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "rules.toml")
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FromRegistry(sentencing.DefaultRegistry()), FormatTOML))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, reg.RuleSets(), 4)

	_, err = Load(filepath.Join(dir, "rules.ini"))
	assert.Error(t, err)
	_, err = Load("")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{".yml": FormatYAML, "YAML": FormatYAML, ".toml": FormatTOML, "json": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
