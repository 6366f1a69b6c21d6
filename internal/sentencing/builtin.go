package sentencing

import (
	"sync"
)

// DefaultFallbackMonths is the neutral base for unclassified categories and
// for amount-keyed cases without an amount.
const DefaultFallbackMonths = 12

var amountLegalRanges = LegalRangePolicy{
	ByBracket: map[Bracket]LegalRange{
		BracketBelow:          {Min: 6, Max: 36},
		BracketLarge:          {Min: 6, Max: 36},
		BracketHuge:           {Min: 36, Max: 120},
		BracketEspeciallyHuge: {Min: 120, Max: 180},
	},
	Default: LegalRange{Min: 6, Max: 120},
}

var generalCoefficients = CoefficientTable{
	Tier1: []CoefficientEntry{
		{Name: "未成年人（16-18岁）", Ratio: 0.70},
		{Name: "未成年人（14-16岁）", Ratio: 0.50},
		{Name: "从犯（作用较小）", Ratio: 0.60},
		{Name: "从犯（一般）", Ratio: 0.70},
		{Name: "胁从犯", Ratio: 0.40},
		{Name: "犯罪预备", Ratio: 0.40},
		{Name: "犯罪中止（自动有效）", Ratio: 0.30},
		{Name: "犯罪中止（一般）", Ratio: 0.40},
		{Name: "犯罪未遂（意志以外）", Ratio: 0.70},
		{Name: "犯罪未遂（能力不足）", Ratio: 0.60},
		{Name: "限制刑事责任能力", Ratio: 0.60},
		{Name: "又聋又哑/盲人", Ratio: 0.70},
		{Name: "防卫过当", Ratio: 0.50},
	},
	Tier2: []CoefficientEntry{
		{Name: "累犯", Ratio: 1.25},
		{Name: "自首（主动投案）", Ratio: 0.65},
		{Name: "自首（抓获后）", Ratio: 0.75},
		{Name: "坦白", Ratio: 0.85},
		{Name: "认罪认罚（具结书）", Ratio: 0.80},
		{Name: "认罪认罚（口头）", Ratio: 0.85},
		{Name: "一般立功", Ratio: 0.85},
		{Name: "重大立功", Ratio: 0.70},
		{Name: "退赃退赔（全部）", Ratio: 0.75},
		{Name: "退赃退赔（部分）", Ratio: 0.85},
		{Name: "取得谅解", Ratio: 0.80},
		{Name: "刑事和解", Ratio: 0.65},
		{Name: "有前科（同类）", Ratio: 1.20},
		{Name: "有前科（其他）", Ratio: 1.15},
		{Name: "多次犯罪（3次+）", Ratio: 1.25},
		{Name: "多次犯罪（2次）", Ratio: 1.15},
		{Name: "造成严重后果", Ratio: 1.35},
	},
}

var fraudCoefficients = CoefficientTable{
	Tier1: []CoefficientEntry{
		{Name: "未成年人", Ratio: 0.7},
		{Name: "犯罪预备", Ratio: 0.5},
		{Name: "犯罪中止", Ratio: 0.5},
		{Name: "犯罪未遂", Ratio: 0.5},
	},
	Tier2: []CoefficientEntry{
		{Name: "累犯", Ratio: 1.3},
		{Name: "前科", Ratio: 1.1},
		{Name: "多次诈骗", Ratio: 1.1},
		{Name: "电信网络诈骗", Ratio: 1.15},
		{Name: "自首", Ratio: 0.8},
		{Name: "坦白", Ratio: 0.8},
		{Name: "认罪认罚", Ratio: 0.95},
		{Name: "退赃", Ratio: 0.85},
		{Name: "退赔", Ratio: 0.85},
		{Name: "取得谅解", Ratio: 0.95},
	},
}

var injuryCoefficients = CoefficientTable{
	Tier1: []CoefficientEntry{
		{Name: "未成年人", Ratio: 0.7},
		{Name: "胁从犯", Ratio: 0.8},
		{Name: "从犯", Ratio: 0.9},
		{Name: "防卫过当", Ratio: 0.5},
		{Name: "避险过当", Ratio: 0.5},
	},
	Tier2: []CoefficientEntry{
		{Name: "累犯", Ratio: 1.3},
		{Name: "前科", Ratio: 1.1},
		{Name: "多次伤害", Ratio: 1.2},
		{Name: "主犯", Ratio: 1.25},
		{Name: "自首", Ratio: 0.75},
		{Name: "坦白", Ratio: 0.9},
		{Name: "重大立功", Ratio: 0.5},
		{Name: "立功", Ratio: 0.8},
		{Name: "认罪认罚", Ratio: 0.95},
		{Name: "赔偿", Ratio: 0.85},
		{Name: "取得谅解", Ratio: 0.85},
		{Name: "被害人过错", Ratio: 0.8},
	},
}

// BuiltinConfigs returns fresh copies of the compiled-in rule sets: the
// fallback first, then one per category.
func BuiltinConfigs() (fallback RuleSetConfig, sets []RuleSetConfig) {
	fallback = RuleSetConfig{
		Name:           "general",
		Category:       CategoryUnclassified,
		FallbackMonths: DefaultFallbackMonths,
		Coefficients:   generalCoefficients.clone(),
		Width:          DefaultWidth,
		LegalRanges:    LegalRangePolicy{Default: LegalRange{Min: 6, Max: 120}},
	}

	theft := RuleSetConfig{
		Name:           "theft",
		Category:       CategoryTheft,
		FallbackMonths: DefaultFallbackMonths,
		Amounts: &AmountSchedule{
			BelowMonths:    6,
			MissingMonths:  DefaultFallbackMonths,
			Large:          Band{Floor: 6, Ceiling: 36, Step: 2000, Increment: 1, Mode: BandStepped},
			Huge:           Band{Floor: 36, Ceiling: 72, Step: 3000, Increment: 1.5, Mode: BandStepped},
			EspeciallyHuge: Band{Floor: 120, Ceiling: 180, Step: 50000, Increment: 1, Mode: BandStepped},
			Occurrence:     &OccurrencePolicy{Threshold: 3, PerOccurrences: 2, Months: 1},
		},
		Coefficients: generalCoefficients.clone(),
		Width:        DefaultWidth,
		LegalRanges:  amountLegalRanges.clone(),
	}

	fraud := RuleSetConfig{
		Name:           "fraud",
		Category:       CategoryFraud,
		FallbackMonths: DefaultFallbackMonths,
		Amounts: &AmountSchedule{
			BelowMonths:    6,
			MissingMonths:  DefaultFallbackMonths,
			Large:          Band{Floor: 6, Ceiling: 36, Step: 1000, Increment: 2, Mode: BandStepped},
			Huge:           Band{Floor: 36, Ceiling: 120, Step: 10000, Increment: 1.5, Mode: BandStepped},
			EspeciallyHuge: Band{Floor: 120, Ceiling: 180, Step: 100000, Increment: 1, Mode: BandStepped},
		},
		Coefficients: fraudCoefficients.clone(),
		Width:        WidthConfig{Mode: WidthBracket, Low: 8, Mid: 10, High: 12},
		LegalRanges:  amountLegalRanges.clone(),
	}

	embezzlement := RuleSetConfig{
		Name:           "embezzlement",
		Category:       CategoryEmbezzlement,
		FallbackMonths: DefaultFallbackMonths,
		Amounts: &AmountSchedule{
			BelowMonths:     6,
			MissingMonths:   DefaultFallbackMonths,
			Large:           Band{Floor: 6, Ceiling: 36, Mode: BandInterpolated},
			Huge:            Band{Floor: 36, Ceiling: 120, Mode: BandInterpolated},
			EspeciallyHuge:  Band{Floor: 120, Ceiling: 180, Step: 1000000, Increment: 1, Mode: BandStepped},
			FixedThresholds: &AmountThresholds{Large: 60000, Huge: 1000000, EspeciallyHuge: 15000000},
		},
		Coefficients: generalCoefficients.clone(),
		Width:        DefaultWidth,
		LegalRanges:  amountLegalRanges.clone(),
	}

	injury := RuleSetConfig{
		Name:           "intentional_injury",
		Category:       CategoryIntentionalInjury,
		FallbackMonths: DefaultFallbackMonths,
		Severities: &SeveritySchedule{
			Months: map[string]int{
				"轻伤二级": 15,
				"轻伤一级": 18,
				"重伤二级": 48,
				"重伤一级": 72,
				"致人死亡": 120,
				"死亡":   120,
				"轻伤":   18,
				"重伤":   60,
			},
			DefaultMonths: DefaultFallbackMonths,
			Victims:       &VictimPolicy{PerExtraVictim: 0.5, MaxIncrease: 2.0},
		},
		Coefficients: injuryCoefficients.clone(),
		Width:        DefaultWidth,
		LegalRanges: LegalRangePolicy{
			BySeverity: map[string]LegalRange{
				"轻伤一级": {Min: 6, Max: 24},
				"轻伤二级": {Min: 1, Max: 24},
				"轻伤":   {Min: 1, Max: 24},
				"重伤一级": {Min: 36, Max: 120},
				"重伤二级": {Min: 36, Max: 120},
				"重伤":   {Min: 36, Max: 120},
				"致人死亡": {Min: 120, Max: 180},
				"死亡":   {Min: 120, Max: 180},
			},
			Default: LegalRange{Min: 1, Max: 180},
		},
	}

	return fallback, []RuleSetConfig{theft, fraud, embezzlement, injury}
}

// BuildRegistry builds a registry from configs sharing one jurisdiction table.
func BuildRegistry(jurisdictions *JurisdictionTable, fallback RuleSetConfig, configs ...RuleSetConfig) (*Registry, error) {
	fb, err := NewRuleSet(fallback, jurisdictions)
	if err != nil {
		return nil, err
	}
	sets := make([]*RuleSet, 0, len(configs))
	for _, cfg := range configs {
		rs, err := NewRuleSet(cfg, jurisdictions)
		if err != nil {
			return nil, err
		}
		sets = append(sets, rs)
	}
	return NewRegistry(jurisdictions, fb, sets...)
}

// BuiltinJurisdictions returns a freshly built copy of the compiled-in table.
func BuiltinJurisdictions() *JurisdictionTable {
	t, err := NewJurisdictionTable(builtinStandards(), builtinCitySynonyms())
	if err != nil {
		panic("sentencing: builtin jurisdiction table: " + err.Error())
	}
	return t
}

// DefaultRegistry is built once from the compiled-in tables and shared.
var DefaultRegistry = sync.OnceValue(func() *Registry {
	fallback, sets := BuiltinConfigs()
	r, err := BuildRegistry(BuiltinJurisdictions(), fallback, sets...)
	if err != nil {
		panic("sentencing: builtin rule sets: " + err.Error())
	}
	return r
})
