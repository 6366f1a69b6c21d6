package ruledoc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"sentencer/internal/sentencing"
)

// applyDefaults fills optional fields after decoding.
func (d *Document) applyDefaults() {
	if d.Version == 0 {
		d.Version = CurrentVersion
	}
	if d.Fallback != nil {
		d.Fallback.applyDefaults()
	}
	for i := range d.RuleSets {
		d.RuleSets[i].applyDefaults()
	}
}

func (r *RuleSet) applyDefaults() {
	if r.FallbackMonths == 0 {
		r.FallbackMonths = sentencing.DefaultFallbackMonths
	}
	if r.Width.Mode == "" {
		r.Width = widthDoc(sentencing.DefaultWidth)
	}
	if a := r.Amounts; a != nil {
		if a.MissingMonths == 0 {
			a.MissingMonths = sentencing.DefaultFallbackMonths
		}
		for _, b := range []*Band{&a.Large, &a.Huge, &a.EspeciallyHuge} {
			if b.Mode == "" {
				b.Mode = string(sentencing.BandStepped)
			}
		}
	}
	if s := r.Severities; s != nil && s.DefaultMonths == 0 {
		s.DefaultMonths = sentencing.DefaultFallbackMonths
	}
}

// Registry validates the document and builds a registry from it. Sections the
// document omits are taken from the compiled-in tables.
func (d *Document) Registry() (*sentencing.Registry, error) {
	d.applyDefaults()
	if d.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: unsupported rule document version %d", sentencing.ErrInvalidRules, d.Version)
	}

	table := sentencing.BuiltinJurisdictions()
	if len(d.Jurisdictions) > 0 || len(d.CitySynonyms) > 0 {
		standards := make(map[string]sentencing.JurisdictionStandard, len(d.Jurisdictions))
		for key, byCategory := range d.Jurisdictions {
			std := make(sentencing.JurisdictionStandard, len(byCategory))
			for cat, th := range byCategory {
				category := sentencing.ParseCrimeCategory(cat)
				if !category.IsAmountKeyed() {
					return nil, fmt.Errorf("%w: jurisdiction %q: category %q is not amount-keyed", sentencing.ErrInvalidRules, key, cat)
				}
				std[category] = th.thresholds()
			}
			standards[key] = std
		}
		var err error
		table, err = sentencing.NewJurisdictionTable(standards, d.CitySynonyms)
		if err != nil {
			return nil, err
		}
	}

	builtinFallback, builtinSets := sentencing.BuiltinConfigs()

	fallback := builtinFallback
	if d.Fallback != nil {
		fallback = d.Fallback.config()
		fallback.Category = sentencing.CategoryUnclassified
	}

	sets := builtinSets
	if len(d.RuleSets) > 0 {
		sets = make([]sentencing.RuleSetConfig, 0, len(d.RuleSets))
		for _, rs := range d.RuleSets {
			cfg := rs.config()
			if !cfg.Category.IsKnown() {
				return nil, fmt.Errorf("%w: rule set %q: unknown category %q", sentencing.ErrInvalidRules, rs.Name, rs.Category)
			}
			sets = append(sets, cfg)
		}
	}

	return sentencing.BuildRegistry(table, fallback, sets...)
}

// FromRegistry renders a registry as a complete document.
func FromRegistry(r *sentencing.Registry) *Document {
	d := &Document{
		Version:       CurrentVersion,
		Jurisdictions: map[string]map[string]Thresholds{},
		CitySynonyms:  r.Jurisdictions().Synonyms(),
	}
	for key, std := range r.Jurisdictions().Standards() {
		byCategory := make(map[string]Thresholds, len(std))
		for cat, th := range std {
			byCategory[string(cat)] = thresholdsDoc(th)
		}
		d.Jurisdictions[key] = byCategory
	}

	fb := ruleSetDoc(r.Fallback().Config())
	d.Fallback = &fb
	for _, rs := range r.RuleSets() {
		d.RuleSets = append(d.RuleSets, ruleSetDoc(rs.Config()))
	}
	return d
}

func (t Thresholds) thresholds() sentencing.AmountThresholds {
	return sentencing.AmountThresholds{
		Large:          t.Large.InexactFloat64(),
		Huge:           t.Huge.InexactFloat64(),
		EspeciallyHuge: t.EspeciallyHuge.InexactFloat64(),
	}
}

func thresholdsDoc(t sentencing.AmountThresholds) Thresholds {
	return Thresholds{
		Large:          decimal.NewFromFloat(t.Large),
		Huge:           decimal.NewFromFloat(t.Huge),
		EspeciallyHuge: decimal.NewFromFloat(t.EspeciallyHuge),
	}
}

func (r RuleSet) config() sentencing.RuleSetConfig {
	cfg := sentencing.RuleSetConfig{
		Name:           r.Name,
		Category:       sentencing.ParseCrimeCategory(r.Category),
		FallbackMonths: r.FallbackMonths,
		Width: sentencing.WidthConfig{
			Mode:  sentencing.WidthMode(r.Width.Mode),
			Fixed: r.Width.Fixed,
			Ratio: r.Width.Ratio,
			Min:   r.Width.Min,
			Max:   r.Width.Max,
			Low:   r.Width.Low,
			Mid:   r.Width.Mid,
			High:  r.Width.High,
		},
		LegalRanges: sentencing.LegalRangePolicy{
			Default: sentencing.LegalRange(r.LegalRanges.Default),
		},
	}

	for _, c := range r.Coefficients.Tier1 {
		cfg.Coefficients.Tier1 = append(cfg.Coefficients.Tier1, sentencing.CoefficientEntry(c))
	}
	for _, c := range r.Coefficients.Tier2 {
		cfg.Coefficients.Tier2 = append(cfg.Coefficients.Tier2, sentencing.CoefficientEntry(c))
	}

	if len(r.LegalRanges.ByBracket) > 0 {
		cfg.LegalRanges.ByBracket = make(map[sentencing.Bracket]sentencing.LegalRange, len(r.LegalRanges.ByBracket))
		for b, l := range r.LegalRanges.ByBracket {
			cfg.LegalRanges.ByBracket[sentencing.Bracket(b)] = sentencing.LegalRange(l)
		}
	}
	if len(r.LegalRanges.BySeverity) > 0 {
		cfg.LegalRanges.BySeverity = make(map[string]sentencing.LegalRange, len(r.LegalRanges.BySeverity))
		for s, l := range r.LegalRanges.BySeverity {
			cfg.LegalRanges.BySeverity[s] = sentencing.LegalRange(l)
		}
	}

	if a := r.Amounts; a != nil {
		sched := &sentencing.AmountSchedule{
			BelowMonths:    a.BelowMonths,
			MissingMonths:  a.MissingMonths,
			Large:          a.Large.band(),
			Huge:           a.Huge.band(),
			EspeciallyHuge: a.EspeciallyHuge.band(),
		}
		if a.Occurrence != nil {
			sched.Occurrence = &sentencing.OccurrencePolicy{
				Threshold:      a.Occurrence.Threshold,
				PerOccurrences: a.Occurrence.PerOccurrences,
				Months:         a.Occurrence.Months,
			}
		}
		if a.FixedThresholds != nil {
			th := a.FixedThresholds.thresholds()
			sched.FixedThresholds = &th
		}
		cfg.Amounts = sched
	}

	if s := r.Severities; s != nil {
		sched := &sentencing.SeveritySchedule{
			Months:        make(map[string]int, len(s.Months)),
			DefaultMonths: s.DefaultMonths,
		}
		for k, v := range s.Months {
			sched.Months[k] = v
		}
		if s.Victims != nil {
			sched.Victims = &sentencing.VictimPolicy{
				PerExtraVictim: s.Victims.PerExtraVictim,
				MaxIncrease:    s.Victims.MaxIncrease,
			}
		}
		cfg.Severities = sched
	}
	return cfg
}

func (b Band) band() sentencing.Band {
	return sentencing.Band{
		Floor:     b.Floor,
		Ceiling:   b.Ceiling,
		Step:      b.Step.InexactFloat64(),
		Increment: b.Increment,
		Mode:      sentencing.BandMode(b.Mode),
	}
}

func bandDoc(b sentencing.Band) Band {
	return Band{
		Mode:      string(b.Mode),
		Floor:     b.Floor,
		Ceiling:   b.Ceiling,
		Step:      decimal.NewFromFloat(b.Step),
		Increment: b.Increment,
	}
}

func widthDoc(w sentencing.WidthConfig) Width {
	return Width{
		Mode:  string(w.Mode),
		Fixed: w.Fixed,
		Ratio: w.Ratio,
		Min:   w.Min,
		Max:   w.Max,
		Low:   w.Low,
		Mid:   w.Mid,
		High:  w.High,
	}
}

func ruleSetDoc(cfg sentencing.RuleSetConfig) RuleSet {
	r := RuleSet{
		Name:           cfg.Name,
		Category:       string(cfg.Category),
		FallbackMonths: cfg.FallbackMonths,
		Width:          widthDoc(cfg.Width),
		LegalRanges: LegalRanges{
			Default: Range(cfg.LegalRanges.Default),
		},
	}
	for _, e := range cfg.Coefficients.Tier1 {
		r.Coefficients.Tier1 = append(r.Coefficients.Tier1, Coefficient(e))
	}
	for _, e := range cfg.Coefficients.Tier2 {
		r.Coefficients.Tier2 = append(r.Coefficients.Tier2, Coefficient(e))
	}
	if len(cfg.LegalRanges.ByBracket) > 0 {
		r.LegalRanges.ByBracket = make(map[string]Range, len(cfg.LegalRanges.ByBracket))
		for b, l := range cfg.LegalRanges.ByBracket {
			r.LegalRanges.ByBracket[string(b)] = Range(l)
		}
	}
	if len(cfg.LegalRanges.BySeverity) > 0 {
		r.LegalRanges.BySeverity = make(map[string]Range, len(cfg.LegalRanges.BySeverity))
		for s, l := range cfg.LegalRanges.BySeverity {
			r.LegalRanges.BySeverity[s] = Range(l)
		}
	}
	if a := cfg.Amounts; a != nil {
		r.Amounts = &Amounts{
			BelowMonths:    a.BelowMonths,
			MissingMonths:  a.MissingMonths,
			Large:          bandDoc(a.Large),
			Huge:           bandDoc(a.Huge),
			EspeciallyHuge: bandDoc(a.EspeciallyHuge),
		}
		if a.Occurrence != nil {
			r.Amounts.Occurrence = &Occurrence{
				Threshold:      a.Occurrence.Threshold,
				PerOccurrences: a.Occurrence.PerOccurrences,
				Months:         a.Occurrence.Months,
			}
		}
		if a.FixedThresholds != nil {
			th := thresholdsDoc(*a.FixedThresholds)
			r.Amounts.FixedThresholds = &th
		}
	}
	if s := cfg.Severities; s != nil {
		r.Severities = &Severities{
			Months:        make(map[string]int, len(s.Months)),
			DefaultMonths: s.DefaultMonths,
		}
		for k, v := range s.Months {
			r.Severities.Months[k] = v
		}
		if s.Victims != nil {
			r.Severities.Victims = &Victims{
				PerExtraVictim: s.Victims.PerExtraVictim,
				MaxIncrease:    s.Victims.MaxIncrease,
			}
		}
	}
	return r
}
