package sentencing

import (
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "sentencer/pkg/domain-errors"
)

type AdjustSuite struct {
	suite.Suite
}

func TestAdjustSuite(t *testing.T) {
	suite.Run(t, new(AdjustSuite))
}

// =============================================================================
// Identity and cancellation
// =============================================================================

func (s *AdjustSuite) TestNoFactorsIsIdentity() {
	for _, base := range []int{1, 7, 37, 180} {
		res, err := Adjust(base, nil, nil)
		s.Require().NoError(err)
		s.Equal(float64(base), res.FinalMonths)
		s.Equal(base, res.BaseMonths)
		s.Equal([]string{"base: " + itoa(base) + " months"}, res.Steps)
		s.False(res.Clamped)
	}
}

func (s *AdjustSuite) TestTier2OpposingFactorsCancel() {
	res, err := Adjust(50, nil, []Factor{{Name: "累犯", Ratio: 1.3}, {Name: "谅解", Ratio: 0.7}})
	s.Require().NoError(err)
	s.Equal(50.0, res.FinalMonths)
	s.Equal("tier2 result: 50.00 months", res.Steps[len(res.Steps)-1])
}

func (s *AdjustSuite) TestTier2IsAdditiveNotCompounded() {
	res, err := Adjust(100, nil, []Factor{{Name: "a", Ratio: 0.8}, {Name: "b", Ratio: 0.8}})
	s.Require().NoError(err)
	s.Equal(60.0, res.FinalMonths, "two -20%% factors sum to -40%%, not 0.8*0.8")
}

// =============================================================================
// Trace
// =============================================================================

func (s *AdjustSuite) TestTwoTierTrace() {
	res, err := Adjust(100,
		[]Factor{{Name: "未成年人", Ratio: 0.5}, {Name: "从犯", Ratio: 0.8}},
		[]Factor{{Name: "累犯", Ratio: 1.3}, {Name: "自首", Ratio: 0.9}},
	)
	s.Require().NoError(err)

	s.Equal(48.0, res.FinalMonths)
	s.Equal(100, res.BaseMonths)
	s.Equal([]string{
		"base: 100 months",
		"tier1 未成年人: x0.5 (product 0.5, subtotal 50.00 months)",
		"tier1 从犯: x0.8 (product 0.4, subtotal 40.00 months)",
		"tier1 result: 40.00 months",
		"tier2 累犯: +30% (net +30%)",
		"tier2 自首: -10% (net +20%)",
		"tier2 result: 48.00 months",
	}, res.Steps)
}

func (s *AdjustSuite) TestFinalRoundedToTwoPlaces() {
	res, err := Adjust(7, []Factor{{Name: "x", Ratio: 0.333}}, nil)
	s.Require().NoError(err)
	s.Equal(2.33, res.FinalMonths)
}

// =============================================================================
// Floor
// =============================================================================

func (s *AdjustSuite) TestFloorClampIsTraced() {
	res, err := Adjust(1, []Factor{{Name: "犯罪中止（自动有效）", Ratio: 0.3}}, nil)
	s.Require().NoError(err)

	s.Equal(1.0, res.FinalMonths)
	s.True(res.Clamped)
	s.Equal("clamp: 0.30 months is below the 1 month floor, raised to 1", res.Steps[len(res.Steps)-1])
}

func (s *AdjustSuite) TestFinalNeverBelowOne() {
	ratios := []float64{0.01, 0.1, 0.3, 0.5, 0.99}
	for base := 1; base <= 20; base++ {
		for _, r := range ratios {
			res, err := Adjust(base, []Factor{{Name: "t1", Ratio: r}}, []Factor{{Name: "t2", Ratio: r}})
			s.Require().NoError(err)
			s.GreaterOrEqual(res.FinalMonths, 1.0)
		}
	}
}

func (s *AdjustSuite) TestCeilingCapIsTraced() {
	res, err := Adjust(180, []Factor{{Name: "a", Ratio: MaxFactorRatio}, {Name: "b", Ratio: MaxFactorRatio}}, nil)
	s.Require().NoError(err)

	s.Equal(float64(MaximumMonths), res.FinalMonths)
	s.True(res.Capped)
	s.False(res.Clamped)
	s.Equal("cap: 18000.00 months is above the 300 month ceiling, lowered to 300", res.Steps[len(res.Steps)-1])
}

func (s *AdjustSuite) TestStackedMaximalRatiosStayFinite() {
	factors := make([]Factor, 32)
	for i := range factors {
		factors[i] = Factor{Name: "max", Ratio: MaxFactorRatio}
	}
	res, err := Adjust(180, factors, factors)
	s.Require().NoError(err)
	s.Equal(float64(MaximumMonths), res.FinalMonths)
}

// =============================================================================
// Contract violations
// =============================================================================

func (s *AdjustSuite) TestInvalidFactorsRejected() {
	cases := map[string]Factor{
		"zero ratio":      {Name: "x", Ratio: 0},
		"negative ratio":  {Name: "x", Ratio: -0.5},
		"blank name":      {Name: "  ", Ratio: 0.9},
		"ratio too large": {Name: "x", Ratio: 1e20},
		"just above max":  {Name: "x", Ratio: MaxFactorRatio + 0.01},
	}
	for name, f := range cases {
		s.Run(name, func() {
			_, err := Adjust(10, []Factor{f}, nil)
			s.Require().Error(err)
			s.ErrorIs(err, ErrInvalidFactor)
			s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

			_, err = Adjust(10, nil, []Factor{f})
			s.ErrorIs(err, ErrInvalidFactor)
		})
	}
}
