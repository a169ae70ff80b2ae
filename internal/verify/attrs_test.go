package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/claimmark/internal/model"
)

func TestPolicyFromAttrs(t *testing.T) {
	tests := []struct {
		name                string
		typ, dec, tolerance string
		want                model.Policy
	}{
		{"rounded", "rounded", "2", "", model.Policy{Kind: model.KindRounded, Decimals: 2}},
		{"rounded garbage decimals", "rounded", "two", "", model.Policy{Kind: model.KindRounded}},
		{"rounded negative decimals", "rounded", "-3", "", model.Policy{Kind: model.KindRounded}},
		{"rounded fractional decimals", "rounded", "2.9", "", model.Policy{Kind: model.KindRounded, Decimals: 2}},
		{"rounded huge decimals", "rounded", "250", "", model.Policy{Kind: model.KindRounded, Decimals: 100}},
		{"tolerance", "tolerance", "", "0.05", model.Policy{Kind: model.KindTolerance, Tolerance: 0.05}},
		{"tolerance zero", "tolerance", "", "0", model.Policy{Kind: model.KindTolerance, Tolerance: 0}},
		{"tolerance negative", "tolerance", "", "-1", model.Policy{Kind: model.KindTolerance, Tolerance: 0.02}},
		{"tolerance garbage", "tolerance", "", "abc", model.Policy{Kind: model.KindTolerance, Tolerance: 0.02}},
		{"tolerance missing", "tolerance", "", "", model.Policy{Kind: model.KindTolerance, Tolerance: 0.02}},
		{"percent ignores extras", "percent", "4", "0.5", model.Policy{Kind: model.KindPercent}},
		{"padded type", " year ", "", "", model.Policy{Kind: model.KindYear}},
		{"unknown type", "fuzzy", "", "", model.Policy{Kind: model.KindAuto}},
		{"blank type", "", "", "", model.Policy{Kind: model.KindAuto}},
		{"case sensitive", "Rounded", "2", "", model.Policy{Kind: model.KindAuto}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolicyFromAttrs(tt.typ, tt.dec, tt.tolerance))
		})
	}
}
