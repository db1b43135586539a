package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateScoresVerificationThreshold(t *testing.T) {
	f := &Farmer{VerificationScore: 49.999}
	f.UpdateScores()
	assert.False(t, f.IsVerified)

	f.VerificationScore = 50
	f.UpdateScores()
	assert.True(t, f.IsVerified)

	// Rating has no bearing on verification.
	f.VerificationScore = 40
	f.RatingScore = 100
	f.UpdateScores()
	assert.False(t, f.IsVerified)
}

func TestUpdateScoresTierBoundaries(t *testing.T) {
	cases := []struct {
		name         string
		verification float64
		rating       float64
		rank         FarmerRank
		commission   int
	}{
		{"gold at exactly 60", 60, 60, RankGold, 5},
		{"silver just below 60", 59.999, 59.999, RankSilver, 10},
		{"silver at exactly 30", 30, 30, RankSilver, 10},
		{"bronze just below 30", 29, 29, RankBronze, 15},
		{"bronze at zero", 0, 0, RankBronze, 15},
		{"gold from rating alone", 0, 100, RankGold, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &Farmer{VerificationScore: tc.verification, RatingScore: tc.rating}
			f.UpdateScores()
			assert.Equal(t, tc.rank, f.Rank)
			assert.Equal(t, tc.commission, f.CommissionRate)
		})
	}
}

func TestUpdateScoresWeighting(t *testing.T) {
	f := &Farmer{VerificationScore: 40, RatingScore: 90}
	f.UpdateScores()

	// 40*0.4 + 90*0.6
	assert.InDelta(t, 70.0, f.TotalScore, 0.001)
	assert.Equal(t, RankGold, f.Rank)
	// Gold rank does not imply verified; the 50-point threshold is separate.
	assert.False(t, f.IsVerified)
}

func TestUpdateScoresDeterministic(t *testing.T) {
	f := &Farmer{VerificationScore: 55, RatingScore: 35}
	f.UpdateScores()
	total, rank, commission := f.TotalScore, f.Rank, f.CommissionRate

	f.UpdateScores()
	assert.Equal(t, total, f.TotalScore)
	assert.Equal(t, rank, f.Rank)
	assert.Equal(t, commission, f.CommissionRate)
}

func TestUpdateScoresDemotion(t *testing.T) {
	f := &Farmer{VerificationScore: 100, RatingScore: 100}
	f.UpdateScores()
	assert.Equal(t, RankGold, f.Rank)

	f.RatingScore = 0
	f.VerificationScore = 0
	f.UpdateScores()
	assert.Equal(t, RankBronze, f.Rank)
	assert.Equal(t, 15, f.CommissionRate)
	assert.False(t, f.IsVerified)
}
