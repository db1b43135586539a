package model

type FarmerRank string

const (
	RankBronze FarmerRank = "Bronze"
	RankSilver FarmerRank = "Silver"
	RankGold   FarmerRank = "Gold"
)

// swagger:model Farmer
type Farmer struct {
	BaseModel
	AuthID   uint   `gorm:"uniqueIndex;not null" json:"auth_id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Location string `gorm:"size:255;not null" json:"location"`
	FarmSize string `gorm:"size:50;not null" json:"farm_size"`
	Phone    string `gorm:"size:20;unique;not null" json:"phone"`
	Aadhaar  string `gorm:"size:20;not null" json:"aadhaar"`
	Satbara  string `gorm:"size:50;not null" json:"satbara"`

	VerificationScore float64    `gorm:"default:0" json:"verification_score"`
	IsVerified        bool       `gorm:"default:false" json:"is_verified"`
	RatingScore       float64    `gorm:"default:0" json:"rating_score"`
	TotalScore        float64    `gorm:"default:0" json:"total_score"`
	Rank              FarmerRank `gorm:"size:10;default:'Bronze'" json:"rank"`
	CommissionRate    int        `gorm:"default:15" json:"commission_rate"`
}

func (Farmer) TableName() string {
	return "farmers"
}

// UpdateScores derives verification status, total score, rank and commission
// rate from the current verification and rating scores. Pure over its two
// inputs; the caller persists the record.
func (f *Farmer) UpdateScores() {
	// Verification threshold is 50, independent of rating.
	f.IsVerified = f.VerificationScore >= 50

	// Total score = 40% verification + 60% rating.
	f.TotalScore = f.VerificationScore*0.4 + f.RatingScore*0.6

	switch {
	case f.TotalScore >= 60:
		f.Rank = RankGold
		f.CommissionRate = 5
	case f.TotalScore >= 30:
		f.Rank = RankSilver
		f.CommissionRate = 10
	default:
		f.Rank = RankBronze
		f.CommissionRate = 15
	}
}
