package model

import (
	"math"
	"time"
)

// Module is one unit of the fixed verification curriculum. The catalog is
// seeded as a whole; every reseed bumps CatalogVersion on all rows so progress
// records snapshotted against an older curriculum can be told apart.
type Module struct {
	BaseModel
	Title          string  `gorm:"size:255;not null" json:"title"`
	Description    string  `gorm:"type:text" json:"description"`
	Order          int     `gorm:"default:0" json:"order"`
	CatalogVersion uint    `gorm:"index;default:1" json:"catalogVersion"`
	Videos         []Video `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"videos"`
}

func (Module) TableName() string {
	return "modules"
}

// Video is one lesson inside a module. VideoID is the stable string key used
// by progress records; it survives reseeds of the same curriculum.
type Video struct {
	BaseModel
	ModuleID    uint   `gorm:"index;not null" json:"-"`
	VideoID     string `gorm:"size:64;uniqueIndex;not null" json:"video_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	URL         string `gorm:"size:255;not null" json:"url"`
	Duration    int    `gorm:"default:0" json:"duration"`
	Order       int    `gorm:"default:0" json:"order"`
}

func (Video) TableName() string {
	return "videos"
}

// Progress mirrors the catalog for one learner. It is created lazily on first
// access by snapshotting the catalog; the snapshot is never reconciled against
// later reseeds, only stamped with the version it was taken from.
type Progress struct {
	BaseModel
	AuthID         uint             `gorm:"uniqueIndex;not null" json:"auth_id"`
	CatalogVersion uint             `gorm:"default:1" json:"catalog_version"`
	TotalVideos    int              `gorm:"default:0" json:"total_videos"`
	TotalProgress  int              `gorm:"default:0" json:"total_progress"`
	TotalProofs    int              `gorm:"default:0" json:"total_proofs"`
	Modules        []ModuleProgress `gorm:"foreignKey:ProgressID;constraint:OnDelete:CASCADE" json:"module_progress"`
}

func (Progress) TableName() string {
	return "progress"
}

type ModuleProgress struct {
	BaseModel
	ProgressID      uint            `gorm:"index;not null" json:"-"`
	ModuleID        uint            `gorm:"index;not null" json:"module_id"`
	Order           int             `gorm:"default:0" json:"order"`
	ModuleCompleted bool            `gorm:"default:false" json:"module_completed"`
	Videos          []VideoProgress `gorm:"foreignKey:ModuleProgressID;constraint:OnDelete:CASCADE" json:"completed_videos"`
}

func (ModuleProgress) TableName() string {
	return "module_progress"
}

type VideoProgress struct {
	BaseModel
	ModuleProgressID uint       `gorm:"index;not null" json:"-"`
	VideoID          string     `gorm:"size:64;index;not null" json:"video_id"`
	Completed        bool       `gorm:"default:false" json:"completed"`
	ProofImage       string     `gorm:"size:255" json:"proof_image,omitempty"`
	SubmissionDate   *time.Time `json:"submission_date,omitempty"`
}

func (VideoProgress) TableName() string {
	return "video_progress"
}

// FindVideo walks the snapshot for the given video id. Linear scan is fine at
// catalog scale (a dozen entries).
func (p *Progress) FindVideo(videoID string) *VideoProgress {
	for mi := range p.Modules {
		for vi := range p.Modules[mi].Videos {
			if p.Modules[mi].Videos[vi].VideoID == videoID {
				return &p.Modules[mi].Videos[vi]
			}
		}
	}
	return nil
}

// CalculateProgress returns the completion percentage over the learner's own
// snapshot, rounded to the nearest integer. An empty snapshot is 0.
func (p *Progress) CalculateProgress() int {
	totalVideos := 0
	completedVideos := 0
	for _, mp := range p.Modules {
		totalVideos += len(mp.Videos)
		for _, vp := range mp.Videos {
			if vp.Completed {
				completedVideos++
			}
		}
	}

	if totalVideos == 0 {
		return 0
	}
	return int(math.Round(float64(completedVideos) / float64(totalVideos) * 100))
}

// CountProofs returns the number of snapshot entries with a proof attached.
func (p *Progress) CountProofs() int {
	count := 0
	for _, mp := range p.Modules {
		for _, vp := range mp.Videos {
			if vp.ProofImage != "" {
				count++
			}
		}
	}
	return count
}

// RefreshTotals recomputes the derived counters from the snapshot entries and
// marks fully watched modules.
func (p *Progress) RefreshTotals() {
	p.TotalProgress = p.CalculateProgress()
	p.TotalProofs = p.CountProofs()

	for mi := range p.Modules {
		done := len(p.Modules[mi].Videos) > 0
		for _, vp := range p.Modules[mi].Videos {
			if !vp.Completed {
				done = false
				break
			}
		}
		p.Modules[mi].ModuleCompleted = done
	}
}

// VerificationScore blends completion (60%) and proof submission (40%) into a
// 0..100 score. The proof denominator is the snapshot size recorded at
// initialization, not the live catalog.
func (p *Progress) VerificationScore() float64 {
	if p.TotalVideos == 0 {
		return 0
	}
	progressScore := float64(p.TotalProgress) / 100 * 60
	proofScore := float64(p.TotalProofs) / float64(p.TotalVideos) * 40
	return progressScore + proofScore
}
