package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotFromCurriculum builds a progress snapshot the way the learning
// service does on first access.
func snapshotFromCurriculum(authID uint) *Progress {
	progress := &Progress{AuthID: authID, CatalogVersion: 1}
	total := 0
	for _, m := range DefaultCurriculum() {
		mp := ModuleProgress{Order: m.Order}
		for _, v := range m.Videos {
			mp.Videos = append(mp.Videos, VideoProgress{VideoID: v.VideoID})
			total++
		}
		progress.Modules = append(progress.Modules, mp)
	}
	progress.TotalVideos = total
	return progress
}

func TestDefaultCurriculumShape(t *testing.T) {
	modules := DefaultCurriculum()
	require.Len(t, modules, 4)
	for _, m := range modules {
		assert.Len(t, m.Videos, 3)
	}
}

func TestFindVideo(t *testing.T) {
	p := snapshotFromCurriculum(1)

	v := p.FindVideo("water_2_2")
	require.NotNil(t, v)
	assert.Equal(t, "water_2_2", v.VideoID)
	assert.False(t, v.Completed)

	assert.Nil(t, p.FindVideo("no_such_video"))
}

func TestCalculateProgress(t *testing.T) {
	p := snapshotFromCurriculum(1)
	assert.Equal(t, 0, p.CalculateProgress())

	for _, id := range []string{"org_1_1", "org_1_2", "org_1_3", "water_2_1", "water_2_2", "water_2_3"} {
		p.FindVideo(id).Completed = true
	}
	assert.Equal(t, 50, p.CalculateProgress())

	for _, m := range DefaultCurriculum() {
		for _, v := range m.Videos {
			p.FindVideo(v.VideoID).Completed = true
		}
	}
	assert.Equal(t, 100, p.CalculateProgress())
}

func TestCalculateProgressRounds(t *testing.T) {
	p := &Progress{
		Modules: []ModuleProgress{{
			Videos: []VideoProgress{
				{VideoID: "a", Completed: true},
				{VideoID: "b"},
				{VideoID: "c"},
			},
		}},
		TotalVideos: 3,
	}
	assert.Equal(t, 33, p.CalculateProgress())

	p.Modules[0].Videos[1].Completed = true
	assert.Equal(t, 67, p.CalculateProgress())
}

func TestCalculateProgressEmptySnapshot(t *testing.T) {
	p := &Progress{}
	assert.Equal(t, 0, p.CalculateProgress())
	assert.Equal(t, 0, p.CountProofs())
	assert.Equal(t, float64(0), p.VerificationScore())
}

func TestCompleteVideoIdempotent(t *testing.T) {
	p := snapshotFromCurriculum(1)
	p.FindVideo("org_1_1").Completed = true
	p.RefreshTotals()
	first := p.TotalProgress

	p.FindVideo("org_1_1").Completed = true
	p.RefreshTotals()
	assert.Equal(t, first, p.TotalProgress)
}

func TestCountProofs(t *testing.T) {
	p := snapshotFromCurriculum(1)
	assert.Equal(t, 0, p.CountProofs())

	p.FindVideo("org_1_1").ProofImage = "/uploads/proofs/1-a.jpg"
	p.FindVideo("sust_3_2").ProofImage = "/uploads/proofs/1-b.jpg"
	assert.Equal(t, 2, p.CountProofs())

	// Resubmitting for the same video replaces, not adds.
	p.FindVideo("org_1_1").ProofImage = "/uploads/proofs/1-c.jpg"
	assert.Equal(t, 2, p.CountProofs())
}

func TestRefreshTotalsMarksCompletedModules(t *testing.T) {
	p := snapshotFromCurriculum(1)
	for _, id := range []string{"org_1_1", "org_1_2", "org_1_3"} {
		p.FindVideo(id).Completed = true
	}
	p.FindVideo("water_2_1").Completed = true

	p.RefreshTotals()

	assert.True(t, p.Modules[0].ModuleCompleted)
	assert.False(t, p.Modules[1].ModuleCompleted)
	assert.Equal(t, 33, p.TotalProgress)
}

func TestVerificationScore(t *testing.T) {
	p := snapshotFromCurriculum(1)

	// Half the curriculum watched, three proofs in.
	for _, id := range []string{"org_1_1", "org_1_2", "org_1_3", "water_2_1", "water_2_2", "water_2_3"} {
		p.FindVideo(id).Completed = true
	}
	for _, id := range []string{"org_1_1", "org_1_2", "org_1_3"} {
		p.FindVideo(id).ProofImage = "/uploads/proofs/1-" + id + ".jpg"
	}
	p.RefreshTotals()

	assert.Equal(t, 50, p.TotalProgress)
	assert.Equal(t, 3, p.TotalProofs)
	// 50% * 60 + 3/12 * 40
	assert.InDelta(t, 40.0, p.VerificationScore(), 0.001)
}

func TestVerificationScoreFullCompletion(t *testing.T) {
	p := snapshotFromCurriculum(1)
	for _, m := range DefaultCurriculum() {
		for _, v := range m.Videos {
			vp := p.FindVideo(v.VideoID)
			vp.Completed = true
			vp.ProofImage = "/uploads/proofs/1-" + v.VideoID + ".jpg"
		}
	}
	p.RefreshTotals()

	assert.InDelta(t, 100.0, p.VerificationScore(), 0.001)
}

func TestVerificationScoreUsesSnapshotSize(t *testing.T) {
	// A snapshot taken from a six-video catalog scores against six, not
	// against whatever the live catalog holds now.
	p := &Progress{
		Modules: []ModuleProgress{{
			Videos: []VideoProgress{
				{VideoID: "a", Completed: true, ProofImage: "x"},
				{VideoID: "b", Completed: true, ProofImage: "x"},
				{VideoID: "c", Completed: true, ProofImage: "x"},
				{VideoID: "d"},
				{VideoID: "e"},
				{VideoID: "f"},
			},
		}},
		TotalVideos: 6,
	}
	p.RefreshTotals()

	// 50% * 60 + 3/6 * 40
	assert.InDelta(t, 50.0, p.VerificationScore(), 0.001)
}
