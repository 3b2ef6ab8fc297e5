// SPDX-License-Identifier: MIT

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripstep/tripstep/internal/config"
	"github.com/tripstep/tripstep/internal/domain"
)

func suzhouStation() domain.POI {
	return domain.POI{
		ID: "su-008", Name: "苏州火车站", Lat: 31.3012, Lon: 120.5242,
		Category: domain.CategoryTransportHub, City: "Suzhou",
		AvgVisitHours: 0.5, Rating: 4.0, ReviewCount: 3000,
	}
}

func testSession(current domain.POI, durationHours, budget float64) *domain.Session {
	return &domain.Session{
		City:          "Suzhou",
		DurationHours: durationHours,
		Budget:        budget,
		Weather:       "sunny",
		Profile: domain.UserProfile{
			Purpose:   map[string]float64{"leisure": 0.8},
			Pace:      map[string]float64{"slow": 0.8, "medium": 0.2},
			Intensity: map[string]float64{"low": 0.3, "medium": 0.5, "high": 0.2},
		},
		CurrentState: domain.State{
			Current:           current,
			RemainingBudget:   budget,
			VisitedIDs:        map[string]bool{},
			RegionVisitCounts: map[string]int{},
		},
	}
}

func TestHourOfDay(t *testing.T) {
	assert.Equal(t, 9.0, HourOfDay(9, 0))
	assert.Equal(t, 14.5, HourOfDay(9, 5.5))
	assert.Equal(t, 1.0, HourOfDay(9, 16))
}

func TestFeasibility(t *testing.T) {
	cfg := config.Default().Pipeline
	garden := domain.POI{ID: "a", Name: "拙政园", Lat: 31.3232, Lon: 120.6290,
		Category: domain.CategoryAttraction, AvgVisitHours: 2.5}

	t.Run("passes with time and range", func(t *testing.T) {
		s := testSession(suzhouStation(), 72, 5000)
		ok, _ := Feasible(cfg, s, garden)
		assert.True(t, ok)
	})

	t.Run("visited drops", func(t *testing.T) {
		s := testSession(suzhouStation(), 72, 5000)
		s.CurrentState.VisitedIDs["a"] = true
		ok, reason := Feasible(cfg, s, garden)
		assert.False(t, ok)
		assert.Equal(t, "visited", reason)
	})

	t.Run("out of range drops", func(t *testing.T) {
		s := testSession(suzhouStation(), 72, 5000)
		far := garden
		far.Lat, far.Lon = 39.9, 116.4 // Beijing
		ok, reason := Feasible(cfg, s, far)
		assert.False(t, ok)
		assert.Equal(t, "distance", reason)
	})

	t.Run("insufficient time drops", func(t *testing.T) {
		s := testSession(suzhouStation(), 72, 5000)
		s.CurrentState.ElapsedHours = 71.5
		ok, reason := Feasible(cfg, s, garden)
		assert.False(t, ok)
		assert.Equal(t, "insufficient_time", reason)
	})

	t.Run("small hours are hotel only", func(t *testing.T) {
		s := testSession(suzhouStation(), 72, 5000)
		s.CurrentState.ElapsedHours = 18 // 9+18 = 3am
		ok, reason := Feasible(cfg, s, garden)
		assert.False(t, ok)
		assert.Equal(t, "time_of_day", reason)

		hotel := garden
		hotel.ID, hotel.Category, hotel.AvgVisitHours = "h", domain.CategoryHotel, 0.5
		ok, _ = Feasible(cfg, s, hotel)
		assert.True(t, ok)
	})
}

func TestEnumerateEdges(t *testing.T) {
	station := suzhouStation()

	t.Run("nearby gets walk and taxi only", func(t *testing.T) {
		near := station
		near.ID, near.Lat = "n", station.Lat+0.005 // ~0.55 km
		edges := EnumerateEdges(station, near)
		modes := map[domain.TransportMode]bool{}
		for _, e := range edges {
			modes[e.Mode] = true
		}
		assert.True(t, modes[domain.ModeWalk])
		assert.True(t, modes[domain.ModeTaxi])
		assert.False(t, modes[domain.ModeBus]) // below 1 km
		assert.False(t, modes[domain.ModeSubway])
	})

	t.Run("mid range gets taxi bus subway", func(t *testing.T) {
		garden := domain.POI{Lat: 31.3232, Lon: 120.6290} // ~10 km
		edges := EnumerateEdges(station, garden)
		modes := map[domain.TransportMode]float64{}
		for _, e := range edges {
			modes[e.Mode] = e.Cost
		}
		assert.NotContains(t, modes, domain.ModeWalk)
		assert.Contains(t, modes, domain.ModeTaxi)
		assert.Contains(t, modes, domain.ModeBus)
		assert.Contains(t, modes, domain.ModeSubway)
		assert.Equal(t, 2.0, modes[domain.ModeBus])
		assert.LessOrEqual(t, modes[domain.ModeSubway], 8.0)
		assert.Greater(t, modes[domain.ModeTaxi], 13.0)
	})

	t.Run("taxi cost formula", func(t *testing.T) {
		a := domain.POI{Lat: 31.0, Lon: 120.0}
		b := domain.POI{Lat: 31.0, Lon: 120.0}
		edges := EnumerateEdges(a, b)
		// zero distance: walk at 0 cost plus flag-fall taxi
		require.NotEmpty(t, edges)
		for _, e := range edges {
			if e.Mode == domain.ModeTaxi {
				assert.InDelta(t, 13.0, e.Cost, 1e-9)
			}
		}
	})
}

func TestRegionOf(t *testing.T) {
	tests := []struct {
		name, addr, want string
	}{
		{"拙政园", "苏州市姑苏区东北街", "姑苏"},
		{"虎丘", "苏州市虎丘区", "虎丘"},
		{"金鸡湖景区", "工业园区", "金鸡湖"},
		{"鼓浪屿", "厦门市", "鼓浪屿"},
		{"某小店", "杭州市西湖区", "西湖"},
		{"无名点", "某处", "其他"},
	}
	for _, tt := range tests {
		got := RegionOf(domain.POI{Name: tt.name, Address: tt.addr})
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestRuleTensions(t *testing.T) {
	s := testSession(suzhouStation(), 72, 5000)
	garden := domain.POI{Name: "拙政园", Category: domain.CategoryAttraction}

	t.Run("fresh region morning", func(t *testing.T) {
		got := RuleTensions(s, garden, "姑苏", 9)
		assert.InDelta(t, 0.8, got.Novelty, 1e-9)
		// different category from transport hub, famous landmark bump
		assert.InDelta(t, 0.5, got.Continuity, 1e-9)
		assert.InDelta(t, 0.6, got.Energy, 1e-9)
		assert.Zero(t, got.Conflict)
	})

	t.Run("saturated region evening", func(t *testing.T) {
		s2 := testSession(garden, 72, 5000)
		s2.CurrentState.RegionVisitCounts["姑苏"] = 2
		other := domain.POI{Name: "苏州博物馆", Category: domain.CategoryAttraction}
		got := RuleTensions(s2, other, "姑苏", 19)
		assert.InDelta(t, -0.6, got.Novelty, 1e-9)
		assert.InDelta(t, -0.4, got.Continuity, 1e-9) // same category, not famous
		assert.InDelta(t, -0.5, got.Energy, 1e-9)
		assert.Zero(t, got.Conflict) // all negative
	})

	t.Run("restaurant at lunch gets energy bump", func(t *testing.T) {
		rest := domain.POI{Name: "松鹤楼", Category: domain.CategoryRestaurant}
		got := RuleTensions(s, rest, "其他", 12)
		assert.InDelta(t, 0.2+0.4, got.Energy, 1e-9)
	})

	t.Run("mixed signs produce conflict", func(t *testing.T) {
		s2 := testSession(suzhouStation(), 72, 5000)
		s2.CurrentState.RegionVisitCounts["姑苏"] = 1
		got := RuleTensions(s2, garden, "姑苏", 9)
		assert.InDelta(t, -0.3, got.Novelty, 1e-9)
		assert.Greater(t, got.Conflict, 0.0)
	})
}

func TestScoreQualityAndFilter(t *testing.T) {
	cfg := config.Default().Quality

	garden := domain.POI{Name: "拙政园", Category: domain.CategoryAttraction,
		AvgVisitHours: 2.5, TicketPrice: 70, Rating: 4.7, ReviewCount: 23000}
	v := domain.Verification{WeightedRating: 4.7, ValidReviews: 23000}
	q := ScoreQuality(garden, v)
	assert.Greater(t, q.Playability, 0.5)
	assert.Greater(t, q.History, 0.5) // 园 token + ticket
	assert.Greater(t, q.Overall, 0.5)
	assert.True(t, PassesQuality(cfg, v, q))

	t.Run("thin reviews rejected when enabled", func(t *testing.T) {
		weak := domain.POI{Name: "无名馆", Category: domain.CategoryAttraction,
			AvgVisitHours: 1, Rating: 3.6, ReviewCount: 20}
		wv := domain.Verification{WeightedRating: 3.6, ValidReviews: 20}
		wq := ScoreQuality(weak, wv)
		assert.False(t, PassesQuality(cfg, wv, wq))

		off := cfg
		no := false
		off.Enabled = &no
		assert.True(t, PassesQuality(off, wv, wq))
	})

	t.Run("low rating passes through verification and fails the filter", func(t *testing.T) {
		s := testSession(suzhouStation(), 72, 5000)
		lowRated := domain.POI{ID: "su-low", Name: "平庸园", Lat: 31.3232, Lon: 120.6290,
			Category: domain.CategoryAttraction, City: "Suzhou",
			AvgVisitHours: 2, Rating: 3.5, ReviewCount: 5000}

		v := Verify(s, lowRated, 10)
		assert.InDelta(t, 3.5, v.WeightedRating, 1e-9)
		assert.False(t, PassesQuality(cfg, v, ScoreQuality(lowRated, v)))
	})

	t.Run("unrated POI takes the neutral default", func(t *testing.T) {
		s := testSession(suzhouStation(), 72, 5000)
		unrated := domain.POI{ID: "su-new", Name: "新展馆", Lat: 31.3232, Lon: 120.6290,
			Category: domain.CategoryAttraction, City: "Suzhou",
			AvgVisitHours: 2, ReviewCount: 200}
		assert.InDelta(t, 4.0, Verify(s, unrated, 10).WeightedRating, 1e-9)
	})

	t.Run("axes clamp to one", func(t *testing.T) {
		epic := domain.POI{Name: "古寺博物馆园", Address: "老城历史街区",
			Category: domain.CategoryAttraction, AvgVisitHours: 5, TicketPrice: 100,
			Rating: 5, ReviewCount: 1000000}
		ev := domain.Verification{WeightedRating: 5, ValidReviews: 1000000}
		eq := ScoreQuality(epic, ev)
		for _, axis := range []float64{eq.Playability, eq.Viewability, eq.Popularity, eq.History, eq.Overall} {
			assert.LessOrEqual(t, axis, 1.0)
			assert.GreaterOrEqual(t, axis, 0.0)
		}
	})
}

func TestMatchScore(t *testing.T) {
	profile := domain.UserProfile{
		Purpose:   map[string]float64{"culture": 0.9, "leisure": 0.8},
		Pace:      map[string]float64{"slow": 0.8, "medium": 0.2},
		Intensity: map[string]float64{"low": 0.3, "medium": 0.5, "high": 0.2},
	}

	attraction := domain.POI{Category: domain.CategoryAttraction, AvgVisitHours: 2.5}
	// purpose max 0.9, pace slow 0.8, intensity medium 0.5
	assert.InDelta(t, (0.9+0.8+0.5)/3, MatchScore(profile, attraction), 1e-9)

	hub := domain.POI{Category: domain.CategoryTransportHub, AvgVisitHours: 0.5}
	// no purpose tags; pace medium 0.2, very_low collapses to low 0.3
	assert.InDelta(t, (0.2+0.3)/2, MatchScore(profile, hub), 1e-9)

	assert.Equal(t, 0.5, MatchScore(domain.UserProfile{}, hub))

	rest := domain.POI{Category: domain.CategoryRestaurant, AvgVisitHours: 1}
	withFood := profile
	withFood.FoodPreference = map[string]float64{"local": 0.8}
	assert.Greater(t, MatchScore(withFood, rest), MatchScore(profile, rest)-1e-9)
}

func TestComposeAndRank(t *testing.T) {
	cfg := config.Default().Scoring

	mk := func(id string, base, novelty, minTime float64) *domain.CandidateOption {
		return &domain.CandidateOption{
			POI:       domain.POI{ID: id},
			Edges:     []domain.TransportEdge{{Mode: domain.ModeTaxi, TimeHours: minTime}},
			BaseScore: base,
			WAxis:     &domain.WAxisDetails{CCausal: 0.5, Tensions: domain.Tensions{Novelty: novelty}},
		}
	}

	t.Run("phi4 stays in range", func(t *testing.T) {
		o := mk("x", 0.99, 0.8, 0.1)
		Compose(cfg, []*domain.CandidateOption{o})
		assert.LessOrEqual(t, o.FinalScore, 1.0)
		assert.GreaterOrEqual(t, o.FinalScore, 0.0)
	})

	t.Run("tie break chain is total", func(t *testing.T) {
		a := mk("b-id", 0.5, 0.8, 0.2)
		b := mk("a-id", 0.5, 0.8, 0.2) // identical but for id
		c := mk("c-id", 0.5, 0.8, 0.1) // shorter edge
		d := mk("d-id", 0.5, 0.9, 0.5) // higher novelty
		opts := []*domain.CandidateOption{a, b, c, d}
		for _, o := range opts {
			o.FinalScore = 0.6 // equal scores exercise the tie-break chain
		}
		Rank(opts)

		assert.Equal(t, "d-id", opts[0].POI.ID) // novelty first
		assert.Equal(t, "c-id", opts[1].POI.ID) // then min edge time
		assert.Equal(t, "a-id", opts[2].POI.ID) // then id
		assert.Equal(t, "b-id", opts[3].POI.ID)
		for i, o := range opts {
			assert.Equal(t, i+1, o.Rank)
		}
	})
}

func TestRuleCausalClamps(t *testing.T) {
	low := RuleCausal(domain.Tensions{Novelty: -1, Continuity: -1, Energy: -1})
	high := RuleCausal(domain.Tensions{Novelty: 1, Continuity: 1, Energy: 1})
	assert.Equal(t, 0.1, low)
	assert.Equal(t, 0.95, high)
	mid := RuleCausal(domain.Tensions{Novelty: 0.8, Continuity: 0.3, Energy: 0.6})
	assert.InDelta(t, 0.5+0.24+0.06+0.06, mid, 1e-9)
}

func TestAnnotateRisk(t *testing.T) {
	garden := domain.POI{ID: "a", Name: "拙政园", Lat: 31.3232, Lon: 120.6290,
		Category: domain.CategoryAttraction, AvgVisitHours: 2.5, TicketPrice: 70}
	edge := domain.TransportEdge{Mode: domain.ModeTaxi, TimeHours: 0.4, Cost: 30}
	opt := func() *domain.CandidateOption {
		return &domain.CandidateOption{POI: garden, Edges: []domain.TransportEdge{edge}}
	}

	t.Run("comfortable is info", func(t *testing.T) {
		s := testSession(suzhouStation(), 72, 5000)
		o := opt()
		AnnotateRisk(s, []*domain.CandidateOption{o})
		assert.Equal(t, domain.RiskInfo, o.RiskLevel)
		assert.Nil(t, o.RiskDetails)
	})

	t.Run("budget thresholds", func(t *testing.T) {
		s := testSession(suzhouStation(), 72, 160)
		o := opt()
		AnnotateRisk(s, []*domain.CandidateOption{o})
		// 160 - 30 - 70 = 60: below 100, above 50
		assert.Equal(t, domain.RiskWarning, o.RiskLevel)
		require.NotNil(t, o.RiskDetails)
		assert.Equal(t, "budget", o.RiskDetails.Type)

		s.CurrentState.RemainingBudget = 120 // leaves 20
		o2 := opt()
		AnnotateRisk(s, []*domain.CandidateOption{o2})
		assert.Equal(t, domain.RiskCritical, o2.RiskLevel)
	})

	t.Run("time thresholds", func(t *testing.T) {
		s := testSession(suzhouStation(), 72, 5000)
		s.CurrentState.ElapsedHours = 68.5 // 3.5 left, action takes 2.9
		o := opt()
		AnnotateRisk(s, []*domain.CandidateOption{o})
		assert.Equal(t, domain.RiskWarning, o.RiskLevel)

		s.CurrentState.ElapsedHours = 69 // 3.0 left, 0.1 after
		o2 := opt()
		AnnotateRisk(s, []*domain.CandidateOption{o2})
		assert.Equal(t, domain.RiskCritical, o2.RiskLevel)
	})

	t.Run("return deadline", func(t *testing.T) {
		s := testSession(suzhouStation(), 72, 5000)
		s.CurrentState.ElapsedHours = 5
		s.Return = &domain.ReturnConstraint{DeadlineHours: 8, Place: suzhouStation()}
		o := opt() // finish at 5+0.4+2.5 = 7.9, return + buffer blows 8
		AnnotateRisk(s, []*domain.CandidateOption{o})
		assert.Equal(t, domain.RiskCritical, o.RiskLevel)
		require.NotNil(t, o.RiskDetails)
		assert.Equal(t, "return", o.RiskDetails.Type)
	})
}
