// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tripstep/tripstep/internal/config"
	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/log"
	"github.com/tripstep/tripstep/internal/metrics"
	"github.com/tripstep/tripstep/internal/pipeline"
	"github.com/tripstep/tripstep/internal/poi"
	"github.com/tripstep/tripstep/internal/profile"
)

// InitRequest carries everything needed to start a session.
type InitRequest struct {
	City          string
	StartPOI      string // id or name, resolved against the POI store
	DurationHours float64
	Budget        float64
	UserInput     string
	Weather       string
	UserID        string
	ReturnBy      *domain.ReturnConstraint
}

// Summary is the compact session-state view attached to responses.
type Summary struct {
	ID              string    `json:"id"`
	City            string    `json:"city"`
	CurrentPOI      string    `json:"current_poi"`
	VisitedCount    int       `json:"visited_count"`
	ElapsedHours    float64   `json:"elapsed_hours"`
	RemainingHours  float64   `json:"remaining_hours"`
	RemainingBudget float64   `json:"remaining_budget"`
	SpentBudget     float64   `json:"spent_budget"`
	Weather         string    `json:"weather"`
	CreatedAt       time.Time `json:"created_at"`
	LastActive      time.Time `json:"last_active"`
}

// SelectRequest picks one option from the session's last shortlist, by index
// or by POI id, with an optional transport mode (min-time edge when empty).
type SelectRequest struct {
	OptionIndex *int
	OptionID    string
	Mode        domain.TransportMode
}

// Coordinator owns session lifecycle: initialization, shortlist generation
// and selection. It is the only writer of session state.
type Coordinator struct {
	store     *Store
	pipe      *pipeline.Pipeline
	pois      poi.Store
	snapshots *SnapshotStore // nil disables persistence
	cfg       config.Config
}

// NewCoordinator wires the coordinator. snapshots may be nil.
func NewCoordinator(store *Store, pipe *pipeline.Pipeline, pois poi.Store,
	snapshots *SnapshotStore, cfg config.Config) *Coordinator {
	return &Coordinator{store: store, pipe: pipe, pois: pois, snapshots: snapshots, cfg: cfg}
}

// Initialize derives the user profile, resolves the start POI and registers
// a fresh session.
func (c *Coordinator) Initialize(ctx context.Context, req InitRequest) (*domain.Session, error) {
	if req.City == "" {
		return nil, domain.NewReasonError(domain.RInvalidInput, "city is required", nil)
	}
	if req.DurationHours <= 0 {
		return nil, domain.NewReasonError(domain.RInvalidInput, "duration must be positive", nil)
	}
	if req.Budget < 0 {
		return nil, domain.NewReasonError(domain.RInvalidInput, "budget must be non-negative", nil)
	}
	start, err := c.pois.Find(ctx, req.City, req.StartPOI)
	if err != nil {
		return nil, err
	}

	weather := req.Weather
	if weather == "" {
		weather = "sunny"
	}
	now := time.Now()
	state := domain.State{
		Current:           start,
		RemainingBudget:   req.Budget,
		VisitedIDs:        map[string]bool{},
		RegionVisitCounts: map[string]int{},
	}
	sess := &domain.Session{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		City:          req.City,
		DurationHours: req.DurationHours,
		Budget:        req.Budget,
		Weather:       weather,
		Profile:       profile.Extract(req.UserInput),
		Return:        req.ReturnBy,
		InitialState:  state.Clone(),
		CurrentState:  state,
		CreatedAt:     now,
		LastActive:    now,
	}
	c.store.Put(sess)
	c.snapshot(sess)

	logger := log.WithComponentFromContext(ctx, "coordinator")
	logger.Info().
		Str(log.FieldSessionID, sess.ID).Str(log.FieldCity, sess.City).
		Msg("session initialized")
	return sess, nil
}

// NextOptions produces the next shortlist for the session and remembers it
// for a following Select. Session state is read-only here.
func (c *Coordinator) NextOptions(ctx context.Context, id string, k int) (*pipeline.Result, *Summary, error) {
	started := time.Now()

	var snapshot *domain.Session
	if err := c.store.View(id, func(s *domain.Session) error {
		cp := *s
		cp.CurrentState = s.CurrentState.Clone()
		snapshot = &cp
		return nil
	}); err != nil {
		metrics.RecordOptionsRequest("error", time.Since(started))
		return nil, nil, err
	}

	res, err := c.pipe.Options(ctx, snapshot, k)
	if err != nil {
		metrics.RecordOptionsRequest("error", time.Since(started))
		return nil, nil, err
	}

	var sum *Summary
	if err := c.store.Update(id, func(s *domain.Session) error {
		s.LastOptions = res.Options
		sum = summarize(s)
		return nil
	}); err != nil {
		metrics.RecordOptionsRequest("error", time.Since(started))
		return nil, nil, err
	}

	outcome := "ok"
	if len(res.Options) == 0 {
		outcome = "empty"
	}
	metrics.RecordOptionsRequest(outcome, time.Since(started))
	return res, sum, nil
}

// Select applies one choice from the session's last shortlist and advances
// the state. Fails with RInvalidSelection when the reference is stale or the
// invariants would break.
func (c *Coordinator) Select(ctx context.Context, id string, req SelectRequest) (*domain.CandidateOption, *Summary, error) {
	var (
		chosen *domain.CandidateOption
		sum    *Summary
	)
	err := c.store.Update(id, func(s *domain.Session) error {
		o, err := resolveOption(s, req)
		if err != nil {
			return err
		}
		edge, err := resolveEdge(o, req.Mode)
		if err != nil {
			return err
		}
		if s.CurrentState.Visited(o.POI.ID) {
			return domain.NewReasonError(domain.RInvalidSelection, "POI already visited: "+o.POI.ID, nil)
		}

		region := o.Region()
		s.CurrentState.Current = o.POI
		s.CurrentState.ElapsedHours += edge.TimeHours + o.POI.AvgVisitHours
		s.CurrentState.RemainingBudget -= edge.Cost + o.POI.TicketPrice
		s.CurrentState.VisitedIDs[o.POI.ID] = true
		s.CurrentState.RegionVisitCounts[region]++
		if s.CurrentState.VisitQuality == nil {
			s.CurrentState.VisitQuality = map[string]float64{}
		}
		s.CurrentState.VisitQuality[o.POI.ID] = o.Quality.Overall
		s.History = append(s.History, domain.Selection{
			POI:        o.POI,
			Edge:       edge,
			Region:     region,
			ChosenAt:   time.Now(),
			CostSpent:  edge.Cost + o.POI.TicketPrice,
			HoursSpent: edge.TimeHours + o.POI.AvgVisitHours,
		})
		s.LastOptions = nil // stale after a move
		chosen = o
		sum = summarize(s)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.RecordSelection()
	if c.snapshots != nil {
		if err := c.store.View(id, func(s *domain.Session) error {
			c.snapshot(s)
			return nil
		}); err != nil {
			logger := log.WithComponentFromContext(ctx, "coordinator")
			logger.Warn().Err(err).
				Str(log.FieldSessionID, id).Msg("snapshot after select failed")
		}
	}
	return chosen, sum, nil
}

// ResolvePOI resolves an id-or-name reference against the POI store.
func (c *Coordinator) ResolvePOI(ctx context.Context, city, idOrName string) (domain.POI, error) {
	return c.pois.Find(ctx, city, idOrName)
}

// Info returns the session summary.
func (c *Coordinator) Info(id string) (*Summary, error) {
	var sum *Summary
	if err := c.store.View(id, func(s *domain.Session) error {
		sum = summarize(s)
		return nil
	}); err != nil {
		return nil, err
	}
	return sum, nil
}

// Delete drops the session. Idempotent.
func (c *Coordinator) Delete(id string) {
	c.store.Delete(id)
	if c.snapshots != nil {
		if err := c.snapshots.Delete(id); err != nil {
			logger := log.WithComponent("coordinator")
			logger.Warn().Err(err).
				Str(log.FieldSessionID, id).Msg("snapshot delete failed")
		}
	}
}

func (c *Coordinator) snapshot(s *domain.Session) {
	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.Save(s); err != nil {
		logger := log.WithComponent("coordinator")
		logger.Warn().Err(err).
			Str(log.FieldSessionID, s.ID).Msg("snapshot save failed")
	}
}

func resolveOption(s *domain.Session, req SelectRequest) (*domain.CandidateOption, error) {
	if len(s.LastOptions) == 0 {
		return nil, domain.NewReasonError(domain.RInvalidSelection, "no current shortlist; fetch options first", nil)
	}
	if req.OptionIndex != nil {
		i := *req.OptionIndex
		if i < 0 || i >= len(s.LastOptions) {
			return nil, domain.NewReasonError(domain.RInvalidSelection, "option index out of bounds", nil)
		}
		return s.LastOptions[i], nil
	}
	if req.OptionID != "" {
		for _, o := range s.LastOptions {
			if o.POI.ID == req.OptionID {
				return o, nil
			}
		}
		return nil, domain.NewReasonError(domain.RInvalidSelection, "option not in current shortlist: "+req.OptionID, nil)
	}
	return nil, domain.NewReasonError(domain.RInvalidSelection, "option_index or option_id required", nil)
}

func resolveEdge(o *domain.CandidateOption, mode domain.TransportMode) (domain.TransportEdge, error) {
	if mode == "" {
		return domain.MinTimeEdge(o.Edges), nil
	}
	for _, e := range o.Edges {
		if e.Mode == mode {
			return e, nil
		}
	}
	return domain.TransportEdge{}, domain.NewReasonError(domain.RInvalidSelection,
		"transport mode not available for this option: "+string(mode), nil)
}

func summarize(s *domain.Session) *Summary {
	return &Summary{
		ID:              s.ID,
		City:            s.City,
		CurrentPOI:      s.CurrentState.Current.Name,
		VisitedCount:    len(s.CurrentState.VisitedIDs),
		ElapsedHours:    s.CurrentState.ElapsedHours,
		RemainingHours:  s.RemainingHours(),
		RemainingBudget: s.CurrentState.RemainingBudget,
		SpentBudget:     s.Budget - s.CurrentState.RemainingBudget,
		Weather:         s.Weather,
		CreatedAt:       s.CreatedAt,
		LastActive:      s.LastActive,
	}
}
