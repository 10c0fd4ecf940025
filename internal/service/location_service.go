package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/bondtrack/bondtrack-backend-go/internal/analysis"
	"github.com/bondtrack/bondtrack-backend-go/internal/models"
	"github.com/bondtrack/bondtrack-backend-go/internal/spatial"
)

// ErrInvalidObservation marks caller input rejected at the recording
// boundary, before anything is persisted
var ErrInvalidObservation = errors.New("invalid observation")

// Store is the persistence contract the analytics core depends on. The
// concrete implementation is injected at construction so tests can supply
// doubles.
type Store interface {
	AppendObservation(ctx context.Context, obs *models.LocationObservation) error
	GetObservations(ctx context.Context, clientID string, daysBack int) ([]models.LocationObservation, error)
	SavePattern(ctx context.Context, pattern *models.LocationPattern) error
	GetPattern(ctx context.Context, clientID string) (*models.LocationPattern, error)
	SaveAssessment(ctx context.Context, assessment *models.SkipBailRiskAssessment) error
	GetAssessment(ctx context.Context, clientID string) (*models.SkipBailRiskAssessment, error)
	ListAssessments(ctx context.Context) ([]models.SkipBailRiskAssessment, error)
}

// LocationService orchestrates the analysis pipeline: observation intake,
// debounced re-analysis, pattern computation, and risk assessment. Analysis
// runs for the same client are serialized with a per-client lock; different
// clients run independently.
type LocationService struct {
	store    Store
	debounce time.Duration

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	timers map[string]*time.Timer
}

// NewLocationService creates a new location service
func NewLocationService(store Store, debounce time.Duration) *LocationService {
	return &LocationService{
		store:    store,
		debounce: debounce,
		locks:    make(map[string]*sync.Mutex),
		timers:   make(map[string]*time.Timer),
	}
}

// RecordObservation validates and appends a new observation, then schedules
// a debounced background analysis run for the client
func (s *LocationService) RecordObservation(ctx context.Context, clientID string, input models.ObservationInput) (*models.LocationObservation, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	obs := &models.LocationObservation{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Address:   input.Address,
		Timestamp: time.Now().UTC(),
		Accuracy:  input.Accuracy,
		Source:    models.LocationSource(input.Source),
		Verified:  input.Verified,
	}

	if err := s.store.AppendObservation(ctx, obs); err != nil {
		return nil, err
	}

	s.scheduleAnalysis(clientID)

	return obs, nil
}

// GetObservations returns the client's observations in the trailing window
func (s *LocationService) GetObservations(ctx context.Context, clientID string, daysBack int) ([]models.LocationObservation, error) {
	return s.store.GetObservations(ctx, clientID, daysBack)
}

// AnalyzePatterns recomputes and persists the client's pattern snapshot,
// replacing any prior one
func (s *LocationService) AnalyzePatterns(ctx context.Context, clientID string) (*models.LocationPattern, error) {
	lock := s.clientLock(clientID)
	lock.Lock()
	defer lock.Unlock()

	observations, err := s.store.GetObservations(ctx, clientID, analysis.ComplianceWindowDays)
	if err != nil {
		return nil, err
	}

	pattern := analysis.AnalyzePattern(clientID, observations, time.Now().UTC())

	if err := s.store.SavePattern(ctx, pattern); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"client_id":    clientID,
		"pattern_type": pattern.PatternType,
		"compliance":   pattern.Analysis.ComplianceScore,
		"observations": len(observations),
	}).Info("pattern analysis completed")

	return pattern, nil
}

// GetPattern returns the client's current pattern, or nil when none exists
func (s *LocationService) GetPattern(ctx context.Context, clientID string) (*models.LocationPattern, error) {
	return s.store.GetPattern(ctx, clientID)
}

// AssessRisk recomputes and persists the client's risk assessment from the
// current pattern. Callers wanting a fresh pattern should run
// AnalyzePatterns first; otherwise the stored snapshot is used as-is.
func (s *LocationService) AssessRisk(ctx context.Context, clientID string) (*models.SkipBailRiskAssessment, error) {
	lock := s.clientLock(clientID)
	lock.Lock()
	defer lock.Unlock()

	pattern, err := s.store.GetPattern(ctx, clientID)
	if err != nil {
		return nil, err
	}

	observations, err := s.store.GetObservations(ctx, clientID, analysis.ComplianceWindowDays)
	if err != nil {
		return nil, err
	}

	assessment := analysis.AssessRisk(clientID, pattern, observations, time.Now().UTC())

	if err := s.store.SaveAssessment(ctx, assessment); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"client_id":  clientID,
		"risk_level": assessment.RiskLevel,
		"risk_score": assessment.RiskScore,
		"alerts":     len(assessment.Alerts),
	}).Info("risk assessment completed")

	return assessment, nil
}

// GetRiskAssessment returns the client's current assessment, or nil when
// none exists
func (s *LocationService) GetRiskAssessment(ctx context.Context, clientID string) (*models.SkipBailRiskAssessment, error) {
	return s.store.GetAssessment(ctx, clientID)
}

// GetAllRiskAssessments returns every client's current assessment, highest
// risk first
func (s *LocationService) GetAllRiskAssessments(ctx context.Context) ([]models.SkipBailRiskAssessment, error) {
	return s.store.ListAssessments(ctx)
}

// Stop cancels any pending debounced analysis runs
func (s *LocationService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for clientID, timer := range s.timers {
		timer.Stop()
		delete(s.timers, clientID)
	}
}

// scheduleAnalysis arms (or re-arms) the client's debounce timer. When it
// fires, the full pipeline runs: pattern analysis followed by risk
// assessment.
func (s *LocationService) scheduleAnalysis(clientID string) {
	if s.debounce <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[clientID]; ok {
		timer.Stop()
	}
	s.timers[clientID] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		delete(s.timers, clientID)
		s.mu.Unlock()

		ctx := context.Background()
		if _, err := s.AnalyzePatterns(ctx, clientID); err != nil {
			log.WithField("client_id", clientID).WithError(err).Error("background pattern analysis failed")
			return
		}
		if _, err := s.AssessRisk(ctx, clientID); err != nil {
			log.WithField("client_id", clientID).WithError(err).Error("background risk assessment failed")
		}
	})
}

// clientLock returns the per-client analysis mutex, creating it on first use
func (s *LocationService) clientLock(clientID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[clientID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[clientID] = lock
	}
	return lock
}

// validateInput rejects malformed coordinates and unknown sources before
// anything reaches the store
func validateInput(input models.ObservationInput) error {
	if !spatial.ValidCoordinate(input.Latitude, input.Longitude) {
		return fmt.Errorf("%w: coordinates out of range", ErrInvalidObservation)
	}
	if input.Accuracy < 0 {
		return fmt.Errorf("%w: negative accuracy", ErrInvalidObservation)
	}
	if !models.LocationSource(input.Source).Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidObservation, input.Source)
	}
	return nil
}
