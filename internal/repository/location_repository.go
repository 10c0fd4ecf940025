package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bondtrack/bondtrack-backend-go/internal/models"
)

// LocationRepository is the Location Store: append-only persistence of raw
// observations plus the latest derived pattern and assessment per client.
type LocationRepository struct {
	db *sql.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// AppendObservation records a new observation. Observations are immutable;
// there is no update path.
func (r *LocationRepository) AppendObservation(ctx context.Context, obs *models.LocationObservation) error {
	query := `
		INSERT INTO location_observations (
			id, client_id, latitude, longitude, address,
			timestamp, accuracy, source, verified
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	verified := 0
	if obs.Verified {
		verified = 1
	}

	_, err := r.db.ExecContext(ctx, query,
		obs.ID, obs.ClientID, obs.Latitude, obs.Longitude, obs.Address,
		obs.Timestamp.Unix(), obs.Accuracy, string(obs.Source), verified,
	)
	if err != nil {
		return fmt.Errorf("failed to insert observation: %w", err)
	}

	return nil
}

// GetObservations retrieves a client's observations in the trailing daysBack
// window, ordered by timestamp ascending
func (r *LocationRepository) GetObservations(ctx context.Context, clientID string, daysBack int) ([]models.LocationObservation, error) {
	if daysBack <= 0 {
		daysBack = 30
	}
	cutoff := time.Now().AddDate(0, 0, -daysBack).Unix()

	query := `
		SELECT id, client_id, latitude, longitude, address,
			timestamp, accuracy, source, verified
		FROM location_observations
		WHERE client_id = ? AND timestamp >= ?
		ORDER BY timestamp ASC
	`

	rows, err := r.db.QueryContext(ctx, query, clientID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var observations []models.LocationObservation
	for rows.Next() {
		var obs models.LocationObservation
		var ts int64
		var verified int
		var source string
		err := rows.Scan(
			&obs.ID, &obs.ClientID, &obs.Latitude, &obs.Longitude, &obs.Address,
			&ts, &obs.Accuracy, &source, &verified,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		obs.Timestamp = time.Unix(ts, 0).UTC()
		obs.Source = models.LocationSource(source)
		obs.Verified = verified != 0
		observations = append(observations, obs)
	}

	return observations, rows.Err()
}

// SavePattern replaces the client's pattern snapshot
func (r *LocationRepository) SavePattern(ctx context.Context, pattern *models.LocationPattern) error {
	doc, err := json.Marshal(pattern)
	if err != nil {
		return fmt.Errorf("failed to marshal pattern: %w", err)
	}

	query := `
		INSERT INTO location_patterns (client_id, pattern_type, compliance_score, pattern_json, last_analysis)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			pattern_type = excluded.pattern_type,
			compliance_score = excluded.compliance_score,
			pattern_json = excluded.pattern_json,
			last_analysis = excluded.last_analysis
	`

	_, err = r.db.ExecContext(ctx, query,
		pattern.ClientID, string(pattern.PatternType), pattern.Analysis.ComplianceScore,
		string(doc), pattern.LastAnalysis.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save pattern: %w", err)
	}

	return nil
}

// GetPattern returns the client's current pattern, or nil when none exists
func (r *LocationRepository) GetPattern(ctx context.Context, clientID string) (*models.LocationPattern, error) {
	query := `SELECT pattern_json FROM location_patterns WHERE client_id = ?`

	var doc string
	err := r.db.QueryRowContext(ctx, query, clientID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern: %w", err)
	}

	var pattern models.LocationPattern
	if err := json.Unmarshal([]byte(doc), &pattern); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pattern: %w", err)
	}

	return &pattern, nil
}

// SaveAssessment replaces the client's risk assessment
func (r *LocationRepository) SaveAssessment(ctx context.Context, assessment *models.SkipBailRiskAssessment) error {
	doc, err := json.Marshal(assessment)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}

	query := `
		INSERT INTO risk_assessments (client_id, risk_level, risk_score, assessment_json, last_assessment)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			risk_level = excluded.risk_level,
			risk_score = excluded.risk_score,
			assessment_json = excluded.assessment_json,
			last_assessment = excluded.last_assessment
	`

	_, err = r.db.ExecContext(ctx, query,
		assessment.ClientID, string(assessment.RiskLevel), assessment.RiskScore,
		string(doc), assessment.LastAssessment.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}

	return nil
}

// GetAssessment returns the client's current assessment, or nil when none exists
func (r *LocationRepository) GetAssessment(ctx context.Context, clientID string) (*models.SkipBailRiskAssessment, error) {
	query := `SELECT assessment_json FROM risk_assessments WHERE client_id = ?`

	var doc string
	err := r.db.QueryRowContext(ctx, query, clientID).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment: %w", err)
	}

	var assessment models.SkipBailRiskAssessment
	if err := json.Unmarshal([]byte(doc), &assessment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assessment: %w", err)
	}

	return &assessment, nil
}

// ListAssessments returns every client's current assessment, highest risk
// first, ties broken by score descending
func (r *LocationRepository) ListAssessments(ctx context.Context) ([]models.SkipBailRiskAssessment, error) {
	query := `
		SELECT assessment_json
		FROM risk_assessments
		ORDER BY
			CASE risk_level
				WHEN 'CRITICAL' THEN 0
				WHEN 'HIGH' THEN 1
				WHEN 'MEDIUM' THEN 2
				ELSE 3
			END,
			risk_score DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	assessments := []models.SkipBailRiskAssessment{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		var assessment models.SkipBailRiskAssessment
		if err := json.Unmarshal([]byte(doc), &assessment); err != nil {
			return nil, fmt.Errorf("failed to unmarshal assessment: %w", err)
		}
		assessments = append(assessments, assessment)
	}

	return assessments, rows.Err()
}
