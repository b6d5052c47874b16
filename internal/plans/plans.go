package plans

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/park-planner/internal/db"
	"github.com/example/park-planner/internal/planner"
)

// SavedPlan is one stored optimization run: the request that produced it
// plus the full result, so the re-planner can rebuild preferences later.
type SavedPlan struct {
	ID        string
	UserID    int64
	ParkID    string
	VisitDate time.Time
	Request   planner.PlanRequest
	Result    planner.Result
	CreatedAt time.Time
}

type Repo struct{ db *db.DB }

func NewRepo(d *db.DB) *Repo { return &Repo{db: d} }

func (r *Repo) Create(ctx context.Context, userID int64, req planner.PlanRequest, res *planner.Result) (string, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("plans: encode request: %w", err)
	}
	resJSON, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("plans: encode result: %w", err)
	}

	visitDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return "", fmt.Errorf("plans: bad visit date: %w", err)
	}

	id := uuid.NewString()
	err = r.db.Exec(ctx, `
INSERT INTO plans(id, user_id, park_id, visit_date, request, result)
VALUES ($1,$2,$3,$4,$5,$6)`,
		id, userID, req.ParkID, visitDate, reqJSON, resJSON)
	if err != nil {
		return "", db.WrapNotFound(err)
	}
	return id, nil
}

func (r *Repo) GetForUser(ctx context.Context, id string, userID int64) (SavedPlan, error) {
	var p SavedPlan
	var reqJSON, resJSON []byte
	err := r.db.QueryRow(ctx, `
SELECT id, user_id, park_id, visit_date, request, result, created_at
FROM plans WHERE id=$1 AND user_id=$2`, id, userID).
		Scan(&p.ID, &p.UserID, &p.ParkID, &p.VisitDate, &reqJSON, &resJSON, &p.CreatedAt)
	if err != nil {
		return SavedPlan{}, db.WrapNotFound(err)
	}
	if err := json.Unmarshal(reqJSON, &p.Request); err != nil {
		return SavedPlan{}, fmt.Errorf("plans: decode request: %w", err)
	}
	if err := json.Unmarshal(resJSON, &p.Result); err != nil {
		return SavedPlan{}, fmt.Errorf("plans: decode result: %w", err)
	}
	return p, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]SavedPlan, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, user_id, park_id, visit_date, request, result, created_at
FROM plans WHERE user_id=$1
ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedPlan
	for rows.Next() {
		var p SavedPlan
		var reqJSON, resJSON []byte
		if err := rows.Scan(&p.ID, &p.UserID, &p.ParkID, &p.VisitDate, &reqJSON, &resJSON, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(reqJSON, &p.Request); err != nil {
			return nil, fmt.Errorf("plans: decode request: %w", err)
		}
		if err := json.Unmarshal(resJSON, &p.Result); err != nil {
			return nil, fmt.Errorf("plans: decode result: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Replace stores the re-planned result under the same id.
func (r *Repo) Replace(ctx context.Context, id string, userID int64, res *planner.Result) error {
	resJSON, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("plans: encode result: %w", err)
	}
	return r.db.Exec(ctx, `UPDATE plans SET result=$3 WHERE id=$1 AND user_id=$2`, id, userID, resJSON)
}
