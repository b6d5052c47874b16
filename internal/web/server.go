package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/park-planner/internal/auth"
	"github.com/example/park-planner/internal/catalog"
	"github.com/example/park-planner/internal/db"
	"github.com/example/park-planner/internal/livestatus"
	"github.com/example/park-planner/internal/planner"
	"github.com/example/park-planner/internal/plans"
)

// CatalogSource supplies a park's experiences. Satisfied by catalog.Repo.
type CatalogSource interface {
	GetExperiences(ctx context.Context, parkID string) ([]catalog.Experience, error)
}

// LiveSource supplies the latest live-status snapshot. Satisfied by
// livestatus.Store.
type LiveSource interface {
	Snapshot(parkID string, now time.Time) (map[string]livestatus.Sample, error)
}

// PlanStore persists optimization results. Satisfied by plans.Repo.
type PlanStore interface {
	Create(ctx context.Context, userID int64, req planner.PlanRequest, res *planner.Result) (string, error)
	GetForUser(ctx context.Context, id string, userID int64) (plans.SavedPlan, error)
	ListByUser(ctx context.Context, userID int64) ([]plans.SavedPlan, error)
	Replace(ctx context.Context, id string, userID int64, res *planner.Result) error
}

type Server struct {
	Log       *zap.SugaredLogger
	Auth      *auth.Store // nil disables sessions; planning stays open
	Catalog   CatalogSource
	Live      LiveSource
	Plans     PlanStore
	Optimizer *planner.Optimizer
	Replanner *planner.Replanner

	BaseURL string
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("GET /api/parks/{parkID}/experiences", s.handleExperiences)
	mux.HandleFunc("GET /api/parks/{parkID}/live", s.handleLive)
	mux.HandleFunc("POST /api/plans", s.handleOptimize)

	if s.Auth != nil {
		mux.HandleFunc("POST /api/login", s.handleLogin)
		mux.HandleFunc("POST /api/logout", s.handleLogout)
		mux.Handle("GET /api/plans", s.Auth.RequireAuth(http.HandlerFunc(s.handlePlanList)))
		mux.Handle("GET /api/plans/{id}", s.Auth.RequireAuth(http.HandlerFunc(s.handlePlanGet)))
		mux.Handle("POST /api/plans/{id}/replan", s.Auth.RequireAuth(http.HandlerFunc(s.handleReplan)))
	}

	return mux
}

// Start serves until ctx is canceled, then shuts down gracefully.
func Start(ctx context.Context, addr string, h http.Handler, log *zap.SugaredLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	log.Infow("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	}
}

func (s *Server) handleExperiences(w http.ResponseWriter, r *http.Request) {
	parkID := r.PathValue("parkID")
	exps, err := s.Catalog.GetExperiences(r.Context(), parkID)
	if err != nil {
		s.dataError(w, "catalog unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"parkId": parkID, "experiences": exps})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	parkID := r.PathValue("parkID")
	snap, err := s.Live.Snapshot(parkID, time.Now())
	if err != nil {
		s.dataError(w, "live status unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"parkId": parkID, "status": snap})
}

type optimizeResponse struct {
	*planner.Result
	PlanID string `json:"planId,omitempty"`
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req planner.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	prefs, err := planner.Normalize(req)
	if err != nil {
		var verr *planner.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation failed",
				"fields": verr.Fields,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exps, live, ok := s.planInputs(w, r.Context(), prefs.ParkID)
	if !ok {
		return
	}

	res, err := s.Optimizer.Plan(exps, live, prefs)
	if err != nil {
		s.Log.Errorw("optimization failed", "park", prefs.ParkID, "err", err)
		writeError(w, http.StatusInternalServerError, "optimization failed")
		return
	}

	out := optimizeResponse{Result: res}
	if s.Auth != nil && s.Plans != nil {
		if uid, authed := s.Auth.UserID(r); authed {
			id, err := s.Plans.Create(r.Context(), uid, req, res)
			if err != nil {
				s.Log.Warnw("plan save failed", "err", err)
			} else {
				out.PlanID = id
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type replanRequest struct {
	Completed []string `json:"completed,omitempty"`
}

func (s *Server) handleReplan(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	id := r.PathValue("id")

	saved, err := s.Plans.GetForUser(r.Context(), id, uid)
	if err != nil {
		if db.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "plan load failed")
		return
	}

	var body replanRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
	}
	completed := make(map[string]bool, len(body.Completed))
	for _, cid := range body.Completed {
		completed[cid] = true
	}

	prefs, err := planner.Normalize(saved.Request)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stored plan request is no longer valid")
		return
	}

	exps, live, ok := s.planInputs(w, r.Context(), prefs.ParkID)
	if !ok {
		return
	}

	res, err := s.Replanner.Replan(exps, live, prefs, &saved.Result.Plan, time.Now(), completed)
	if err != nil {
		s.Log.Errorw("replan failed", "plan", id, "err", err)
		writeError(w, http.StatusInternalServerError, "replan failed")
		return
	}

	if err := s.Plans.Replace(r.Context(), id, uid, res); err != nil {
		s.Log.Warnw("plan update failed", "plan", id, "err", err)
	}
	writeJSON(w, http.StatusOK, optimizeResponse{Result: res, PlanID: id})
}

func (s *Server) handlePlanList(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	list, err := s.Plans.ListByUser(r.Context(), uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "plan list failed")
		return
	}
	type summary struct {
		ID               string `json:"id"`
		ParkID           string `json:"parkId"`
		VisitDate        string `json:"visitDate"`
		TotalAttractions int    `json:"totalAttractions"`
		CreatedAt        string `json:"createdAt"`
	}
	out := make([]summary, 0, len(list))
	for _, p := range list {
		out = append(out, summary{
			ID:               p.ID,
			ParkID:           p.ParkID,
			VisitDate:        p.VisitDate.Format("2006-01-02"),
			TotalAttractions: p.Result.Stats.TotalAttractions,
			CreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": out})
}

func (s *Server) handlePlanGet(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	saved, err := s.Plans.GetForUser(r.Context(), r.PathValue("id"), uid)
	if err != nil {
		if db.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "plan load failed")
		return
	}
	writeJSON(w, http.StatusOK, optimizeResponse{Result: &saved.Result, PlanID: saved.ID})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	uid, err := s.Auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err := s.Auth.SetSession(w, r, uid); err != nil {
		writeError(w, http.StatusInternalServerError, "session setup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"userId": uid})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

// planInputs loads the two collaborator snapshots, writing a 503 when
// either upstream is unavailable. Upstream failures are surfaced, never
// papered over with stale or fabricated data.
func (s *Server) planInputs(w http.ResponseWriter, ctx context.Context, parkID string) ([]catalog.Experience, map[string]livestatus.Sample, bool) {
	exps, err := s.Catalog.GetExperiences(ctx, parkID)
	if err != nil {
		s.dataError(w, "catalog unavailable", err)
		return nil, nil, false
	}
	live, err := s.Live.Snapshot(parkID, time.Now())
	if err != nil {
		s.dataError(w, "live status unavailable", err)
		return nil, nil, false
	}
	return exps, live, true
}

func (s *Server) dataError(w http.ResponseWriter, msg string, err error) {
	s.Log.Warnw(msg, "err", err)
	writeError(w, http.StatusServiceUnavailable, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
