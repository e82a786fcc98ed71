package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lintang/gridrouter/pkg/concurrent"
	"lintang/gridrouter/pkg/datastructure"
	"lintang/gridrouter/pkg/engine/pathsolver"
	"lintang/gridrouter/pkg/guidance"
	"lintang/gridrouter/pkg/kv"
	"lintang/gridrouter/pkg/server"
	"lintang/gridrouter/pkg/terrain"
	"lintang/gridrouter/pkg/util"

	"github.com/google/uuid"
)

type KVDB interface {
	SaveTerrain(name string, g *terrain.Grid) error
	LoadTerrain(name string) (*terrain.Grid, error)
	ListTerrains() ([]string, error)
	SaveRoute(rec kv.RouteRecord) error
	SaveRoutes(recs []kv.RouteRecord) error
	GetRoute(terrainName string, start, end datastructure.GridCoordinate) (kv.RouteRecord, error)
}

// SolverObserver dipanggil setiap selesai satu Solve (buat metrics).
type SolverObserver interface {
	ObserveSolve(status string, steps int)
}

type session struct {
	id        string
	terrain   string
	solver    *pathsolver.PathSolver
	createdAt time.Time
	persisted bool
}

type SessionView struct {
	ID        string              `json:"id"`
	Terrain   string              `json:"terrain"`
	CreatedAt time.Time           `json:"created_at"`
	State     pathsolver.Snapshot `json:"state"`
}

type RouteView struct {
	Terrain      string                         `json:"terrain"`
	Path         []datastructure.GridCoordinate `json:"path"`
	Cost         float64                        `json:"cost"`
	Turns        int                            `json:"turns"`
	Steps        int                            `json:"steps"`
	Polyline     string                         `json:"polyline"`
	Instructions []guidance.Instruction         `json:"instructions"`
}

type Options struct {
	DefaultBudget time.Duration
	MaxBudget     time.Duration
	Workers       int
}

type SolverService struct {
	kv       KVDB
	log      *slog.Logger
	observer SolverObserver
	opts     Options

	mu       sync.RWMutex
	sessions map[string]*session
	terrains map[string]*terrain.Grid
}

func NewSolverService(kvdb KVDB, log *slog.Logger, observer SolverObserver, opts Options) *SolverService {
	if opts.MaxBudget <= 0 {
		opts.MaxBudget = time.Second
	}
	if opts.DefaultBudget <= 0 || opts.DefaultBudget > opts.MaxBudget {
		opts.DefaultBudget = opts.MaxBudget
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &SolverService{
		kv:       kvdb,
		log:      log,
		observer: observer,
		opts:     opts,
		sessions: make(map[string]*session),
		terrains: make(map[string]*terrain.Grid),
	}
}

func (uc *SolverService) RegisterTerrain(ctx context.Context, name string, g *terrain.Grid) error {
	if err := uc.kv.SaveTerrain(name, g); err != nil {
		return server.WrapErrorf(err, server.ErrInternalServerError, "failed to save terrain %s", name)
	}
	uc.mu.Lock()
	uc.terrains[name] = g
	uc.mu.Unlock()
	uc.log.Info("terrain registered", "terrain", name, "rows", g.Rows, "cols", g.Cols, "diagonal", g.Diagonal)
	return nil
}

func (uc *SolverService) Terrains(ctx context.Context) ([]string, error) {
	names, err := uc.kv.ListTerrains()
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}
	return names, nil
}

func (uc *SolverService) terrain(name string) (*terrain.Grid, error) {
	uc.mu.RLock()
	g, ok := uc.terrains[name]
	uc.mu.RUnlock()
	if ok {
		return g, nil
	}

	g, err := uc.kv.LoadTerrain(name)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, server.WrapErrorf(err, server.ErrNotFound, "terrain %s not found", name)
	}
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}
	uc.mu.Lock()
	uc.terrains[name] = g
	uc.mu.Unlock()
	return g, nil
}

// endpoints cek start & end ada di dalam terrain, kalau snap true geser ke cell passable terdekat.
func (uc *SolverService) endpoints(g *terrain.Grid, start, end datastructure.GridCoordinate, snap bool) (datastructure.GridCoordinate, datastructure.GridCoordinate, error) {
	if !g.InBounds(start) || !g.InBounds(end) {
		return start, end, server.WrapErrorf(terrain.ErrOutOfBounds, server.ErrBadParamInput,
			"start %s or end %s is outside the %dx%d terrain", start, end, g.Rows, g.Cols)
	}
	if !snap {
		return start, end, nil
	}

	snapper := terrain.NewSnapper(g)
	snappedStart, err := snapper.Snap(start)
	if err != nil {
		return start, end, server.WrapErrorf(err, server.ErrBadParamInput, "terrain has no passable cell")
	}
	snappedEnd, err := snapper.Snap(end)
	if err != nil {
		return start, end, server.WrapErrorf(err, server.ErrBadParamInput, "terrain has no passable cell")
	}
	return snappedStart, snappedEnd, nil
}

func (uc *SolverService) CreateSession(ctx context.Context, terrainName string, start, end datastructure.GridCoordinate, snap bool) (SessionView, error) {
	g, err := uc.terrain(terrainName)
	if err != nil {
		return SessionView{}, err
	}
	start, end, err = uc.endpoints(g, start, end, snap)
	if err != nil {
		return SessionView{}, err
	}

	solver := pathsolver.NewPathSolver(g)
	if err := solver.SetStart(start.Row, start.Col); err != nil {
		return SessionView{}, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}
	if err := solver.SetEnd(end.Row, end.Col); err != nil {
		return SessionView{}, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}

	sess := &session{
		id:        uuid.NewString(),
		terrain:   terrainName,
		solver:    solver,
		createdAt: time.Now(),
	}
	uc.mu.Lock()
	uc.sessions[sess.id] = sess
	uc.mu.Unlock()

	uc.log.Info("session created", "session", sess.id, "terrain", terrainName, "start", start.String(), "end", end.String())
	return uc.view(sess), nil
}

func (uc *SolverService) session(id string) (*session, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	sess, ok := uc.sessions[id]
	if !ok {
		return nil, server.WrapErrorf(nil, server.ErrNotFound, "session %s not found", id)
	}
	return sess, nil
}

func (uc *SolverService) view(sess *session) SessionView {
	return SessionView{
		ID:        sess.id,
		Terrain:   sess.terrain,
		CreatedAt: sess.createdAt,
		State:     sess.solver.Snapshot(),
	}
}

func (uc *SolverService) budget(requested time.Duration) time.Duration {
	if requested <= 0 {
		return uc.opts.DefaultBudget
	}
	if requested > uc.opts.MaxBudget {
		return uc.opts.MaxBudget
	}
	return requested
}

// Solve lanjutkan pencarian session selama budget. Kalau solusi ketemu, rute disimpan ke kv.
func (uc *SolverService) Solve(ctx context.Context, id string, budget time.Duration) (SessionView, error) {
	sess, err := uc.session(id)
	if err != nil {
		return SessionView{}, err
	}

	before := sess.solver.Steps()
	status := sess.solver.Solve(ctx, uc.budget(budget))
	if uc.observer != nil {
		uc.observer.ObserveSolve(status.String(), sess.solver.Steps()-before)
	}

	if status == pathsolver.SolutionFound {
		uc.persist(sess)
	}
	return uc.view(sess), nil
}

func (uc *SolverService) persist(sess *session) {
	uc.mu.Lock()
	if sess.persisted {
		uc.mu.Unlock()
		return
	}
	sess.persisted = true
	uc.mu.Unlock()

	rec := routeRecord(sess.terrain, sess.solver)
	if err := uc.kv.SaveRoute(rec); err != nil {
		uc.log.Error("saving route", "session", sess.id, "err", err)
		return
	}
	uc.log.Info("route found", "session", sess.id, "terrain", sess.terrain,
		"cost", rec.Cost, "turns", rec.Turns, "steps", rec.Steps)
}

func (uc *SolverService) Snapshot(ctx context.Context, id string) (SessionView, error) {
	sess, err := uc.session(id)
	if err != nil {
		return SessionView{}, err
	}
	return uc.view(sess), nil
}

// Reset mulai ulang pencarian session dengan start & end yang sama.
func (uc *SolverService) Reset(ctx context.Context, id string) (SessionView, error) {
	sess, err := uc.session(id)
	if err != nil {
		return SessionView{}, err
	}
	sess.solver.Reset()
	uc.mu.Lock()
	sess.persisted = false
	uc.mu.Unlock()
	return uc.view(sess), nil
}

func (uc *SolverService) DeleteSession(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.sessions[id]; !ok {
		return server.WrapErrorf(nil, server.ErrNotFound, "session %s not found", id)
	}
	delete(uc.sessions, id)
	return nil
}

func (uc *SolverService) Route(ctx context.Context, id string) (RouteView, error) {
	sess, err := uc.session(id)
	if err != nil {
		return RouteView{}, err
	}
	switch sess.solver.Status() {
	case pathsolver.SolutionFound:
		return newRouteView(sess.terrain, sess.solver), nil
	case pathsolver.NoSolution:
		return RouteView{}, server.WrapErrorf(nil, server.ErrNotFound, "no route between the session endpoints")
	default:
		return RouteView{}, server.WrapErrorf(nil, server.ErrConflict, "route is still being computed, call solve again")
	}
}

// StoredRoute rute yang pernah ditemukan & disimpan di kv.
func (uc *SolverService) StoredRoute(ctx context.Context, terrainName string, start, end datastructure.GridCoordinate) (kv.RouteRecord, error) {
	rec, err := uc.kv.GetRoute(terrainName, start, end)
	if errors.Is(err, kv.ErrNotFound) {
		return kv.RouteRecord{}, server.WrapErrorf(err, server.ErrNotFound, "no stored route for %s %s -> %s", terrainName, start, end)
	}
	if err != nil {
		return kv.RouteRecord{}, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}
	return rec, nil
}

func newRouteView(terrainName string, solver *pathsolver.PathSolver) RouteView {
	path := solver.FinalPath()
	cells := make([]datastructure.GridCoordinate, len(path))
	for i, n := range path {
		cells[i] = n.Coordinate
	}
	return RouteView{
		Terrain:      terrainName,
		Path:         cells,
		Cost:         util.RoundFloat(solver.Cost(), 2),
		Turns:        solver.TurnCount(),
		Steps:        solver.Steps(),
		Polyline:     guidance.EncodePath(path),
		Instructions: guidance.Instructions(path),
	}
}

func routeRecord(terrainName string, solver *pathsolver.PathSolver) kv.RouteRecord {
	view := newRouteView(terrainName, solver)
	snap := solver.Snapshot()
	rec := kv.RouteRecord{
		Terrain:  terrainName,
		Path:     view.Path,
		Cost:     view.Cost,
		Turns:    view.Turns,
		Steps:    view.Steps,
		Polyline: view.Polyline,
	}
	if snap.Start != nil {
		rec.Start = *snap.Start
	}
	if snap.End != nil {
		rec.End = *snap.End
	}
	return rec
}

func (uc *SolverService) String() string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return fmt.Sprintf("SolverService{sessions: %d, terrains: %d}", len(uc.sessions), len(uc.terrains))
}

type BatchResult struct {
	ID     int                            `json:"id"`
	Start  datastructure.GridCoordinate   `json:"start"`
	End    datastructure.GridCoordinate   `json:"end"`
	Status pathsolver.Status              `json:"status"`
	Path   []datastructure.GridCoordinate `json:"path"`
	Cost   float64                        `json:"cost"`
	Turns  int                            `json:"turns"`
	Steps  int                            `json:"steps"`
}

// BatchRoutes solve semua pasangan start-end sampai selesai, satu solver per pasangan,
// dijalankan di worker pool. Rute yang ketemu disimpan ke kv. Hasil urut sesuai input.
func (uc *SolverService) BatchRoutes(ctx context.Context, terrainName string, pairs [][2]datastructure.GridCoordinate) ([]BatchResult, error) {
	g, err := uc.terrain(terrainName)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		if !g.InBounds(p[0]) || !g.InBounds(p[1]) {
			return nil, server.WrapErrorf(terrain.ErrOutOfBounds, server.ErrBadParamInput,
				"pair %s -> %s is outside the %dx%d terrain", p[0], p[1], g.Rows, g.Cols)
		}
	}

	begin := time.Now()
	workers := concurrent.NewWorkerPool[concurrent.RouteJobItem, batchOutcome](uc.opts.Workers, len(pairs))
	for i, p := range pairs {
		workers.AddJob(concurrent.RouteJobItem{ID: i, Start: p[0], End: p[1]})
	}
	workers.Close()

	workers.Start(func(job concurrent.RouteJobItem) batchOutcome {
		return uc.solvePair(ctx, terrainName, g, job)
	})
	workers.Wait()

	results := make([]BatchResult, len(pairs))
	records := make([]kv.RouteRecord, 0, len(pairs))
	for out := range workers.CollectResults() {
		results[out.result.ID] = out.result
		if out.record != nil {
			records = append(records, *out.record)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "batch cancelled")
	}
	if err := uc.kv.SaveRoutes(records); err != nil {
		uc.log.Error("saving batch routes", "terrain", terrainName, "err", err)
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, server.MessageInternalServerError)
	}

	uc.log.Info("batch solved", "terrain", terrainName, "pairs", len(pairs),
		"found", len(records), "took", time.Since(begin).String())
	return results, nil
}

type batchOutcome struct {
	result BatchResult
	record *kv.RouteRecord
}

func (uc *SolverService) solvePair(ctx context.Context, terrainName string, g *terrain.Grid, job concurrent.RouteJobItem) batchOutcome {
	out := batchOutcome{result: BatchResult{ID: job.ID, Start: job.Start, End: job.End}}

	solver := pathsolver.NewPathSolver(g)
	if err := solver.SetStart(job.Start.Row, job.Start.Col); err != nil {
		out.result.Status = solver.Status()
		return out
	}
	if err := solver.SetEnd(job.End.Row, job.End.Col); err != nil {
		out.result.Status = solver.Status()
		return out
	}

	status := pathsolver.StillComputing
	for !status.IsTerminal() && ctx.Err() == nil {
		status = solver.Solve(ctx, uc.opts.MaxBudget)
	}
	if uc.observer != nil {
		uc.observer.ObserveSolve(status.String(), solver.Steps())
	}

	out.result.Status = status
	out.result.Steps = solver.Steps()
	if status == pathsolver.SolutionFound {
		rec := routeRecord(terrainName, solver)
		out.result.Path = rec.Path
		out.result.Cost = rec.Cost
		out.result.Turns = rec.Turns
		out.record = &rec
	}
	return out
}
