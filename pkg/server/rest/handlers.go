package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lintang/gridrouter/pkg/datastructure"
	"lintang/gridrouter/pkg/kv"
	"lintang/gridrouter/pkg/server"
	"lintang/gridrouter/pkg/server/rest/service"
	"lintang/gridrouter/pkg/terrain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type SolverService interface {
	RegisterTerrain(ctx context.Context, name string, g *terrain.Grid) error
	Terrains(ctx context.Context) ([]string, error)

	CreateSession(ctx context.Context, terrainName string, start, end datastructure.GridCoordinate, snap bool) (service.SessionView, error)
	Solve(ctx context.Context, id string, budget time.Duration) (service.SessionView, error)
	Snapshot(ctx context.Context, id string) (service.SessionView, error)
	Reset(ctx context.Context, id string) (service.SessionView, error)
	DeleteSession(ctx context.Context, id string) error
	Route(ctx context.Context, id string) (service.RouteView, error)

	BatchRoutes(ctx context.Context, terrainName string, pairs [][2]datastructure.GridCoordinate) ([]service.BatchResult, error)
	StoredRoute(ctx context.Context, terrainName string, start, end datastructure.GridCoordinate) (kv.RouteRecord, error)
}

type SolverHandler struct {
	svc          SolverService
	promeMetrics *metrics
	validate     *validator.Validate
	trans        ut.Translator
}

func SolverRouter(r *chi.Mux, svc SolverService, m *metrics) {
	handler := NewSolverHandler(svc, m)

	r.Group(func(r chi.Router) {
		r.Route("/api/solver", func(r chi.Router) {
			r.Get("/terrains", handler.listTerrains)
			r.Post("/terrains", handler.createTerrain)

			r.Post("/sessions", handler.createSession)
			r.Get("/sessions/{id}", handler.getSession)
			r.Delete("/sessions/{id}", handler.deleteSession)
			r.Post("/sessions/{id}/solve", handler.solve)
			r.Post("/sessions/{id}/reset", handler.reset)
			r.Get("/sessions/{id}/route", handler.route)

			r.Post("/routes/batch", handler.batchRoutes)
			r.Get("/routes/{terrain}", handler.storedRoute)
		})
	})
}

func NewSolverHandler(svc SolverService, m *metrics) *SolverHandler {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	return &SolverHandler{svc: svc, promeMetrics: m, validate: validate, trans: trans}
}

// decode bind + validasi request body. Kalau gagal, error response sudah ditulis.
func (h *SolverHandler) decode(w http.ResponseWriter, r *http.Request, data render.Binder) bool {
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return false
	}
	if err := h.validate.Struct(data); err != nil {
		var vErrs validator.ValidationErrors
		if !errors.As(err, &vErrs) {
			render.Render(w, r, ErrInvalidRequest(err))
			return false
		}
		render.Render(w, r, ErrValidation(err, translateError(vErrs, h.trans)))
		return false
	}
	return true
}

// CellRequest model info
//
//	@Description	satu cell terrain (row, col), 0-based
type CellRequest struct {
	Row int `json:"row" validate:"gte=0"`
	Col int `json:"col" validate:"gte=0"`
}

func (c CellRequest) coordinate() datastructure.GridCoordinate {
	return datastructure.NewGridCoordinate(c.Row, c.Col)
}

// CreateTerrainRequest model info
//
//	@Description	request body untuk mendaftarkan terrain baru dalam format ascii ('.' open, '#' blocked, '~' water, '=' track)
type CreateTerrainRequest struct {
	Name     string   `json:"name" validate:"required,alphanum,max=64"`
	Diagonal bool     `json:"diagonal"`
	Rows     []string `json:"rows" validate:"required,min=1,max=2048,dive,required"`
}

func (s *CreateTerrainRequest) Bind(r *http.Request) error {
	if len(s.Rows) == 0 {
		return errors.New("rows are required")
	}
	for i := range s.Rows {
		s.Rows[i] = strings.TrimSpace(s.Rows[i])
	}
	return nil
}

// TerrainResponse model info
//
//	@Description	ringkasan terrain yang tersimpan
type TerrainResponse struct {
	Name     string `json:"name"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	Diagonal bool   `json:"diagonal"`
}

// TerrainsResponse model info
//
//	@Description	nama semua terrain yang tersimpan
type TerrainsResponse struct {
	Terrains []string `json:"terrains"`
}

// createTerrain
//
//	@Summary		daftarkan terrain grid baru.
//	@Description	daftarkan terrain grid baru dari baris ascii. Terrain dengan nama sama ditimpa.
//	@Tags			terrains
//	@Param			body	body	CreateTerrainRequest	true	"request body terrain"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/solver/terrains [post]
//	@Success		201	{object}	TerrainResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *SolverHandler) createTerrain(w http.ResponseWriter, r *http.Request) {
	data := &CreateTerrainRequest{}
	if !h.decode(w, r, data) {
		return
	}

	g, err := terrain.FromLines(data.Rows, terrain.WithDiagonal(data.Diagonal))
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.svc.RegisterTerrain(r.Context(), data.Name, g); err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, TerrainResponse{Name: data.Name, Rows: g.Rows, Cols: g.Cols, Diagonal: g.Diagonal})
}

// listTerrains
//
//	@Summary		list terrain yang tersimpan.
//	@Tags			terrains
//	@Produce		application/json
//	@Router			/solver/terrains [get]
//	@Success		200	{object}	TerrainsResponse
//	@Failure		500	{object}	ErrResponse
func (h *SolverHandler) listTerrains(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.Terrains(r.Context())
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, TerrainsResponse{Terrains: names})
}

// CreateSessionRequest model info
//
//	@Description	request body untuk membuat solver session. snap=true menggeser start/end yang jatuh di cell blocked ke cell passable terdekat.
type CreateSessionRequest struct {
	Terrain string       `json:"terrain" validate:"required,alphanum,max=64"`
	Start   *CellRequest `json:"start" validate:"required"`
	End     *CellRequest `json:"end" validate:"required"`
	Snap    bool         `json:"snap"`
}

func (s *CreateSessionRequest) Bind(r *http.Request) error {
	if s.Start == nil || s.End == nil {
		return errors.New("start and end are required")
	}
	return nil
}

// createSession
//
//	@Summary		buat solver session baru di atas terrain.
//	@Description	buat solver session baru. Pencarian belum berjalan sampai solve dipanggil.
//	@Tags			sessions
//	@Param			body	body	CreateSessionRequest	true	"request body session"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/solver/sessions [post]
//	@Success		201	{object}	service.SessionView
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *SolverHandler) createSession(w http.ResponseWriter, r *http.Request) {
	data := &CreateSessionRequest{}
	if !h.decode(w, r, data) {
		return
	}

	view, err := h.svc.CreateSession(r.Context(), data.Terrain, data.Start.coordinate(), data.End.coordinate(), data.Snap)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	h.promeMetrics.sessionsCreated.Inc()

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, view)
}

// SolveRequest model info
//
//	@Description	budget waktu untuk satu solve call dalam millisecond. 0 = budget default server.
type SolveRequest struct {
	MaxDurationMs int `json:"max_duration_ms" validate:"gte=0,lte=60000"`
}

func (s *SolveRequest) Bind(r *http.Request) error {
	return nil
}

// solve
//
//	@Summary		lanjutkan pencarian session selama budget waktu.
//	@Description	jalankan step A* sampai solusi ketemu, tidak ada solusi, atau budget habis. Minimal satu step selalu dijalankan.
//	@Tags			sessions
//	@Param			id		path	string			true	"session id"
//	@Param			body	body	SolveRequest	false	"budget"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/solver/sessions/{id}/solve [post]
//	@Success		200	{object}	service.SessionView
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
func (h *SolverHandler) solve(w http.ResponseWriter, r *http.Request) {
	data := &SolveRequest{}
	if r.ContentLength != 0 && !h.decode(w, r, data) {
		return
	}

	budget := time.Duration(data.MaxDurationMs) * time.Millisecond
	view, err := h.svc.Solve(r.Context(), chi.URLParam(r, "id"), budget)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, view)
}

// getSession
//
//	@Summary		snapshot state session (open, closed, final path).
//	@Tags			sessions
//	@Param			id	path	string	true	"session id"
//	@Produce		application/json
//	@Router			/solver/sessions/{id} [get]
//	@Success		200	{object}	service.SessionView
//	@Failure		404	{object}	ErrResponse
func (h *SolverHandler) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, view)
}

// reset
//
//	@Summary		mulai ulang pencarian session, start & end tetap.
//	@Tags			sessions
//	@Param			id	path	string	true	"session id"
//	@Produce		application/json
//	@Router			/solver/sessions/{id}/reset [post]
//	@Success		200	{object}	service.SessionView
//	@Failure		404	{object}	ErrResponse
func (h *SolverHandler) reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, view)
}

// deleteSession
//
//	@Summary		hapus session.
//	@Tags			sessions
//	@Param			id	path	string	true	"session id"
//	@Router			/solver/sessions/{id} [delete]
//	@Success		204
//	@Failure		404	{object}	ErrResponse
func (h *SolverHandler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.NoContent(w, r)
}

// route
//
//	@Summary		rute final session beserta instruksi belok dan polyline.
//	@Description	404 kalau tidak ada solusi, 409 kalau pencarian belum selesai.
//	@Tags			sessions
//	@Param			id	path	string	true	"session id"
//	@Produce		application/json
//	@Router			/solver/sessions/{id}/route [get]
//	@Success		200	{object}	service.RouteView
//	@Failure		404	{object}	ErrResponse
//	@Failure		409	{object}	ErrResponse
func (h *SolverHandler) route(w http.ResponseWriter, r *http.Request) {
	rv, err := h.svc.Route(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, rv)
}

// PairRequest model info
//
//	@Description	satu pasangan start-end
type PairRequest struct {
	Start CellRequest `json:"start"`
	End   CellRequest `json:"end"`
}

// BatchRoutesRequest model info
//
//	@Description	request body untuk solve banyak pasangan start-end sekaligus di satu terrain
type BatchRoutesRequest struct {
	Terrain string        `json:"terrain" validate:"required,alphanum,max=64"`
	Pairs   []PairRequest `json:"pairs" validate:"required,min=1,max=512,dive"`
}

func (s *BatchRoutesRequest) Bind(r *http.Request) error {
	if len(s.Pairs) == 0 {
		return errors.New("pairs are required")
	}
	return nil
}

// BatchRoutesResponse model info
//
//	@Description	hasil batch, urut sesuai pairs di request
type BatchRoutesResponse struct {
	Terrain string                `json:"terrain"`
	Results []service.BatchResult `json:"results"`
}

// batchRoutes
//
//	@Summary		solve banyak pasangan start-end sampai selesai.
//	@Description	setiap pasangan di-solve di worker pool dengan solver sendiri. Rute yang ketemu disimpan.
//	@Tags			routes
//	@Param			body	body	BatchRoutesRequest	true	"request body batch"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/solver/routes/batch [post]
//	@Success		200	{object}	BatchRoutesResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *SolverHandler) batchRoutes(w http.ResponseWriter, r *http.Request) {
	data := &BatchRoutesRequest{}
	if !h.decode(w, r, data) {
		return
	}

	pairs := make([][2]datastructure.GridCoordinate, len(data.Pairs))
	for i, p := range data.Pairs {
		pairs[i] = [2]datastructure.GridCoordinate{p.Start.coordinate(), p.End.coordinate()}
	}

	results, err := h.svc.BatchRoutes(r.Context(), data.Terrain, pairs)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	h.promeMetrics.batchPairs.Add(float64(len(pairs)))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, BatchRoutesResponse{Terrain: data.Terrain, Results: results})
}

// storedRoute
//
//	@Summary		rute yang pernah ditemukan untuk pasangan start-end.
//	@Tags			routes
//	@Param			terrain	path	string	true	"nama terrain"
//	@Param			start	query	string	true	"start cell, format row,col"
//	@Param			end		query	string	true	"end cell, format row,col"
//	@Produce		application/json
//	@Router			/solver/routes/{terrain} [get]
//	@Success		200	{object}	kv.RouteRecord
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
func (h *SolverHandler) storedRoute(w http.ResponseWriter, r *http.Request) {
	start, err := datastructure.ParseGridCoordinate(r.URL.Query().Get("start"))
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	end, err := datastructure.ParseGridCoordinate(r.URL.Query().Get("end"))
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	rec, err := h.svc.StoredRoute(r.Context(), chi.URLParam(r, "terrain"), start, end)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, rec)
}

// ErrResponse model info
//
//	@Description	model untuk error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      "request body failed validation",
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	code := getStatusCode(err)
	statusText := ""
	switch code {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusConflict:
		statusText = "Resource conflict."
	case http.StatusBadRequest:
		statusText = "Bad request."
	default:
		statusText = "Error."
	}

	errText := err.Error()
	if code == http.StatusInternalServerError {
		errText = server.MessageInternalServerError
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: code,
		StatusText:     statusText,
		ErrorText:      errText,
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	}
	switch ierr.Code() {
	case server.ErrNotFound:
		return http.StatusNotFound
	case server.ErrConflict:
		return http.StatusConflict
	case server.ErrBadParamInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func translateError(vErrs validator.ValidationErrors, trans ut.Translator) (errs []error) {
	for _, e := range vErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}
