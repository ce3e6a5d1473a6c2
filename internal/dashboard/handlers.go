package dashboard

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mwhydro/hydromap/internal/export"
	"github.com/mwhydro/hydromap/internal/loader"
	"github.com/mwhydro/hydromap/internal/model"
	"github.com/mwhydro/hydromap/internal/network"
	"github.com/mwhydro/hydromap/internal/proximity"
	"github.com/mwhydro/hydromap/internal/render"
)

// request is the parsed state shared by every data route.
type request struct {
	data     *loader.Dataset
	criteria proximity.Criteria
	schemes  []model.Scheme
	opts     proximity.Options
}

// prepare loads the layers and applies the status and q filters. On
// failure the response has been written and ok is false.
func (s *Server) prepare(w http.ResponseWriter, r *http.Request) (*request, bool) {
	q := r.URL.Query()
	criteria, err := proximity.ParseCriteria(q["status"], q.Get("q"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	opts := s.cfg.Options
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return nil, false
		}
		opts.Limit = n
	}

	data, err := s.load(r.Context())
	if err != nil {
		s.log.Error("load layers", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load data")
		return nil, false
	}

	return &request{
		data:     data,
		criteria: criteria,
		schemes:  proximity.Filter(data.Schemes, criteria),
		opts:     opts,
	}, true
}

func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepare(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(req.schemes),
		"total":   len(req.data.Schemes),
		"schemes": req.schemes,
	})
}

func (s *Server) handleSchemesCSV(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepare(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteSchemesCSV(&buf, req.schemes); err != nil {
		s.log.Error("write csv", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to write csv")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.SchemesCSVFile+`"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleProximity(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepare(w, r)
	if !ok {
		return
	}
	rows := proximity.Compute(req.schemes, req.opts)
	writeJSON(w, http.StatusOK, map[string]any{
		"schemes": len(req.schemes),
		"rows":    rows,
	})
}

func (s *Server) handleStatusPairs(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepare(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"within_km": withinKM(req.opts),
		"rows":      proximity.StatusPairs(req.schemes, req.opts),
	})
}

func (s *Server) handleProximityXLSX(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepare(w, r)
	if !ok {
		return
	}
	res := proximity.Analyze(req.schemes, req.opts)

	var buf bytes.Buffer
	err := export.WriteXLSX(&buf, export.Workbook{
		Schemes:     req.schemes,
		Proximity:   res.Rows,
		StatusPairs: res.StatusPairs,
	})
	if err != nil {
		s.log.Error("write xlsx", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to write xlsx")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="hydropower_proximity.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	switch name {
	case "schemes", "proximity", "places", "roads":
	default:
		writeError(w, http.StatusNotFound, "unknown map "+strconv.Quote(name))
		return
	}

	req, ok := s.prepare(w, r)
	if !ok {
		return
	}

	page, err := s.buildMap(name, req)
	if err != nil {
		s.log.Error("build map", zap.String("map", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build map")
		return
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		s.log.Error("render map", zap.String("map", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render map")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) buildMap(name string, req *request) (*render.Page, error) {
	switch name {
	case "schemes":
		return s.builder.SchemesMap(req.schemes, s.cfg.View)
	case "proximity":
		links := proximity.NewMatrix(req.schemes).Links(req.opts)
		return s.builder.ProximityMap(req.schemes, links, withinKM(req.opts), s.cfg.View)
	case "places":
		return s.builder.PlacesMap(req.data.Places, s.cfg.PlacesView)
	default:
		m := proximity.NewMatrix(req.schemes)
		roads := network.FilterMajor(req.data.Roads, s.cfg.MajorTypes)
		view := render.CenterOf(req.schemes, s.cfg.RoadsView)
		return s.builder.RoadNetworkMap(roads, req.schemes, m.Links(req.opts), m.Buffers(req.opts), view)
	}
}

func (s *Server) handleStatusChart(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepare(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.StatusChart(&buf, req.schemes); err != nil {
		s.log.Error("status chart", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to draw chart")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func withinKM(opts proximity.Options) float64 {
	if opts.WithinKM <= 0 {
		return proximity.DefaultWithinKM
	}
	return opts.WithinKM
}
