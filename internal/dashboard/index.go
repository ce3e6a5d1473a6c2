package dashboard

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/mwhydro/hydromap/internal/model"
	"github.com/mwhydro/hydromap/internal/proximity"
)

//go:embed templates/index.html.tmpl
var indexTemplate string

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"neighbors": proximity.FormatNeighbors,
}).Parse(indexTemplate))

type statusOption struct {
	Status   model.Status
	Count    int
	Selected bool
}

type indexData struct {
	Query       string
	Statuses    []statusOption
	Schemes     []model.Scheme
	Total       int
	Proximity   []model.ProximityRow
	StatusPairs []model.StatusProximityRow
	WithinKM    float64
	Filter      template.URL
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepare(w, r)
	if !ok {
		return
	}

	selected := make(map[model.Status]bool, len(req.criteria.Statuses))
	for _, st := range req.criteria.Statuses {
		selected[st] = true
	}
	counts := proximity.CountByStatus(req.data.Schemes)
	options := make([]statusOption, 0, len(model.Statuses))
	for _, st := range model.Statuses {
		options = append(options, statusOption{Status: st, Count: counts[st], Selected: selected[st]})
	}

	res := proximity.Analyze(req.schemes, req.opts)
	data := indexData{
		Query:       req.criteria.Query,
		Statuses:    options,
		Schemes:     req.schemes,
		Total:       len(req.data.Schemes),
		Proximity:   res.Rows,
		StatusPairs: res.StatusPairs,
		WithinKM:    withinKM(req.opts),
		Filter:      template.URL(filterQuery(req.criteria)), //nolint:gosec // url.Values.Encode output
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		s.log.Error("render index", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// filterQuery encodes criteria back into a query string for links.
func filterQuery(c proximity.Criteria) string {
	v := url.Values{}
	for _, st := range c.Statuses {
		v.Add("status", string(st))
	}
	if c.Query != "" {
		v.Set("q", c.Query)
	}
	return v.Encode()
}
