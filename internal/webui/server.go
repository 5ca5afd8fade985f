// Package webui exposes a small HTTP dashboard over an already-loaded
// dataset: top-line KPIs, the summary tables, and the charts rendered
// inline, all filterable by region, product and order-date range.
//
// Routes:
//
//	GET /            → dashboard page
//	GET /chart       → one chart as a self-contained HTML document
//	GET /api/summary → KPIs plus all six views as JSON
package webui

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"salesreport/internal/aggregate"
	"salesreport/internal/report"
	"salesreport/internal/sales"
	"salesreport/internal/viz"
)

// Config controls server startup.
type Config struct {
	Addr  string
	Theme viz.Theme
}

// Server wraps http.Server around one immutable dataset. Aggregates are
// recomputed per filter and memoized; the dataset itself never changes
// after construction, so cached entries stay valid for the server's life.
type Server struct {
	cfg       Config
	customers []sales.Customer
	unified   []sales.Unified
	renderer  *viz.Renderer
	mux       *http.ServeMux
	tmpl      *template.Template

	mu    sync.Mutex
	cache map[uint64]snapshot
}

type snapshot struct {
	Aggs aggregate.Set
	KPIs aggregate.KPIs
}

// NewServer constructs a Server with routes and the embedded template.
func NewServer(cfg Config, customers []sales.Customer, unified []sales.Unified) *Server {
	s := &Server{
		cfg:       cfg,
		customers: customers,
		unified:   unified,
		renderer:  viz.NewRenderer(cfg.Theme),
		mux:       http.NewServeMux(),
		tmpl:      template.Must(template.New("index").Parse(indexHTML)),
		cache:     map[uint64]snapshot{},
	}
	s.routes()
	return s
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	log.Printf("dashboard listening on %s", s.cfg.Addr)
	return http.ListenAndServe(s.cfg.Addr, s.mux)
}

// Handler returns the route mux, for embedding and for httptest.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/chart", s.handleChart)
	s.mux.HandleFunc("/api/summary", s.handleAPISummary)
}

// filter narrows the dataset. Zero values mean "no restriction"; dates are
// inclusive on both ends.
type filter struct {
	Region  string
	Product string
	From    time.Time
	To      time.Time
}

func parseFilter(r *http.Request) (filter, error) {
	q := r.URL.Query()
	f := filter{
		Region:  strings.TrimSpace(q.Get("region")),
		Product: strings.TrimSpace(q.Get("product")),
	}
	var err error
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		if f.From, err = time.Parse("2006-01-02", v); err != nil {
			return f, err
		}
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		if f.To, err = time.Parse("2006-01-02", v); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (f filter) match(u sales.Unified) bool {
	if f.Region != "" && u.Region != f.Region {
		return false
	}
	if f.Product != "" && u.Product != f.Product {
		return false
	}
	if !f.From.IsZero() && u.OrderDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && u.OrderDate.After(f.To) {
		return false
	}
	return true
}

// key fingerprints the filter for the memo cache. Unit separators keep
// ("a","b") and ("ab","") distinct.
func (f filter) key() uint64 {
	parts := []string{f.Region, f.Product, "", ""}
	if !f.From.IsZero() {
		parts[2] = f.From.Format("2006-01-02")
	}
	if !f.To.IsZero() {
		parts[3] = f.To.Format("2006-01-02")
	}
	return xxh3.HashString(strings.Join(parts, "\x1f"))
}

// maxCachedFilters bounds the memo cache; clients control the filter space,
// so without a cap every distinct query would pin an entry forever.
const maxCachedFilters = 128

// summarize returns the aggregates for the filtered dataset, computing and
// caching on first sight of a filter combination. When the cache is full new
// combinations are computed but not retained; the unfiltered snapshot is
// always kept.
func (s *Server) summarize(f filter) snapshot {
	k := f.key()
	s.mu.Lock()
	snap, ok := s.cache[k]
	s.mu.Unlock()
	if ok {
		return snap
	}

	rows := s.unified
	if f != (filter{}) {
		rows = make([]sales.Unified, 0, len(s.unified))
		for _, u := range s.unified {
			if f.match(u) {
				rows = append(rows, u)
			}
		}
	}
	snap = snapshot{
		Aggs: aggregate.Compute(rows),
		KPIs: aggregate.ComputeKPIs(rows, s.customers),
	}

	s.mu.Lock()
	if len(s.cache) < maxCachedFilters || f == (filter{}) {
		s.cache[k] = snap
	}
	s.mu.Unlock()
	return snap
}

// distinct returns the sorted unique values the pivot already computed,
// reused here to populate the filter dropdowns.
func (s *Server) distinct() (regions, products []string) {
	full := s.summarize(filter{})
	return full.Aggs.Pivot.Regions, full.Aggs.Pivot.Products
}

// handleIndex renders the dashboard page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		http.Error(w, "bad filter: "+err.Error(), http.StatusBadRequest)
		return
	}
	snap := s.summarize(f)
	regions, products := s.distinct()

	query := r.URL.RawQuery
	data := struct {
		Filter   filter
		FromStr  string
		ToStr    string
		Regions  []string
		Products []string
		KPIs     aggregate.KPIs
		Aggs     aggregate.Set
		Charts   []report.Chart
		Query    string
	}{
		Filter:   f,
		Regions:  regions,
		Products: products,
		KPIs:     snap.KPIs,
		Aggs:     snap.Aggs,
		Charts:   report.DefaultCharts,
		Query:    query,
	}
	if !f.From.IsZero() {
		data.FromStr = f.From.Format("2006-01-02")
	}
	if !f.To.IsZero() {
		data.ToStr = f.To.Format("2006-01-02")
	}
	if err := s.tmpl.Execute(w, data); err != nil {
		log.Println("template error:", err)
	}
}

// handleChart serves one chart as an inline HTML document, filtered the same
// way as the page that embeds it.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := report.Chart(strings.TrimSpace(r.URL.Query().Get("name")))
	if !report.KnownChart(name) {
		http.Error(w, "unknown chart: "+string(name), http.StatusBadRequest)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		http.Error(w, "bad filter: "+err.Error(), http.StatusBadRequest)
		return
	}
	snap := s.summarize(f)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderTo(name, snap.Aggs, w); err != nil {
		log.Println("chart render error:", err)
	}
}

// handleAPISummary returns the KPIs and all six views as one JSON document.
func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		http.Error(w, "bad filter: "+err.Error(), http.StatusBadRequest)
		return
	}
	snap := s.summarize(f)
	out := struct {
		KPIs  aggregate.KPIs `json:"kpis"`
		Views aggregate.Set  `json:"views"`
	}{snap.KPIs, snap.Aggs}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Println("encode error:", err)
	}
}

// indexHTML is an embedded, minimal page with vanilla styling.
//
//go:embed index.tmpl.html
var indexHTML string
