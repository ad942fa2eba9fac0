package server

import (
	"net/http"

	"github.com/matzehuels/masonry/internal/contacts"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/gallery"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "Backend server is running",
		Timestamp: s.now().UTC().Format(timestampLayout),
	})
}

type contactResponse struct {
	Message string         `json:"message"`
	ID      string         `json:"id"`
	Data    map[string]any `json:"data"`
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := decode(r, w, s.cfg.MaxBodyBytes, &data); err != nil {
		writeErr(w, err)
		return
	}
	if data == nil {
		writeErr(w, errors.New(errors.ErrCodeInvalidInput, "contact body must be a JSON object"))
		return
	}

	c := contacts.New(data, s.now())
	if err := s.contacts.Save(r.Context(), c); err != nil {
		s.logger.Error("store contact", "id", c.ID, "err", err)
		writeErr(w, errors.Wrap(errors.ErrCodeStorage, err, "could not store contact"))
		return
	}
	s.logger.Info("contact received", "id", c.ID, "request_id", requestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, contactResponse{
		Message: "Contact form received",
		ID:      c.ID,
		Data:    data,
	})
}

type portfolioItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Img         string  `json:"img,omitempty"`
	URL         string  `json:"url,omitempty"`
	Height      float64 `json:"height,omitempty"`
}

type portfolioResponse struct {
	Message string          `json:"message"`
	Items   []portfolioItem `json:"items"`
}

// samplePortfolio is served when no gallery manifest is configured.
var samplePortfolio = []portfolioItem{
	{ID: "1", Title: "Project 1", Description: "Sample project"},
	{ID: "2", Title: "Project 2", Description: "Another project"},
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	items := samplePortfolio
	if s.cfg.Gallery != "" {
		m, err := gallery.Load(s.cfg.Gallery)
		if err != nil {
			s.logger.Error("load gallery", "path", s.cfg.Gallery, "err", err)
			writeErr(w, errors.Wrap(errors.ErrCodeInternal, err, "gallery unavailable"))
			return
		}
		items = make([]portfolioItem, len(m.Entries))
		for i, e := range m.Entries {
			items[i] = portfolioItem{ID: e.ID, Title: e.Title, Img: e.Img, URL: e.URL, Height: e.Height}
		}
	}
	writeJSON(w, http.StatusOK, portfolioResponse{
		Message: "Portfolio data endpoint",
		Items:   items,
	})
}

// layoutRequest asks for a layout. Plan, when set, also returns the
// transitions a renderer should animate.
type layoutRequest struct {
	ViewportWidth  float64        `json:"viewport_width"`
	ContainerWidth float64        `json:"container_width"`
	Columns        int            `json:"columns,omitempty"`
	Items          []masonry.Item `json:"items"`
	Plan           *planRequest   `json:"plan,omitempty"`
}

type planRequest struct {
	Mounted        bool            `json:"mounted"`
	ViewportHeight float64         `json:"viewport_height"`
	From           string          `json:"from,omitempty"`
	Previous       *masonry.Layout `json:"previous,omitempty"`
}

type layoutResponse struct {
	Layout      *masonry.Layout      `json:"layout"`
	Reason      string               `json:"reason,omitempty"`
	Cached      bool                 `json:"cached"`
	Transitions []masonry.Transition `json:"transitions,omitempty"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(r, w, s.cfg.MaxBodyBytes, &req); err != nil {
		writeErr(w, err)
		return
	}
	if err := validateItems(req.Items); err != nil {
		writeErr(w, err)
		return
	}

	viewport := req.ViewportWidth
	if viewport <= 0 {
		viewport = req.ContainerWidth
	}
	opts := pipeline.Options{
		ViewportWidth:  viewport,
		ContainerWidth: req.ContainerWidth,
		Columns:        req.Columns,
		Policy:         s.policy,
	}
	l, cached, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Items, opts)
	if err != nil {
		writeErr(w, err)
		return
	}

	resp := layoutResponse{Layout: l, Cached: cached}
	if l == nil {
		resp.Reason = errors.UserMessage(errors.ValidateWidth("container_width", req.ContainerWidth))
		writeJSON(w, http.StatusOK, resp)
		return
	}

	if req.Plan != nil {
		anim := s.anim
		if req.Plan.From != "" {
			from, err := masonry.ParseOrigin(req.Plan.From)
			if err != nil {
				writeErr(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid plan origin"))
				return
			}
			anim.From = from
		}
		resp.Transitions = masonry.Plan(l, req.Plan.Previous, anim,
			masonry.Size{Width: viewport, Height: req.Plan.ViewportHeight}, req.Plan.Mounted)
	}
	writeJSON(w, http.StatusOK, resp)
}

func validateItems(items []masonry.Item) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if err := errors.ValidateItemID(it.ID); err != nil {
			return err
		}
		if seen[it.ID] {
			return errors.New(errors.ErrCodeInvalidItem, "duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
		if err := errors.ValidateHeight(it.ID, it.Height); err != nil {
			return err
		}
	}
	return nil
}
