package server

import (
	"context"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-route-finder/account"
	"github.com/jrsteele09/go-route-finder/api"
	"github.com/jrsteele09/go-route-finder/autocomplete"
	"github.com/jrsteele09/go-route-finder/history"
	"github.com/jrsteele09/go-route-finder/internal/errors"
	"github.com/jrsteele09/go-route-finder/internal/logging"
)

const maxJSONBody = 64 << 10

type suggestResponse struct {
	Query   string         `json:"query"`
	Results []api.Location `json:"results"`
}

// routeForm is the body of POST /search/route. Labels are what the user
// picked in each box and are kept in the search history.
type routeForm struct {
	Start   routePoint `json:"start" form:"start"`
	End     routePoint `json:"end" form:"end"`
	Traffic bool       `json:"traffic" form:"traffic"`
}

type routePoint struct {
	Label string   `json:"label" form:"label" validate:"max=256"`
	Lat   *float64 `json:"lat" form:"lat" validate:"required,latitude"`
	Lon   *float64 `json:"lon" form:"lon" validate:"required,longitude"`
}

func (p routePoint) coordinate() api.Coordinate {
	return api.Coordinate{Lat: *p.Lat, Lon: *p.Lon}
}

type historyForm struct {
	Term string `json:"term" form:"term" validate:"required,max=256"`
	Slot string `json:"slot" form:"slot" validate:"required,oneof=start end"`
}

type historyResponse struct {
	Entries []history.Entry `json:"entries"`
}

func (s *Server) SearchPageHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := sessionFrom(r)
		data := s.pageData(r)
		data.LoggedIn = true
		data.Search = searchSettings{
			MinChars:   s.config.GetAutocompleteMinChars(),
			DebounceMs: s.config.GetAutocompleteDebounce().Milliseconds(),
		}
		entries, err := s.history.List(r.Context(), bs.owner())
		if err != nil {
			logging.FromContext(r.Context()).Err(err).Msg("Failed to list search history")
		}
		data.History = entries
		render(w, r, tmpl, data)
	}
}

// SuggestHandler answers the autocomplete of one search box. Superseded and
// stale inputs get 204 so the page keeps showing the newest suggestions.
func (s *Server) SuggestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := sessionFrom(r)
		query := r.URL.Query()

		slot := history.SlotStart
		if raw := query.Get("slot"); raw != "" {
			parsed, err := history.ParseSlot(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, messageBody{Message: "Unknown search box"})
				return
			}
			slot = parsed
		}

		input := query.Get("q")
		suggester := bs.browser.suggester(slot,
			autocomplete.WithMinChars(s.config.GetAutocompleteMinChars()),
			autocomplete.WithDelay(s.config.GetAutocompleteDebounce()),
		)
		if strings.TrimSpace(input) == "" {
			suggester.Reset()
		}

		results, err := suggester.Suggest(withAPIClient(r.Context(), bs.client), input)
		switch {
		case errors.Is(err, autocomplete.ErrSuperseded), errors.Is(err, autocomplete.ErrStale):
			w.WriteHeader(http.StatusNoContent)
			return
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			respondJSONError(w, r, bs, err)
			return
		}
		writeJSON(w, http.StatusOK, suggestResponse{Query: strings.TrimSpace(input), Results: results})
	}
}

func (s *Server) ReverseGeocodeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := sessionFrom(r)
		lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
		if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			writeJSON(w, http.StatusBadRequest, messageBody{Message: "lat and lon must be valid coordinates"})
			return
		}

		location, err := bs.client.ReverseGeocode(r.Context(), api.Coordinate{Lat: lat, Lon: lon})
		if err != nil {
			respondJSONError(w, r, bs, err)
			return
		}
		writeJSON(w, http.StatusOK, location)
	}
}

// RouteHandler computes a route and records the labelled endpoints in the search history
func (s *Server) RouteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := sessionFrom(r)

		var form routeForm
		if !decodeJSONForm(w, r, &form) {
			return
		}

		route, err := bs.client.Route(r.Context(), api.RouteRequest{
			Start:   form.Start.coordinate(),
			End:     form.End.coordinate(),
			Traffic: form.Traffic,
		})
		if err != nil {
			respondJSONError(w, r, bs, err)
			return
		}

		owner := bs.owner()
		for _, entry := range []history.Entry{
			{Term: form.Start.Label, Slot: history.SlotStart},
			{Term: form.End.Label, Slot: history.SlotEnd},
		} {
			if strings.TrimSpace(entry.Term) == "" {
				continue
			}
			if err := s.history.Append(r.Context(), owner, entry); err != nil {
				logging.FromContext(r.Context()).Err(err).Str("slot", string(entry.Slot)).Msg("Failed to record search history")
			}
		}
		writeJSON(w, http.StatusOK, route)
	}
}

func (s *Server) HistoryListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.history.List(r.Context(), sessionFrom(r).owner())
		if err != nil {
			respondJSONError(w, r, sessionFrom(r), err)
			return
		}
		writeJSON(w, http.StatusOK, historyResponse{Entries: entries})
	}
}

func (s *Server) HistoryAppendHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := sessionFrom(r)

		var form historyForm
		if !decodeJSONForm(w, r, &form) {
			return
		}

		slot, _ := history.ParseSlot(form.Slot)
		if err := s.history.Append(r.Context(), bs.owner(), history.Entry{Term: form.Term, Slot: slot}); err != nil {
			if errors.Is(err, errors.ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, messageBody{Message: err.Error()})
				return
			}
			respondJSONError(w, r, bs, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

func (s *Server) HistoryClearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := sessionFrom(r)
		if err := s.history.Clear(r.Context(), bs.owner()); err != nil {
			respondJSONError(w, r, bs, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// decodeJSONForm decodes and validates a JSON body, answering 400 itself when
// either fails.
func decodeJSONForm(w http.ResponseWriter, r *http.Request, form any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(form); err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: "Invalid JSON body"})
		return false
	}
	if err := account.Validate(form); err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: validationMessage(err)})
		return false
	}
	return true
}
