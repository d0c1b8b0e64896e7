package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/querychart/internal/core"
)

// bodySlack is allowed on top of the data limit for the rest of a request body.
const bodySlack = 64 << 10

// chartRequest carries pasted data and build parameters.
type chartRequest struct {
	Data string `json:"data"`
	core.BuildParams
}

func (req *chartRequest) fromForm(form url.Values) {
	req.Data = form.Get("data")
	req.Kind = core.ChartKind(form.Get("kind"))
	req.Scheme = form.Get("scheme")
	req.Title = form.Get("title")
	req.XField = form.Get("x_field")
	req.YField = form.Get("y_field")
}

// diffRequest carries two query texts to compare.
type diffRequest struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Mode      string `json:"mode"`
	Limit     int    `json:"limit"`
}

func (req *diffRequest) fromForm(form url.Values) {
	req.Original = form.Get("original")
	req.Corrected = form.Get("corrected")
	req.Mode = form.Get("mode")
	req.Limit, _ = strconv.Atoi(form.Get("limit"))
}

func (s *Server) bodyLimit() int64 {
	return int64(s.cfg.Chart.MaxInputBytes) + bodySlack
}

// readBody decodes a JSON body into dst, or a form body through fromForm.
// A nil fromForm means the endpoint takes JSON only.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request, dst any, fromForm func(url.Values)) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.bodyLimit())

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if fromForm == nil {
			return fmt.Errorf("%w: expected JSON", errInvalidBody)
		}
		if err := r.ParseForm(); err != nil {
			return bodyError(err)
		}
		fromForm(r.PostForm)
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return bodyError(err)
	}
	return nil
}

// isRawData reports whether the body is pasted text rather than JSON or a form.
func isRawData(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "text/csv") || strings.HasPrefix(ct, "text/plain")
}

func bodyError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return fmt.Errorf("%w: body exceeds %d bytes", core.ErrInputTooLarge, maxBytes.Limit)
	}
	return fmt.Errorf("%w: %v", errInvalidBody, err)
}

// readChartRequest decodes a chart request and fills in the configured
// defaults.
func (s *Server) readChartRequest(w http.ResponseWriter, r *http.Request) (chartRequest, error) {
	var req chartRequest
	if isRawData(r) {
		// Raw pasted data: the body is the data, parameters come from the query.
		r.Body = http.MaxBytesReader(w, r.Body, s.bodyLimit())
		req.fromForm(r.URL.Query())
		data, err := s.service.ReadInput(r.Body)
		if err != nil {
			if errors.Is(err, core.ErrInputTooLarge) {
				return req, err
			}
			return req, bodyError(err)
		}
		req.Data = data
	} else if err := s.readBody(w, r, &req, req.fromForm); err != nil {
		return req, err
	}
	if strings.TrimSpace(string(req.Kind)) == "" {
		req.Kind = core.ChartKind(s.cfg.Chart.DefaultKind)
	}
	if strings.TrimSpace(req.Scheme) == "" {
		req.Scheme = s.cfg.Chart.DefaultScheme
	}
	return req, nil
}

// buildChart decodes a chart request and builds its spec.
func (s *Server) buildChart(w http.ResponseWriter, r *http.Request) (*core.ChartSpec, error) {
	req, err := s.readChartRequest(w, r)
	if err != nil {
		return nil, err
	}
	return s.service.BuildChart(r.Context(), req.Data, req.BuildParams)
}
