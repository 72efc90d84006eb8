package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/matzehuels/toposort/pkg/buildinfo"
	errs "github.com/matzehuels/toposort/pkg/errors"
	pkgio "github.com/matzehuels/toposort/pkg/io"
	"github.com/matzehuels/toposort/pkg/observability"
	"github.com/matzehuels/toposort/pkg/pipeline"
)

// requestOptions are the non-relation fields of a request body.
type requestOptions struct {
	Mode     string `json:"mode"`
	Strict   bool   `json:"strict"`
	Detailed *bool  `json:"detailed"`
}

type errorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, errs.New(errs.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	res, _, err := s.sortRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := res.WriteOrder(&buf, pkgio.FormatJSON); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "encode order"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := errs.ValidateFormat(format, pipeline.RenderFormats...); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, opts, err := s.sortRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	detailed := s.cfg.Detailed
	if opts.Detailed != nil {
		detailed = *opts.Detailed
	}
	data, hit, err := s.runner.Render(r.Context(), res, pipeline.RenderOptions{
		Format:   format,
		Detailed: detailed,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if format == pipeline.FormatDOT {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// sortRequest decodes the request body and sorts its relations.
func (s *Server) sortRequest(w http.ResponseWriter, r *http.Request) (*pipeline.Result, requestOptions, error) {
	var opts requestOptions

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, opts, errs.New(errs.ErrCodeTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body")
	}

	if err := json.Unmarshal(body, &opts); err != nil {
		return nil, opts, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request")
	}
	rels, err := pkgio.ReadRelations(bytes.NewReader(body), pkgio.FormatJSON)
	if err != nil {
		return nil, opts, err
	}
	if len(rels) > s.cfg.MaxRelations {
		return nil, opts, errs.New(errs.ErrCodeTooLarge, "%d relations exceed the limit of %d", len(rels), s.cfg.MaxRelations)
	}

	res, err := s.runner.Sort(r.Context(), pipeline.Options{
		Relations: rels,
		Mode:      opts.Mode,
		Strict:    opts.Strict,
		Logger:    s.logger,
	})
	if err != nil {
		return nil, opts, err
	}
	return res, opts, nil
}

// writeError writes err as a JSON error response. Errors without a code are
// reported as internal errors without their details.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	code := errs.GetCode(err)
	msg := errs.UserMessage(err)
	if code == "" {
		code = errs.ErrCodeInternal
		msg = "internal error"
	}
	status := errs.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestIDFromContext(r.Context()), "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
