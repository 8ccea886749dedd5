package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/form-autofill/internal/autofill"
	"github.com/jonathan/form-autofill/internal/db"
	"github.com/jonathan/form-autofill/internal/dom"
	"github.com/jonathan/form-autofill/internal/profile"
	"github.com/jonathan/form-autofill/internal/scanning"
	"github.com/jonathan/form-autofill/internal/server/middleware"
	"github.com/jonathan/form-autofill/internal/types"
)

// maxBodyBytes limits request bodies; pages are sent whole.
const maxBodyBytes = 10 << 20

// PageRequest is the body of /v1/scan and /v1/autofill.
type PageRequest struct {
	HTML string `json:"html"`
	URL  string `json:"url"`
	// Profile is an inline profile document. When absent, /v1/autofill
	// uses the authenticated user's stored profile.
	Profile json.RawMessage `json:"profile,omitempty"`
}

// ScanResponse lists the fields found on a page.
type ScanResponse struct {
	Fields []types.FieldInfo `json:"fields"`
	Job    types.JobContext  `json:"job"`
}

// AutofillResponse is the result of filling a page.
type AutofillResponse struct {
	types.FillResult
	Job   types.JobContext `json:"job"`
	HTML  string           `json:"html"`
	RunID string           `json:"run_id,omitempty"`
}

// handleHealth returns server health status and model availability
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if s.inference != nil {
		availability, _ := s.inference.Availability(r.Context())
		resp["ai"] = string(availability)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) decodePage(w http.ResponseWriter, r *http.Request) (*PageRequest, *dom.HTMLDocument, error) {
	var req PageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return nil, nil, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if req.HTML == "" {
		return nil, nil, &ErrValidation{Field: "html", Message: "is required"}
	}
	doc, err := dom.ParseHTMLString(req.HTML)
	if err != nil {
		return nil, nil, &ErrValidation{Field: "html", Message: err.Error()}
	}
	return &req, doc, nil
}

// handleScan classifies the fields of a page without filling it
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	req, doc, err := s.decodePage(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	fields, err := scanning.Scan(doc)
	if err != nil {
		s.fail(w, err)
		return
	}
	if fields == nil {
		fields = []types.FieldInfo{}
	}
	s.jsonResponse(w, http.StatusOK, ScanResponse{
		Fields: fields,
		Job:    s.jobs.Extract(doc, req.URL),
	})
}

// handleAutofill fills a page and returns the filled markup
func (s *Server) handleAutofill(w http.ResponseWriter, r *http.Request) {
	req, doc, err := s.decodePage(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}

	userID, authErr := middleware.GetUserID(r)
	authenticated := authErr == nil

	var src profile.Source
	switch {
	case len(req.Profile) > 0 && string(req.Profile) != "null":
		p, err := profile.Parse(req.Profile)
		if err != nil {
			s.fail(w, err)
			return
		}
		src = profile.Static{Profile: p}
	case authenticated && s.store != nil:
		src = profile.DBSource{Store: s.store, UserID: userID}
	default:
		s.fail(w, &ErrValidation{Field: "profile", Message: "is required when not authenticated"})
		return
	}

	result, err := autofill.New(src, s.answerer, s.jobs, s.verbose).Run(r.Context(), doc, req.URL)
	if err != nil {
		s.fail(w, err)
		return
	}
	rendered, err := doc.Render()
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := AutofillResponse{
		FillResult: *result,
		Job:        s.jobs.Extract(doc, req.URL),
		HTML:       rendered,
	}
	if s.store != nil {
		run := &db.FillRun{
			PageURL:    req.URL,
			JobTitle:   resp.Job.Title,
			Company:    resp.Job.Company,
			Filled:     result.Filled,
			AIAnswered: result.AIAnswered,
		}
		if authenticated {
			run.UserID = &userID
		}
		if id, err := s.store.RecordFillRun(r.Context(), run); err != nil {
			log.Printf("[SERVER] Failed to record fill run: %v", err)
		} else {
			resp.RunID = id.String()
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetProfile returns the authenticated user's stored profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.fail(w, &ErrUnauthorized{})
		return
	}
	p, err := profile.DBSource{Store: s.store, UserID: userID}.LoadProfile(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

// handlePutProfile validates and stores the authenticated user's profile
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.fail(w, &ErrUnauthorized{})
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	p, err := profile.Parse(data)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.SaveUserProfile(r.Context(), userID, p); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

// handleListRuns lists the authenticated user's recent fills
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.fail(w, &ErrUnauthorized{})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			s.fail(w, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
	}
	runs, err := s.store.ListFillRuns(r.Context(), userID, limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	if runs == nil {
		runs = []db.FillRun{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs})
}
