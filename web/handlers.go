package web

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"sitescope/models"
	"sitescope/source"
	"sitescope/storage"
)

type intakeView struct {
	ContractorName     string
	CompanyDescription string
	Error              string
}

type resultsView struct {
	ContractorName  string
	Page            *models.ResultsPage
	TotalValueLabel string
	AverageFitLabel string
}

func (s *Server) handleIntakeForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "intake", intakeView{})
}

// handleIntakeSubmit stores both fields verbatim, waits the simulated
// processing delay, then sends the browser to the results screen.
func (s *Server) handleIntakeSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	view := intakeView{
		ContractorName:     r.PostFormValue(storage.KeyContractorName),
		CompanyDescription: r.PostFormValue(storage.KeyCompanyDescription),
	}
	if strings.TrimSpace(view.ContractorName) == "" || strings.TrimSpace(view.CompanyDescription) == "" {
		view.Error = "Please fill in both your company name and description."
		s.render(w, http.StatusBadRequest, "intake", view)
		return
	}

	kv := s.session(w, r)
	ctx := r.Context()
	if err := kv.Set(ctx, storage.KeyContractorName, view.ContractorName); err != nil {
		s.serverError(w, "store contractor name", err)
		return
	}
	if err := kv.Set(ctx, storage.KeyCompanyDescription, view.CompanyDescription); err != nil {
		s.serverError(w, "store company description", err)
		return
	}

	if s.submitDelay > 0 {
		timer := time.NewTimer(s.submitDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			s.logger.Debug("[web] Intake submit abandoned by client")
			return
		case <-timer.C:
		}
	}

	s.logger.Info("[web] Intake stored for %q", view.ContractorName)
	http.Redirect(w, r, "/results", http.StatusSeeOther)
}

// handleResults renders the ranked table. Sessions without a contractor name
// go back to the intake form.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	kv := s.session(w, r)
	name, ok, err := kv.Get(r.Context(), storage.KeyContractorName)
	if err != nil {
		s.serverError(w, "read contractor name", err)
		return
	}
	if !ok || name == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	page := s.results.Load(r.Context(), s.pickSource(r))
	agg := s.results.Aggregator()

	s.render(w, http.StatusOK, "results", resultsView{
		ContractorName:  name,
		Page:            page,
		TotalValueLabel: agg.TotalValueLabel(page.Stats),
		AverageFitLabel: agg.AverageFitLabel(page.Stats),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// pickSource honours ?source= when it names a registered source.
func (s *Server) pickSource(r *http.Request) source.RFPSource {
	if name := r.URL.Query().Get("source"); name != "" {
		if src, ok := s.sources[name]; ok {
			return src
		}
	}
	return s.sources[s.defaultSource]
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.serverError(w, "render "+name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("[web] %s: %v", op, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
