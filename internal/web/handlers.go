package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fjacquet/budgify/internal/store"
)

// writeJSON renders payload with the headers every API response carries.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("Failed to encode API response")
	}
}

// writeError maps caller mistakes to 400 and everything else to 500, always
// with an {"error": ...} body.
func writeError(w http.ResponseWriter, err error) {
	var usage *store.UsageError
	if errors.As(err, &usage) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": usage.Error()})
		return
	}
	log.WithError(err).Error("API request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// parseFilters reads the shared filter vocabulary from query parameters.
// Value validation happens in the store; only numeric syntax is checked here.
func parseFilters(r *http.Request) (store.Filters, error) {
	q := r.URL.Query()
	f := store.Filters{
		StartDate:       q.Get("start_date"),
		EndDate:         q.Get("end_date"),
		Category:        q.Get("category"),
		ExcludeCategory: q.Get("exclude_category"),
		Provider:        q.Get("provider"),
		Merchant:        q.Get("merchant"),
		MerchantRegex:   q.Get("merchant_regex"),
	}

	var err error
	if f.MinAmount, err = parseFloatParam(q.Get("min_amount"), "min_amount"); err != nil {
		return f, err
	}
	if f.MaxAmount, err = parseFloatParam(q.Get("max_amount"), "max_amount"); err != nil {
		return f, err
	}
	return f, nil
}

func parseFloatParam(raw, field string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &store.UsageError{Field: field, Reason: "must be a number"}
	}
	return &v, nil
}

func parseIntParam(raw, field string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &store.UsageError{Field: field, Reason: "must be an integer"}
	}
	return v, nil
}

func (s Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(s.DBPath)
	if err != nil {
		writeError(w, err)
		return
	}
	merchants, err := store.ListUniqueMerchants(s.DBPath)
	if err != nil {
		writeError(w, err)
		return
	}
	providers, err := store.ListProviders(s.DBPath)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"merchants":  merchants,
		"providers":  providers,
	})
}

func (s Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}
	overview, err := store.OverviewMetrics(s.DBPath, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s Server) handleSummaryCategory(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := store.SummarizeByCategory(s.DBPath, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s Server) handleSummaryPeriod(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := store.SummarizeByPeriod(s.DBPath, store.Period(r.URL.Query().Get("period")), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s Server) handleSummaryMerchant(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := parseIntParam(r.URL.Query().Get("limit"), "limit", 15)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := store.SummarizeByMerchant(s.DBPath, f)
	if err != nil {
		writeError(w, err)
		return
	}
	if limit > 0 && len(summary) > limit {
		summary = summary[:limit]
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	opts := store.QueryOptions{
		SortBy:  q.Get("sort_by"),
		SortDir: q.Get("sort_dir"),
		GroupBy: q.Get("group_by"),
	}
	if opts.Limit, err = parseIntParam(q.Get("limit"), "limit", 0); err != nil {
		writeError(w, err)
		return
	}
	if opts.Offset, err = parseIntParam(q.Get("offset"), "offset", 0); err != nil {
		writeError(w, err)
		return
	}

	txs, err := store.QueryTransactions(s.DBPath, f, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	first := store.DateRange{Start: q.Get("first_start"), End: q.Get("first_end")}
	second := store.DateRange{Start: q.Get("second_start"), End: q.Get("second_end")}

	cmp, err := store.ComparePeriods(s.DBPath, first, second, q.Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}

	category := r.URL.Query().Get("category")
	f.Category = ""
	insights, err := store.AnalyzeCategory(s.DBPath, category, f, store.InsightOptions{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}
