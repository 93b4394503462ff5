package http

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"salesdash/internal/core"
	"salesdash/internal/ingest"
	applog "salesdash/internal/log"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		s.log.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", s.pickerData(r)); err != nil {
		s.log.ErrorContext(r.Context(), "Index template execution failed",
			applog.FieldError, err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// pickerData collects what the dataset picker needs to render.
func (s *Server) pickerData(r *http.Request) pickerView {
	names, err := s.datasets.ListDatasetNames(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "Dataset list error", applog.FieldError, err)
	}
	return pickerView{
		Datasets: names,
		Today:    time.Now().Format(core.DateLayout),
	}
}

type pickerView struct {
	Datasets []string
	Today    string
}

// handleExplore re-renders the explore form; htmx swaps it in whenever a new
// dataset is created so the picker stays current without a page reload.
func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		s.log.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "explore.html", s.pickerData(r)); err != nil {
		s.log.ErrorContext(r.Context(), "Template execution error",
			applog.FieldError, err, "template", "explore.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.uploadMaxBytes)
	if err := r.ParseMultipartForm(s.uploadMaxBytes); err != nil {
		s.log.ErrorContext(r.Context(), "Parse upload form error", applog.FieldError, err, applog.FieldPath, r.URL.Path)
		writeFragment(w, http.StatusBadRequest, errorFragment("Invalid upload request"))
		return
	}

	name := sanitizeInput(r.FormValue("name"))
	file, header, err := r.FormFile("file")
	if err != nil {
		writeFragment(w, http.StatusBadRequest, errorFragment("Please choose a file to upload"))
		return
	}
	defer file.Close()

	res, err := s.uploader.Upload(r.Context(), name, header.Filename, file)
	if err != nil {
		s.writeUploadError(w, r, name, header.Filename, err)
		return
	}

	w.Header().Set("HX-Trigger", `{"dataset:created": {"name": `+strconv.Quote(res.Dataset.Name)+`}}`)
	msg := fmt.Sprintf("Dataset %q uploaded: %d rows ingested", res.Dataset.Name, res.RowsIngested)
	if res.RowsDropped > 0 {
		msg += fmt.Sprintf(", %d rows dropped (unparseable order date)", res.RowsDropped)
	}
	writeFragment(w, http.StatusOK, `<div class="success">`+template.HTMLEscapeString(msg)+`</div>`)
}

func (s *Server) writeUploadError(w http.ResponseWriter, r *http.Request, name, filename string, err error) {
	var missing *ingest.MissingColumnsError

	switch {
	case errors.Is(err, core.ErrEmptyDatasetName):
		writeFragment(w, http.StatusUnprocessableEntity, errorFragment("Please provide a unique dataset name"))
	case errors.Is(err, core.ErrUnsupportedFileFormat):
		writeFragment(w, http.StatusUnsupportedMediaType, errorFragment("Unsupported file format; upload a .csv, .xls or .xlsx file"))
	case errors.As(err, &missing):
		writeFragment(w, http.StatusUnprocessableEntity,
			errorFragment("Missing required columns: "+strings.Join(missing.Columns, ", ")))
	case errors.Is(err, core.ErrDuplicateDatasetName):
		writeFragment(w, http.StatusConflict, errorFragment("Dataset name already exists. Please use a unique name."))
	default:
		s.log.ErrorContext(r.Context(), "Upload failed",
			applog.FieldError, err,
			applog.FieldDataset, name,
			applog.FieldFilename, filename)
		writeFragment(w, http.StatusInternalServerError, errorFragment("Upload failed, please try again"))
	}
}

// dashboardView is the data handed to the dashboard partial template.
type dashboardView struct {
	Dataset        string
	Start, End     string
	TotalRows      int
	FilteredRows   int
	Preview        []previewRow
	CategoryTotals []totalRow
	RegionTotals   []totalRow
	ExportURL      string
	Empty          bool
}

type previewRow struct {
	OrderDate   string
	Sales       string
	Profit      string
	Category    string
	Region      string
	SubCategory string
	Quantity    int64
	Discount    string
}

type totalRow struct {
	Name  string
	Total string
}

// handleDashboard renders the filtered preview and aggregate tables partial.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	name := strings.TrimSpace(r.URL.Query().Get("dataset"))
	if name == "" {
		writeFragment(w, http.StatusUnprocessableEntity, errorFragment("Select a dataset"))
		return
	}

	start, end, err := parseDateRange(r.URL.Query())
	if err != nil {
		writeFragment(w, http.StatusUnprocessableEntity, errorFragment("Invalid date range; use YYYY-MM-DD"))
		return
	}

	records, err := s.datasets.FetchRecords(r.Context(), name)
	if err != nil {
		if errors.Is(err, core.ErrDatasetNotFound) {
			writeFragment(w, http.StatusNotFound, errorFragment("Unknown dataset: "+template.HTMLEscapeString(name)))
			return
		}
		s.log.ErrorContext(r.Context(), "Fetch records error", applog.FieldError, err, applog.FieldDataset, name)
		writeFragment(w, http.StatusInternalServerError, errorFragment("Could not load dataset"))
		return
	}

	filtered := core.FilterByDateRange(records, start, end)

	view := dashboardView{
		Dataset:      name,
		Start:        start.Format(core.DateLayout),
		End:          end.Format(core.DateLayout),
		TotalRows:    len(records),
		FilteredRows: len(filtered),
		Empty:        len(filtered) == 0,
		ExportURL:    exportURL(name, r.URL.Query().Get("start"), r.URL.Query().Get("end")),
	}

	for i, rec := range filtered {
		if i >= s.previewRows {
			break
		}
		view.Preview = append(view.Preview, previewRow{
			OrderDate:   rec.OrderDate.Format(core.DateLayout),
			Sales:       formatAmount(rec.Sales),
			Profit:      formatAmount(rec.Profit),
			Category:    rec.Category,
			Region:      rec.Region,
			SubCategory: rec.SubCategory,
			Quantity:    rec.Quantity,
			Discount:    strconv.FormatFloat(rec.Discount, 'f', -1, 64),
		})
	}
	for _, g := range core.TotalSalesByCategory(filtered) {
		view.CategoryTotals = append(view.CategoryTotals, totalRow{Name: g.Key, Total: formatAmount(g.TotalSales)})
	}
	for _, g := range core.TotalSalesByRegion(filtered) {
		view.RegionTotals = append(view.RegionTotals, totalRow{Name: g.Key, Total: formatAmount(g.TotalSales)})
	}

	if s.templates == nil {
		writeFragment(w, http.StatusOK, `<section id="dashboard"><div class="placeholder">`+
			template.HTMLEscapeString(fmt.Sprintf("%d rows in range", len(filtered)))+`</div></section>`)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", view); err != nil {
		s.log.ErrorContext(r.Context(), "Template execution error",
			applog.FieldError, err, "template", "dashboard.html", applog.FieldDataset, name)
		writeFragment(w, http.StatusOK, errorFragment("Error rendering dashboard"))
	}
}

// handleExport streams the filtered view as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("dataset"))
	if name == "" {
		http.Error(w, "missing dataset parameter", http.StatusUnprocessableEntity)
		return
	}

	start, end, err := parseDateRange(r.URL.Query())
	if err != nil {
		http.Error(w, "invalid date range; use YYYY-MM-DD", http.StatusUnprocessableEntity)
		return
	}

	records, err := s.datasets.FetchRecords(r.Context(), name)
	if err != nil {
		if errors.Is(err, core.ErrDatasetNotFound) {
			http.Error(w, "unknown dataset", http.StatusNotFound)
			return
		}
		s.log.ErrorContext(r.Context(), "Export fetch error", applog.FieldError, err, applog.FieldDataset, name)
		http.Error(w, "could not load dataset", http.StatusInternalServerError)
		return
	}

	filtered := core.FilterByDateRange(records, start, end)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", core.ExportFilename(name)))

	if err := core.WriteCSV(w, filtered); err != nil {
		// Headers are already gone; all we can do is log
		s.log.ErrorContext(r.Context(), "CSV export error", applog.FieldError, err, applog.FieldDataset, name)
	}
}

// parseDateRange reads the optional start/end query parameters. Absent bounds
// widen to cover everything; the range is inclusive on both ends.
func parseDateRange(q url.Values) (start, end time.Time, err error) {
	start = time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		start, err = time.Parse(core.DateLayout, v)
		if err != nil {
			return start, end, fmt.Errorf("start date: %w", err)
		}
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		end, err = time.Parse(core.DateLayout, v)
		if err != nil {
			return start, end, fmt.Errorf("end date: %w", err)
		}
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("end date before start date")
	}
	return start, end, nil
}

func exportURL(dataset, start, end string) string {
	v := url.Values{}
	v.Set("dataset", dataset)
	if start != "" {
		v.Set("start", start)
	}
	if end != "" {
		v.Set("end", end)
	}
	return "/datasets/export?" + v.Encode()
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func writeFragment(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func errorFragment(msg string) string {
	return `<div class="error">` + msg + `</div>`
}

// sanitizeInput removes control characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
