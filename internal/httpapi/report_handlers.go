package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"syncly.dev/internal/auth"
	"syncly.dev/internal/report"
	"syncly.dev/internal/stream"
)

type submitReportRequest struct {
	Date            string              `json:"date"`
	TasksCompleted  string              `json:"tasks_completed"`
	ChallengesFaced string              `json:"challenges_faced"`
	PlanForTomorrow string              `json:"plan_for_tomorrow"`
	Attachments     []report.Attachment `json:"attachments"`
	CopyFromDate    string              `json:"copy_from_date"`
}

type editReportRequest struct {
	TasksCompleted  string              `json:"tasks_completed"`
	ChallengesFaced string              `json:"challenges_faced"`
	PlanForTomorrow string              `json:"plan_for_tomorrow"`
	Attachments     []report.Attachment `json:"attachments"`
}

type acknowledgeRequest struct {
	ManagerName string `json:"manager_name"`
	Designation string `json:"designation"`
	Comment     string `json:"comment"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

func (a *API) handleReportsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.submitReport(w, r)
	default:
		methodNotAllowed(w, r, http.MethodPost)
	}
}

func (a *API) handleReportResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/reports/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	id := path
	action := ""
	if i := strings.IndexByte(path, '/'); i >= 0 {
		id, action = path[:i], path[i+1:]
	}
	if id == "" || strings.Contains(action, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.getReport(w, r, id)
	case "versions":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.editReport(w, r, id)
	case "acknowledge":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.acknowledgeReport(w, r, id)
	case "comment":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.commentReport(w, r, id)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) handleEmployeeReports(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/employees/")
	employeeID, rest, found := strings.Cut(path, "/")
	if !found || rest != "reports" || employeeID == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		rep, err := a.reports.ReportByEmployeeDate(r.Context(), employeeID, date)
		if err != nil {
			handleReportError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
		return
	}

	limit, err := parsePositiveInt(r.URL.Query().Get("limit"), 100, 1, 1000)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	items, err := a.reports.ListByEmployee(r.Context(), employeeID, limit)
	if err != nil {
		handleReportError(w, r, err)
		return
	}
	if items == nil {
		items = []report.EODReport{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) submitReport(w http.ResponseWriter, r *http.Request) {
	if err := a.requirePermission(r, auth.PermReportsSubmit); err != nil {
		writeError(w, r, http.StatusForbidden, "permission denied")
		return
	}
	var req submitReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	draft := report.VersionDraft{
		TasksCompleted:  req.TasksCompleted,
		ChallengesFaced: req.ChallengesFaced,
		PlanForTomorrow: req.PlanForTomorrow,
		Attachments:     req.Attachments,
	}

	// Copy-forward: seed empty fields from the latest version of an
	// earlier day's report and mark the new version as copied.
	if copyFrom := strings.TrimSpace(req.CopyFromDate); copyFrom != "" {
		actor, ok := auth.ActorFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		prior, err := a.reports.ReportByEmployeeDate(r.Context(), actor.ID, copyFrom)
		if err != nil {
			handleReportError(w, r, err)
			return
		}
		latest, err := report.LatestVersion(prior)
		if err != nil {
			handleReportError(w, r, err)
			return
		}
		if strings.TrimSpace(draft.TasksCompleted) == "" {
			draft.TasksCompleted = latest.TasksCompleted
		}
		if strings.TrimSpace(draft.ChallengesFaced) == "" {
			draft.ChallengesFaced = latest.ChallengesFaced
		}
		if strings.TrimSpace(draft.PlanForTomorrow) == "" {
			draft.PlanForTomorrow = latest.PlanForTomorrow
		}
		draft.Copied = true
	}

	rep, err := a.reports.Submit(r.Context(), req.Date, draft)
	if err != nil {
		handleReportError(w, r, err)
		return
	}

	a.publish(r.Context(), stream.EventReportSubmitted, rep, 1)
	a.audit(r.Context(), "report.submitted", "report", rep.ID, map[string]string{
		"date":   rep.Date,
		"copied": strconv.FormatBool(draft.Copied),
	})

	w.Header().Set("Location", "/v1/reports/"+rep.ID)
	writeJSON(w, http.StatusCreated, rep)
}

func (a *API) getReport(w http.ResponseWriter, r *http.Request, id string) {
	rep, err := a.reports.Report(r.Context(), id)
	if err != nil {
		handleReportError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (a *API) editReport(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.requirePermission(r, auth.PermReportsEdit); err != nil {
		writeError(w, r, http.StatusForbidden, "permission denied")
		return
	}
	var req editReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := a.reports.SubmitEdit(r.Context(), id, report.VersionDraft{
		TasksCompleted:  req.TasksCompleted,
		ChallengesFaced: req.ChallengesFaced,
		PlanForTomorrow: req.PlanForTomorrow,
		Attachments:     req.Attachments,
	})
	if err != nil {
		handleReportError(w, r, err)
		return
	}

	version := report.LatestVersionNumber(rep)
	a.publish(r.Context(), stream.EventReportEdited, rep, version)
	a.audit(r.Context(), "report.edited", "report", rep.ID, map[string]string{
		"date":    rep.Date,
		"version": strconv.Itoa(version),
	})
	writeJSON(w, http.StatusOK, rep)
}

func (a *API) acknowledgeReport(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.requirePermission(r, auth.PermReportsAcknowledge); err != nil {
		writeError(w, r, http.StatusForbidden, "permission denied")
		return
	}
	var req acknowledgeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	rep, err := a.reports.Acknowledge(r.Context(), id, report.Manager{
		ID:          actor.ID,
		Name:        strings.TrimSpace(req.ManagerName),
		Designation: strings.TrimSpace(req.Designation),
	}, req.Comment)
	if err != nil {
		handleReportError(w, r, err)
		return
	}

	a.publish(r.Context(), stream.EventReportAcknowledged, rep, 0)
	a.audit(r.Context(), "report.acknowledged", "report", rep.ID, map[string]string{
		"date": rep.Date,
	})
	writeJSON(w, http.StatusOK, rep)
}

func (a *API) commentReport(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.requirePermission(r, auth.PermReportsComment); err != nil {
		writeError(w, r, http.StatusForbidden, "permission denied")
		return
	}
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := a.reports.UpdateComment(r.Context(), id, req.Comment)
	if err != nil {
		handleReportError(w, r, err)
		return
	}

	a.publish(r.Context(), stream.EventReportCommented, rep, 0)
	a.audit(r.Context(), "report.commented", "report", rep.ID, map[string]string{
		"date": rep.Date,
	})
	writeJSON(w, http.StatusOK, rep)
}

func (a *API) publish(ctx context.Context, eventType string, rep report.EODReport, version int) {
	if a.stream == nil {
		return
	}
	evt := stream.ActivityEvent{
		Type:       eventType,
		TenantID:   rep.TenantID,
		ReportID:   rep.ID,
		EmployeeID: rep.EmployeeID,
		Date:       rep.Date,
		Version:    version,
	}
	if actor, ok := auth.ActorFromContext(ctx); ok {
		evt.ActorID = actor.ID
	}
	a.stream.Publish(evt)
}
