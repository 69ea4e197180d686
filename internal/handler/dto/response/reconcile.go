package response

import (
	"rental-storefront/internal/usecase"
)

type ReconcileIssueResponse struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

type ReconcileFixResponse struct {
	Kind   string `json:"kind"`
	Before string `json:"before"`
	After  string `json:"after"`
}

type ReconcileReportResponse struct {
	Issues []ReconcileIssueResponse `json:"issues"`
	Fixes  []ReconcileFixResponse   `json:"fixes"`
}

func FromReconcileReport(report usecase.ReconcileReport) *ReconcileReportResponse {
	resp := &ReconcileReportResponse{
		Issues: make([]ReconcileIssueResponse, len(report.Issues)),
		Fixes:  make([]ReconcileFixResponse, len(report.Fixes)),
	}
	for i, issue := range report.Issues {
		resp.Issues[i] = ReconcileIssueResponse{Kind: issue.Kind, Description: issue.Description}
	}
	for i, fix := range report.Fixes {
		resp.Fixes[i] = ReconcileFixResponse{Kind: fix.Kind, Before: fix.Before, After: fix.After}
	}
	return resp
}
