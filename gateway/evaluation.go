package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// SubmitHODInteractionMarks records an external evaluator's interaction
// marks for a faculty member's HOD meeting.
func (c *Client) SubmitHODInteractionMarks(ctx context.Context, department, externalID, facultyID string, marks InteractionMarks) (*SubmissionResult, error) {
	if err := c.validateInput(marks); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/%s/hod_interaction_marks/%s/%s",
		url.PathEscape(department), url.PathEscape(externalID), url.PathEscape(facultyID))
	var out SubmissionResult
	if err := c.do(ctx, http.MethodPost, path, marks, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExternalInteractionMarks lists the marks an external evaluator has given.
func (c *Client) ExternalInteractionMarks(ctx context.Context, externalID string) ([]InteractionMarks, error) {
	var out []InteractionMarks
	path := "/external_interaction_marks/" + url.PathEscape(externalID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TotalMarks fetches a faculty member's aggregated final score.
func (c *Client) TotalMarks(ctx context.Context, department, facultyID string) (*TotalMarks, error) {
	path := fmt.Sprintf("/%s/total_marks/%s", url.PathEscape(department), url.PathEscape(facultyID))
	var out TotalMarks
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
