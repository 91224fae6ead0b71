package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/facultyms/appraise/form"
)

// FacultyToVerify lists the faculty assigned to a verification-team member.
func (c *Client) FacultyToVerify(ctx context.Context, verifierID string) ([]FacultyRef, error) {
	var out []FacultyRef
	path := "/faculty_to_verify/" + url.PathEscape(verifierID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyResearch submits the verification team's findings on a faculty
// member's research part.
func (c *Client) VerifyResearch(ctx context.Context, department, userID, verifierID string, data form.Data) (*SubmissionResult, error) {
	path := fmt.Sprintf("/%s/%s/%s/verify-research",
		url.PathEscape(department), url.PathEscape(userID), url.PathEscape(verifierID))
	var out SubmissionResult
	if err := c.do(ctx, http.MethodPost, path, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
