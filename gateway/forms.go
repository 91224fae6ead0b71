package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/facultyms/appraise/form"
)

// partPath builds the /{department}/{userID}/... form paths, which are
// namespaced by the user's department.
func partPath(department, userID string, tail string) string {
	p := fmt.Sprintf("/%s/%s", url.PathEscape(department), url.PathEscape(userID))
	if tail != "" {
		p += "/" + tail
	}
	return p
}

// FetchFormPart retrieves the saved data for one form part.
func (c *Client) FetchFormPart(ctx context.Context, department, userID string, part FormPart) (form.Data, error) {
	var out form.Data
	if err := c.do(ctx, http.MethodGet, partPath(department, userID, string(part)), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveFormPart stores data for one form part.
func (c *Client) SaveFormPart(ctx context.Context, department, userID string, part FormPart, data form.Data) (*SubmissionResult, error) {
	var out SubmissionResult
	if err := c.do(ctx, http.MethodPost, partPath(department, userID, string(part)), data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FormStatus reports the user's submission status.
func (c *Client) FormStatus(ctx context.Context, department, userID string) (*FormStatus, error) {
	var out FormStatus
	if err := c.do(ctx, http.MethodGet, partPath(department, userID, "get-status"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitFinalForm locks the appraisal and sends it down the approval chain.
func (c *Client) SubmitFinalForm(ctx context.Context, department, userID string) (*SubmissionResult, error) {
	var out SubmissionResult
	if err := c.do(ctx, http.MethodPost, partPath(department, userID, "submit-form"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateDoc fetches the rendered appraisal document as raw bytes.
func (c *Client) GenerateDoc(ctx context.Context, department, userID string) ([]byte, error) {
	var out []byte
	if err := c.do(ctx, http.MethodGet, partPath(department, userID, "generate-doc"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserFormData retrieves all parts of a user's form at once.
func (c *Client) UserFormData(ctx context.Context, department, userID string) (map[string]form.Data, error) {
	var out map[string]form.Data
	if err := c.do(ctx, http.MethodGet, partPath(department, userID, ""), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FinalMarks lists every faculty member's final marks for a department.
func (c *Client) FinalMarks(ctx context.Context, department string) (map[string]TotalMarks, error) {
	var out map[string]TotalMarks
	path := "/" + url.PathEscape(department) + "/all_faculties_final_marks"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendToDirector forwards a department's completed appraisals to the
// director.
func (c *Client) SendToDirector(ctx context.Context, department string) (*SubmissionResult, error) {
	var out SubmissionResult
	path := "/" + url.PathEscape(department) + "/send-to-director"
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyAuthority records an HOD's sign-off on a faculty member's form.
func (c *Client) VerifyAuthority(ctx context.Context, department, facultyID string) (*SubmissionResult, error) {
	var out SubmissionResult
	if err := c.do(ctx, http.MethodPost, partPath(department, facultyID, "verify-authority"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HODMarkGiven reports whether the HOD has already marked the user.
func (c *Client) HODMarkGiven(ctx context.Context, department, userID string) (bool, error) {
	var out GivenStatus
	if err := c.do(ctx, http.MethodGet, partPath(department, userID, "hod-mark-given"), nil, &out); err != nil {
		return false, err
	}
	return out.Given, nil
}

// PortfolioGiven reports whether the user's portfolio marks are in.
func (c *Client) PortfolioGiven(ctx context.Context, department, userID string) (bool, error) {
	var out GivenStatus
	if err := c.do(ctx, http.MethodGet, partPath(department, userID, "portfolio-given"), nil, &out); err != nil {
		return false, err
	}
	return out.Given, nil
}
