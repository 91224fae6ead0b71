package gateway

// FormPart names one of the five appraisal form parts.
type FormPart string

const (
	PartA FormPart = "A"
	PartB FormPart = "B"
	PartC FormPart = "C"
	PartD FormPart = "D"
	PartE FormPart = "E"
)

// Credentials is the POST /login payload.
type Credentials struct {
	ID       string `json:"_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// OTPRequest asks the server to send a one-time password to the user.
type OTPRequest struct {
	ID string `json:"_id" validate:"required"`
}

// OTPVerification confirms a received one-time password.
type OTPVerification struct {
	ID  string `json:"_id" validate:"required"`
	OTP string `json:"otp" validate:"required"`
}

// PasswordReset carries a new password plus the reset token obtained from
// OTP verification.
type PasswordReset struct {
	ID          string `json:"_id" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
	Token       string `json:"token" validate:"required"`
}

// MessageResponse is the generic {"message": ...} acknowledgment.
type MessageResponse struct {
	Message string `json:"message"`
}

// OTPTokenResponse is returned by OTP verification: the token authorizes the
// subsequent password reset.
type OTPTokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// SubmissionResult acknowledges a form or verification submission.
type SubmissionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FormStatus reports where a faculty member's submission stands in the
// approval chain and which parts have been filled.
type FormStatus struct {
	Status string          `json:"status"`
	Parts  map[string]bool `json:"parts,omitempty"`
}

// GivenStatus is the {"given": bool} shape used by mark/portfolio checks.
type GivenStatus struct {
	Given bool `json:"given"`
}

// InteractionMarks carries an evaluator's marks for one faculty member.
type InteractionMarks struct {
	Marks    float64 `json:"marks" validate:"gte=0,lte=100"`
	Comments string  `json:"comments,omitempty"`
}

// TotalMarks is the aggregated final score with its per-section breakdown.
type TotalMarks struct {
	Total     float64            `json:"total"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}

// FacultyRef identifies a faculty member in worklists (e.g. pending
// verification queues).
type FacultyRef struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Department string `json:"dept"`
}

// Account is a user record as seen by admin endpoints.
type Account struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Department  string `json:"department,omitempty"`
	Role        string `json:"role,omitempty"`
	Designation string `json:"desg,omitempty"`
}

// CreateAccount is the admin payload for provisioning a user.
type CreateAccount struct {
	ID          string `json:"_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Department  string `json:"department" validate:"required"`
	Role        string `json:"role,omitempty"`
	Designation string `json:"desg,omitempty"`
}

// UpdateAccount is the admin payload for editing a user; zero fields are
// left unchanged server-side.
type UpdateAccount struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Department  string `json:"department,omitempty"`
	Role        string `json:"role,omitempty"`
	Designation string `json:"desg,omitempty"`
}
