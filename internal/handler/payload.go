package handler

// Request payloads. Every operation has an explicit input struct validated
// field by field before any business logic runs.

type CreateAccountRequest struct {
	Name                 string `json:"name"                  validate:"required"`
	Lastname             string `json:"lastname"              validate:"required"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type ConfirmAccountRequest struct {
	Token string `json:"token" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// EmailRequest serves request-code, forgot-password and team member
// lookups, which all take a bare email.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ValidateTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type UpdatePasswordWithTokenRequest struct {
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name"     validate:"required"`
	Lastname string `json:"lastname" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
}

type UpdateCurrentPasswordRequest struct {
	CurrentPassword      string `json:"current_password"      validate:"required"`
	Password             string `json:"password"              validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type CheckPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

type ProjectRequest struct {
	ProjectName string `json:"projectName" validate:"required"`
	ClientName  string `json:"clientName"  validate:"required"`
	Description string `json:"description" validate:"required"`
}

type TaskRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
}

type TaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending onHold inProgress underReview completed"`
}

type AddMemberRequest struct {
	ID string `json:"id" validate:"required"`
}
