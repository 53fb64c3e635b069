// Package profile holds the signed-in learner and persists it as a single
// opaque session blob.
package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/abhisek/homeworkhelper/internal/plans"
)

// ErrNoCredits is returned when a pay-per-use learner has no credits left.
var ErrNoCredits = errors.New("no credits left on pay-per-use plan")

// MinPasswordLength is the shortest password the sign-in form accepts.
const MinPasswordLength = 6

// Child is a learner managed from a parent's account.
type Child struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Grade    int      `json:"grade"`
	Subjects []string `json:"subjects"`
}

// User is the signed-in account.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Plan      plans.Tier `json:"plan"`
	Credits   *int       `json:"credits,omitempty"`
	Children  []Child    `json:"children,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Form is the sign-in form. SignUp selects the stricter account creation
// rules.
type Form struct {
	Name            string `validate:"required_if=SignUp true"`
	Email           string `validate:"required,contains=@"`
	Password        string `validate:"min=6"`
	ConfirmPassword string
	SignUp          bool
}

// FormError reports the first invalid form field.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Confirmation is required on sign-up and must match whenever given.
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		f := sl.Current().Interface().(Form)
		if (f.SignUp || f.ConfirmPassword != "") && f.ConfirmPassword != f.Password {
			sl.ReportError(f.ConfirmPassword, "ConfirmPassword", "ConfirmPassword", "eqfield", "Password")
		}
	}, Form{})
	return v
}

// formMessages maps a failed field to the message shown to the learner.
var formMessages = map[string]struct{ field, required, invalid string }{
	"Name":            {"name", "please enter your name", "please enter your name"},
	"Email":           {"email", "please enter your email", "email must contain @"},
	"Password":        {"password", "please enter a password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength)},
	"ConfirmPassword": {"confirm", "please confirm your password", "passwords do not match"},
}

// Validate checks the form. Name is required when signing up; signing in
// without a name derives one from the email address.
func (f Form) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)

	err := formValidator.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate form: %w", err)
	}
	first := verrs[0]
	m, ok := formMessages[first.StructField()]
	if !ok {
		return &FormError{Field: strings.ToLower(first.StructField()), Message: first.Error()}
	}
	if strings.HasPrefix(first.Tag(), "required") {
		return &FormError{Field: m.field, Message: m.required}
	}
	return &FormError{Field: m.field, Message: m.invalid}
}

// SignIn validates the form and returns a new free-tier user. The password
// is checked for shape only and never kept.
func SignIn(f Form, now time.Time) (*User, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(f.Email)
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = nameFromEmail(email)
	}
	return &User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Plan:      plans.TierFree,
		CreatedAt: now.UTC(),
	}, nil
}

// nameFromEmail turns "amina.otieno@example.com" into "Amina".
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local, _, _ = strings.Cut(local, ".")
	r, size := utf8.DecodeRuneInString(local)
	if size == 0 {
		return "Learner"
	}
	return string(unicode.ToUpper(r)) + local[size:]
}

// SelectPlan switches the user's tier. Moving to pay-per-use with no
// credits grants the starter allowance; unmetered tiers drop the balance.
func (u *User) SelectPlan(t plans.Tier) {
	u.Plan = t
	if !t.Metered() {
		u.Credits = nil
		return
	}
	if u.Credits == nil {
		n := plans.StarterCredits
		u.Credits = &n
	}
}

// Charge consumes one credit for a question. Unmetered tiers are free.
func (u *User) Charge() error {
	if !u.Plan.Metered() {
		return nil
	}
	if u.Credits == nil || *u.Credits <= 0 {
		return ErrNoCredits
	}
	n := *u.Credits - 1
	u.Credits = &n
	return nil
}

// AddChild registers a child learner on the account.
func (u *User) AddChild(name string, grade int, subjects ...string) Child {
	c := Child{ID: uuid.NewString(), Name: name, Grade: grade, Subjects: subjects}
	u.Children = append(u.Children, c)
	return c
}

// PlanName returns the display name of the user's tier.
func (u *User) PlanName() string {
	return u.Plan.DisplayName()
}
