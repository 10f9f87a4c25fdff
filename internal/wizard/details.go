package wizard

import (
	"github.com/jayteemoney/ticket/internal/upload"
)

// Details is the uncommitted state of the attendee details step. It is thrown
// away when the visitor navigates back.
type Details struct {
	flow           *Flow
	FullName       string
	Email          string
	SpecialRequest string
	ProfileImage   string
}

func (f *Flow) BeginDetails() *Details {
	d := f.Draft()
	return &Details{
		flow:           f,
		FullName:       d.FullName,
		Email:          d.Email,
		SpecialRequest: d.SpecialRequest,
		ProfileImage:   d.ProfileImage,
	}
}

// ApplyUpload stages the uploaded photo URL. A failed upload leaves the staged
// photo as it was. It reports whether the staged photo changed.
func (d *Details) ApplyUpload(res upload.Result) bool {
	if res.State() != upload.Succeeded || res.URL == "" {
		return false
	}
	changed := d.ProfileImage != res.URL
	d.ProfileImage = res.URL
	return changed
}

func (d *Details) Validate() FieldErrors {
	return validateAttendee(d.FullName, d.Email)
}

// Submit validates the staged fields and, when they pass, commits the attendee
// fields and advances to the confirmation. Ticket fields are left untouched.
func (d *Details) Submit() (Step, FieldErrors, error) {
	if errs := d.Validate(); len(errs) > 0 {
		return StepDetails, errs, nil
	}
	next := d.flow.Draft()
	next.FullName = d.FullName
	next.Email = d.Email
	next.SpecialRequest = d.SpecialRequest
	next.ProfileImage = d.ProfileImage
	if err := d.flow.commit(next); err != nil {
		return StepDetails, nil, err
	}
	return StepConfirmation, nil, nil
}

// Back returns to ticket selection without validating or committing.
func (d *Details) Back() Step {
	return StepSelection
}
