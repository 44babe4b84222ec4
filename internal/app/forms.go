package app

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Lafiorentina/siteweb/internal/adapters/observability"
	"github.com/Lafiorentina/siteweb/internal/domain"
	"github.com/Lafiorentina/siteweb/internal/i18n"
)

type FormKind string

const (
	ReservationForm FormKind = "reservation"
	ContactForm     FormKind = "contact"
)

func ParseFormKind(s string) (FormKind, error) {
	switch FormKind(s) {
	case ReservationForm, ContactForm:
		return FormKind(s), nil
	}
	return "", fmt.Errorf("unknown form %q", s)
}

type SubmitState string

const (
	StateIdle     SubmitState = "idle"
	StateSending  SubmitState = "sending"
	StateSent     SubmitState = "sent"
	StateRejected SubmitState = "rejected" // the endpoint answered and refused
	StateError    SubmitState = "error"    // the request did not complete
	StateInvalid  SubmitState = "invalid"  // caught before relaying
	StateLimited  SubmitState = "limited"  // throttled before relaying
)

type FormStatus struct {
	State        SubmitState `json:"state"`
	Message      string      `json:"message,omitempty"` // as reported by the endpoint
	Invalid      []string    `json:"invalid,omitempty"`
	SubmissionID string      `json:"submissionId,omitempty"`
}

// Text is the status line shown under the form.
func (s FormStatus) Text(t func(string) string) string {
	switch s.State {
	case StateIdle, "":
		return ""
	case StateRejected:
		if s.Message != "" {
			return s.Message
		}
	}
	return t("form.status." + string(s.State))
}

// ---- form definitions ----

type reservationInput struct {
	Name   string `form:"name" validate:"required"`
	Date   string `form:"date" validate:"required,datetime=2006-01-02"`
	Time   string `form:"time" validate:"required,datetime=15:04"`
	Guests string `form:"guests" validate:"required,oneof=1 2 3 4 5 6 7 8"`
}

type contactInput struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required,email"`
	Reason  string `form:"reason" validate:"required,oneof=general group private feedback partnership"`
	Subject string `form:"subject" validate:"required"`
	Message string `form:"message" validate:"required"`
}

var contactReasons = []string{"general", "group", "private", "feedback", "partnership"}

type fieldSpec struct {
	name     string
	label    string // translation key
	input    string
	options  func(t func(string) string) []Option
	fallback string
}

type formSpec struct {
	kind   FormKind
	submit string // translation key of the submit button
	fields []fieldSpec
	bind   func(v map[string]string) any
}

func guestOptions(t func(string) string) []Option {
	out := make([]Option, 0, 8)
	for n := 1; n <= 8; n++ {
		unit := t("form.people")
		if n == 1 {
			unit = t("form.person")
		}
		out = append(out, Option{Value: strconv.Itoa(n), Label: strconv.Itoa(n) + " " + unit})
	}
	return out
}

func reasonOptions(t func(string) string) []Option {
	out := []Option{{Value: "", Label: t("form.select.reason")}}
	for _, r := range contactReasons {
		out = append(out, Option{Value: r, Label: t("form.reason." + r)})
	}
	return out
}

var formSpecs = map[FormKind]formSpec{
	ReservationForm: {
		kind:   ReservationForm,
		submit: "form.reserve",
		fields: []fieldSpec{
			{name: "name", label: "form.fullName", input: "text"},
			{name: "date", label: "form.date", input: "date"},
			{name: "time", label: "form.time", input: "time"},
			{name: "guests", label: "form.guests", input: "select", options: guestOptions, fallback: "2"},
		},
		bind: func(v map[string]string) any {
			return reservationInput{
				Name:   strings.TrimSpace(v["name"]),
				Date:   strings.TrimSpace(v["date"]),
				Time:   strings.TrimSpace(v["time"]),
				Guests: strings.TrimSpace(v["guests"]),
			}
		},
	},
	ContactForm: {
		kind:   ContactForm,
		submit: "form.send",
		fields: []fieldSpec{
			{name: "name", label: "form.fullName", input: "text"},
			{name: "email", label: "form.email", input: "email"},
			{name: "reason", label: "form.reason", input: "select", options: reasonOptions},
			{name: "subject", label: "form.subject", input: "text"},
			{name: "message", label: "form.message", input: "textarea"},
		},
		bind: func(v map[string]string) any {
			return contactInput{
				Name:    strings.TrimSpace(v["name"]),
				Email:   strings.TrimSpace(v["email"]),
				Reason:  strings.TrimSpace(v["reason"]),
				Subject: strings.TrimSpace(v["subject"]),
				Message: strings.TrimSpace(v["message"]),
			}
		},
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report form field names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// ---- form state ----

var ErrUnknownField = errors.New("unknown form field")

// Form is the controlled state of one form on one page.
type Form struct {
	spec  formSpec
	relay domain.FormRelay

	mu     sync.Mutex
	values map[string]string
	status FormStatus
}

func NewForm(kind FormKind, relay domain.FormRelay) (*Form, error) {
	spec, ok := formSpecs[kind]
	if !ok {
		return nil, fmt.Errorf("unknown form %q", kind)
	}
	f := &Form{spec: spec, relay: relay, status: FormStatus{State: StateIdle}}
	f.values = f.defaults()
	return f, nil
}

func NewReservationForm(relay domain.FormRelay) *Form {
	f, _ := NewForm(ReservationForm, relay)
	return f
}

func NewContactForm(relay domain.FormRelay) *Form {
	f, _ := NewForm(ContactForm, relay)
	return f
}

func (f *Form) Kind() FormKind { return f.spec.kind }

// Fields returns the field names in display order.
func (f *Form) Fields() []string {
	out := make([]string, len(f.spec.fields))
	for i, fs := range f.spec.fields {
		out[i] = fs.name
	}
	return out
}

func (f *Form) defaults() map[string]string {
	m := make(map[string]string, len(f.spec.fields))
	for _, fs := range f.spec.fields {
		m[fs.name] = fs.fallback
	}
	return m
}

func (f *Form) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	f.values[name] = value
	return nil
}

func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyValues(f.values)
}

func (f *Form) Status() FormStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Throttle records that a submission was refused before relaying. Fields are kept.
func (f *Form) Throttle() FormStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = FormStatus{State: StateLimited}
	observability.ObserveSubmission(string(f.spec.kind), string(StateLimited))
	return f.status
}

// Submit validates the current values and relays them once. Only a confirmed success
// clears the fields; a submit while another is in flight returns the in-flight status.
func (f *Form) Submit(ctx context.Context) FormStatus {
	f.mu.Lock()
	if f.status.State == StateSending {
		st := f.status
		f.mu.Unlock()
		return st
	}
	payload := copyValues(f.values)
	if bad := invalidFields(f.spec.bind(payload)); len(bad) > 0 {
		f.status = FormStatus{State: StateInvalid, Invalid: bad}
		f.mu.Unlock()
		observability.ObserveSubmission(string(f.spec.kind), string(StateInvalid))
		return f.status
	}
	id := uuid.NewString()
	f.status = FormStatus{State: StateSending, SubmissionID: id}
	f.mu.Unlock()

	res, err := f.relay.Submit(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case err != nil:
		log.Warn().Err(err).Str("form", string(f.spec.kind)).Str("submission", id).Msg("form relay failed")
		f.status = FormStatus{State: StateError, SubmissionID: id}
	case !res.Success:
		log.Info().Str("form", string(f.spec.kind)).Str("submission", id).Str("reason", res.Message).Msg("form refused by intake")
		f.status = FormStatus{State: StateRejected, Message: res.Message, SubmissionID: id}
	default:
		log.Info().Str("form", string(f.spec.kind)).Str("submission", id).Msg("form submitted")
		f.status = FormStatus{State: StateSent, SubmissionID: id}
		f.values = f.defaults()
	}
	observability.ObserveSubmission(string(f.spec.kind), string(f.status.State))
	return f.status
}

func invalidFields(in any) []string {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return []string{"form"}
	}
	out := make([]string, 0, len(ves))
	for _, fe := range ves {
		out = append(out, fe.Field())
	}
	return out
}

func copyValues(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ---- view ----

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FieldView struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Input    string   `json:"input"`
	Value    string   `json:"value"`
	Required bool     `json:"required"`
	Options  []Option `json:"options,omitempty"`
}

type FormView struct {
	Kind   FormKind    `json:"kind"`
	Fields []FieldView `json:"fields"`
	Submit string      `json:"submit"`
	State  SubmitState `json:"state"`
	Status string      `json:"status"`
}

func (f *Form) View(tr i18n.Translator) FormView {
	values := f.Values()
	st := f.Status()
	v := FormView{
		Kind:   f.spec.kind,
		Submit: tr.T(f.spec.submit),
		State:  st.State,
		Status: st.Text(tr.T),
	}
	for _, fs := range f.spec.fields {
		fv := FieldView{Name: fs.name, Label: tr.T(fs.label), Input: fs.input, Value: values[fs.name], Required: true}
		if fs.options != nil {
			fv.Options = fs.options(tr.T)
		}
		v.Fields = append(v.Fields, fv)
	}
	return v
}
