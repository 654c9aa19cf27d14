package enrichment

import (
	"strings"

	"github.com/octobees/contact-enricher/internal/entity"
)

// Field names a contact column a provider may fill. Values equal the column names.
type Field string

// Fillable contact fields.
const (
	FieldEmail         Field = "email"
	FieldWorkEmail     Field = "work_email"
	FieldPersonalEmail Field = "personal_email"
	FieldPhone         Field = "phone"
	FieldMobilePhone   Field = "mobile_phone"
	FieldWorkPhone     Field = "work_phone"
	FieldLinkedInURL   Field = "linkedin_url"
	FieldCompanyDomain Field = "company_domain"
	FieldPosition      Field = "position"
)

var (
	emailFields = []Field{FieldEmail, FieldWorkEmail, FieldPersonalEmail}
	phoneFields = []Field{FieldPhone, FieldMobilePhone, FieldWorkPhone}
)

// ContactView is the in-memory state of one contact while providers run against it.
// Every provider reads and fills the same view, so a later provider sees what an
// earlier one wrote in the same pass. The orchestrator persists Changes once per contact.
type ContactView struct {
	contact  entity.Contact
	fields   map[Field]string
	statuses map[ProviderName]entity.ProviderStatus
	changed  map[Field]string
	touched  map[ProviderName]entity.ProviderStatus
}

// NewContactView snapshots the contact. The caller's struct is never mutated.
func NewContactView(c entity.Contact) *ContactView {
	v := &ContactView{
		contact: c,
		fields: map[Field]string{
			FieldEmail:         deref(c.Email),
			FieldWorkEmail:     deref(c.WorkEmail),
			FieldPersonalEmail: deref(c.PersonalEmail),
			FieldPhone:         deref(c.Phone),
			FieldMobilePhone:   deref(c.MobilePhone),
			FieldWorkPhone:     deref(c.WorkPhone),
			FieldLinkedInURL:   deref(c.LinkedInURL),
			FieldCompanyDomain: deref(c.CompanyDomain),
			FieldPosition:      deref(c.Position),
		},
		statuses: map[ProviderName]entity.ProviderStatus{
			ProviderHunter: c.HunterStatus,
			ProviderApollo: c.ApolloStatus,
			ProviderLusha:  c.LushaStatus,
		},
		changed: make(map[Field]string),
		touched: make(map[ProviderName]entity.ProviderStatus),
	}
	return v
}

// ID returns the contact identifier.
func (v *ContactView) ID() string { return v.contact.ID }

// FullName returns the contact's full name.
func (v *ContactView) FullName() string { return v.contact.FullName }

// OrganizationID returns the organization reference or an empty string.
func (v *ContactView) OrganizationID() string { return deref(v.contact.OrganizationID) }

// Get returns the current trimmed value of a field.
func (v *ContactView) Get(f Field) string {
	return strings.TrimSpace(v.fields[f])
}

// Fill writes value into f when value is non-empty and f is currently empty.
// It reports whether the field was written.
func (v *ContactView) Fill(f Field, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if _, ok := v.fields[f]; !ok {
		return false
	}
	if v.Get(f) != "" {
		return false
	}
	v.fields[f] = value
	v.changed[f] = value
	return true
}

// Status returns the provider status. Unset statuses read as pending.
func (v *ContactView) Status(p ProviderName) entity.ProviderStatus {
	s := v.statuses[p]
	if s == "" {
		return entity.StatusPending
	}
	return s
}

// SetStatus records a provider status to persist with the contact.
func (v *ContactView) SetStatus(p ProviderName, s entity.ProviderStatus) {
	v.statuses[p] = s
	v.touched[p] = s
}

// HasEmail reports whether any email variant is set.
func (v *ContactView) HasEmail() bool { return v.anySet(emailFields) }

// HasPhone reports whether any phone variant is set.
func (v *ContactView) HasPhone() bool { return v.anySet(phoneFields) }

func (v *ContactView) anySet(fields []Field) bool {
	for _, f := range fields {
		if v.Get(f) != "" {
			return true
		}
	}
	return false
}

// Changes returns the fields filled since the view was created.
func (v *ContactView) Changes() map[Field]string {
	out := make(map[Field]string, len(v.changed))
	for f, val := range v.changed {
		out[f] = val
	}
	return out
}

// StatusChanges returns the statuses set since the view was created.
func (v *ContactView) StatusChanges() map[ProviderName]entity.ProviderStatus {
	out := make(map[ProviderName]entity.ProviderStatus, len(v.touched))
	for p, s := range v.touched {
		out[p] = s
	}
	return out
}

// Dirty reports whether anything needs to be written back.
func (v *ContactView) Dirty() bool {
	return len(v.changed) > 0 || len(v.touched) > 0
}

// checkpoint captures the fillable fields so a failed provider call can be undone.
type checkpoint struct {
	fields  map[Field]string
	changed map[Field]string
}

func (v *ContactView) checkpoint() checkpoint {
	return checkpoint{fields: copyFields(v.fields), changed: copyFields(v.changed)}
}

func (v *ContactView) restore(cp checkpoint) {
	v.fields = cp.fields
	v.changed = cp.changed
}

func copyFields(in map[Field]string) map[Field]string {
	out := make(map[Field]string, len(in))
	for k, val := range in {
		out[k] = val
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
