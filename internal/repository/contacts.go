package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/contact-enricher/internal/entity"
)

var (
	// ErrContactNotFound is returned when no contact matches the owner and id.
	ErrContactNotFound = errors.New("contact not found")
	// ErrLeaseLost is returned when a write carries a claim token the row no longer holds.
	ErrLeaseLost = errors.New("contact lease lost")
	// ErrUnknownColumn is returned for patch keys outside the fillable columns.
	ErrUnknownColumn = errors.New("unknown contact column")
)

// Columns providers may fill, in the order they are written.
var fillableColumns = []string{
	"email", "work_email", "personal_email",
	"phone", "mobile_phone", "work_phone",
	"linkedin_url", "company_domain", "position",
}

// channelColumns are the email and phone variants; a candidate has all of them empty.
var channelColumns = []string{
	"email", "work_email", "personal_email",
	"phone", "mobile_phone", "work_phone",
}

var statusColumns = map[string]string{
	"hunter": "hunter_status",
	"apollo": "apollo_status",
	"lusha":  "lusha_status",
}

// statusOrder fixes the order status columns are written in.
var statusOrder = []string{"hunter", "apollo", "lusha"}

const contactColumns = `id, full_name, organization_id, email, work_email, personal_email,
        phone, mobile_phone, work_phone, linkedin_url, company_domain, position,
        hunter_status, apollo_status, lusha_status, findymail_status,
        last_enriched_at, enrichment_exhausted_at, claimed_until, created_by`

// CandidateQuery selects one page of contacts to enrich.
type CandidateQuery struct {
	OwnerID string
	// AfterID is the exclusive cursor. Empty starts from the beginning.
	AfterID string
	Limit   int
	// Providers restricts candidates to contacts with at least one of these still open.
	Providers []string
}

// ContactPatch is the single write issued per contact after providers ran.
// Fields keys are column names; a field is only written while the column is empty.
type ContactPatch struct {
	ID             string
	ClaimToken     string
	Fields         map[string]string
	Statuses       map[string]entity.ProviderStatus
	LastEnrichedAt *time.Time
	ExhaustedAt    *time.Time
}

// ContactsRepository describes persistence operations for contacts.
type ContactsRepository interface {
	SelectCandidates(ctx context.Context, q CandidateQuery) ([]entity.Contact, error)
	GetContact(ctx context.Context, ownerID, id string) (*entity.Contact, error)
	OrganizationNames(ctx context.Context, ids []string) (map[string]string, error)
	ClaimContact(ctx context.Context, id, token string, until time.Time) (bool, error)
	ApplyEnrichment(ctx context.Context, patch ContactPatch) error
	ReleaseContact(ctx context.Context, id, token string) error
}

// PGXContactsRepository implements ContactsRepository using pgx.
type PGXContactsRepository struct {
	pool pgxPool
}

// NewPGXContactsRepository wires a pgx backed repository.
func NewPGXContactsRepository(pool *pgxpool.Pool) *PGXContactsRepository {
	return &PGXContactsRepository{pool: pool}
}

// SelectCandidates returns contacts owned by q.OwnerID with every email and phone column
// empty and at least one requested provider not yet definitive, ordered by id.
func (r *PGXContactsRepository) SelectCandidates(ctx context.Context, q CandidateQuery) ([]entity.Contact, error) {
	if q.Limit <= 0 {
		return nil, fmt.Errorf("candidate limit must be positive")
	}

	var statusConds []string
	for _, name := range statusOrder {
		if !containsString(q.Providers, name) {
			continue
		}
		statusConds = append(statusConds,
			fmt.Sprintf("COALESCE(%s, 'pending') NOT IN ('enriched', 'not_found')", statusColumns[name]))
	}
	if len(statusConds) == 0 {
		return nil, fmt.Errorf("at least one provider is required")
	}

	args := []any{q.OwnerID}
	conditions := []string{"created_by = $1"}
	if q.AfterID != "" {
		args = append(args, q.AfterID)
		conditions = append(conditions, fmt.Sprintf("id > $%d", len(args)))
	}
	for _, col := range channelColumns {
		conditions = append(conditions, fmt.Sprintf("COALESCE(%s, '') = ''", col))
	}
	conditions = append(conditions, "("+strings.Join(statusConds, " OR ")+")")
	args = append(args, q.Limit)

	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE %s ORDER BY id ASC LIMIT $%d`,
		contactColumns, strings.Join(conditions, " AND "), len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select candidates: %w", err)
	}
	defer rows.Close()

	var contacts []entity.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return contacts, nil
}

// GetContact fetches one contact owned by ownerID.
func (r *PGXContactsRepository) GetContact(ctx context.Context, ownerID, id string) (*entity.Contact, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM contacts WHERE id = $1 AND created_by = $2`, contactColumns), id, ownerID)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return contact, nil
}

// OrganizationNames resolves organization ids to names in one round trip.
// Unknown ids are absent from the result.
func (r *PGXContactsRepository) OrganizationNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id, name FROM organizations WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}
	return names, nil
}

// ClaimContact takes the enrichment lease on a contact unless another holder's lease is live.
func (r *PGXContactsRepository) ClaimContact(ctx context.Context, id, token string, until time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
        UPDATE contacts
        SET claim_token = $2, claimed_until = $3
        WHERE id = $1 AND (claimed_until IS NULL OR claimed_until < NOW())
    `, id, token, until)
	if err != nil {
		return false, fmt.Errorf("claim contact: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ApplyEnrichment writes the patch and releases the lease in one statement.
// Data columns keep any value they already hold.
func (r *PGXContactsRepository) ApplyEnrichment(ctx context.Context, patch ContactPatch) error {
	for col := range patch.Fields {
		if !containsString(fillableColumns, col) {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
	}
	for name := range patch.Statuses {
		if _, ok := statusColumns[name]; !ok {
			return fmt.Errorf("%w: %s status", ErrUnknownColumn, name)
		}
	}

	args := []any{patch.ID, patch.ClaimToken}
	var sets []string
	for _, col := range fillableColumns {
		value, ok := patch.Fields[col]
		if !ok {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%[1]s = CASE WHEN COALESCE(%[1]s, '') = '' THEN $%[2]d ELSE %[1]s END", col, len(args)))
	}
	for _, name := range statusOrder {
		status, ok := patch.Statuses[name]
		if !ok {
			continue
		}
		args = append(args, string(status))
		sets = append(sets, fmt.Sprintf("%s = $%d", statusColumns[name], len(args)))
	}
	if patch.LastEnrichedAt != nil {
		args = append(args, *patch.LastEnrichedAt)
		sets = append(sets, fmt.Sprintf("last_enriched_at = $%d", len(args)))
	}
	if patch.ExhaustedAt != nil {
		args = append(args, *patch.ExhaustedAt)
		sets = append(sets, fmt.Sprintf("enrichment_exhausted_at = $%d", len(args)))
	}
	sets = append(sets, "claim_token = NULL", "claimed_until = NULL", "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE contacts SET %s WHERE id = $1 AND claim_token = $2`, strings.Join(sets, ", "))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("apply enrichment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeaseLost
	}
	return nil
}

// ReleaseContact drops the lease without touching any other column.
func (r *PGXContactsRepository) ReleaseContact(ctx context.Context, id, token string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE contacts SET claim_token = NULL, claimed_until = NULL WHERE id = $1 AND claim_token = $2`, id, token)
	if err != nil {
		return fmt.Errorf("release contact: %w", err)
	}
	return nil
}

func scanContact(row pgx.Row) (*entity.Contact, error) {
	var (
		c                                      entity.Contact
		orgID, email, workEmail, personalEmail sql.NullString
		phone, mobile, workPhone, linkedIn     sql.NullString
		domain, position                       sql.NullString
		hunter, apollo, lusha, findymail       sql.NullString
		lastEnriched, exhausted, claimedUntil  sql.NullTime
	)
	if err := row.Scan(
		&c.ID, &c.FullName, &orgID, &email, &workEmail, &personalEmail,
		&phone, &mobile, &workPhone, &linkedIn, &domain, &position,
		&hunter, &apollo, &lusha, &findymail,
		&lastEnriched, &exhausted, &claimedUntil, &c.CreatedBy,
	); err != nil {
		return nil, err
	}

	c.OrganizationID = nullStringPtr(orgID)
	c.Email = nullStringPtr(email)
	c.WorkEmail = nullStringPtr(workEmail)
	c.PersonalEmail = nullStringPtr(personalEmail)
	c.Phone = nullStringPtr(phone)
	c.MobilePhone = nullStringPtr(mobile)
	c.WorkPhone = nullStringPtr(workPhone)
	c.LinkedInURL = nullStringPtr(linkedIn)
	c.CompanyDomain = nullStringPtr(domain)
	c.Position = nullStringPtr(position)
	c.HunterStatus = entity.ProviderStatus(hunter.String)
	c.ApolloStatus = entity.ProviderStatus(apollo.String)
	c.LushaStatus = entity.ProviderStatus(lusha.String)
	c.FindymailStatus = entity.ProviderStatus(findymail.String)
	c.LastEnrichedAt = nullTimePtr(lastEnriched)
	c.EnrichmentExhaustedAt = nullTimePtr(exhausted)
	c.ClaimedUntil = nullTimePtr(claimedUntil)
	return &c, nil
}

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
