package placement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"placement-portal-backend/internal/model"

	"github.com/google/uuid"
)

// Profile field names accepted by ProfileMutator.Update
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldRole        = "role"
	FieldBranch      = "branch"
	FieldCGPA        = "cgpa"
	FieldResumeLink  = "resume_link"
	FieldCompanyName = "company_name"
	FieldPassword    = "password"
)

const (
	minPasswordLength = 8
	maxCGPA           = 10
	redacted          = "[redacted]"
)

var (
	ownerFields = []string{FieldName, FieldBranch, FieldCGPA, FieldResumeLink, FieldCompanyName, FieldPassword}
	adminFields = append(slices.Clone(ownerFields), FieldRole, FieldEmail)
)

// AllowedFields returns the profile fields an actor with role may change
func AllowedFields(role string) []string {
	if role == model.RoleAdmin {
		return slices.Clone(adminFields)
	}
	return slices.Clone(ownerFields)
}

// PasswordHasher turns a plain password into its stored one-way form
type PasswordHasher func(plain string) (string, error)

// ProfileMutator applies allow-listed field edits to a user profile and
// records an AdminAudit entry whenever an admin edits someone else.
type ProfileMutator struct {
	store        ProfileStore
	hash         PasswordHasher
	now          func() time.Time
	strictFields bool
}

// MutatorOption configures a ProfileMutator
type MutatorOption func(*ProfileMutator)

// WithStrictFields makes fields outside the actor's allow-list a Validation
// failure instead of being ignored.
func WithStrictFields(strict bool) MutatorOption {
	return func(m *ProfileMutator) { m.strictFields = strict }
}

// WithClock overrides the audit timestamp source
func WithClock(now func() time.Time) MutatorOption {
	return func(m *ProfileMutator) { m.now = now }
}

// NewProfileMutator creates a ProfileMutator
func NewProfileMutator(store ProfileStore, hash PasswordHasher, opts ...MutatorOption) *ProfileMutator {
	m := &ProfileMutator{
		store: store,
		hash:  hash,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Update applies fields to the profile of targetID on behalf of actor.
// A nil or empty-string value counts as not supplied. reason is required
// when actor is not the profile owner.
func (m *ProfileMutator) Update(ctx context.Context, targetID uuid.UUID, actor Actor, fields map[string]interface{}, reason string) (*model.UserProfile, error) {
	profile, _, err := m.UpdateAudited(ctx, targetID, actor, fields, reason)
	return profile, err
}

// UpdateAudited is Update that also returns the audit entry written with the
// change, or nil when the edit was not audited.
func (m *ProfileMutator) UpdateAudited(ctx context.Context, targetID uuid.UUID, actor Actor, fields map[string]interface{}, reason string) (*model.UserProfile, *model.AdminAudit, error) {
	if !Can(actor, ActionUpdateProfile, Resource{OwnerID: targetID}) {
		return nil, nil, Forbidden("not authorized to update this profile")
	}

	target, err := m.store.FindUser(ctx, targetID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, nil, NotFound("user not found")
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	if m.strictFields {
		if rejected := disallowedFields(actor.Role, fields); len(rejected) > 0 {
			return nil, nil, Validation(fmt.Sprintf("fields not allowed: %s", strings.Join(rejected, ", ")))
		}
	}

	changes := map[string]model.FieldChange{}
	for _, field := range AllowedFields(actor.Role) {
		raw, ok := fields[field]
		if !ok || raw == nil {
			continue
		}
		change, err := m.apply(target, field, raw)
		if err != nil {
			return nil, nil, err
		}
		if change != nil {
			changes[field] = *change
		}
	}

	privileged := actor.ID != target.ID
	reason = strings.TrimSpace(reason)
	if privileged && reason == "" {
		return nil, nil, Validation("reason required")
	}

	var audit *model.AdminAudit
	if privileged && len(changes) > 0 {
		changed := make([]string, 0, len(changes))
		for field := range changes {
			changed = append(changed, field)
		}
		sort.Strings(changed)
		audit = &model.AdminAudit{
			AdminID:       actor.ID,
			TargetUserID:  target.ID,
			Changes:       changes,
			ChangedFields: changed,
			Reason:        reason,
			IP:            actor.IP,
			CreatedAt:     m.now(),
		}
	}

	if err := m.store.SaveProfile(ctx, target, audit); err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			return nil, nil, Conflict("email already in use")
		}
		return nil, nil, fmt.Errorf("save profile: %w", err)
	}

	profile := target.Profile()
	return &profile, audit, nil
}

// apply sets one field on u and returns the change, or nil when the value is
// absent or equal to the current one.
func (m *ProfileMutator) apply(u *model.User, field string, raw interface{}) (*model.FieldChange, error) {
	if field == FieldCGPA {
		v, err := cgpaValue(raw)
		if err != nil || v == nil {
			return nil, err
		}
		if *v == u.CGPA {
			return nil, nil
		}
		change := &model.FieldChange{Old: u.CGPA, New: *v}
		u.CGPA = *v
		return change, nil
	}

	s, ok := raw.(string)
	if !ok {
		return nil, Validation(fmt.Sprintf("%s must be a string", field))
	}
	if field != FieldPassword {
		s = strings.TrimSpace(s)
	}
	if s == "" {
		return nil, nil
	}

	var dst *string
	switch field {
	case FieldName:
		dst = &u.Name
	case FieldEmail:
		s = strings.ToLower(s)
		dst = &u.Email
	case FieldRole:
		if !slices.Contains(model.Roles, s) {
			return nil, Validation(fmt.Sprintf("unknown role %q", s))
		}
		dst = &u.Role
	case FieldBranch:
		dst = &u.Branch
	case FieldResumeLink:
		dst = &u.ResumeLink
	case FieldCompanyName:
		dst = &u.CompanyName
	case FieldPassword:
		if len(s) < minPasswordLength {
			return nil, Validation(fmt.Sprintf("password should be at least %d characters", minPasswordLength))
		}
		hashed, err := m.hash(s)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.Password = hashed
		return &model.FieldChange{Old: redacted, New: redacted}, nil
	default:
		return nil, nil
	}

	if *dst == s {
		return nil, nil
	}
	change := &model.FieldChange{Old: *dst, New: s}
	*dst = s
	return change, nil
}

func cgpaValue(raw interface{}) (*float64, error) {
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var v float64
	switch t := raw.(type) {
	case float64:
		v = t
	case int:
		v = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, Validation("cgpa must be a number")
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil, Validation("cgpa must be a number")
		}
		v = f
	default:
		return nil, Validation("cgpa must be a number")
	}
	if math.IsNaN(v) || v < 0 || v > maxCGPA {
		return nil, Validation(fmt.Sprintf("cgpa must be between 0 and %d", maxCGPA))
	}
	return &v, nil
}

func disallowedFields(role string, fields map[string]interface{}) []string {
	allowed := AllowedFields(role)
	var rejected []string
	for field := range fields {
		if !slices.Contains(allowed, field) {
			rejected = append(rejected, field)
		}
	}
	sort.Strings(rejected)
	return rejected
}
