package model

import "fmt"

const (
	BusinessesTable  = "Businesses"
	ProfilesTable    = "Profiles"
	TotpSecretsTable = "TotpSecrets"
)

type State string

const (
	StatePending  State = "PENDING"
	StateApproved State = "APPROVED"
	StateRejected State = "REJECTED"
)

func ParseState(value string) (State, bool) {
	switch State(value) {
	case StatePending, StateApproved, StateRejected:
		return State(value), true
	}
	return "", false
}

type Role string

const (
	RolePlatformAdmin Role = "PLATFORM_ADMIN"
	RoleBusinessAdmin Role = "BUSINESS_ADMIN"
	RoleSaler         Role = "SALER"
	RoleDelivery      Role = "DELIVERY"
	RoleClient        Role = "CLIENT"
)

func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RolePlatformAdmin, RoleBusinessAdmin, RoleSaler, RoleDelivery, RoleClient:
		return Role(value), true
	}
	return "", false
}

type BusinessItem struct {
	PublicID             string `dynamodbav:"publicId"`
	BusinessID           string `dynamodbav:"businessId"`
	Name                 string `dynamodbav:"name"`
	AdminEmail           string `dynamodbav:"adminEmail"`
	Description          string `dynamodbav:"description"`
	Status               State  `dynamodbav:"status"`
	AutoAcceptDeliveries bool   `dynamodbav:"autoAcceptDeliveries"`
	CreatedAt            string `dynamodbav:"createdAt"`
}

// ProfileKey is the composite identity of a grant. At most one profile
// exists per (email, business, role) triple.
type ProfileKey struct {
	Email      string
	BusinessID string
	Role       Role
}

// PK derives the stable storage key for the triple. Emails are validated and
// business public ids are slugs, so no field can contain the delimiter.
func (k ProfileKey) PK() string {
	return fmt.Sprintf("%s#%s#%s", k.Email, k.BusinessID, k.Role)
}

type ProfileItem struct {
	PK         string `dynamodbav:"pk"`
	Email      string `dynamodbav:"email"`
	BusinessID string `dynamodbav:"businessId"`
	Role       Role   `dynamodbav:"role"`
	Status     State  `dynamodbav:"status"`
	CreatedAt  string `dynamodbav:"createdAt"`
	UpdatedAt  string `dynamodbav:"updatedAt,omitempty"`
}

func (p ProfileItem) Key() ProfileKey {
	return ProfileKey{Email: p.Email, BusinessID: p.BusinessID, Role: p.Role}
}

type TotpSecretItem struct {
	Email     string `dynamodbav:"email"`
	Secret    string `dynamodbav:"secret"`
	CreatedAt string `dynamodbav:"createdAt"`
}
