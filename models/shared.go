package models

// Role is the access level attached to a user account.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleStoreAdmin Role = "store_admin"
	RoleStaff      Role = "staff"
	RoleCustomer   Role = "customer"
)

// SkillLevel ranks staff seniority. Treatments declare the minimum level
// they require; "any" on a treatment accepts every level.
type SkillLevel string

const (
	SkillJunior SkillLevel = "junior"
	SkillSenior SkillLevel = "senior"
	SkillExpert SkillLevel = "expert"
	SkillAny    SkillLevel = "any"
)

var skillRank = map[SkillLevel]int{
	SkillJunior: 1,
	SkillSenior: 2,
	SkillExpert: 3,
}

// Satisfies reports whether a staff member at level s meets the required
// level. Unknown or empty staff levels rank as junior.
func (s SkillLevel) Satisfies(required SkillLevel) bool {
	if required == SkillAny || required == "" {
		return true
	}
	have, ok := skillRank[s]
	if !ok {
		have = skillRank[SkillJunior]
	}
	want, ok := skillRank[required]
	if !ok {
		return false
	}
	return have >= want
}

// ValidSkillLevel reports whether s is one of the three staff levels.
func ValidSkillLevel(s SkillLevel) bool {
	_, ok := skillRank[s]
	return ok
}

// Price is an amount in a single ISO-4217 currency.
type Price struct {
	Amount   float64 `bson:"amount" json:"amount"`
	Currency string  `bson:"currency" json:"currency"` // ISO-4217 code, e.g. "EUR"
}

// Principal is the authenticated caller extracted from an access token.
// Handlers pass it down explicitly; services never read it from globals.
type Principal struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	StoreID string `json:"storeId,omitempty"` // set for store_admin and staff accounts
}

// Pagination carries list-endpoint paging state for response envelopes.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}
