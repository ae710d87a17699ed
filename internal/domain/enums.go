package domain

import "fmt"

type Language string

const (
	LangEnglish  Language = "en"
	LangHindi    Language = "hi"
	LangGujarati Language = "gu"
)

// DefaultLanguage is the primary locale of the portal.
const DefaultLanguage = LangEnglish

// Languages returns the supported locales in display order.
func Languages() []Language {
	return []Language{LangEnglish, LangHindi, LangGujarati}
}

// ParseLanguage accepts exactly one of the supported locale codes.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LangEnglish, LangHindi, LangGujarati:
		return Language(s), nil
	}
	return "", fmt.Errorf("unsupported language %q (want en, hi or gu)", s)
}

type UserRole string

const (
	RoleVillager      UserRole = "villager"
	RoleBusinessOwner UserRole = "business_owner"
	RoleOperator      UserRole = "operator"
	RoleGovtOfficer   UserRole = "govt_officer"
	RoleAdmin         UserRole = "admin"
)

// Roles returns the demo roles in the order the dashboard switcher shows them.
func Roles() []UserRole {
	return []UserRole{RoleVillager, RoleBusinessOwner, RoleOperator, RoleGovtOfficer, RoleAdmin}
}

var roleLabels = map[UserRole]LocalizedText{
	RoleVillager:      {EN: "Villager", HI: "ग्रामवासी", GU: "ગામવાસી"},
	RoleBusinessOwner: {EN: "Business Owner", HI: "व्यवसाय मालिक", GU: "વ્યવસાય માલિક"},
	RoleOperator:      {EN: "Operator", HI: "ऑपरेटर", GU: "ઓપરેટર"},
	RoleGovtOfficer:   {EN: "Govt. Officer", HI: "सरकारी अधिकारी", GU: "સરકારી અધિકારી"},
	RoleAdmin:         {EN: "Administrator", HI: "व्यवस्थापक", GU: "એડમિનિસ્ટ્રેટર"},
}

func ParseUserRole(s string) (UserRole, error) {
	r := UserRole(s)
	if _, ok := roleLabels[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Label returns the role name in the given language.
func (r UserRole) Label(lang Language) string {
	if l, ok := roleLabels[r]; ok {
		return l.In(lang)
	}
	return string(r)
}

// IsStaff reports whether the role may manage broadcasts.
func (r UserRole) IsStaff() bool {
	return r == RoleOperator || r == RoleAdmin
}

// DetectionState tracks a single in-flight geolocation request.
type DetectionState string

const (
	DetectionIdle      DetectionState = "idle"
	DetectionDetecting DetectionState = "detecting"
	DetectionResolved  DetectionState = "resolved"
	DetectionFailed    DetectionState = "failed"
)
