package principal

import (
	"strings"

	"unihaven/internal/pkg/errs"
)

var (
	ErrMalformedToken  = errs.New("malformed role token")
	ErrUnknownRoleType = errs.New("unknown role type")
	ErrMissingMemberID = errs.New("member role requires an id")
)

type Kind string

const (
	KindMember     Kind = "member"
	KindSpecialist Kind = "specialist"
)

// Principal is the resolved caller identity. It is a closed sum: Member and
// Specialist are the only implementations, so authorization code can type-switch
// exhaustively instead of re-inspecting the raw token.
type Principal interface {
	University() string
	Kind() Kind
	sealed()
}

// Member is a student affiliated with exactly one university.
type Member struct {
	university string
	uid        string
}

func NewMember(university, uid string) Member {
	return Member{university: normalizeCode(university), uid: uid}
}

func (m Member) University() string { return m.university }
func (m Member) UID() string        { return m.uid }
func (m Member) Kind() Kind         { return KindMember }
func (m Member) sealed()            {}

// Specialist is a staff principal scoped to one university. The id is optional
// in the wire format; every authorization decision keys off the university.
type Specialist struct {
	university string
	id         string
}

func NewSpecialist(university, id string) Specialist {
	return Specialist{university: normalizeCode(university), id: id}
}

func (s Specialist) University() string { return s.university }
func (s Specialist) ID() string         { return s.id }
func (s Specialist) Kind() Kind         { return KindSpecialist }
func (s Specialist) sealed()            {}

// Resolve parses "<university_code>:<role_type>[:<role_id>]" into a Principal.
// The id segment may be omitted only for specialists; a member token without an
// id is a resolution failure, never a member with an empty uid. There is no
// anonymous fallback: callers must treat any error as an authorization failure.
func Resolve(token string) (Principal, error) {
	parts := strings.Split(token, ":")

	switch len(parts) {
	case 2:
		university, roleType := parts[0], parts[1]
		if university == "" {
			return nil, ErrMalformedToken
		}
		if roleType != string(KindSpecialist) {
			if roleType == string(KindMember) {
				return nil, ErrMissingMemberID
			}
			return nil, ErrUnknownRoleType
		}
		return NewSpecialist(university, ""), nil

	case 3:
		university, roleType, roleID := parts[0], parts[1], parts[2]
		if university == "" {
			return nil, ErrMalformedToken
		}
		switch roleType {
		case string(KindMember):
			if roleID == "" {
				return nil, ErrMissingMemberID
			}
			return NewMember(university, roleID), nil
		case string(KindSpecialist):
			return NewSpecialist(university, roleID), nil
		default:
			return nil, ErrUnknownRoleType
		}

	default:
		return nil, ErrMalformedToken
	}
}

// University codes are matched case-insensitively everywhere; normalizing at
// construction keeps the rest of the system on plain string equality.
func normalizeCode(code string) string {
	return strings.ToLower(code)
}
