package enum

// MemberStatus tracks whether a member still worships with the church
type MemberStatus string

const (
	MemberStatusActive      MemberStatus = "Active"
	MemberStatusInactive    MemberStatus = "Inactive"
	MemberStatusTransferred MemberStatus = "Transferred"
	MemberStatusDeceased    MemberStatus = "Deceased"
)

func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberStatusActive, MemberStatusInactive, MemberStatusTransferred, MemberStatusDeceased:
		return true
	}
	return false
}

// ChurchRole is the office a member holds
type ChurchRole string

const (
	ChurchRoleMember      ChurchRole = "Member"
	ChurchRoleElder       ChurchRole = "Elder"
	ChurchRoleDeacon      ChurchRole = "Deacon"
	ChurchRoleDeaconess   ChurchRole = "Deaconess"
	ChurchRoleTreasurer   ChurchRole = "Treasurer"
	ChurchRoleClerk       ChurchRole = "Clerk"
	ChurchRolePastor      ChurchRole = "Pastor"
	ChurchRoleYouthLeader ChurchRole = "Youth Leader"
	ChurchRoleOther       ChurchRole = "Other"
)

func (r ChurchRole) IsValid() bool {
	switch r {
	case ChurchRoleMember, ChurchRoleElder, ChurchRoleDeacon, ChurchRoleDeaconess, ChurchRoleTreasurer,
		ChurchRoleClerk, ChurchRolePastor, ChurchRoleYouthLeader, ChurchRoleOther:
		return true
	}
	return false
}

// Gender of a member
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)
