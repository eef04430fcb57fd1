package entity

// Permission names checked by the HTTP layer
const (
	PermMemberView       = "member.view"
	PermMemberManage     = "member.manage"
	PermFinanceView      = "finance.view"
	PermFinanceManage    = "finance.manage"
	PermFinanceApprove   = "finance.approve"
	PermBudgetManage     = "budget.manage"
	PermRemittanceManage = "remittance.manage"
	PermSettingsManage   = "settings.manage"
	PermSMSSend          = "sms.send"
	PermReportView       = "report.view"
)

// Built-in role names
const (
	RoleSuperAdmin     = "super-admin"
	RoleTreasurer      = "treasurer"
	RoleClerk          = "clerk"
	RoleDepartmentHead = "department-head"
	RoleViewer         = "viewer"
)

// AllPermissions lists every permission in seed order
var AllPermissions = []string{
	PermMemberView,
	PermMemberManage,
	PermFinanceView,
	PermFinanceManage,
	PermFinanceApprove,
	PermBudgetManage,
	PermRemittanceManage,
	PermSettingsManage,
	PermSMSSend,
	PermReportView,
}

// DefaultRoles maps each built-in role to its permissions
var DefaultRoles = map[string][]string{
	RoleSuperAdmin: AllPermissions,
	RoleTreasurer: {
		PermMemberView, PermMemberManage,
		PermFinanceView, PermFinanceManage, PermFinanceApprove,
		PermBudgetManage, PermRemittanceManage,
		PermSMSSend, PermReportView,
	},
	RoleClerk: {
		PermMemberView, PermMemberManage,
		PermFinanceView, PermFinanceManage,
		PermSMSSend,
	},
	RoleDepartmentHead: {
		PermMemberView,
		PermFinanceView, PermBudgetManage,
		PermReportView,
	},
	RoleViewer: {
		PermMemberView, PermFinanceView, PermReportView,
	},
}

// ChurchRolePermissions maps a church membership role to what it may do
// inside that church. Owners and admins manage everything.
func ChurchRolePermissions(role string) []string {
	switch role {
	case ChurchUserOwner, ChurchUserAdmin:
		return AllPermissions
	default:
		return DefaultRoles[RoleViewer]
	}
}
