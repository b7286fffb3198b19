// Package rbac maps organization membership roles to permissions.
package rbac

// Membership roles within an organization.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)

// Permission identifiers gating HTTP routes.
const (
	PermOrgManage       = "org.manage"
	PermPropertyView    = "property.view"
	PermPropertyManage  = "property.manage"
	PermFinanceView     = "finance.view"
	PermFinanceManage   = "finance.manage"
	PermMeetingsView    = "meetings.view"
	PermMeetingsManage  = "meetings.manage"
	PermHelpdeskView    = "helpdesk.view"
	PermHelpdeskManage  = "helpdesk.manage"
	PermArticlesView    = "articles.view"
	PermArticlesManage  = "articles.manage"
	PermNotificationsRW = "notifications.rw"
)

// rolePermissions is the static grant table. Admin is a superset of
// manager, which is a superset of member.
var rolePermissions = map[string][]string{
	RoleMember: {
		PermPropertyView,
		PermMeetingsView,
		PermHelpdeskView,
		PermArticlesView,
		PermNotificationsRW,
	},
	RoleManager: {
		PermPropertyView, PermPropertyManage,
		PermFinanceView, PermFinanceManage,
		PermMeetingsView, PermMeetingsManage,
		PermHelpdeskView, PermHelpdeskManage,
		PermArticlesView, PermArticlesManage,
		PermNotificationsRW,
	},
	RoleAdmin: {
		PermOrgManage,
		PermPropertyView, PermPropertyManage,
		PermFinanceView, PermFinanceManage,
		PermMeetingsView, PermMeetingsManage,
		PermHelpdeskView, PermHelpdeskManage,
		PermArticlesView, PermArticlesManage,
		PermNotificationsRW,
	},
}

// PermissionsForRole returns the permission set granted by a role.
func PermissionsForRole(role string) map[string]struct{} {
	perms := rolePermissions[role]
	granted := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		granted[p] = struct{}{}
	}
	return granted
}
