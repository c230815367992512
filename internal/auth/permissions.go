package auth

import "sort"

// Permission is an opaque capability token from the closed catalog below.
type Permission string

// Role management.
const (
	PermRolesView   Permission = "roles.view"
	PermRolesCreate Permission = "roles.create"
	PermRolesUpdate Permission = "roles.update"
	PermRolesDelete Permission = "roles.delete"
	PermRolesAssign Permission = "roles.assign"
)

// User management.
const (
	PermUsersView              Permission = "users.view"
	PermUsersInvite            Permission = "users.invite"
	PermUsersCreate            Permission = "users.create"
	PermUsersUpdate            Permission = "users.update"
	PermUsersDeactivate        Permission = "users.deactivate"
	PermUsersDelete            Permission = "users.delete"
	PermUsersImport            Permission = "users.import"
	PermUsersDesignationUpdate Permission = "users.designation.update"
)

// Business units.
const (
	PermUnitsView          Permission = "units.view"
	PermUnitsCreate        Permission = "units.create"
	PermUnitsUpdate        Permission = "units.update"
	PermUnitsDelete        Permission = "units.delete"
	PermUnitsMembersManage Permission = "units.members.manage"
)

// Task management.
const (
	PermTasksViewOwn        Permission = "tasks.view.own"
	PermTasksViewTeam       Permission = "tasks.view.team"
	PermTasksViewAll        Permission = "tasks.view.all"
	PermTasksCreate         Permission = "tasks.create"
	PermTasksUpdate         Permission = "tasks.update"
	PermTasksDelete         Permission = "tasks.delete"
	PermTasksAssign         Permission = "tasks.assign"
	PermTasksComplete       Permission = "tasks.complete"
	PermTasksComment        Permission = "tasks.comment"
	PermTasksPriorityUpdate Permission = "tasks.priority.update"
)

// End-of-day reports.
const (
	PermReportsViewOwn     Permission = "reports.view.own"
	PermReportsViewTeam    Permission = "reports.view.team"
	PermReportsViewAll     Permission = "reports.view.all"
	PermReportsSubmit      Permission = "reports.submit"
	PermReportsEdit        Permission = "reports.edit"
	PermReportsAcknowledge Permission = "reports.acknowledge"
	PermReportsComment     Permission = "reports.comment"
	PermReportsHistoryView Permission = "reports.history.view"
	PermReportsSummaryView Permission = "reports.summary.view"
	PermReportsExport      Permission = "reports.export"
)

// Leave management.
const (
	PermLeaveViewOwn       Permission = "leave.view.own"
	PermLeaveViewTeam      Permission = "leave.view.team"
	PermLeaveViewAll       Permission = "leave.view.all"
	PermLeaveRequest       Permission = "leave.request"
	PermLeaveCancel        Permission = "leave.cancel"
	PermLeaveApprove       Permission = "leave.approve"
	PermLeaveReject        Permission = "leave.reject"
	PermLeaveRevoke        Permission = "leave.revoke"
	PermLeaveBalanceView   Permission = "leave.balance.view"
	PermLeaveBalanceAdjust Permission = "leave.balance.adjust"
	PermLeavePolicyManage  Permission = "leave.policy.manage"
)

// Meetings.
const (
	PermMeetingsView          Permission = "meetings.view"
	PermMeetingsCreate        Permission = "meetings.create"
	PermMeetingsUpdate        Permission = "meetings.update"
	PermMeetingsCancel        Permission = "meetings.cancel"
	PermMeetingsInvite        Permission = "meetings.invite"
	PermMeetingsMinutesRecord Permission = "meetings.minutes.record"
	PermMeetingsMinutesView   Permission = "meetings.minutes.view"
	PermMeetingsRoomManage    Permission = "meetings.room.manage"
)

// Workspace settings.
const (
	PermSettingsView                Permission = "settings.view"
	PermSettingsUpdate              Permission = "settings.update"
	PermSettingsBrandingUpdate      Permission = "settings.branding.update"
	PermSettingsWorkdayUpdate       Permission = "settings.workday.update"
	PermSettingsCutoffUpdate        Permission = "settings.cutoff.update"
	PermSettingsNotificationsUpdate Permission = "settings.notifications.update"
)

// Integrations.
const (
	PermIntegrationsView           Permission = "integrations.view"
	PermIntegrationsConnect        Permission = "integrations.connect"
	PermIntegrationsDisconnect     Permission = "integrations.disconnect"
	PermIntegrationsWebhooksManage Permission = "integrations.webhooks.manage"
	PermIntegrationsAPIKeysManage  Permission = "integrations.apikeys.manage"
)

// Platform-only tokens. Granted exclusively to platform admins; they must
// never flow through the tenant-admin claim or any legacy fallback set.
const (
	PermPlatformTenantsView    Permission = "platform.tenants.view"
	PermPlatformTenantsCreate  Permission = "platform.tenants.create"
	PermPlatformTenantsUpdate  Permission = "platform.tenants.update"
	PermPlatformTenantsSuspend Permission = "platform.tenants.suspend"
	PermPlatformTenantsDelete  Permission = "platform.tenants.delete"
	PermPlatformPlansManage    Permission = "platform.plans.manage"
	PermPlatformMetricsView    Permission = "platform.metrics.view"
	PermPlatformImpersonate    Permission = "platform.impersonate"
)

var tenantPermissions = []Permission{
	PermRolesView, PermRolesCreate, PermRolesUpdate, PermRolesDelete, PermRolesAssign,

	PermUsersView, PermUsersInvite, PermUsersCreate, PermUsersUpdate,
	PermUsersDeactivate, PermUsersDelete, PermUsersImport, PermUsersDesignationUpdate,

	PermUnitsView, PermUnitsCreate, PermUnitsUpdate, PermUnitsDelete, PermUnitsMembersManage,

	PermTasksViewOwn, PermTasksViewTeam, PermTasksViewAll, PermTasksCreate,
	PermTasksUpdate, PermTasksDelete, PermTasksAssign, PermTasksComplete,
	PermTasksComment, PermTasksPriorityUpdate,

	PermReportsViewOwn, PermReportsViewTeam, PermReportsViewAll, PermReportsSubmit,
	PermReportsEdit, PermReportsAcknowledge, PermReportsComment,
	PermReportsHistoryView, PermReportsSummaryView, PermReportsExport,

	PermLeaveViewOwn, PermLeaveViewTeam, PermLeaveViewAll, PermLeaveRequest,
	PermLeaveCancel, PermLeaveApprove, PermLeaveReject, PermLeaveRevoke,
	PermLeaveBalanceView, PermLeaveBalanceAdjust, PermLeavePolicyManage,

	PermMeetingsView, PermMeetingsCreate, PermMeetingsUpdate, PermMeetingsCancel,
	PermMeetingsInvite, PermMeetingsMinutesRecord, PermMeetingsMinutesView,
	PermMeetingsRoomManage,

	PermSettingsView, PermSettingsUpdate, PermSettingsBrandingUpdate,
	PermSettingsWorkdayUpdate, PermSettingsCutoffUpdate, PermSettingsNotificationsUpdate,

	PermIntegrationsView, PermIntegrationsConnect, PermIntegrationsDisconnect,
	PermIntegrationsWebhooksManage, PermIntegrationsAPIKeysManage,
}

var platformPermissions = []Permission{
	PermPlatformTenantsView, PermPlatformTenantsCreate, PermPlatformTenantsUpdate,
	PermPlatformTenantsSuspend, PermPlatformTenantsDelete,
	PermPlatformPlansManage, PermPlatformMetricsView, PermPlatformImpersonate,
}

// tenantAdminSet is every tenant-scoped token. The verified tenant-admin
// claim grants membership here and nothing beyond it. Built once at init,
// never rebuilt per check.
var tenantAdminSet = permissionSet(tenantPermissions)

var managerSet = permissionSet([]Permission{
	PermReportsViewOwn, PermReportsViewTeam, PermReportsSubmit, PermReportsEdit,
	PermReportsAcknowledge, PermReportsComment, PermReportsHistoryView, PermReportsSummaryView,

	PermTasksViewOwn, PermTasksViewTeam, PermTasksCreate, PermTasksUpdate,
	PermTasksAssign, PermTasksComplete, PermTasksComment, PermTasksPriorityUpdate,

	PermLeaveViewOwn, PermLeaveViewTeam, PermLeaveRequest, PermLeaveCancel,
	PermLeaveApprove, PermLeaveReject, PermLeaveBalanceView,

	PermMeetingsView, PermMeetingsCreate, PermMeetingsUpdate,
	PermMeetingsInvite, PermMeetingsMinutesRecord, PermMeetingsMinutesView,
})

var teamLeadSet = permissionSet([]Permission{
	PermReportsViewOwn, PermReportsViewTeam, PermReportsSubmit, PermReportsEdit,
	PermReportsAcknowledge, PermReportsComment, PermReportsHistoryView,

	PermTasksViewOwn, PermTasksViewTeam, PermTasksCreate, PermTasksUpdate,
	PermTasksAssign, PermTasksComplete, PermTasksComment,

	PermLeaveViewOwn, PermLeaveViewTeam, PermLeaveRequest, PermLeaveCancel,

	PermMeetingsView,
})

var employeeSet = permissionSet([]Permission{
	PermReportsViewOwn, PermReportsSubmit, PermReportsEdit,
	PermTasksViewOwn, PermTasksComplete,
	PermLeaveViewOwn, PermLeaveRequest,
	PermMeetingsView,
})

// Catalog returns every permission token, tenant and platform, sorted.
func Catalog() []Permission {
	all := make([]Permission, 0, len(tenantPermissions)+len(platformPermissions))
	all = append(all, tenantPermissions...)
	all = append(all, platformPermissions...)
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// TenantPermissions returns every tenant-scoped token, sorted. This is
// exactly the set the tenant-admin claim grants.
func TenantPermissions() []Permission {
	out := make([]Permission, len(tenantPermissions))
	copy(out, tenantPermissions)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsPlatformPermission reports whether the token is platform-only.
func IsPlatformPermission(p Permission) bool {
	for _, pp := range platformPermissions {
		if pp == p {
			return true
		}
	}
	return false
}

func permissionSet(perms []Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}
