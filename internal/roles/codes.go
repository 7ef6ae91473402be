package roles

// Stable machine codes raised by the role validators, on top of the codes
// the validation runtime defines.
const (
	CodeSystemRoleTenantRestricted   = "SYSTEM_ROLE_TENANT_RESTRICTED"
	CodeSystemRoleWithParent         = "SYSTEM_ROLE_WITH_PARENT"
	CodeInheritedMissingParent       = "INHERITED_ROLE_MISSING_PARENT"
	CodeInheritedExplicitPermissions = "INHERITED_ROLE_EXPLICIT_PERMISSIONS"
	CodeLowPriority                  = "LOW_PRIORITY_WARNING"
	CodeAdminCode                    = "ADMIN_CODE_WARNING"
	CodeSystemCodeModification       = "SYSTEM_CODE_MODIFICATION_WARNING"
	CodePastExpiration               = "PAST_EXPIRATION_DATE"
	CodeLongTermAssignment           = "LONG_TERM_ASSIGNMENT_WARNING"
	CodeSelfAssignment               = "SELF_ASSIGNMENT_WARNING"
	CodeSelfParent                   = "SELF_PARENT_REFERENCE"
	CodeCircularHierarchy            = "CIRCULAR_HIERARCHY"
	CodeActiveAssignments            = "ROLE_HAS_ACTIVE_ASSIGNMENTS"
	CodeInheritedRoles               = "INHERITED_ROLES_WARNING"
	CodeForceDeletion                = "FORCE_DELETION_WARNING"
)
