package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"chapter:view",
		"practice:manage-own",
		"bookmark:manage-own",
		"note:manage-own",
		"study:track-own",
		"chat:ask",
		"asset:view",
	},
	"mentor": {
		"chapter:view",
		"study:view-all",
		"asset:view",
	},
	"admin": {
		"*", // everything
	},
}
