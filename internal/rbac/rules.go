package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"test:view",
		"attempt:submit",
		"attempt:view-own",
	},
	"admin": {
		"*", // everything
	},
}
