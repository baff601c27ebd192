package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"viewer": {
		"pack:view",
		"pack:export",
	},
	"editor": {
		"pack:view",
		"pack:edit",
		"pack:import",
		"pack:export",
		"pack:clear",
		"assets:upload",
		"assets:view",
	},
	"admin": {
		"*", // everything
	},
}
