package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Route Compilation Errors (E001-E099)
	// ============================================

	"E001": {
		Category:   CategoryRoutes,
		Message:    "Ambiguous dynamic segments",
		Detail:     "Two sibling directories both declare a dynamic segment at the same position. A request segment would match either one, so precedence between them is undefined.",
		Suggestion: "Keep a single [param] directory per parent, or replace one sibling with a literal directory.",
		DocURL:     "https://strada.dev/docs/errors/E001",
	},
	"E002": {
		Category:   CategoryRoutes,
		Message:    "Duplicate route pattern",
		Detail:     "Two route files compile to the same URL pattern. Grouping directories do not contribute URL segments, so routes inside different groups can still collide.",
		Suggestion: "Remove one of the files, or move it under a literal directory that changes its pattern.",
		DocURL:     "https://strada.dev/docs/errors/E002",
	},
	"E003": {
		Category:   CategoryRoutes,
		Message:    "Route directory unreadable",
		Detail:     "A directory under the route root could not be read during compilation.",
		Suggestion: "Check that the directory exists and is readable.",
		DocURL:     "https://strada.dev/docs/errors/E003",
	},
	"E004": {
		Category:   CategoryRoutes,
		Message:    "Invalid route module",
		Detail:     "A route file could not be loaded, or declares no HTTP method handlers.",
		Suggestion: "Export at least one handler named after an HTTP method (GET, POST, ...).",
		DocURL:     "https://strada.dev/docs/errors/E004",
	},
	"E005": {
		Category:   CategoryRoutes,
		Message:    "Empty dynamic segment name",
		Detail:     "A dynamic directory must name its parameter, e.g. [id]. An empty [] directory binds nothing.",
		Suggestion: "Rename the directory to [name].",
		DocURL:     "https://strada.dev/docs/errors/E005",
	},

	// ============================================
	// Configuration Errors (E101-E199)
	// ============================================

	"E101": {
		Category:   CategoryConfig,
		Message:    "Project configuration not found",
		Detail:     "No strada.json was found in this directory or any parent.",
		Suggestion: "Run the command from a project directory, or create strada.json manually.",
		DocURL:     "https://strada.dev/docs/errors/E101",
	},
	"E102": {
		Category:   CategoryConfig,
		Message:    "Invalid project configuration",
		Detail:     "strada.json exists but could not be parsed.",
		Suggestion: "Check that strada.json is valid JSON.",
		DocURL:     "https://strada.dev/docs/errors/E102",
	},
	"E103": {
		Category:   CategoryConfig,
		Message:    "Routes directory not found",
		Detail:     "The configured routes directory does not exist.",
		Suggestion: "Create the directory, or point the routes setting in strada.json at the right place.",
		DocURL:     "https://strada.dev/docs/errors/E103",
	},

	// ============================================
	// CLI Errors (E201-E299)
	// ============================================

	"E201": {
		Category:   CategoryCLI,
		Message:    "OpenAPI generation failed",
		Detail:     "The route table compiled, but the OpenAPI document could not be generated from it.",
		DocURL:     "https://strada.dev/docs/errors/E201",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	tmpl, ok := registry[code]
	return tmpl, ok
}
