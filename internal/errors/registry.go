package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://vango.dev/velement/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Property store (E101-E199)
	"E101": {
		Category: CategoryProperty,
		Message:  "Unknown property",
		Detail:   "The key was not declared in the element's properties. The read or write was ignored.",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryCoercion,
		Message:  "Malformed attribute value",
		Detail:   "An array or object attribute did not contain valid JSON of the declared kind.",
		DocURL:   docBase + "E102",
	},
	"E103": {
		Category: CategoryProperty,
		Message:  "Attribute has no property definition",
		Detail:   "An observed attribute changed but no property of that name is declared.",
		DocURL:   docBase + "E103",
	},
	"E104": {
		Category: CategoryPlugin,
		Message:  "Capability already registered",
		Detail:   "Two plugins tried to register a capability under the same name on one element.",
		DocURL:   docBase + "E104",
	},
	"E105": {
		Category: CategoryLifecycle,
		Message:  "Render failed",
		Detail:   "The rendered markup could not be applied to the render root.",
		DocURL:   docBase + "E105",
	},
	"E106": {
		Category: CategoryProperty,
		Message:  "Property reflection failed",
		Detail:   "The value could not be serialized to its attribute form.",
		DocURL:   docBase + "E106",
	},

	// Configuration (E201-E299)
	"E201": {
		Category: CategoryConfig,
		Message:  "Invalid page manifest",
		Detail:   "The page manifest failed validation.",
		DocURL:   docBase + "E201",
	},
	"E202": {
		Category: CategoryConfig,
		Message:  "Cannot read page manifest",
		Detail:   "The manifest file could not be read or parsed as YAML.",
		DocURL:   docBase + "E202",
	},
	"E203": {
		Category: CategoryConfig,
		Message:  "Unknown component tag",
		Detail:   "The manifest references a tag with no registered component.",
		DocURL:   docBase + "E203",
	},

	// CLI (E301-E399)
	"E301": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The preview server stopped with an error.",
		DocURL:   docBase + "E301",
	},
	"E302": {
		Category: CategoryCLI,
		Message:  "Unknown template",
		Detail:   "No starter template has that name.",
		DocURL:   docBase + "E302",
	},
	"E303": {
		Category: CategoryCLI,
		Message:  "File already exists",
		Detail:   "init does not overwrite existing files.",
		DocURL:   docBase + "E303",
	},
	"E304": {
		Category: CategoryCLI,
		Message:  "Publish failed",
		Detail:   "The rendered page could not be uploaded.",
		DocURL:   docBase + "E304",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
