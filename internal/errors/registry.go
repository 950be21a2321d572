package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	CodeUnreachablePath: {
		Category: CategoryState,
		Message:  "Write to an unreachable path",
		Detail:   "An intermediate value on the path is missing or is not a map, slice, array or struct. The write was dropped and the state is unchanged.",
		DocURL:   "https://freedux.dev/docs/errors/F001",
	},
	CodeTypeMismatch: {
		Category: CategoryState,
		Message:  "Value does not fit the target",
		Detail:   "The written value cannot be assigned to the field, element or map entry at the path. The write was dropped and the state is unchanged.",
		DocURL:   "https://freedux.dev/docs/errors/F002",
	},
	CodeNoStore: {
		Category: CategoryState,
		Message:  "No store bound to context",
		Detail:   "The context carries no store for this key. Bind one with Key.With before handing the context to observers.",
		DocURL:   "https://freedux.dev/docs/errors/F003",
	},
	CodeInvalidPath: {
		Category: CategoryPath,
		Message:  "Invalid path expression",
		Detail:   "Paths are singular JSONPath queries such as $.items[0].name, or dotted keys such as items.0.name.",
		DocURL:   "https://freedux.dev/docs/errors/F004",
	},
	CodeStateFile: {
		Category: CategoryIO,
		Message:  "Could not load state file",
		Detail:   "State files must be JSON (.json) or YAML (.yaml, .yml) documents.",
		DocURL:   "https://freedux.dev/docs/errors/F005",
	},
	CodeConfig: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "freedux.json could not be read or holds invalid values.",
		DocURL:   "https://freedux.dev/docs/errors/F006",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
