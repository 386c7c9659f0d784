package models

// BuildType values the registry commonly carries. Any string is accepted; the
// build tool decides whether a task exists for it.
const (
	BuildTypeDebug   = "Debug"
	BuildTypeRelease = "Release"
)

// Project represents a registered Android project.
//
// Optional fields are pointers or nil slices so that absent values round-trip
// through the registry file as JSON null.
type Project struct {
	// Name is the project identifier (unique within the registry)
	Name string `json:"name"`

	// Path is the absolute path to the project root containing the Gradle wrapper
	Path string `json:"path"`

	// DefaultModule is kept for registries written before Modules existed
	DefaultModule *string `json:"defaultModule"`

	// Modules lists the Gradle modules; the first one is the default
	Modules []string `json:"modules"`

	// DefaultVariant is kept for registries written before Variants existed
	DefaultVariant *string `json:"defaultVariant"`

	// Variants lists the product flavors; the first one is the default
	Variants []string `json:"variants"`

	// BuildType is the default build type (e.g. "Debug", "Release")
	BuildType *string `json:"buildType"`
}

// ProjectsDocument is the on-disk shape of the project registry.
type ProjectsDocument struct {
	Projects []Project `json:"projects"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
