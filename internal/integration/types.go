// Package integration defines the SDK modules applink can wire into a host
// project and loads them from the built-in table or a project file.
package integration

// Pod is one CocoaPods dependency.
type Pod struct {
	Name    string `yaml:"pod" toml:"pod" json:"pod"`
	Version string `yaml:"version" toml:"version" json:"version,omitempty"`
}

// IOS describes what a module needs in an iOS host project.
type IOS struct {
	// Import is the #import line added to AppDelegate.m.
	Import string `yaml:"import" toml:"import" json:"import,omitempty"`

	// Snippet is the registration call added to didFinishLaunchingWithOptions.
	Snippet string `yaml:"snippet" toml:"snippet" json:"snippet,omitempty"`

	// Detect is a regular expression that matches an existing registration.
	// When empty the snippet itself is matched.
	Detect string `yaml:"detect" toml:"detect" json:"detect,omitempty"`

	// MinVersion is the minimum iOS version for the Podfile platform line.
	MinVersion string `yaml:"min_version" toml:"min_version" json:"min_version,omitempty"`

	// LibraryProject is the module's own project.pbxproj, relative to the
	// project root. Its FRAMEWORK_SEARCH_PATHS are pointed at the Pods
	// install path.
	LibraryProject string `yaml:"library_project" toml:"library_project" json:"library_project,omitempty"`

	// Pods lists the CocoaPods dependencies.
	Pods []Pod `yaml:"pods" toml:"pods" json:"pods,omitempty"`
}

// Android describes what a module needs in an Android host project.
type Android struct {
	// Project is the Gradle project name (included as ':<project>').
	Project string `yaml:"project" toml:"project" json:"project,omitempty"`

	// ProjectDir is the Gradle project directory relative to android/.
	ProjectDir string `yaml:"project_dir" toml:"project_dir" json:"project_dir,omitempty"`

	// Import is the fully qualified ReactPackage class.
	Import string `yaml:"import" toml:"import" json:"import,omitempty"`

	// Package is the expression that instantiates the ReactPackage.
	Package string `yaml:"package" toml:"package" json:"package,omitempty"`

	// Permissions are added to AndroidManifest.xml as <uses-permission>.
	Permissions []string `yaml:"permissions" toml:"permissions" json:"permissions,omitempty"`
}

// Request is one SDK module to link.
type Request struct {
	Name        string   `yaml:"name" toml:"name" json:"name"`
	Description string   `yaml:"description" toml:"description" json:"description,omitempty"`
	IOS         *IOS     `yaml:"ios" toml:"ios" json:"ios,omitempty"`
	Android     *Android `yaml:"android" toml:"android" json:"android,omitempty"`
}

// Platforms returns the platform names this request has instructions for.
func (r *Request) Platforms() []string {
	var out []string
	if r.Android != nil {
		out = append(out, "android")
	}
	if r.IOS != nil {
		out = append(out, "ios")
	}
	return out
}

// file is the on-disk shape of an integration table.
type file struct {
	Integrations []Request `yaml:"integrations" toml:"integrations"`
}
