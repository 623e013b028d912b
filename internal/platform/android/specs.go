package android

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thoreinstein/applink/internal/patch"
)

var (
	includeApp       = patch.MustCompile(`(?m)^[ \t]*include ['"]:app['"][ \t]*\r?$`)
	topDependencies  = patch.MustCompile(`(?m)^dependencies \{[ \t]*\r?$`)
	packageLine      = patch.MustCompile(`(?m)^package [\w.]+;[ \t]*\r?$`)
	packageBlock     = patch.MustCompile(`(?m)^package [\w.]+;[ \t]*\r?\n[ \t]*\r?\n`)
	mainReactPackage = patch.MustCompile(`(?m)^[ \t]*new MainReactPackage\(\)`)
	returnPackages   = patch.MustCompile(`(?m)^[ \t]*return packages;`)
	applicationTag   = patch.MustCompile(`(?m)^[ \t]*<application\b`)
)

func includePattern(project string) *regexp.Regexp {
	return patch.MustCompile(`(?m)^[ \t]*include ['"]:` + regexp.QuoteMeta(project) + `['"][ \t]*\r?$`)
}

func projectDirPattern(project string) *regexp.Regexp {
	return patch.MustCompile(`(?m)^[ \t]*project\(['"]:` + regexp.QuoteMeta(project) + `['"]\)\.projectDir\b.*$`)
}

func dependencyPattern(project string) *regexp.Regexp {
	return patch.MustCompile(`(?m)^[ \t]*(?:implementation|compile|api) project\(['"]:` + regexp.QuoteMeta(project) + `['"]\)[ \t]*\r?$`)
}

func importPattern(class string) *regexp.Regexp {
	return patch.Line("import " + class + ";")
}

// registrationPattern matches a package instantiation in either the
// Arrays.asList form or the packages.add form.
func registrationPattern(class string) *regexp.Regexp {
	return patch.MustCompile(`(?m)^[ \t]*(?:packages\.add\()?new ` + regexp.QuoteMeta(simpleName(class)) + `\(.*$`)
}

// simpleName returns the class name of a fully qualified Java name.
func simpleName(class string) string {
	if i := strings.LastIndexByte(class, '.'); i >= 0 {
		return class[i+1:]
	}
	return class
}

func settingsSpec(project, dir string) patch.Spec {
	return patch.Spec{
		Name:   "settings.gradle:include :" + project,
		Detect: includePattern(project),
		Anchor: includeApp,
		Template: fmt.Sprintf("include ':%[1]s'\nproject(':%[1]s').projectDir = new File(rootProject.projectDir, '%[2]s')",
			project, dir),
		Position: patch.PositionBefore,
	}
}

func dependencySpec(project string) patch.Spec {
	return patch.Spec{
		Name:     "build.gradle:implementation :" + project,
		Detect:   dependencyPattern(project),
		Anchor:   topDependencies,
		Template: fmt.Sprintf("implementation project(':%s')", project),
	}
}

// importSpec adds the import at the top of the import block, below the
// blank line that follows the package statement when there is one.
func importSpec(content, class string) patch.Spec {
	anchor := packageLine
	if packageBlock.MatchString(content) {
		anchor = packageBlock
	}
	return patch.Spec{
		Name:     "MainApplication:import " + simpleName(class),
		Detect:   importPattern(class),
		Anchor:   anchor,
		Template: "import " + class + ";",
	}
}

// registrationSpec adds the package instance. Projects that list packages
// with Arrays.asList get a new list entry before MainReactPackage; projects
// using PackageList get a packages.add call before the return.
func registrationSpec(content, class, instance string) patch.Spec {
	spec := patch.Spec{
		Name:     "MainApplication:register " + simpleName(class),
		Detect:   registrationPattern(class),
		Position: patch.PositionBefore,
	}
	if mainReactPackage.MatchString(content) || !returnPackages.MatchString(content) {
		spec.Anchor = mainReactPackage
		spec.Template = instance + ","
		return spec
	}
	spec.Anchor = returnPackages
	spec.Template = "packages.add(" + instance + ");"
	return spec
}

func permissionSpec(permission string) patch.Spec {
	return patch.Spec{
		Name:     "AndroidManifest:uses-permission " + permission,
		Detect:   patch.MustCompile(`<uses-permission\s+android:name="` + regexp.QuoteMeta(permission) + `"`),
		Anchor:   applicationTag,
		Template: fmt.Sprintf(`<uses-permission android:name="%s" />`, permission),
		Position: patch.PositionBefore,
	}
}
