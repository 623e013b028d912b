package ios

import (
	"regexp"
	"strings"

	"github.com/thoreinstein/applink/internal/integration"
	"github.com/thoreinstein/applink/internal/patch"
)

var (
	// appDelegateHeader anchors new imports below the AppDelegate's own header.
	appDelegateHeader = patch.MustCompile(`(?m)^[ \t]*#import "AppDelegate\.h"[ \t]*\r?$`)

	// didFinishLaunching spans the method declaration up to its opening
	// brace, which may sit on the following line. Calls to super inside the
	// body do not start with "- (BOOL)" and never match.
	didFinishLaunching = patch.MustCompile(`(?m)^[ \t]*-[ \t]*\([ \t]*BOOL[ \t]*\)[^{;]*didFinishLaunchingWithOptions:[^{;]*\{`)
)

// appDelegateSpecs returns the import and registration specs for req.
func appDelegateSpecs(req *integration.IOS) ([]patch.Spec, error) {
	var specs []patch.Spec
	if req.Import != "" {
		specs = append(specs, patch.Spec{
			Name:     "appdelegate:import",
			Anchor:   appDelegateHeader,
			Template: strings.TrimSpace(req.Import),
		})
	}
	if req.Snippet != "" {
		var detect *regexp.Regexp
		if req.Detect != "" {
			re, err := patch.Compile(req.Detect)
			if err != nil {
				return nil, err
			}
			detect = re
		}
		specs = append(specs, patch.Spec{
			Name:     "appdelegate:register",
			Detect:   detect,
			Anchor:   didFinishLaunching,
			Template: strings.TrimSpace(req.Snippet),
		})
	}
	return specs, nil
}
