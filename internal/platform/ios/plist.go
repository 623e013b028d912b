package ios

import (
	"html"
	"regexp"

	"github.com/thoreinstein/applink/internal/patch"
)

// ConfigPlistName is the SDK configuration file in the app target directory.
const ConfigPlistName = "AppCenter-Config.plist"

const plistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
</dict>
</plist>
`

var (
	plistDict      = patch.MustCompile(`(?m)^[ \t]*<dict>[ \t]*\r?$`)
	appSecretEntry = patch.MustCompile(`(<key>AppSecret</key>\s*<string>)([^<]*)(</string>)`)
)

// secretSpec sets the AppSecret key. An existing key with another value is
// rewritten in place.
func secretSpec(content, secret string) patch.Spec {
	escaped := html.EscapeString(secret)
	if appSecretEntry.MatchString(content) {
		return patch.Spec{
			Name:     "plist:AppSecret",
			Anchor:   appSecretEntry,
			Position: patch.PositionReplace,
			Rewrite: func(match string) string {
				m := appSecretEntry.FindStringSubmatch(match)
				return m[1] + escaped + m[3]
			},
		}
	}
	return patch.Spec{
		Name:     "plist:AppSecret",
		Detect:   patch.MustCompile(`<key>AppSecret</key>\s*<string>` + regexp.QuoteMeta(escaped) + `</string>`),
		Anchor:   plistDict,
		Template: "<key>AppSecret</key>\n<string>" + escaped + "</string>",
	}
}
