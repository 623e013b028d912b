package android

import (
	"encoding/json"
	"strings"

	"github.com/thoreinstein/applink/internal/descriptor"
	"github.com/thoreinstein/applink/internal/patch"
)

const secretKey = "app_secret"

// setSecret returns d's JSON content with app_secret set to secret.
// Other keys are kept. Content that is not a JSON object is reported as
// AnchorNotFound and left alone.
func setSecret(d *descriptor.Descriptor, secret string) (string, patch.Result) {
	content := d.Content()
	settings := make(map[string]any)
	if strings.TrimSpace(content) != "" {
		if err := json.Unmarshal([]byte(content), &settings); err != nil {
			return content, patch.AnchorNotFound
		}
	}
	if current, ok := settings[secretKey].(string); ok && current == secret {
		return content, patch.AlreadyPresent
	}
	settings[secretKey] = secret

	data, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return content, patch.AnchorNotFound
	}
	eol := patch.LineEnding(content)
	return strings.ReplaceAll(string(data), "\n", eol) + eol, patch.Applied
}
