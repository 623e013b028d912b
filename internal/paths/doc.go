// Package paths resolves the locations applink reads and writes.
//
// Host project layout follows the React Native convention: native projects
// live in android/ and ios/ under the project root.
//
//	| Platform | Directory | Marker                         |
//	|----------|-----------|--------------------------------|
//	| android  | android/  | settings.gradle or build.gradle |
//	| ios      | ios/      | *.xcodeproj                    |
//
// User-level files follow the XDG Base Directory layout through
// github.com/adrg/xdg: configuration under <ConfigHome>/applink and backups
// under <DataHome>/applink/backups.
//
// Functions that accept a platform return an empty string for unknown
// platforms. Use [ValidPlatform] to check before calling.
package paths
