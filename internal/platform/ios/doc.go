// Package ios links SDK modules into the iOS half of a React Native host
// project.
//
// For one integration the adapter ensures:
//
//   - an #import and a registration call in AppDelegate.m
//   - pod lines and a minimum platform line in ios/Podfile (created when
//     missing)
//   - FRAMEWORK_SEARCH_PATHS of the module's own Xcode project pointing at
//     a custom Pods install path
//   - the AppSecret key in AppCenter-Config.plist when a secret is set
//
// Every change is a patch.Spec; files with no applied change are never
// rewritten.
package ios
