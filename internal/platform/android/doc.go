// Package android links SDK modules into the Android half of a React
// Native host project.
//
// For one integration the adapter ensures the Gradle include and
// projectDir in settings.gradle, the project dependency in
// app/build.gradle, the import and package registration in
// MainApplication.java, <uses-permission> entries in AndroidManifest.xml,
// and app_secret in assets/appcenter-config.json when a secret is set.
//
// The adapter also implements platform.Deduplicator to clean up repeated
// link lines that older link tooling left behind.
package android
