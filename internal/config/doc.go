// Package config loads applink's settings with Viper.
//
// Settings come from, in increasing precedence:
//
//   - built-in defaults
//   - the user file, $XDG_CONFIG_HOME/applink/config.yaml
//   - the project file, <root>/.applink.yaml
//   - APPLINK_* environment variables, including values from <root>/.env
//
// A project file looks like:
//
//	version: 1
//	default_platforms: [android, ios]
//	pods_path: ios/Pods
//	integrations_file: applink-integrations.yaml
//	backup:
//	  retention: 10
//
// App secrets are better kept out of version control:
//
//	# .env
//	APPLINK_IOS_APP_SECRET=...
//	APPLINK_ANDROID_APP_SECRET=...
//
// Every loaded configuration is checked with [Validate].
package config
