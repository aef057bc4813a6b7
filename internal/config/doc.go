// Package config manages user-level settings stored at ~/.tripkit/config.yaml.
// Settings are read once per command into a plain Settings value that is
// passed down explicitly; only the config command and init write the file.
package config
