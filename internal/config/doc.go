// Package config manages user-level settings stored at ~/.ezinstall/config.yaml.
// Every key can also be set through an EZINSTALL_<KEY> environment variable,
// which takes precedence over the file. Command-line flags override both.
package config
