// Package confloader loads server configuration through koanf.
//
// Values merge from three sources, later ones winning: built-in
// defaults, a YAML config file, and SIGCAP_-prefixed environment
// variables. The Watcher reloads registered files when fsnotify
// reports a change, which the server uses for log-level hot reload.
package confloader
