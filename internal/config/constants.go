package config

import "strings"

// Version is the released packsig version, printed by --version.
const Version = "0.2.0"

const SourceFileExt = ".psig"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".psig", ".packsig"}

// HasSourceExt reports whether path ends in a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// TrimSourceExt strips a recognized source extension from name, if present.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// IsTestMode indicates if the program is running in test mode.
// This is set once at startup in main.go when handling test command.
var IsTestMode = false

// Project config file names, checked in order.
const (
	ConfigFileName    = "packsig.yaml"
	ConfigFileAltName = "packsig.yml"
)

// Defaults for omitted config values.
const (
	DefaultStorePath  = ".packsig/signatures.db"
	DefaultListenAddr = "127.0.0.1:8533"
	DefaultColorMode  = "auto"
	DefaultFmtIndent  = 4
)

// Color modes accepted by check output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)
