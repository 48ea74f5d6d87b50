package opuscore

// versionString identifies the build flavor, matching the format of
// libopus's opus_get_version_string: a library name followed by a
// dotted version triple.
const versionString = "opuscore 1.0.0"

// VersionString returns a constant string identifying this build.
func VersionString() string {
	return versionString
}
