package capture

import (
	"path/filepath"
	"regexp"
)

var videoNodePattern = regexp.MustCompile(`^/dev/video\d+$`)

// Probe checks once, at startup, whether the platform exposes any camera
// capture capability at all. When it reports false the start control is
// disabled permanently and an unsupported-platform status is shown; this is
// not a runtime error path.
func Probe() bool {
	return len(scanVideoNodes("/dev/video*")) > 0
}

// scanVideoNodes lists V4L2 device nodes matching the glob pattern.
func scanVideoNodes(pattern string) []string {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}

	var nodes []string
	for _, m := range matches {
		if videoNodePattern.MatchString(m) {
			nodes = append(nodes, m)
		}
	}
	return nodes
}
