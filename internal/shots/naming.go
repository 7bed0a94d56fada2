package shots

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"stlviz/internal/scene"
)

// ModelName returns the base name of path up to its first '.'; it is the
// same name the scene gives the imported subject.
func ModelName(path string) string {
	return scene.SubjectName(path)
}

// RenderDir returns the directory a model's images are written to:
// <model_dir>/renders_<model_name>.
func RenderDir(modelPath string) string {
	return filepath.Join(filepath.Dir(modelPath), "renders_"+ModelName(modelPath))
}

// OutputPath returns where the image for spec is written.
//
// Top shots encode the heading in radians and bottom shots in degrees:
//
//	<model_dir>/renders_<name>/<name>_top_<radians>.<ext>
//	<model_dir>/renders_<name>/<name>_bottom_<degrees>.<ext>
//
// ext is used verbatim (the host's format name, e.g. "JPEG").
func OutputPath(modelPath string, spec ShotSpec, ext string) string {
	name := ModelName(modelPath)
	var angle float64
	if spec.Tilt == Top {
		angle = spec.Heading()
	} else {
		angle = spec.HeadingDegrees()
	}
	file := name + "_" + spec.Tilt.String() + "_" + FormatAngle(angle) + "." + ext
	return filepath.Join(RenderDir(modelPath), file)
}

// FormatAngle renders v as the shortest decimal that round-trips, always
// carrying a fractional part ("0.0", "90.0", "1.5707963267948966") and
// switching to exponent form outside [1e-4, 1e16).
func FormatAngle(v float64) string {
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
