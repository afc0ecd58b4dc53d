package app

import (
	"fmt"
	"strconv"

	"github.com/philipparndt/meshview/pkg/mesh"
)

// DisplayHint is printed after a display failure
const DisplayHint = "If no display or GL context is available, render an image instead: meshview snapshot <file> -o out.png"

// FormatSummary renders the one-line load summary. Counts of assets that are
// neither a mesh nor a scene are printed as "unknown".
func FormatSummary(name string, asset mesh.Asset) string {
	vertices, faces := "unknown", "unknown"
	if c, ok := asset.Counts(); ok {
		vertices = strconv.Itoa(c.Vertices)
		faces = strconv.Itoa(c.Faces)
	}
	return fmt.Sprintf("Loaded: %s - vertices=%s, faces=%s", name, vertices, faces)
}
