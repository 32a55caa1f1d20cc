package latex

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// hexToRGB parses "#rrggbb" (with or without the leading hash) into an RGB
// triple. Shorthand "#rgb" is expanded the way CSS does.
func hexToRGB(hex string) (r, g, b int, ok bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

// withDefaultRoles fills in the color roles the template itself references,
// so a partial palette from the client can never leave \color targets
// undefined.
func withDefaultRoles(colors map[string]string) map[string]string {
	merged := map[string]string{
		"primary": "#1a5276",
		"accent":  "#707b7c",
		"text":    "#212121",
	}
	for role, hex := range colors {
		merged[role] = hex
	}
	return merged
}

// colorDefinitions emits one \definecolor per design color, sorted by role
// name so the output is stable. An unparseable hex value defines the role
// as black so later \color references never hit an undefined name.
func colorDefinitions(colors map[string]string) string {
	roles := make([]string, 0, len(colors))
	for role := range colors {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	var out strings.Builder
	for _, role := range roles {
		r, g, b, ok := hexToRGB(colors[role])
		if !ok {
			r, g, b = 0, 0, 0
		}
		fmt.Fprintf(&out, "\\definecolor{cv%s}{RGB}{%d,%d,%d}\n", role, r, g, b)
	}
	return out.String()
}
