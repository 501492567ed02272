// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Corrected deflection mode, closest approach, impact energy, metrics textfile
// 0.2.0 - Orbit and report views, intercept planning, YAML/TOML config
// 0.1.0 - Initial release: Kepler propagation, path intersections, kinetic impactor
