// Package config loads and validates wayfind scenario files.
//
// A scenario is a YAML document that names a search domain, its initial
// and goal configurations, the open-list discipline to use, and how to
// score states. Scenarios can embed a Starlark script as a custom
// heuristic; CompileHeuristic turns the script into a callable program
// with a bounded execution budget.
//
// Watcher re-runs a callback whenever a scenario file changes on disk,
// which backs the CLI's --watch mode.
package config
