// Package catalog derives the allowed request formats and patterns from two
// JSON files.
//
// The format file holds a short whitelist of transport styles:
//
//	{"format": ["get", "post_json", "post_form"], "pattern": []}
//
// The params file maps each pattern to the flat parameter object that is sent
// for it:
//
//	{"pc_config": {"cmd": "pc_config"}, "planning": {"cmd": "planning"}}
//
// The pattern list is the key list of the params file in file order, so a
// pattern exists exactly when it has parameters. A "pattern" array in the
// format file is ignored.
//
// Load never returns an error. A missing, blank or malformed file, or a format
// file without a "format" array, yields an unloaded Catalog; callers check
// Loaded. A params file holding {} loads with no patterns.
package catalog
