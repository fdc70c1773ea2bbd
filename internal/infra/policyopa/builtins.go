package policyopa

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/open-policy-agent/opa/ast"
)

// Comparison policies are pure functions over their input. Builtins that
// reach the network, the filesystem or the environment are refused before
// the bundle is prepared.
var allowedBuiltins = map[string]struct{}{
	"abs":             {},
	"ceil":            {},
	"concat":          {},
	"contains":        {},
	"count":           {},
	"eq":              {},
	"equal":           {},
	"endswith":        {},
	"floor":           {},
	"format_int":      {},
	"format_number":   {},
	"json.marshal":    {},
	"json.unmarshal":  {},
	"lower":           {},
	"max":             {},
	"min":             {},
	"neq":             {},
	"object.get":      {},
	"object.remove":   {},
	"object.union":    {},
	"pow":             {},
	"replace":         {},
	"round":           {},
	"sort":            {},
	"split":           {},
	"sprintf":         {},
	"startswith":      {},
	"substring":       {},
	"sum":             {},
	"trim":            {},
	"trim_left":       {},
	"trim_right":      {},
	"upper":           {},
	"urlquery.decode": {},
	"urlquery.encode": {},
}

// ValidateBundlePath parses every rego file under bundlePath and rejects the
// bundle if any policy calls a builtin outside the allowlist.
func ValidateBundlePath(bundlePath string) error {
	return filepath.WalkDir(bundlePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".rego" {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		module, err := ast.ParseModule(path, string(src))
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return validateModuleBuiltins(path, module)
	})
}

func validateModuleBuiltins(path string, module *ast.Module) error {
	var disallowed error
	ast.WalkRefs(module, func(ref ast.Ref) bool {
		if disallowed != nil {
			return true
		}
		name := ref.String()
		if _, known := ast.BuiltinMap[name]; !known {
			return false
		}
		if _, ok := allowedBuiltins[name]; !ok {
			disallowed = fmt.Errorf("builtin %s is not allowed in %s", name, path)
			return true
		}
		return false
	})
	return disallowed
}
