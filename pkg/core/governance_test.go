//go:build governance

package core_test

import (
	"go/types"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/dremio-connector"

// cohesionAllowlist names core identifiers allowed to have a single consumer.
var cohesionAllowlist = map[string]bool{
	"DialectConfig":         true, // Config struct for extension point
	"IdentifierConfig":      true,
	"NewMissingFieldError":  true,
	"ConfigurationError":    true, // matched by callers with errors.As
	"StatementError":        true,
	"NormalizationStrategy": true,
	"PlaceholderStyle":      true,
	"Kind":                  true, // consumed by the CLI only
	"KindOf":                true,
	"KindConfiguration":     true,
	"KindConnection":        true,
	"KindStatement":         true,
	"KindUnknown":           true,
	"NormLowercase":         true,
	"NormUppercase":         true,
	"NormCaseInsensitive":   true,
	"PlaceholderDollar":     true,
}

// reexportForbidden names core types no other package may alias.
var reexportForbidden = map[string]bool{
	"ConfigurationError": true,
	"ConnectionError":    true,
	"StatementError":     true,
	"Row":                true,
	"TableDescriptor":    true,
}

func loadModule(t *testing.T, mode packages.LoadMode, pattern string) []*packages.Package {
	t.Helper()
	pkgs, err := packages.Load(&packages.Config{Mode: mode}, modulePath+pattern)
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}
	return pkgs
}

// coreUsage maps each exported core identifier to the set of module
// packages (relative to the module root) that reference it.
func coreUsage(t *testing.T, pkgs []*packages.Package) map[string]map[string]bool {
	t.Helper()

	corePath := modulePath + "/pkg/core"
	defs := make(map[types.Object]string)
	for _, p := range pkgs {
		if p.PkgPath != corePath {
			continue
		}
		scope := p.Types.Scope()
		for _, name := range scope.Names() {
			if obj := scope.Lookup(name); obj.Exported() {
				defs[obj] = name
			}
		}
	}
	if len(defs) == 0 {
		t.Fatal("Could not find pkg/core")
	}

	usage := make(map[string]map[string]bool, len(defs))
	for _, name := range defs {
		usage[name] = make(map[string]bool)
	}
	for _, p := range pkgs {
		if p.PkgPath == corePath || strings.HasSuffix(p.PkgPath, "_test") || p.TypesInfo == nil {
			continue
		}
		rel := strings.TrimPrefix(p.PkgPath, modulePath+"/")
		for _, obj := range p.TypesInfo.Uses {
			if name, ok := defs[obj]; ok {
				usage[name][rel] = true
			}
		}
	}
	return usage
}

// TestGovernance_CoreCohesion verifies that pkg/core only holds identifiers
// shared by several packages. Single-consumer identifiers belong with their
// consumer.
func TestGovernance_CoreCohesion(t *testing.T) {
	pkgs := loadModule(t, packages.NeedName|packages.NeedImports|packages.NeedTypes|
		packages.NeedTypesInfo|packages.NeedDeps, "/...")

	usage := coreUsage(t, pkgs)
	names := make([]string, 0, len(usage))
	for name := range usage {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		users := usage[name]
		switch {
		case cohesionAllowlist[name]:
		case len(users) == 0:
			t.Logf("WARNING: unused core identifier %s", name)
		case len(users) == 1:
			for user := range users {
				t.Errorf("COHESION VIOLATION: core.%s is used only by %s; move it there", name, user)
			}
		}
	}
}

// TestGovernance_NoTypeAliasReexports ensures no package under pkg/ re-exports
// the error taxonomy or result shapes as aliases; consumers use core directly.
func TestGovernance_NoTypeAliasReexports(t *testing.T) {
	pkgs := loadModule(t, packages.NeedName|packages.NeedImports|packages.NeedTypes, "/pkg/...")

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 || pkg.PkgPath == modulePath+"/pkg/core" {
			continue
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || !tn.IsAlias() || !reexportForbidden[name] {
				continue
			}
			t.Errorf("PURITY VIOLATION: %s re-exports core.%s as an alias",
				strings.TrimPrefix(pkg.PkgPath, modulePath+"/"), name)
		}
	}
}
