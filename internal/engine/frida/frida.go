// Package frida renders Frida instrumentation scripts that hook every
// method of a scanned smali class.
package frida

import (
	"fmt"
	"strconv"
	"strings"

	"smalihook/internal/engine/descriptor"
	"smalihook/internal/engine/smali"
)

// ConstructorHookName is the Frida property used to reach an instance
// initializer.
const ConstructorHookName = "$init"

// HookUnit is everything needed to render one method hook.
type HookUnit struct {
	Ordinal  int
	Name     string // as declared; used in log output
	HookName string // as registered with Frida
	Types    []descriptor.Token
	Args     []string
}

// Overload renders the quoted overload signature list.
func (h HookUnit) Overload() string {
	return descriptor.Display(h.Types)
}

// ArgList renders the synthesized argument names, comma separated.
func (h HookUnit) ArgList() string {
	return strings.Join(h.Args, ", ")
}

// NewHookUnit decodes a method entry into a hook record. Argument names are
// derived from the decoded token count.
func NewHookUnit(m smali.MethodEntry) HookUnit {
	types := descriptor.Decode(m.Params)
	args := make([]string, len(types))
	for i := range types {
		args[i] = "arg" + strconv.Itoa(i)
	}
	hookName := m.Name
	if m.IsConstructor() {
		hookName = ConstructorHookName
	}
	return HookUnit{
		Ordinal:  m.Ordinal,
		Name:     m.Name,
		HookName: hookName,
		Types:    types,
		Args:     args,
	}
}

// BuildHooks returns hook records for methods, in ordinal order.
func BuildHooks(methods []smali.MethodEntry) []HookUnit {
	hooks := make([]HookUnit, 0, len(methods))
	for _, m := range methods {
		hooks = append(hooks, NewHookUnit(m))
	}
	return hooks
}

// Alias returns the script variable bound to the class handle for a unit.
func Alias(index int) string {
	return "klass" + strconv.Itoa(index)
}

// Generate renders the script for one class. index must be unique within a
// run so that scripts can be loaded side by side.
func Generate(class string, index int, methods []smali.MethodEntry) string {
	alias := Alias(index)

	var b strings.Builder
	b.WriteString("Java.perform(function() {\n")
	fmt.Fprintf(&b, "    var %s = Java.use(\"%s\");\n", alias, descriptor.ClassName(class))

	for _, h := range BuildHooks(methods) {
		args := h.ArgList()
		fmt.Fprintf(&b, "\n    %s[\"%s\"].overload(%s).implementation = function(%s)\n", alias, h.HookName, h.Overload(), args)
		b.WriteString("    {\n")
		fmt.Fprintf(&b, "        var ret = this[\"%s\"](%s);\n", h.HookName, args)
		fmt.Fprintf(&b, "        console.log(\"%s\", \"called : \", ret);\n", h.Name)
		b.WriteString("        return ret;\n    }")
	}

	// The scope is closed unconditionally so an empty class still yields a
	// balanced script.
	b.WriteString("    \n})")
	return b.String()
}
