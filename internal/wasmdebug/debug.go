// Package wasmdebug builds the human-readable function descriptions threaded through
// binaryfmt's error messages: a function's qualified name, and its signature rendered the way a
// .wat text dump would show it.
package wasmdebug

import (
	"fmt"
	"strings"

	"github.com/wazevm/wazevm/api"
)

// FuncName returns a module-qualified name for a function, falling back to its index when it
// has no name.
func FuncName(moduleName, funcName string, funcIdx uint32) string {
	if funcName == "" {
		funcName = fmt.Sprintf("$%d", funcIdx)
	}
	return moduleName + "." + funcName
}

// Signature renders name with its parameter and result types appended, e.g. "x.y(i32,f64) i64".
func Signature(name string, paramTypes, resultTypes []api.ValueType) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	writeTypeList(&b, paramTypes)
	b.WriteByte(')')
	switch len(resultTypes) {
	case 0:
	case 1:
		b.WriteByte(' ')
		b.WriteString(api.ValueTypeName(resultTypes[0]))
	default:
		b.WriteString(" (")
		writeTypeList(&b, resultTypes)
		b.WriteByte(')')
	}
	return b.String()
}

func writeTypeList(b *strings.Builder, types []api.ValueType) {
	for i, t := range types {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(api.ValueTypeName(t))
	}
}
