// Package nodes provides the function adapter and a small library of
// built-in node classes usable directly or as examples for extension
// authors.
package nodes

import (
	"fmt"
	"reflect"

	"github.com/flowgraph/flowgraph/internal/core/databox"
	"github.com/flowgraph/flowgraph/internal/core/env"
	"github.com/flowgraph/flowgraph/internal/core/identity"
	"github.com/flowgraph/flowgraph/internal/core/node"
)

// FuncNode wraps an arbitrary Go function as a node: each parameter
// becomes a named input port, each pointer parameter also becomes an
// output port carrying its post-call value, and a non-void return
// value becomes the "return" output port.
type FuncNode struct {
	*node.Node
	fn   reflect.Value
	argN []identity.Name
}

// ArgName returns the default input port name for parameter index i:
// "a", "b", "c", ... "z", "a1", "b1", ...
func ArgName(i int) string {
	letter := string(rune('a' + i%26))
	if i < 26 {
		return letter
	}
	return fmt.Sprintf("%s%d", letter, i/26)
}

// NewFuncNode builds a node around fn. argNames, if non-nil, overrides
// the default a/b/c/... naming; it must have one entry per parameter.
func NewFuncNode(id identity.UUID, className, displayName string, e *env.Environment, fn any, argNames []string) *FuncNode {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		panic("nodes: NewFuncNode requires a function value")
	}

	base := node.New(id, className, displayName, e, nil)
	f := &FuncNode{Node: base, fn: fv}

	numIn := ft.NumIn()
	f.argN = make([]identity.Name, numIn)
	for i := 0; i < numIn; i++ {
		name := ArgName(i)
		if argNames != nil && i < len(argNames) {
			name = argNames[i]
		}
		key, err := identity.NewName(name)
		if err != nil {
			panic(err)
		}
		f.argN[i] = key

		paramType := ft.In(i)
		tag := reflectTypeTag(paramType)
		if paramType.Kind() == reflect.Ptr {
			f.AddOutput(key, name, tag, nil)
		}
		f.AddInput(key, name, tag, zeroBox(paramType))
	}

	if ft.NumOut() > 0 {
		outKey, _ := identity.NewName("return")
		f.AddOutput(outKey, "return", reflectTypeTag(ft.Out(0)), nil)
	}

	f.SetComputeFunc(f.compute)
	return f
}

func (f *FuncNode) compute(n *node.Node) error {
	ft := f.fn.Type()
	args := make([]reflect.Value, ft.NumIn())

	e := EnvironmentOf(n.Env)

	for i, key := range f.argN {
		p, err := n.GetInput(key)
		if err != nil {
			return err
		}

		box := p.Data()
		if box == nil {
			// A required input has not been supplied yet: skip this
			// invocation rather than call fn with a zero value.
			return nil
		}

		paramType := ft.In(i)
		if declared := reflectTypeTag(paramType); e != nil && box.Type() != declared {
			converted, convErr := e.Factory.Convert(box, declared)
			if convErr != nil {
				return fmt.Errorf("convert input %q from %s to %s: %w", key, box.Type(), declared, convErr)
			}
			box = converted
		}

		args[i] = boxToReflect(box, paramType)
	}

	results := f.fn.Call(args)

	for i, key := range f.argN {
		if ft.In(i).Kind() != reflect.Ptr {
			continue
		}
		if err := n.SetOutput(key, reflectToBox(args[i]), true); err != nil {
			return err
		}
	}

	if len(results) > 0 {
		outKey, _ := identity.NewName("return")
		if err := n.SetOutput(outKey, reflectToBox(results[0]), true); err != nil {
			return err
		}
	}
	return nil
}

func reflectTypeTag(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		return t.Elem().String() + "&"
	}
	return t.String()
}

func zeroBox(t reflect.Type) databox.Box {
	if t.Kind() == reflect.Ptr {
		return nil
	}
	return databox.NewValue(reflect.Zero(t).Interface())
}

func boxToReflect(b databox.Box, t reflect.Type) reflect.Value {
	if b == nil {
		return reflect.New(t).Elem()
	}
	raw := b.Raw()
	if raw == nil {
		return reflect.New(t).Elem()
	}
	v := reflect.ValueOf(raw)
	if t.Kind() == reflect.Ptr && v.Kind() != reflect.Ptr {
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v.Convert(t.Elem()))
		return ptr
	}
	if v.Type() != t && v.Type().ConvertibleTo(t) {
		return v.Convert(t)
	}
	return v
}

func reflectToBox(v reflect.Value) databox.Box {
	if v.Kind() == reflect.Ptr {
		return databox.NewValue(v.Elem().Interface())
	}
	return databox.NewValue(v.Interface())
}
