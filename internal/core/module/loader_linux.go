//go:build linux

package module

import "plugin"

// openPlugin opens a shared object and resolves its RegisterModule and
// UnregisterModule symbols. UnregisterModule is optional: a module
// with no cleanup work may omit it.
func openPlugin(path string) (register RegisterFunc, unregister RegisterFunc, err error) {
	p, openErr := plugin.Open(path)
	if openErr != nil {
		return nil, nil, ErrFailedFileLoad
	}

	sym, lookupErr := p.Lookup(registerSymbol)
	if lookupErr != nil {
		return nil, nil, ErrRegisterFuncFailed
	}
	// The symbol must be exactly RegisterFunc's underlying function
	// type; Go plugins can only be matched by exact type identity, so
	// modules import this same package to satisfy it.
	fn, ok := sym.(RegisterFunc)
	if !ok {
		return nil, nil, ErrRegisterFuncFailed
	}

	var unregFn RegisterFunc
	if usym, lookupErr := p.Lookup(unregisterSymbol); lookupErr == nil {
		if uf, ok := usym.(RegisterFunc); ok {
			unregFn = uf
		}
	}

	return fn, unregFn, nil
}
