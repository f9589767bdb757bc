// Package typeregistry maps type tag to type tag through conversion
// functions, and answers is-convertible/convert queries for the engine.
package typeregistry

import "errors"

// ErrConversionMissing is raised when a converter is registered under a
// from/to pair but the registered function itself is nil.
var ErrConversionMissing = errors.New("typeregistry: conversion registered but missing")

// AnyTag is the reserved tag every type is convertible to.
const AnyTag = "any"
