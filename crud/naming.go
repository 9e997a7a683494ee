package crud

import (
	"reflect"
	"strings"
)

const (
	apiPrefix        = "/api/"
	controllerSuffix = "controller"
)

// ResourceName derives the resource segment from a controller type name:
// a trailing "Controller" (any case) is stripped and the rest lowercased.
// A name that is nothing but the suffix is kept whole.
func ResourceName(typeName string) string {
	name := typeName
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, controllerSuffix) && len(name) > len(controllerSuffix) {
		name = name[:len(name)-len(controllerSuffix)]
	}
	return strings.ToLower(name)
}

// BasePath returns the route group of a controller type name.
//
//	BasePath("ProductsController") // "/api/products"
//	BasePath("Inventory")          // "/api/inventory"
func BasePath(typeName string) string {
	return apiPrefix + ResourceName(typeName)
}

// NameOf returns the declared name of T, without pointer indirection or
// type arguments.
func NameOf[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}
