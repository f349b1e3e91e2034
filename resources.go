package depot

import "reflect"

// resources holds at most one value per type, independent of any entity.
type resources struct {
	items map[reflect.Type]any
}

func newResources() resources {
	return resources{items: make(map[reflect.Type]any)}
}

// AddResource stores v as the world's T resource, replacing any previous one.
func AddResource[T any](w *World, v T) {
	w.resources.items[reflect.TypeFor[T]()] = &v
}

// GetResource returns a pointer to the T resource. Writes through the pointer
// update the stored value.
func GetResource[T any](w *World) (*T, bool) {
	res, ok := w.resources.items[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return res.(*T), true
}

func HasResource[T any](w *World) bool {
	_, ok := w.resources.items[reflect.TypeFor[T]()]
	return ok
}

// RemoveResource deletes the T resource and returns it.
func RemoveResource[T any](w *World) (T, bool) {
	t := reflect.TypeFor[T]()
	res, ok := w.resources.items[t]
	if !ok {
		var zero T
		return zero, false
	}
	delete(w.resources.items, t)
	return *res.(*T), true
}
