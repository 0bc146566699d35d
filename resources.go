package depot

import "reflect"

// Resources is a type-keyed store holding at most one value per type.
type Resources struct {
	data map[reflect.Type]any // *T
}

func newResources() *Resources {
	return &Resources{data: make(map[reflect.Type]any)}
}

// Add stores value, replacing any value of the same type.
func (r *Resources) Add(value any) {
	if value == nil {
		panic("cannot add nil resource")
	}
	if r.data == nil {
		r.data = make(map[reflect.Type]any)
	}
	typ := reflect.TypeOf(value)
	ptr := reflect.New(typ)
	ptr.Elem().Set(reflect.ValueOf(value))
	r.data[typ] = ptr.Interface()
}

func (r *Resources) Len() int {
	return len(r.data)
}

// GetResource returns a copy of the resource of type T.
func GetResource[T any](r *Resources) (T, bool) {
	ptr, ok := GetResourceMut[T](r)
	if !ok {
		var zero T
		return zero, false
	}
	return *ptr, true
}

// GetResourceMut returns a pointer to the stored resource of type T.
func GetResourceMut[T any](r *Resources) (*T, bool) {
	stored, ok := r.data[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	ptr, ok := stored.(*T)
	return ptr, ok
}

func RemoveResource[T any](r *Resources) {
	delete(r.data, reflect.TypeFor[T]())
}
