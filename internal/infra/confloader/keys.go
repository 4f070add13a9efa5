package confloader

import (
	"reflect"
	"sort"
	"strings"
)

// keyIndex resolves flattened environment names to dotted koanf keys.
type keyIndex struct {
	// exact maps "api_max_results" to "api.max_results".
	exact map[string]string
	// maps holds map-typed keys, longest first.
	maps []mapKey
	// lists holds dotted keys of slice-typed fields.
	lists map[string]bool
}

type mapKey struct {
	flat   string
	dotted string
	// lists is set when the map values are slices.
	lists bool
}

func indexKeys(target any) *keyIndex {
	idx := &keyIndex{exact: make(map[string]string), lists: make(map[string]bool)}
	t := reflect.TypeOf(target)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return idx
	}
	idx.walk(t, "")
	sort.Slice(idx.maps, func(i, j int) bool {
		return len(idx.maps[i].flat) > len(idx.maps[j].flat)
	})
	return idx
}

func (idx *keyIndex) walk(t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := strings.Split(f.Tag.Get("koanf"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		switch ft.Kind() {
		case reflect.Struct:
			if ft.PkgPath() == "time" {
				idx.exact[flatten(key)] = key
				continue
			}
			idx.walk(ft, key)
		case reflect.Map:
			idx.maps = append(idx.maps, mapKey{
				flat:   flatten(key) + "_",
				dotted: key + ".",
				lists:  isList(ft.Elem()),
			})
		case reflect.Slice:
			idx.exact[flatten(key)] = key
			if isList(ft) {
				idx.lists[key] = true
			}
		default:
			idx.exact[flatten(key)] = key
		}
	}
}

// lookup returns the dotted key for flat and whether its value is a list.
func (idx *keyIndex) lookup(flat string) (key string, list, ok bool) {
	if key, ok := idx.exact[flat]; ok {
		return key, idx.lists[key], true
	}
	for _, m := range idx.maps {
		if rest, ok := strings.CutPrefix(flat, m.flat); ok && rest != "" {
			return m.dotted + rest, m.lists, true
		}
	}
	return "", false, false
}

// isList reports whether t is a slice other than []byte.
func isList(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func flatten(key string) string {
	return strings.ReplaceAll(key, ".", "_")
}
