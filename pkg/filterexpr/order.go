package filterexpr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

type orderParams struct {
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

func parseOrderBy(raw string, schema OrderSchema) (orderParams, error) {
	if schema.Keys == nil {
		schema.Keys = map[string]struct{}{}
	}

	if schema.DefaultPrimary == "" {
		return orderParams{}, errors.New("order schema default primary key required")
	}
	if schema.FallbackKey == "" {
		return orderParams{}, errors.New("order schema fallback key required")
	}
	if _, ok := schema.Keys[schema.DefaultPrimary]; !ok {
		return orderParams{}, fmt.Errorf("order key %q missing from schema keys", schema.DefaultPrimary)
	}
	if _, ok := schema.Keys[schema.FallbackKey]; !ok {
		return orderParams{}, fmt.Errorf("fallback order key %q missing from schema keys", schema.FallbackKey)
	}

	ord := orderParams{
		PrimaryKey:    schema.DefaultPrimary,
		PrimaryDesc:   schema.DefaultPrimaryDesc,
		SecondaryKey:  schema.FallbackKey,
		SecondaryDesc: schema.FallbackDesc,
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ord, nil
	}

	segments := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(segments))
	idx := 0
	for _, seg := range segments {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		key := parts[0]
		if _, ok := schema.Keys[key]; !ok {
			return orderParams{}, fmt.Errorf("field %q cannot be used for ordering", key)
		}

		var desc bool
		switch len(parts) {
		case 1:
			desc = false
		case 2:
			switch strings.ToLower(parts[1]) {
			case "asc":
				desc = false
			case "desc":
				desc = true
			default:
				return orderParams{}, fmt.Errorf("invalid direction %q for field %q", parts[1], key)
			}
		default:
			return orderParams{}, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}

		if _, dup := seen[key]; dup {
			return orderParams{}, fmt.Errorf("duplicate order key %q", key)
		}
		seen[key] = struct{}{}

		switch idx {
		case 0:
			ord.PrimaryKey = key
			ord.PrimaryDesc = desc
		case 1:
			ord.SecondaryKey = key
			ord.SecondaryDesc = desc
		default:
			return orderParams{}, errors.New("order_by supports at most two keys")
		}
		idx++
	}

	if ord.SecondaryKey == ord.PrimaryKey {
		ord.SecondaryKey = schema.FallbackKey
		ord.SecondaryDesc = schema.FallbackDesc
		if ord.SecondaryKey == ord.PrimaryKey {
			for key := range schema.Keys {
				if key != ord.PrimaryKey {
					ord.SecondaryKey = key
					ord.SecondaryDesc = false
					break
				}
			}
		}
		if ord.SecondaryKey == ord.PrimaryKey {
			return orderParams{}, errors.New("order schema requires at least two distinct keys for stable ordering")
		}
	}

	return ord, nil
}

func setOrderParams(binding any, ord orderParams) error {
	rv := reflect.ValueOf(binding)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("binding must be a non-nil pointer")
	}

	target := rv.Elem()
	if target.Kind() != reflect.Struct {
		return errors.New("binding must point to a struct")
	}

	values := []struct {
		name  string
		value reflect.Value
	}{
		{"PrimaryKey", reflect.ValueOf(ord.PrimaryKey)},
		{"PrimaryDesc", reflect.ValueOf(ord.PrimaryDesc)},
		{"SecondaryKey", reflect.ValueOf(ord.SecondaryKey)},
		{"SecondaryDesc", reflect.ValueOf(ord.SecondaryDesc)},
	}
	for _, v := range values {
		field := target.FieldByName(v.name)
		if !field.IsValid() {
			return fmt.Errorf("params struct %s has no field named %q", target.Type(), v.name)
		}
		if !field.CanSet() {
			return fmt.Errorf("cannot set field %q on params struct", v.name)
		}
		if !v.value.Type().AssignableTo(field.Type()) {
			return fmt.Errorf("field %q must be %s-compatible", v.name, v.value.Type())
		}
		field.Set(v.value)
	}

	return nil
}
