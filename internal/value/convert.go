package value

import "fmt"

// FromInterface converts a decoded JSON or YAML document to a Value.
func FromInterface(val interface{}) Value {
	switch v := val.(type) {
	case nil:
		return &Null{}
	case bool:
		return &Bool{Value: v}
	case float64:
		return &Number{Value: v}
	case float32:
		return &Number{Value: float64(v)}
	case int:
		return &Number{Value: float64(v)}
	case int64:
		return &Number{Value: float64(v)}
	case uint64:
		return &Number{Value: float64(v)}
	case string:
		return &String{Value: v}
	case []interface{}:
		elements := make([]Value, len(v))
		for i, elem := range v {
			elements[i] = FromInterface(elem)
		}
		return &List{Elements: elements}
	case map[string]interface{}:
		fields := make(map[string]Value, len(v))
		for key, elem := range v {
			fields[key] = FromInterface(elem)
		}
		return &Record{Fields: fields}
	case map[interface{}]interface{}:
		fields := make(map[string]Value, len(v))
		for key, elem := range v {
			fields[fmt.Sprintf("%v", key)] = FromInterface(elem)
		}
		return &Record{Fields: fields}
	default:
		return &String{Value: fmt.Sprintf("%v", v)}
	}
}

// ToInterface converts a Value back to plain Go data.
func ToInterface(val Value) interface{} {
	switch v := val.(type) {
	case *Null:
		return nil
	case *Bool:
		return v.Value
	case *Number:
		return v.Value
	case *String:
		return v.Value
	case *List:
		out := make([]interface{}, len(v.Elements))
		for i, elem := range v.Elements {
			out[i] = ToInterface(elem)
		}
		return out
	case *Record:
		out := make(map[string]interface{}, len(v.Fields))
		for key, elem := range v.Fields {
			out[key] = ToInterface(elem)
		}
		return out
	default:
		return val.String()
	}
}
