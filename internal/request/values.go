package request

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hanpama/graphjoin/internal/language"
	"github.com/hanpama/graphjoin/internal/schema"
)

// bindArguments resolves a field's argument values from its argument list
// and the bound variables. A nil descriptor marks the synthetic document
// root, which takes no arguments. Called once per merged field occurrence.
func bindArguments(
	descriptor schema.FieldDescriptor,
	arguments language.ArgumentList,
	variables map[string]any,
) (map[string]any, error) {
	if descriptor == nil {
		return map[string]any{}, nil
	}
	return coerceArgumentValues(descriptor.ArgumentDefinitions(), arguments, variables)
}

// coerceArgumentValues resolves every declared argument: from a literal in
// the selection, from a bound variable, or from the declared default.
// Arguments present but undeclared are a compile error, as is a missing
// non-null argument.
func coerceArgumentValues(
	definitions []*schema.InputValue,
	arguments language.ArgumentList,
	variables map[string]any,
) (map[string]any, error) {
	for _, arg := range arguments {
		if findDefinition(definitions, arg.Name) == nil {
			return nil, errorf(ErrArgument, arg.Name, "unknown argument %q", arg.Name)
		}
	}

	coerced := make(map[string]any, len(definitions))
	for _, def := range definitions {
		arg := arguments.ForName(def.Name)
		if arg == nil {
			if def.HasDefault {
				coerced[def.Name] = def.DefaultValue
			} else if def.Type.IsNonNull() {
				return nil, errorf(ErrArgument, def.Name, "argument %q of required type %s was not provided", def.Name, def.Type)
			}
			continue
		}

		if arg.Value.Kind == language.Variable {
			value, bound := variables[arg.Value.Raw]
			if !bound {
				// An unbound variable behaves like an absent argument.
				if def.HasDefault {
					coerced[def.Name] = def.DefaultValue
				} else if def.Type.IsNonNull() {
					return nil, errorf(ErrArgument, def.Name, "argument %q of required type %s got unbound variable $%s", def.Name, def.Type, arg.Value.Raw)
				}
				continue
			}
			cv, err := coerceValue(value, def.Type)
			if err != nil {
				return nil, errorf(ErrArgument, def.Name, "argument %q: variable $%s: %v", def.Name, arg.Value.Raw, err)
			}
			coerced[def.Name] = cv
			continue
		}

		gv, err := astValueToGo(arg.Value, variables)
		if err != nil {
			return nil, errorf(ErrArgument, def.Name, "argument %q: %v", def.Name, err)
		}
		cv, err := coerceValue(gv, def.Type)
		if err != nil {
			return nil, errorf(ErrArgument, def.Name, "argument %q cannot be coerced: %v", def.Name, err)
		}
		coerced[def.Name] = cv
	}
	return coerced, nil
}

func findDefinition(definitions []*schema.InputValue, name string) *schema.InputValue {
	for _, def := range definitions {
		if def.Name == name {
			return def
		}
	}
	return nil
}

// astValueToGo converts an AST value to a Go value, substituting bound
// variables inside lists and objects. Numeric literals that do not fit
// their Go representation are an error, not a saturated value.
func astValueToGo(value *language.Value, variables map[string]any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch value.Kind {
	case language.Variable:
		return variables[value.Raw], nil
	case language.IntValue:
		iv, err := strconv.Atoi(value.Raw)
		if err != nil {
			return nil, fmt.Errorf("Int cannot represent value %s", value.Raw)
		}
		return iv, nil
	case language.FloatValue:
		fv, err := strconv.ParseFloat(value.Raw, 64)
		if err != nil {
			return nil, fmt.Errorf("Float cannot represent value %s", value.Raw)
		}
		return fv, nil
	case language.StringValue, language.BlockValue:
		return value.Raw, nil
	case language.BooleanValue:
		return value.Raw == "true", nil
	case language.NullValue:
		return nil, nil
	case language.EnumValue:
		return value.Raw, nil
	case language.ListValue:
		out := make([]any, len(value.Children))
		for i, child := range value.Children {
			cv, err := astValueToGo(child.Value, variables)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	case language.ObjectValue:
		m := make(map[string]any, len(value.Children))
		for _, child := range value.Children {
			cv, err := astValueToGo(child.Value, variables)
			if err != nil {
				return nil, err
			}
			m[child.Name] = cv
		}
		return m, nil
	default:
		return nil, nil
	}
}

// coerceValue coerces a runtime value to the declared argument type.
func coerceValue(value any, targetType *schema.TypeRef) (any, error) {
	if targetType.IsNonNull() {
		if value == nil {
			return nil, fmt.Errorf("cannot provide null for non-null type %s", targetType)
		}
		return coerceValue(value, targetType.Unwrap())
	}

	if value == nil {
		return nil, nil
	}

	if targetType.IsList() {
		return coerceListValue(value, targetType)
	}

	switch targetType.GetNamedType() {
	case "Int":
		return coerceToInt(value)
	case "Float":
		return coerceToFloat(value)
	case "String":
		return coerceToString(value)
	case "Boolean":
		return coerceToBoolean(value)
	case "ID":
		return coerceToID(value)
	default:
		// Custom scalars and input objects pass through unchanged.
		return value, nil
	}
}

func coerceListValue(value any, listType *schema.TypeRef) (any, error) {
	innerType := listType.Unwrap()
	if slice, ok := value.([]any); ok {
		coerced := make([]any, len(slice))
		for i, item := range slice {
			cv, err := coerceValue(item, innerType)
			if err != nil {
				return nil, err
			}
			coerced[i] = cv
		}
		return coerced, nil
	}

	// Single value becomes a list of one.
	cv, err := coerceValue(value, innerType)
	if err != nil {
		return nil, err
	}
	return []any{cv}, nil
}

func coerceToInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return nil, fmt.Errorf("cannot coerce %v to Int without loss", v)
		}
		return int(v), nil
	case float32:
		return coerceToInt(float64(v))
	case string:
		if iv, err := strconv.Atoi(v); err == nil {
			return iv, nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to Int", value, value)
}

func coerceToFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		if fv, err := strconv.ParseFloat(v, 64); err == nil {
			return fv, nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to Float", value, value)
}

func coerceToString(value any) (any, error) {
	if v, ok := value.(string); ok {
		return v, nil
	}
	return fmt.Sprintf("%v", value), nil
}

func coerceToBoolean(value any) (any, error) {
	if v, ok := value.(bool); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to Boolean", value, value)
}

func coerceToID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return fmt.Sprintf("%v", value), nil
	}
}
