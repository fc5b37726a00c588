package encar

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/codes"
)

// The expected shape of cars.base is declared once as data and walked
// by a single recursive checker, instead of scattering type assertions
// through the normalizer. Unknown fields are ignored so upstream can
// add keys without breaking us; known fields must have the declared
// primitive kind when present.

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindObject
	KindStringList
)

func (k Kind) reason() string {
	switch k {
	case KindString:
		return "Input should be a valid string"
	case KindInt:
		return "Input should be a valid integer"
	case KindBool:
		return "Input should be a valid boolean"
	case KindObject:
		return "Input should be a valid object"
	case KindStringList:
		return "Input should be a valid list"
	}
	return "Input has an unexpected type"
}

type Field struct {
	Name     string
	Kind     Kind
	Required bool
	// nested schema, only meaningful for KindObject
	Schema Schema
}

type Schema []Field

type violation struct {
	reason string
	path   string
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func (s Schema) check(value map[string]any, prefix string, out *[]violation) {
	for _, f := range s {
		v, ok := value[f.Name]
		path := joinPath(prefix, f.Name)
		if !ok || v == nil {
			if f.Required {
				*out = append(*out, violation{reason: "Field required", path: path})
			}
			continue
		}

		switch f.Kind {
		case KindString:
			if _, ok := v.(string); !ok {
				*out = append(*out, violation{reason: f.Kind.reason(), path: path})
			}
		case KindInt:
			n, ok := v.(float64)
			if !ok || n != math.Trunc(n) {
				*out = append(*out, violation{reason: f.Kind.reason(), path: path})
			}
		case KindBool:
			if _, ok := v.(bool); !ok {
				*out = append(*out, violation{reason: f.Kind.reason(), path: path})
			}
		case KindObject:
			obj, ok := v.(map[string]any)
			if !ok {
				*out = append(*out, violation{reason: f.Kind.reason(), path: path})
				continue
			}
			f.Schema.check(obj, path, out)
		case KindStringList:
			list, ok := v.([]any)
			if !ok {
				*out = append(*out, violation{reason: f.Kind.reason(), path: path})
				continue
			}
			for i, item := range list {
				if _, ok := item.(string); !ok {
					*out = append(*out, violation{
						reason: KindString.reason(),
						path:   joinPath(path, strconv.Itoa(i)),
					})
				}
			}
		}
	}
}

var baseCarSchema = Schema{
	{Name: "vehicleId", Kind: KindInt},
	{Name: "vin", Kind: KindString},
	{Name: "category", Kind: KindObject, Required: true, Schema: Schema{
		{Name: "manufacturerEnglishName", Kind: KindString},
		{Name: "manufacturerName", Kind: KindString},
		{Name: "modelGroupEnglishName", Kind: KindString},
		{Name: "modelGroupName", Kind: KindString},
		{Name: "modelName", Kind: KindString},
		{Name: "gradeEnglishName", Kind: KindString},
		{Name: "gradeName", Kind: KindString},
		{Name: "yearMonth", Kind: KindString},
		{Name: "formYear", Kind: KindInt},
	}},
	{Name: "advertisement", Kind: KindObject, Required: true, Schema: Schema{
		{Name: "price", Kind: KindInt},
		{Name: "advertisementType", Kind: KindString},
		{Name: "status", Kind: KindString},
		{Name: "diagnosisCar", Kind: KindBool},
	}},
	{Name: "spec", Kind: KindObject, Required: true, Schema: Schema{
		{Name: "displacement", Kind: KindInt},
		{Name: "transmissionName", Kind: KindString},
		{Name: "fuelCd", Kind: KindString},
		{Name: "fuelName", Kind: KindString},
		{Name: "colorName", Kind: KindString},
		{Name: "seatCount", Kind: KindInt},
		{Name: "bodyName", Kind: KindString},
		{Name: "mileage", Kind: KindInt},
	}},
	{Name: "manage", Kind: KindObject, Required: true, Schema: Schema{
		{Name: "registDateTime", Kind: KindString},
		{Name: "firstAdvertisedDateTime", Kind: KindString},
		{Name: "modifyDateTime", Kind: KindString},
		{Name: "subscribeCount", Kind: KindInt},
		{Name: "viewCount", Kind: KindInt},
	}},
	{Name: "condition", Kind: KindObject, Required: true, Schema: Schema{
		{Name: "accident", Kind: KindObject, Schema: Schema{
			{Name: "recordView", Kind: KindBool},
		}},
		{Name: "inspection", Kind: KindObject, Schema: Schema{
			{Name: "formats", Kind: KindStringList},
		}},
		{Name: "seizing", Kind: KindObject, Schema: Schema{
			{Name: "seizingCount", Kind: KindInt},
			{Name: "pledgeCount", Kind: KindInt},
		}},
	}},
	{Name: "detailFlags", Kind: KindObject, Schema: Schema{
		{Name: "adStatus", Kind: KindString},
	}},
}

// ValidateState checks the expected cars.base structure and decodes it
// into a typed record. This is the only defense against upstream
// structural drift, so failures name the exact broken path.
func ValidateState(ctx context.Context, state State) (*BaseCar, error) {
	_, span := tracer.Start(ctx, "ValidateState")
	defer span.End()

	cars, ok := state["cars"].(map[string]any)
	if !ok {
		perr := &ParseError{Message: "State missing cars object."}
		span.SetStatus(codes.Error, perr.Message)
		return nil, perr
	}
	base, ok := cars["base"].(map[string]any)
	if !ok {
		perr := &ParseError{Message: "State missing cars.base object."}
		span.SetStatus(codes.Error, perr.Message)
		return nil, perr
	}

	var violations []violation
	baseCarSchema.check(base, "", &violations)
	if len(violations) > 0 {
		// report at most the first three violations
		if len(violations) > 3 {
			violations = violations[:3]
		}
		parts := make([]string, len(violations))
		for i, v := range violations {
			parts[i] = fmt.Sprintf("%s @ %s", v.reason, v.path)
		}
		perr := &ParseError{
			Message: fmt.Sprintf("cars.base validation failed: %s", strings.Join(parts, "; ")),
			Path:    violations[0].path,
		}
		span.SetStatus(codes.Error, perr.Message)
		return nil, perr
	}

	raw, err := json.Marshal(base)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to re-encode cars.base")
		return nil, &ParseError{Message: fmt.Sprintf("Failed to decode cars.base: %s", err)}
	}
	var record BaseCar
	err = json.Unmarshal(raw, &record)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode cars.base")
		return nil, &ParseError{Message: fmt.Sprintf("Failed to decode cars.base: %s", err)}
	}
	return &record, nil
}
