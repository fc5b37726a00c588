package encar

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Source provides detail page text for a vehicle. The live Client,
// FileSource and StaticSource all satisfy it; extraction, validation
// and normalization never branch on which one is in use.
type Source interface {
	FetchDetail(ctx context.Context, vehicleId string) (string, error)
}

// FileSource reads a previously saved detail page from disk.
type FileSource struct {
	Path string
}

func (s FileSource) FetchDetail(ctx context.Context, vehicleId string) (string, error) {
	contents, err := os.ReadFile(s.Path)
	if err != nil {
		return "", &FetchError{VehicleId: vehicleId, Err: err}
	}
	return string(contents), nil
}

// StaticSource serves an in-memory document, for deterministic tests.
type StaticSource struct {
	Html string
}

func (s StaticSource) FetchDetail(ctx context.Context, vehicleId string) (string, error) {
	return s.Html, nil
}

// ParseVehicle runs the whole pipeline for one vehicle:
// fetch -> extract -> validate -> normalize.
func ParseVehicle(ctx context.Context, src Source, vehicleId string) (Result, error) {
	ctx, span := tracer.Start(ctx, "ParseVehicle")
	defer span.End()
	span.SetAttributes(attribute.String("vehicle_id", vehicleId))

	html, err := src.FetchDetail(ctx, vehicleId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return Result{}, err
	}

	state, err := ExtractPreloadedState(ctx, html)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return Result{}, err
	}

	base, err := ValidateState(ctx, state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return Result{}, err
	}

	return Result{Data: Normalize(vehicleId, base)}, nil
}

type BatchItem struct {
	VehicleId string
	Result    Result
	Err       error
}

// ParseVehicles processes ids strictly in order, one at a time. A
// failing id does not abort the rest; the caller decides what to do
// with per-item errors.
func ParseVehicles(ctx context.Context, src Source, vehicleIds []string) []BatchItem {
	items := make([]BatchItem, len(vehicleIds))
	for i, id := range vehicleIds {
		result, err := ParseVehicle(ctx, src, id)
		items[i] = BatchItem{VehicleId: id, Result: result, Err: err}
	}
	return items
}

// BatchOutput collapses a batch into its JSON-encodable shape: a
// single Result object when exactly one id was requested and it
// succeeded, otherwise the successful results as an array in input
// order.
func BatchOutput(items []BatchItem) any {
	results := []Result{}
	for _, item := range items {
		if item.Err == nil {
			results = append(results, item.Result)
		}
	}
	if len(items) == 1 && len(results) == 1 {
		return results[0]
	}
	return results
}
