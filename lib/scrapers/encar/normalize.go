package encar

import (
	"fmt"
	"strconv"
	"strings"

	"encar-backend/lib/textutil"
)

// Lookup tables for English-friendly labels. Unmapped values pass
// through (romanized if non-ASCII); the raw value is still valid
// domain data, so an unknown key is never an error.

var transmissionNames = map[string]string{
	"오토": "Automatic",
	"수동": "Manual",
}

var fuelNames = map[string]string{
	"가솔린":   "Gasoline",
	"디젤":    "Diesel",
	"하이브리드": "Hybrid",
	"전기":    "Electric",
	"LPG":   "LPG",
}

var fuelCodes = map[string]string{
	"001": "Gasoline",
	"002": "Diesel",
	"003": "LPG",
	"004": "Electric",
	"005": "Hybrid",
	"006": "Hydrogen",
}

var colorNames = map[string]string{
	"검정색": "Black",
	"흰색":  "White",
	"화이트": "White",
	"은색":  "Silver",
	"회색":  "Gray",
	"빨간색": "Red",
	"파란색": "Blue",
	"청색":  "Blue",
	"초록색": "Green",
	"갈색":  "Brown",
	"베이지": "Beige",
	"노란색": "Yellow",
	"주황색": "Orange",
}

// normalizePrice converts the site's 10,000-won unit into KRW.
func normalizePrice(raw *int64) *int64 {
	if raw == nil {
		return nil
	}
	krw := *raw * 10_000
	return &krw
}

// formatEngine renders displacement in cc as a liter label, e.g.
// 1998 -> "2L", 2497 -> "2.5L". Zero displacement (electric cars)
// yields no label.
func formatEngine(displacementCc *int) string {
	if displacementCc == nil || *displacementCc == 0 {
		return ""
	}
	liters := float64(*displacementCc) / 1000
	trimmed := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", liters), "0"), ".")
	return trimmed + "L"
}

func translateTransmission(value string) string {
	value = strings.TrimSpace(value)
	if label, ok := transmissionNames[value]; ok {
		return label
	}
	return value
}

func translateFuel(value string) string {
	value = strings.TrimSpace(value)
	if label, ok := fuelNames[value]; ok {
		return label
	}
	return value
}

// classifyFuel prefers the fuel code over the display name, the code
// survives site-side label changes.
func classifyFuel(spec Spec) string {
	if label, ok := fuelCodes[spec.FuelCd]; ok {
		return label
	}
	return translateFuel(spec.FuelName)
}

func translateColor(value string) string {
	value = strings.TrimSpace(value)
	if label, ok := colorNames[value]; ok {
		return label
	}
	return textutil.Romanize(value)
}

func extractYear(category Category) *int {
	if category.FormYear != nil && *category.FormYear != 0 {
		return category.FormYear
	}
	if len(category.YearMonth) >= 4 {
		year, err := strconv.Atoi(category.YearMonth[:4])
		if err == nil {
			return &year
		}
	}
	return nil
}

// formatDate truncates an ISO datetime to YYYY-MM-DD.
func formatDate(value string) string {
	date, _, _ := strings.Cut(value, "T")
	return date
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Normalize maps a validated cars.base record into the output record.
// Pure: no I/O, no failure path, same input always yields the same
// output.
func Normalize(vehicleId string, base *BaseCar) Vehicle {
	id := vehicleId
	if base.VehicleId != nil && *base.VehicleId != 0 {
		id = strconv.FormatInt(*base.VehicleId, 10)
	}

	out := Vehicle{
		Id:  id,
		Vin: base.Vin,
		Make: firstNonEmpty(
			base.Category.ManufacturerEnglishName,
			base.Category.ManufacturerName,
		),
		Model: firstNonEmpty(
			base.Category.ModelGroupEnglishName,
			base.Category.ModelGroupName,
			base.Category.ModelName,
		),
		Trim: firstNonEmpty(
			base.Category.GradeEnglishName,
			base.Category.GradeName,
		),
		Year:    extractYear(base.Category),
		Price:   normalizePrice(base.Advertisement.Price),
		Mileage: base.Spec.Mileage,
		Fuel:    classifyFuel(base.Spec),
		Url:     DetailURL(vehicleId),
		CardUrl: DetailURL(vehicleId),
	}

	specs := Specifications{
		Engine:       formatEngine(base.Spec.Displacement),
		Transmission: translateTransmission(base.Spec.TransmissionName),
		FuelType:     classifyFuel(base.Spec),
		Color:        translateColor(base.Spec.ColorName),
		BodyType:     base.Spec.BodyName,
		Seats:        base.Spec.SeatCount,
	}
	if specs != (Specifications{}) {
		out.Specifications = &specs
	}

	timestamps := Timestamps{
		RegisteredAt:      formatDate(base.Manage.RegistDateTime),
		FirstAdvertisedAt: formatDate(base.Manage.FirstAdvertisedDateTime),
		ModifiedAt:        formatDate(base.Manage.ModifyDateTime),
	}
	if timestamps != (Timestamps{}) {
		out.Timestamps = &timestamps
	}

	adStatus := base.Advertisement.Status
	if base.DetailFlags != nil && base.DetailFlags.AdStatus != "" {
		adStatus = base.DetailFlags.AdStatus
	}
	metrics := Metrics{
		ViewCount:     base.Manage.ViewCount,
		FavoriteCount: base.Manage.SubscribeCount,
		AdType:        base.Advertisement.AdvertisementType,
		AdStatus:      adStatus,
		DiagnosisCar:  base.Advertisement.DiagnosisCar,
	}
	if metrics != (Metrics{}) {
		out.Metrics = &metrics
	}

	condition := ConditionSummary{}
	if base.Condition.Accident != nil {
		condition.AccidentRecordView = base.Condition.Accident.RecordView
	}
	if base.Condition.Inspection != nil && base.Condition.Inspection.Formats != nil {
		// a present-but-empty formats list stays an empty list in the
		// output, only an absent one is omitted
		formats := base.Condition.Inspection.Formats
		condition.InspectionFormats = &formats
	}
	if base.Condition.Seizing != nil {
		condition.SeizingCount = base.Condition.Seizing.SeizingCount
		condition.PledgeCount = base.Condition.Seizing.PledgeCount
	}
	if condition.AccidentRecordView != nil ||
		condition.InspectionFormats != nil ||
		condition.SeizingCount != nil ||
		condition.PledgeCount != nil {
		out.Condition = &condition
	}

	return out
}
