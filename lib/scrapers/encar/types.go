package encar

// The structs below mirror the subset of the preloaded state under
// cars.base that the normalizer depends on. Optional scalars are
// pointers so that absent values survive the trip to the output
// record instead of collapsing into zero values.

type Category struct {
	ManufacturerEnglishName string `json:"manufacturerEnglishName"`
	ManufacturerName        string `json:"manufacturerName"`
	ModelGroupEnglishName   string `json:"modelGroupEnglishName"`
	ModelGroupName          string `json:"modelGroupName"`
	ModelName               string `json:"modelName"`
	GradeEnglishName        string `json:"gradeEnglishName"`
	GradeName               string `json:"gradeName"`
	YearMonth               string `json:"yearMonth"`
	FormYear                *int   `json:"formYear"`
}

type Advertisement struct {
	Price             *int64 `json:"price"`
	AdvertisementType string `json:"advertisementType"`
	Status            string `json:"status"`
	DiagnosisCar      *bool  `json:"diagnosisCar"`
}

type Spec struct {
	Displacement     *int   `json:"displacement"`
	TransmissionName string `json:"transmissionName"`
	FuelCd           string `json:"fuelCd"`
	FuelName         string `json:"fuelName"`
	ColorName        string `json:"colorName"`
	SeatCount        *int   `json:"seatCount"`
	BodyName         string `json:"bodyName"`
	Mileage          *int   `json:"mileage"`
}

type Manage struct {
	RegistDateTime          string `json:"registDateTime"`
	FirstAdvertisedDateTime string `json:"firstAdvertisedDateTime"`
	ModifyDateTime          string `json:"modifyDateTime"`
	SubscribeCount          *int   `json:"subscribeCount"`
	ViewCount               *int   `json:"viewCount"`
}

type Accident struct {
	RecordView *bool `json:"recordView"`
}

type Inspection struct {
	Formats []string `json:"formats"`
}

type Seizing struct {
	SeizingCount *int `json:"seizingCount"`
	PledgeCount  *int `json:"pledgeCount"`
}

type Condition struct {
	Accident   *Accident   `json:"accident"`
	Inspection *Inspection `json:"inspection"`
	Seizing    *Seizing    `json:"seizing"`
}

type DetailFlags struct {
	AdStatus string `json:"adStatus"`
}

// BaseCar is the validated subset of cars.base. It is only ever
// produced by ValidateState.
type BaseCar struct {
	VehicleId     *int64        `json:"vehicleId"`
	Vin           string        `json:"vin"`
	Category      Category      `json:"category"`
	Advertisement Advertisement `json:"advertisement"`
	Spec          Spec          `json:"spec"`
	Manage        Manage        `json:"manage"`
	Condition     Condition     `json:"condition"`
	DetailFlags   *DetailFlags  `json:"detailFlags"`
}

// Output record types. Field names and nesting are part of the output
// contract, do not rename the json tags.

type Specifications struct {
	Engine       string `json:"engine,omitempty"`
	Transmission string `json:"transmission,omitempty"`
	FuelType     string `json:"fuel_type,omitempty"`
	Color        string `json:"color,omitempty"`
	BodyType     string `json:"body_type,omitempty"`
	Seats        *int   `json:"seats,omitempty"`
}

type Timestamps struct {
	RegisteredAt      string `json:"registered_at,omitempty"`
	FirstAdvertisedAt string `json:"first_advertised_at,omitempty"`
	ModifiedAt        string `json:"modified_at,omitempty"`
}

type Metrics struct {
	ViewCount     *int   `json:"view_count,omitempty"`
	FavoriteCount *int   `json:"favorite_count,omitempty"`
	AdType        string `json:"ad_type,omitempty"`
	AdStatus      string `json:"ad_status,omitempty"`
	DiagnosisCar  *bool  `json:"diagnosis_car,omitempty"`
}

type ConditionSummary struct {
	AccidentRecordView *bool     `json:"accident_record_view,omitempty"`
	InspectionFormats  *[]string `json:"inspection_formats,omitempty"`
	SeizingCount       *int     `json:"seizing_count,omitempty"`
	PledgeCount        *int     `json:"pledge_count,omitempty"`
}

type Vehicle struct {
	Id             string            `json:"id"`
	Vin            string            `json:"vin,omitempty"`
	Make           string            `json:"make,omitempty"`
	Model          string            `json:"model,omitempty"`
	Trim           string            `json:"trim,omitempty"`
	Year           *int              `json:"year,omitempty"`
	Price          *int64            `json:"price,omitempty"`
	Mileage        *int              `json:"mileage,omitempty"`
	Fuel           string            `json:"fuel,omitempty"`
	Url            string            `json:"url"`
	CardUrl        string            `json:"card_url"`
	Specifications *Specifications   `json:"specifications,omitempty"`
	Timestamps     *Timestamps       `json:"timestamps,omitempty"`
	Metrics        *Metrics          `json:"metrics,omitempty"`
	Condition      *ConditionSummary `json:"condition,omitempty"`
}

// Result is the per-vehicle output envelope.
type Result struct {
	Data Vehicle `json:"data"`
}
