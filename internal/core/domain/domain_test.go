package domain

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func validRecord() RawRecord {
	return RawRecord{
		FieldLocality:          "Brussels",
		FieldZipCode:           1000,
		FieldPropertyType:      "House",
		FieldBedrooms:          3,
		FieldLivingArea:        150,
		FieldSurfaceOfPlot:     300,
		FieldFacades:           2,
		FieldBuildingCondition: "Good",
		FieldFireplace:         "Yes",
		FieldEquippedKitchen:   "Yes",
		FieldGarden:            "No",
		FieldGardenSurface:     0,
		FieldTerrace:           "Yes",
		FieldTerraceSurface:    20,
		FieldFurnished:         "No",
		FieldSwimmingPool:      "No",
		FieldRegion:            "Brussels",
	}
}

func violationsOf(t *testing.T, err error) []FieldViolation {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	return verr.Violations
}

func TestScaledColumnsOrder(t *testing.T) {
	want := []string{
		FieldZipCode, FieldBedrooms, FieldLivingArea, FieldSurfaceOfPlot, FieldFacades,
		FieldFireplace, FieldEquippedKitchen, FieldGarden, FieldGardenSurface,
		FieldTerrace, FieldTerraceSurface, FieldFurnished, FieldSwimmingPool,
	}
	if diff := cmp.Diff(want, ScaledColumns); diff != "" {
		t.Fatalf("ScaledColumns mismatch (-want +got):\n%s", diff)
	}
	if len(FeatureSchema) != 17 {
		t.Fatalf("len(FeatureSchema) = %d, want 17", len(FeatureSchema))
	}
}

func TestValidateRawRecord_Valid(t *testing.T) {
	if err := ValidateRawRecord(validRecord(), BinaryStrict); err != nil {
		t.Fatalf("ValidateRawRecord: %v", err)
	}
}

func TestValidateRawRecord_BusinessRules(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value any
		want  string
	}{
		{"living area zero", FieldLivingArea, 0, MsgLivingAreaPositive},
		{"living area negative", FieldLivingArea, -5.5, MsgLivingAreaPositive},
		{"empty locality", FieldLocality, "", MsgLocalityRequired},
		{"blank locality", FieldLocality, "   ", MsgLocalityRequired},
		{"no bedrooms", FieldBedrooms, 0, MsgBedroomsPositive},
		{"zip too small", FieldZipCode, 500, MsgZipCodeRange},
		{"zip too large", FieldZipCode, 10000, MsgZipCodeRange},
		{"zip fractional", FieldZipCode, 1050.5, MsgZipCodeRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRecord()
			raw[tc.field] = tc.value
			got := violationsOf(t, ValidateRawRecord(raw, BinaryStrict))
			want := []FieldViolation{{Field: tc.field, Message: tc.want}}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("violations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateRawRecord_ZipBoundaries(t *testing.T) {
	for _, zip := range []any{1000, 1050, 9999, json.Number("4000")} {
		raw := validRecord()
		raw[FieldZipCode] = zip
		if err := ValidateRawRecord(raw, BinaryStrict); err != nil {
			t.Errorf("zip %v: unexpected error %v", zip, err)
		}
	}
}

func TestValidateRawRecord_CollectsEveryRule(t *testing.T) {
	raw := validRecord()
	raw[FieldLivingArea] = 0
	raw[FieldLocality] = ""
	raw[FieldBedrooms] = 0
	raw[FieldZipCode] = 500

	got := violationsOf(t, ValidateRawRecord(raw, BinaryStrict))
	want := []FieldViolation{
		{Field: FieldLivingArea, Message: MsgLivingAreaPositive},
		{Field: FieldLocality, Message: MsgLocalityRequired},
		{Field: FieldBedrooms, Message: MsgBedroomsPositive},
		{Field: FieldZipCode, Message: MsgZipCodeRange},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRawRecord_MissingFields(t *testing.T) {
	raw := validRecord()
	delete(raw, FieldFacades)
	delete(raw, FieldGardenSurface)
	raw[FieldTerraceSurface] = nil

	got := violationsOf(t, ValidateRawRecord(raw, BinaryStrict))
	if len(got) != 1 || got[0].Field != FieldFacades {
		t.Fatalf("violations = %+v, want only %q", got, FieldFacades)
	}
	if !strings.Contains(got[0].Message, FieldFacades) {
		t.Fatalf("message %q does not name the field", got[0].Message)
	}
}

func TestValidateRawRecord_UnknownAndMistypedFields(t *testing.T) {
	raw := validRecord()
	raw["Cellar"] = "Yes"
	raw[FieldBedrooms] = "three"
	raw[FieldRegion] = 3

	got := violationsOf(t, ValidateRawRecord(raw, BinaryStrict))
	fields := make([]string, len(got))
	for i, v := range got {
		fields[i] = v.Field
	}
	want := []string{"Cellar", FieldBedrooms, FieldRegion}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("violating fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRawRecord_BinaryPolicy(t *testing.T) {
	raw := validRecord()
	raw[FieldGarden] = "maybe"

	got := violationsOf(t, ValidateRawRecord(raw, BinaryStrict))
	if len(got) != 1 || got[0].Field != FieldGarden {
		t.Fatalf("strict violations = %+v", got)
	}
	if err := ValidateRawRecord(raw, BinaryLenient); err != nil {
		t.Fatalf("lenient policy rejected %q: %v", "maybe", err)
	}
}

func TestParseBinaryPolicy(t *testing.T) {
	for in, want := range map[string]BinaryPolicy{"": BinaryStrict, "STRICT": BinaryStrict, "lenient": BinaryLenient, "legacy": BinaryLenient} {
		got, err := ParseBinaryPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseBinaryPolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseBinaryPolicy("fuzzy"); err == nil {
		t.Errorf("ParseBinaryPolicy(fuzzy): expected error")
	}
}

func TestPriceBandPresets(t *testing.T) {
	cases := map[string]PriceBand{
		"point":       {},
		"band-90-100": {Low: 0.90, High: 1.00},
		"band-85-100": {Low: 0.85, High: 1.00},
		"Band-90-110": {Low: 0.90, High: 1.10},
	}
	for name, want := range cases {
		got, err := ParsePriceBand(name)
		if err != nil {
			t.Fatalf("ParsePriceBand(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("ParsePriceBand(%q) = %+v, want %+v", name, got, want)
		}
	}
	if _, err := ParsePriceBand("band-50-200"); err == nil {
		t.Fatalf("ParsePriceBand(unknown): expected error")
	}
}

func TestNewPriceBand_Validation(t *testing.T) {
	if _, err := NewPriceBand(0, 1); err == nil {
		t.Errorf("NewPriceBand(0, 1): expected error")
	}
	if _, err := NewPriceBand(1.1, 0.9); err == nil {
		t.Errorf("NewPriceBand(1.1, 0.9): expected error")
	}
	for _, f := range []struct{ low, high float64 }{
		{math.NaN(), math.NaN()},
		{0.9, math.Inf(1)},
		{math.Inf(-1), 1.1},
	} {
		if _, err := NewPriceBand(f.low, f.high); err == nil {
			t.Errorf("NewPriceBand(%v, %v): expected error", f.low, f.high)
		}
	}
	if _, err := NewPriceBand(0.8, 1.2); err != nil {
		t.Errorf("NewPriceBand(0.8, 1.2): %v", err)
	}
}

func TestPriceBandApply(t *testing.T) {
	point := PriceBand{}.Apply(250000)
	if point.IsRange || point.Point != 250000 {
		t.Fatalf("point Apply = %+v", point)
	}

	band := PriceBand{Low: 0.90, High: 1.00}.Apply(200000)
	want := PredictionResult{Point: 200000, IsRange: true, Min: 0.90 * 200000, Max: 200000}
	if diff := cmp.Diff(want, band); diff != "" {
		t.Fatalf("band Apply mismatch (-want +got):\n%s", diff)
	}
}

func TestPriceFormatter(t *testing.T) {
	f := NewPriceFormatter("€")

	if got, want := f.Format(PredictionResult{Point: 1234567.891}), "1,234,567.89€"; got != want {
		t.Fatalf("Format(point) = %q, want %q", got, want)
	}

	r := PriceBand{Low: 0.90, High: 1.10}.Apply(100000)
	if got, want := f.Format(r), "90,000.00€ - 110,000.00€"; got != want {
		t.Fatalf("Format(band) = %q, want %q", got, want)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	verr := NewValidationError()
	verr.Add(FieldZipCode, MsgZipCodeRange)
	if !strings.Contains(verr.Error(), MsgZipCodeRange) {
		t.Fatalf("Error() = %q", verr.Error())
	}
}

func TestInferenceErrorUnwrap(t *testing.T) {
	cause := errors.New("tree exploded")
	err := error(&InferenceError{Err: cause})
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is(InferenceError, cause) = false")
	}
}

func TestFormOptions(t *testing.T) {
	opts := FormOptions()
	if len(opts) != len(FeatureSchema) {
		t.Fatalf("len(FormOptions) = %d, want %d", len(opts), len(FeatureSchema))
	}
	byName := map[string]FieldOption{}
	for _, o := range opts {
		byName[o.Name] = o
	}
	if zip := byName[FieldZipCode]; zip.Min == nil || *zip.Min != MinZipCode || *zip.Max != MaxZipCode {
		t.Fatalf("zip bounds = %+v", zip)
	}
	if got := byName[FieldGardenSurface].DependsOn; got != FieldGarden {
		t.Fatalf("Garden surface DependsOn = %q", got)
	}
	if diff := cmp.Diff(BinaryOptions, byName[FieldFireplace].Options); diff != "" {
		t.Fatalf("Fireplace options mismatch (-want +got):\n%s", diff)
	}
}
