package domain

// FieldOption - описание одного поля формы для UI
type FieldOption struct {
	Name     string
	Kind     FieldKind
	Options  []string
	Min      *float64
	Max      *float64
	Optional bool
	// DependsOn - поле имеет смысл только при значении "Yes" у указанного флага
	DependsOn string
}

var (
	PropertyTypes = []string{
		"House",
		"Apartment",
		"Villa",
		"Country Cottage",
		"Exceptional Property",
		"Mixed Use Building",
	}

	Regions = []string{"Brussels", "Wallonia", "Flanders"}

	BuildingConditions = []string{
		"Just renovated",
		"As new",
		"Good",
		"To be done up",
		"To renovate",
		"To restore",
		"Not mentioned",
	}

	BinaryOptions = []string{string(BinaryNo), string(BinaryYes)}
)

func bound(v float64) *float64 { return &v }

// FormOptions возвращает описания полей в порядке FeatureSchema
func FormOptions() []FieldOption {
	opts := make([]FieldOption, 0, len(FeatureSchema))
	for _, spec := range FeatureSchema {
		opt := FieldOption{Name: spec.Name, Kind: spec.Kind, Optional: spec.Optional}
		switch spec.Name {
		case FieldPropertyType:
			opt.Options = PropertyTypes
		case FieldRegion:
			opt.Options = Regions
		case FieldBuildingCondition:
			opt.Options = BuildingConditions
		case FieldZipCode:
			opt.Min, opt.Max = bound(MinZipCode), bound(MaxZipCode)
		case FieldBedrooms, FieldLivingArea, FieldFacades:
			opt.Min = bound(1)
		case FieldSurfaceOfPlot:
			opt.Min = bound(0)
		case FieldGardenSurface:
			opt.Min = bound(0)
			opt.DependsOn = FieldGarden
		case FieldTerraceSurface:
			opt.Min = bound(0)
			opt.DependsOn = FieldTerrace
		}
		if spec.Kind == KindBinary {
			opt.Options = BinaryOptions
		}
		opts = append(opts, opt)
	}
	return opts
}
