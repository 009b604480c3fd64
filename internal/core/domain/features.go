package domain

// FieldKind - тип признака в схеме обучения
type FieldKind int

const (
	KindNumeric FieldKind = iota
	KindBinary
	KindCategorical
)

func (k FieldKind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindCategorical:
		return "categorical"
	default:
		return "numeric"
	}
}

// Имена признаков в точности как в обучающей выборке
const (
	FieldLocality          = "Locality"
	FieldZipCode           = "Zip code"
	FieldPropertyType      = "Property type"
	FieldBedrooms          = "Bedrooms"
	FieldLivingArea        = "Living area"
	FieldSurfaceOfPlot     = "Surface of the plot"
	FieldFacades           = "Facades"
	FieldBuildingCondition = "Building condition"
	FieldFireplace         = "Fireplace"
	FieldEquippedKitchen   = "Equipped kitchen"
	FieldGarden            = "Garden"
	FieldGardenSurface     = "Garden surface"
	FieldTerrace           = "Terrace"
	FieldTerraceSurface    = "Terrace surface"
	FieldFurnished         = "Furnished"
	FieldSwimmingPool      = "Swimming pool"
	FieldRegion            = "Region"
)

// FieldSpec описывает одну колонку схемы
type FieldSpec struct {
	Name string
	Kind FieldKind
	// Optional - поле может отсутствовать, тогда подставляется 0
	Optional bool
}

// FeatureSchema - порядок колонок фиксирован и совпадает с порядком при обучении.
// Менять его нельзя: скейлер и модель ориентируются на позиции.
var FeatureSchema = []FieldSpec{
	{Name: FieldLocality, Kind: KindCategorical},
	{Name: FieldZipCode, Kind: KindNumeric},
	{Name: FieldPropertyType, Kind: KindCategorical},
	{Name: FieldBedrooms, Kind: KindNumeric},
	{Name: FieldLivingArea, Kind: KindNumeric},
	{Name: FieldSurfaceOfPlot, Kind: KindNumeric},
	{Name: FieldFacades, Kind: KindNumeric},
	{Name: FieldBuildingCondition, Kind: KindCategorical},
	{Name: FieldFireplace, Kind: KindBinary},
	{Name: FieldEquippedKitchen, Kind: KindBinary},
	{Name: FieldGarden, Kind: KindBinary},
	{Name: FieldGardenSurface, Kind: KindNumeric, Optional: true},
	{Name: FieldTerrace, Kind: KindBinary},
	{Name: FieldTerraceSurface, Kind: KindNumeric, Optional: true},
	{Name: FieldFurnished, Kind: KindBinary},
	{Name: FieldSwimmingPool, Kind: KindBinary},
	{Name: FieldRegion, Kind: KindCategorical},
}

// ScaledColumns - колонки, которые проходят через скейлер, в порядке схемы
var ScaledColumns = scaledColumns()

func scaledColumns() []string {
	cols := make([]string, 0, len(FeatureSchema))
	for _, f := range FeatureSchema {
		if f.Kind != KindCategorical {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// LookupField возвращает описание поля по имени
func LookupField(name string) (FieldSpec, bool) {
	for _, f := range FeatureSchema {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// RawRecord - признаки в том виде, в каком их прислал UI.
// Значения: строки для выбора/текста, числа для числовых полей.
type RawRecord map[string]any

// BinaryValue - допустимые значения для Yes/No полей
type BinaryValue string

const (
	BinaryYes BinaryValue = "Yes"
	BinaryNo  BinaryValue = "No"
)

// EncodedRecord - запись после кодирования, но до масштабирования
type EncodedRecord struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// NormalizedField - одна колонка нормализованной записи
type NormalizedField struct {
	Name   string
	Kind   FieldKind
	Number float64
	Text   string
}

// IsNumeric - колонка хранит число (включая закодированные бинарные)
func (f NormalizedField) IsNumeric() bool {
	return f.Kind != KindCategorical
}

// NormalizedRecord - одна строка для модели, порядок колонок как в FeatureSchema
type NormalizedRecord struct {
	Fields []NormalizedField
}

// Lookup ищет колонку по имени
func (r NormalizedRecord) Lookup(name string) (NormalizedField, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return NormalizedField{}, false
}

// Columns возвращает имена колонок в порядке записи
func (r NormalizedRecord) Columns() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}
