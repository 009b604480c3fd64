package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PriceBand - множители диапазона вокруг точечного прогноза.
// Нулевое значение означает показ точечной оценки.
type PriceBand struct {
	Low  float64
	High float64
}

// Пресеты, встречавшиеся в разных развертываниях
var priceBandPresets = map[string]PriceBand{
	"point":       {},
	"band-90-100": {Low: 0.90, High: 1.00},
	"band-85-100": {Low: 0.85, High: 1.00},
	"band-90-110": {Low: 0.90, High: 1.10},
}

// ParsePriceBand возвращает пресет по имени
func ParsePriceBand(name string) (PriceBand, error) {
	band, ok := priceBandPresets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PriceBand{}, fmt.Errorf("unknown price band preset %q", name)
	}
	return band, nil
}

// NewPriceBand создает диапазон с явными множителями
func NewPriceBand(low, high float64) (PriceBand, error) {
	band := PriceBand{Low: low, High: high}
	if err := band.Validate(); err != nil {
		return PriceBand{}, err
	}
	return band, nil
}

// IsPoint - диапазон не задан
func (b PriceBand) IsPoint() bool {
	return b.Low == 0 && b.High == 0
}

func (b PriceBand) Validate() error {
	if b.IsPoint() {
		return nil
	}
	if math.IsNaN(b.Low) || math.IsInf(b.Low, 0) || math.IsNaN(b.High) || math.IsInf(b.High, 0) {
		return fmt.Errorf("price band factors must be finite, got %v and %v", b.Low, b.High)
	}
	if b.Low <= 0 {
		return fmt.Errorf("price band low factor must be positive, got %v", b.Low)
	}
	if b.High < b.Low {
		return fmt.Errorf("price band high factor %v is below low factor %v", b.High, b.Low)
	}
	return nil
}

func (b PriceBand) String() string {
	if b.IsPoint() {
		return "point"
	}
	return fmt.Sprintf("%.2f-%.2f", b.Low, b.High)
}

// Apply строит результат из точечного прогноза
func (b PriceBand) Apply(prediction float64) PredictionResult {
	if b.IsPoint() {
		return PredictionResult{Point: prediction}
	}
	return PredictionResult{
		Point:   prediction,
		IsRange: true,
		Min:     b.Low * prediction,
		Max:     b.High * prediction,
	}
}

// PredictionResult - точечная оценка или диапазон, в валюте обучающих меток
type PredictionResult struct {
	Point   float64
	IsRange bool
	Min     float64
	Max     float64
}

// PriceFormatter форматирует суммы как "1,234.56€"
type PriceFormatter struct {
	printer  *message.Printer
	currency string
}

func NewPriceFormatter(currency string) *PriceFormatter {
	return &PriceFormatter{
		printer:  message.NewPrinter(language.English),
		currency: currency,
	}
}

// Currency - суффикс валюты
func (f *PriceFormatter) Currency() string {
	return f.currency
}

// Amount форматирует одну сумму с разделителями разрядов и двумя знаками
func (f *PriceFormatter) Amount(v float64) string {
	return f.printer.Sprintf("%.2f", v) + f.currency
}

// Format форматирует результат для показа пользователю
func (f *PriceFormatter) Format(r PredictionResult) string {
	if !r.IsRange {
		return f.Amount(r.Point)
	}
	return f.Amount(r.Min) + " - " + f.Amount(r.Max)
}

// PriceEstimate - итог одного запроса на оценку
type PriceEstimate struct {
	ID        uuid.UUID
	Input     RawRecord
	Result    PredictionResult
	Band      PriceBand
	Display   string
	Currency  string
	CreatedAt time.Time
}
