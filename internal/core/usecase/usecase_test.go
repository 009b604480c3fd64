package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/estimator"
	"price-estimator-service/internal/core/normalizer"
	"price-estimator-service/internal/core/port"
)

type identityScaler struct{}

func (identityScaler) FeatureNames() []string { return append([]string(nil), domain.ScaledColumns...) }
func (identityScaler) Kind() string           { return "identity" }
func (identityScaler) Transform(row []float64) ([]float64, error) {
	return append([]float64(nil), row...), nil
}

// livingAreaModel: цена = 2000 * Living area
type livingAreaModel struct {
	err error
}

func (m livingAreaModel) Features() []port.ModelFeature {
	out := make([]port.ModelFeature, 0, len(domain.FeatureSchema))
	for _, spec := range domain.FeatureSchema {
		out = append(out, port.ModelFeature{Name: spec.Name, Categorical: spec.Kind == domain.KindCategorical})
	}
	return out
}

func (m livingAreaModel) Info() domain.ModelInfo {
	return domain.ModelInfo{Kind: "test", Version: 1, FeatureCount: len(domain.FeatureSchema)}
}

func (m livingAreaModel) Predict(record domain.NormalizedRecord) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	f, _ := record.Lookup(domain.FieldLivingArea)
	return 2000 * f.Number, nil
}

type memoryHistory struct {
	mu    sync.Mutex
	saved map[uuid.UUID]*domain.PriceEstimate
	err   error
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{saved: map[uuid.UUID]*domain.PriceEstimate{}}
}

func (h *memoryHistory) Save(ctx context.Context, e *domain.PriceEstimate) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.saved[e.ID] = e
	return nil
}

func (h *memoryHistory) GetByID(ctx context.Context, id uuid.UUID) (*domain.PriceEstimate, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.saved[id]
	if !ok {
		return nil, domain.ErrPredictionNotFound
	}
	return e, nil
}

type recordingEvents struct {
	published []uuid.UUID
	err       error
}

func (r *recordingEvents) PublishPredictionCompleted(ctx context.Context, e *domain.PriceEstimate) error {
	r.published = append(r.published, e.ID)
	return r.err
}

func brusselsHouse() domain.RawRecord {
	return domain.RawRecord{
		domain.FieldLocality:          "Brussels",
		domain.FieldZipCode:           1000,
		domain.FieldPropertyType:      "House",
		domain.FieldBedrooms:          3,
		domain.FieldLivingArea:        150,
		domain.FieldSurfaceOfPlot:     300,
		domain.FieldFacades:           2,
		domain.FieldBuildingCondition: "Good",
		domain.FieldFireplace:         "Yes",
		domain.FieldEquippedKitchen:   "Yes",
		domain.FieldGarden:            "No",
		domain.FieldGardenSurface:     0,
		domain.FieldTerrace:           "Yes",
		domain.FieldTerraceSurface:    20,
		domain.FieldFurnished:         "No",
		domain.FieldSwimmingPool:      "No",
		domain.FieldRegion:            "Brussels",
	}
}

func newPipeline(t *testing.T, model port.RegressorPort) (*normalizer.Normalizer, *estimator.Estimator) {
	t.Helper()
	n, err := normalizer.New(identityScaler{}, domain.BinaryStrict)
	if err != nil {
		t.Fatalf("normalizer.New: %v", err)
	}
	e, err := estimator.NewWithModel(model)
	if err != nil {
		t.Fatalf("estimator.NewWithModel: %v", err)
	}
	return n, e
}

func TestEstimatePrice_PointEstimate(t *testing.T) {
	t.Parallel()

	n, e := newPipeline(t, livingAreaModel{})
	history := newMemoryHistory()
	events := &recordingEvents{}
	uc := NewEstimatePriceUseCase(n, e, domain.PriceBand{}, domain.NewPriceFormatter("€"), history, events)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	got, err := uc.Execute(context.Background(), brusselsHouse())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got.Result.IsRange || got.Result.Point != 300000 {
		t.Fatalf("Result = %+v, want point 300000", got.Result)
	}
	if got.Display != "300,000.00€" {
		t.Fatalf("Display = %q", got.Display)
	}
	if got.Currency != "€" || !got.CreatedAt.Equal(fixed) || got.ID == uuid.Nil {
		t.Fatalf("estimate = %+v", got)
	}
	if _, err := history.GetByID(context.Background(), got.ID); err != nil {
		t.Fatalf("estimate was not saved: %v", err)
	}
	if diff := cmp.Diff([]uuid.UUID{got.ID}, events.published); diff != "" {
		t.Fatalf("published events mismatch (-want +got):\n%s", diff)
	}
}

func TestEstimatePrice_Band(t *testing.T) {
	t.Parallel()

	n, e := newPipeline(t, livingAreaModel{})
	uc := NewEstimatePriceUseCase(n, e, domain.PriceBand{Low: 0.90, High: 1.00}, domain.NewPriceFormatter("€"), nil, nil)

	raw := brusselsHouse()
	raw[domain.FieldLivingArea] = 100
	got, err := uc.Execute(context.Background(), raw)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := domain.PredictionResult{Point: 200000, IsRange: true, Min: 180000, Max: 200000}
	if diff := cmp.Diff(want, got.Result); diff != "" {
		t.Fatalf("Result mismatch (-want +got):\n%s", diff)
	}
	if got.Display != "180,000.00€ - 200,000.00€" {
		t.Fatalf("Display = %q", got.Display)
	}
}

func TestEstimatePrice_ValidationShortCircuits(t *testing.T) {
	t.Parallel()

	n, e := newPipeline(t, livingAreaModel{})
	history := newMemoryHistory()
	events := &recordingEvents{}
	uc := NewEstimatePriceUseCase(n, e, domain.PriceBand{}, domain.NewPriceFormatter("€"), history, events)

	raw := brusselsHouse()
	raw[domain.FieldLivingArea] = 0
	raw[domain.FieldZipCode] = 500

	_, err := uc.Execute(context.Background(), raw)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *domain.ValidationError", err)
	}
	want := []string{domain.MsgLivingAreaPositive, domain.MsgZipCodeRange}
	if diff := cmp.Diff(want, verr.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if len(history.saved) != 0 || len(events.published) != 0 {
		t.Fatalf("rejected input reached history/events")
	}
}

func TestEstimatePrice_InferenceErrorPropagates(t *testing.T) {
	t.Parallel()

	n, e := newPipeline(t, livingAreaModel{err: errors.New("leaf index out of range")})
	uc := NewEstimatePriceUseCase(n, e, domain.PriceBand{}, domain.NewPriceFormatter("€"), nil, nil)

	_, err := uc.Execute(context.Background(), brusselsHouse())
	var infErr *domain.InferenceError
	if !errors.As(err, &infErr) {
		t.Fatalf("err = %v, want *domain.InferenceError", err)
	}
}

func TestEstimatePrice_SideEffectFailuresIgnored(t *testing.T) {
	t.Parallel()

	n, e := newPipeline(t, livingAreaModel{})
	history := newMemoryHistory()
	history.err = errors.New("connection refused")
	events := &recordingEvents{err: errors.New("channel closed")}
	uc := NewEstimatePriceUseCase(n, e, domain.PriceBand{}, domain.NewPriceFormatter("€"), history, events)

	got, err := uc.Execute(context.Background(), brusselsHouse())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Result.Point != 300000 {
		t.Fatalf("Point = %v", got.Result.Point)
	}
}

func TestEstimatePrice_ConcurrentCallsAgree(t *testing.T) {
	t.Parallel()

	n, e := newPipeline(t, livingAreaModel{})
	uc := NewEstimatePriceUseCase(n, e, domain.PriceBand{}, domain.NewPriceFormatter("€"), newMemoryHistory(), nil)

	var wg sync.WaitGroup
	results := make([]float64, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			est, err := uc.Execute(context.Background(), brusselsHouse())
			errs[i] = err
			if err == nil {
				results[i] = est.Result.Point
			}
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil || results[i] != 300000 {
			t.Fatalf("call %d: point=%v err=%v", i, results[i], errs[i])
		}
	}
}

func TestGetPrediction(t *testing.T) {
	t.Parallel()

	history := newMemoryHistory()
	stored := &domain.PriceEstimate{ID: uuid.New(), Display: "1.00€"}
	_ = history.Save(context.Background(), stored)

	uc := NewGetPredictionUseCase(history)
	got, err := uc.Execute(context.Background(), stored.ID)
	if err != nil || got != stored {
		t.Fatalf("Execute = %v, %v", got, err)
	}
	if _, err := uc.Execute(context.Background(), uuid.New()); !errors.Is(err, domain.ErrPredictionNotFound) {
		t.Fatalf("unknown id: err = %v, want ErrPredictionNotFound", err)
	}
}

func TestGetPrediction_HistoryDisabled(t *testing.T) {
	t.Parallel()

	uc := NewGetPredictionUseCase(nil)
	if _, err := uc.Execute(context.Background(), uuid.New()); !errors.Is(err, domain.ErrHistoryDisabled) {
		t.Fatalf("err = %v, want ErrHistoryDisabled", err)
	}
}

func TestGetFormOptions_ReturnsCopy(t *testing.T) {
	t.Parallel()

	uc := NewGetFormOptionsUseCase()
	first := uc.Execute(context.Background())
	first[0].Name = "mutated"

	second := uc.Execute(context.Background())
	if second[0].Name != domain.FieldLocality {
		t.Fatalf("options were mutated through the returned slice: %q", second[0].Name)
	}
}

func TestGetModelInfo(t *testing.T) {
	t.Parallel()

	_, e := newPipeline(t, livingAreaModel{})
	band := domain.PriceBand{Low: 0.85, High: 1.00}
	uc := NewGetModelInfoUseCase(e, identityScaler{}, band, domain.BinaryStrict, "€")

	got := uc.Execute(context.Background())
	want := domain.PipelineInfo{
		Model:         domain.ModelInfo{Kind: "test", Version: 1, FeatureCount: 17},
		ScalerKind:    "identity",
		ScaledColumns: domain.ScaledColumns,
		Band:          band,
		BinaryPolicy:  domain.BinaryStrict,
		Currency:      "€",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("PipelineInfo mismatch (-want +got):\n%s", diff)
	}
}
