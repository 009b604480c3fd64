package artifacts

import (
	"fmt"
	"math"

	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
)

const supportedModelVersion = 1

const (
	ModelObliviousTrees = "oblivious_trees"
	ModelLinear         = "linear"
)

// Преобразование выхода модели, если она обучалась на log(цены)
const (
	TargetIdentity = ""
	TargetExp      = "exp"
)

type featureArtifact struct {
	Name        string `json:"name" yaml:"name"`
	Categorical bool   `json:"categorical" yaml:"categorical"`
}

type splitArtifact struct {
	Feature string   `json:"feature" yaml:"feature"`
	Border  *float64 `json:"border,omitempty" yaml:"border,omitempty"`
	Equals  *string  `json:"equals,omitempty" yaml:"equals,omitempty"`
}

type treeArtifact struct {
	Splits     []splitArtifact `json:"splits" yaml:"splits"`
	LeafValues []float64       `json:"leaf_values" yaml:"leaf_values"`
}

// modelArtifact - общий конверт для всех видов моделей
type modelArtifact struct {
	Version         int               `json:"version" yaml:"version"`
	Kind            string            `json:"kind" yaml:"kind"`
	Description     string            `json:"description,omitempty" yaml:"description,omitempty"`
	Features        []featureArtifact `json:"features" yaml:"features"`
	TargetTransform string            `json:"target_transform,omitempty" yaml:"target_transform,omitempty"`

	// oblivious_trees
	Bias  float64        `json:"bias,omitempty" yaml:"bias,omitempty"`
	Scale *float64       `json:"scale,omitempty" yaml:"scale,omitempty"`
	Trees []treeArtifact `json:"trees,omitempty" yaml:"trees,omitempty"`

	// linear
	Intercept       float64                       `json:"intercept,omitempty" yaml:"intercept,omitempty"`
	Weights         map[string]float64            `json:"weights,omitempty" yaml:"weights,omitempty"`
	CategoryWeights map[string]map[string]float64 `json:"category_weights,omitempty" yaml:"category_weights,omitempty"`
}

func newRegressor(a modelArtifact) (port.RegressorPort, error) {
	if a.Version != supportedModelVersion {
		return nil, fmt.Errorf("unsupported model artifact version %d", a.Version)
	}
	if len(a.Features) == 0 {
		return nil, fmt.Errorf("model artifact declares no features")
	}
	switch a.TargetTransform {
	case TargetIdentity, TargetExp:
	default:
		return nil, fmt.Errorf("unknown target transform %q", a.TargetTransform)
	}

	features := make([]port.ModelFeature, len(a.Features))
	categorical := make(map[string]bool, len(a.Features))
	for i, f := range a.Features {
		if f.Name == "" {
			return nil, fmt.Errorf("model feature #%d has no name", i)
		}
		if _, dup := categorical[f.Name]; dup {
			return nil, fmt.Errorf("model declares feature %q twice", f.Name)
		}
		features[i] = port.ModelFeature{Name: f.Name, Categorical: f.Categorical}
		categorical[f.Name] = f.Categorical
	}

	base := baseModel{
		kind:            a.Kind,
		version:         a.Version,
		description:     a.Description,
		features:        features,
		targetTransform: a.TargetTransform,
	}

	switch a.Kind {
	case ModelObliviousTrees:
		return newObliviousTrees(base, a, categorical)
	case ModelLinear:
		return newLinearModel(base, a, categorical)
	default:
		return nil, fmt.Errorf("unknown model kind %q", a.Kind)
	}
}

type baseModel struct {
	kind            string
	version         int
	description     string
	features        []port.ModelFeature
	targetTransform string
}

func (m baseModel) Features() []port.ModelFeature {
	return append([]port.ModelFeature(nil), m.features...)
}

func (m baseModel) Info() domain.ModelInfo {
	return domain.ModelInfo{
		Kind:         m.kind,
		Version:      m.version,
		FeatureCount: len(m.features),
		Description:  m.description,
	}
}

func (m baseModel) finish(raw float64) float64 {
	if m.targetTransform == TargetExp {
		return math.Exp(raw)
	}
	return raw
}

// compiledSplit - условие одного уровня симметричного дерева
type compiledSplit struct {
	feature     string
	categorical bool
	border      float64
	equals      string
}

type compiledTree struct {
	splits []compiledSplit
	leaves []float64
}

// ObliviousTrees - ансамбль симметричных деревьев (как в CatBoost):
// на каждом уровне одно условие, бит i индекса листа = результат i-го условия.
type ObliviousTrees struct {
	baseModel
	bias  float64
	scale float64
	trees []compiledTree
}

func newObliviousTrees(base baseModel, a modelArtifact, categorical map[string]bool) (*ObliviousTrees, error) {
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("oblivious_trees model has no trees")
	}
	m := &ObliviousTrees{baseModel: base, bias: a.Bias, scale: 1}
	if a.Scale != nil {
		m.scale = *a.Scale
	}

	for ti, t := range a.Trees {
		if len(t.Splits) > 16 {
			return nil, fmt.Errorf("tree #%d is too deep (%d levels)", ti, len(t.Splits))
		}
		if want := 1 << len(t.Splits); len(t.LeafValues) != want {
			return nil, fmt.Errorf("tree #%d has %d leaf values, want %d", ti, len(t.LeafValues), want)
		}
		ct := compiledTree{leaves: append([]float64(nil), t.LeafValues...)}
		for si, s := range t.Splits {
			isCat, ok := categorical[s.Feature]
			if !ok {
				return nil, fmt.Errorf("tree #%d split #%d uses undeclared feature %q", ti, si, s.Feature)
			}
			cs := compiledSplit{feature: s.Feature, categorical: isCat}
			switch {
			case isCat && s.Equals != nil && s.Border == nil:
				cs.equals = *s.Equals
			case !isCat && s.Border != nil && s.Equals == nil:
				cs.border = *s.Border
			default:
				return nil, fmt.Errorf("tree #%d split #%d on %q must have exactly one of border (numeric) or equals (categorical)", ti, si, s.Feature)
			}
			ct.splits = append(ct.splits, cs)
		}
		m.trees = append(m.trees, ct)
	}
	return m, nil
}

func (m *ObliviousTrees) Predict(record domain.NormalizedRecord) (float64, error) {
	sum := 0.0
	for ti, t := range m.trees {
		idx := 0
		for si, s := range t.splits {
			field, ok := record.Lookup(s.feature)
			if !ok {
				return 0, fmt.Errorf("tree #%d: column %q not found", ti, s.feature)
			}
			var hit bool
			if s.categorical {
				hit = field.Text == s.equals
			} else {
				hit = field.Number > s.border
			}
			if hit {
				idx |= 1 << si
			}
		}
		sum += t.leaves[idx]
	}
	return m.finish(m.bias + m.scale*sum), nil
}

// LinearModel - intercept + веса числовых колонок + вклад категорий
type LinearModel struct {
	baseModel
	intercept       float64
	weights         map[string]float64
	categoryWeights map[string]map[string]float64
}

func newLinearModel(base baseModel, a modelArtifact, categorical map[string]bool) (*LinearModel, error) {
	for name := range a.Weights {
		isCat, ok := categorical[name]
		if !ok || isCat {
			return nil, fmt.Errorf("linear weight for %q does not match a numeric feature", name)
		}
	}
	for name := range a.CategoryWeights {
		isCat, ok := categorical[name]
		if !ok || !isCat {
			return nil, fmt.Errorf("category weights for %q do not match a categorical feature", name)
		}
	}
	return &LinearModel{
		baseModel:       base,
		intercept:       a.Intercept,
		weights:         a.Weights,
		categoryWeights: a.CategoryWeights,
	}, nil
}

func (m *LinearModel) Predict(record domain.NormalizedRecord) (float64, error) {
	sum := m.intercept
	for _, f := range m.features {
		field, ok := record.Lookup(f.Name)
		if !ok {
			return 0, fmt.Errorf("column %q not found", f.Name)
		}
		if f.Categorical {
			// неизвестная категория не дает вклада
			sum += m.categoryWeights[f.Name][field.Text]
			continue
		}
		sum += m.weights[f.Name] * field.Number
	}
	return m.finish(sum), nil
}
