package artifacts

import (
	"fmt"
	"math"
)

const supportedScalerVersion = 1

const (
	ScalerRobust   = "robust"
	ScalerStandard = "standard"
	ScalerIdentity = "identity"
)

// scalerArtifact - сериализованный обученный скейлер.
// robust: center = медиана, scale = IQR; standard: center = среднее, scale = std.
type scalerArtifact struct {
	Version      int       `json:"version" yaml:"version"`
	Kind         string    `json:"kind" yaml:"kind"`
	FeatureNames []string  `json:"feature_names" yaml:"feature_names"`
	Center       []float64 `json:"center" yaml:"center"`
	Scale        []float64 `json:"scale" yaml:"scale"`
}

// Scaler применяет (x - center) / scale по колонкам
type Scaler struct {
	kind         string
	featureNames []string
	center       []float64
	scale        []float64
}

func newScaler(a scalerArtifact) (*Scaler, error) {
	if a.Version != supportedScalerVersion {
		return nil, fmt.Errorf("unsupported scaler artifact version %d", a.Version)
	}
	if len(a.FeatureNames) == 0 {
		return nil, fmt.Errorf("scaler artifact declares no feature names")
	}
	seen := make(map[string]bool, len(a.FeatureNames))
	for _, name := range a.FeatureNames {
		if seen[name] {
			return nil, fmt.Errorf("scaler artifact declares feature %q twice", name)
		}
		seen[name] = true
	}

	n := len(a.FeatureNames)
	s := &Scaler{
		kind:         a.Kind,
		featureNames: append([]string(nil), a.FeatureNames...),
		center:       make([]float64, n),
		scale:        make([]float64, n),
	}

	switch a.Kind {
	case ScalerIdentity:
		for i := range s.scale {
			s.scale[i] = 1
		}
		return s, nil
	case ScalerRobust, ScalerStandard:
	default:
		return nil, fmt.Errorf("unknown scaler kind %q", a.Kind)
	}

	if len(a.Center) != n || len(a.Scale) != n {
		return nil, fmt.Errorf("scaler artifact has %d features but %d centers and %d scales", n, len(a.Center), len(a.Scale))
	}
	copy(s.center, a.Center)
	for i, v := range a.Scale {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.IsNaN(a.Center[i]) || math.IsInf(a.Center[i], 0) {
			return nil, fmt.Errorf("scaler artifact has non-finite statistics for %q", a.FeatureNames[i])
		}
		// как в sklearn: нулевой разброс не масштабируем
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

func (s *Scaler) Kind() string { return s.kind }

func (s *Scaler) FeatureNames() []string {
	return append([]string(nil), s.featureNames...)
}

func (s *Scaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.featureNames) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.featureNames), len(row))
	}
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.center[i]) / s.scale[i]
	}
	return out, nil
}
