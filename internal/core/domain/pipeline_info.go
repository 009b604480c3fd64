package domain

// ModelInfo - метаданные загруженной модели
type ModelInfo struct {
	Kind         string
	Version      int
	FeatureCount int
	Description  string
}

// PipelineInfo - что сейчас обслуживает сервис
type PipelineInfo struct {
	Model         ModelInfo
	ScalerKind    string
	ScaledColumns []string
	Band          PriceBand
	BinaryPolicy  BinaryPolicy
	Currency      string
}
