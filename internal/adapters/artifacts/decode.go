package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeArtifact выбирает формат по расширению: .yaml/.yml - YAML, иначе JSON.
// Неизвестные поля считаются ошибкой: артефакт другой версии не должен молча загрузиться.
func decodeArtifact(location string, r io.Reader, out any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}

	switch strings.ToLower(path.Ext(location)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("decode yaml artifact: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("decode json artifact: %w", err)
		}
	}
	return nil
}
