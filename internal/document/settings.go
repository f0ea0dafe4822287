package document

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeSettings 把 Options.Settings 解码到 out（使用 mapstructure 标签）
//
// 未知键视为错误，避免配置项拼写错误被静默忽略。
func DecodeSettings(settings map[string]interface{}, out interface{}) error {
	if len(settings) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}
