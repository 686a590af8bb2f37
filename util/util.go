package util

import (
	"encoding/json"
	"net/url"

	"github.com/autom8ter/arango/errors"
	"github.com/ghodss/yaml"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
)

var validate = validator.New()

func ValidateStruct(val any) error {
	return errors.Wrap(validate.Struct(val), errors.Validation, "")
}

// Decode decodes the input into the output based on json tags
func Decode(input any, output any) error {
	config := &mapstructure.DecoderConfig{
		WeaklyTypedInput:     true,
		Result:               output,
		TagName:              "json",
		IgnoreUntaggedFields: true,
	}
	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// JSONString returns a json string of the input
func JSONString(input any) string {
	bits, _ := json.Marshal(input)
	return string(bits)
}

// QueryString url encodes the input based on json tags. Fields tagged
// omitempty are skipped when unset, array values repeat the key once per
// element and nil input yields an empty string.
func QueryString(input any) (string, error) {
	if input == nil {
		return "", nil
	}
	bits, err := json.Marshal(input)
	if err != nil {
		return "", errors.Wrap(err, errors.Serde, "encode query options")
	}
	parsed := gjson.ParseBytes(bits)
	if parsed.Type == gjson.Null {
		return "", nil
	}
	if !parsed.IsObject() {
		return "", errors.New(errors.Serde, "query options must encode to a json object")
	}
	values := url.Values{}
	parsed.ForEach(func(key, value gjson.Result) bool {
		if value.IsArray() {
			value.ForEach(func(_, elem gjson.Result) bool {
				values.Add(key.String(), elem.String())
				return true
			})
			return true
		}
		values.Add(key.String(), value.String())
		return true
	})
	return values.Encode(), nil
}

func YAMLToJSON(yamlContent []byte) ([]byte, error) {
	if isJSON(string(yamlContent)) {
		return yamlContent, nil
	}
	return yaml.YAMLToJSON(yamlContent)
}

func JSONToYAML(jsonContent []byte) ([]byte, error) {
	return yaml.JSONToYAML(jsonContent)
}

func isJSON(str string) bool {
	var js json.RawMessage
	return json.Unmarshal([]byte(str), &js) == nil
}
