package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/code19m/errx"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// CodeInvalidJSON is returned when JSON text cannot be decoded.
const CodeInvalidJSON = "INVALID_JSON"

// DecodeJSON decodes a single JSON document. Objects become ordered maps that keep
// the source key order and numbers are kept as json.Number.
func DecodeJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	v, err := decodeValue(decoder)
	if err != nil {
		return nil, invalidJSON(err)
	}

	// trailing garbage after the document
	if _, err = decoder.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errx.New("unexpected data after top-level value")
		}
		return nil, invalidJSON(err)
	}

	return v, nil
}

func invalidJSON(cause error) error {
	return errx.New(
		"[value]: invalid JSON document",
		errx.WithCode(CodeInvalidJSON),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"error": cause.Error()}),
	)
}

func decodeObject(decoder *json.Decoder) (*orderedmap.OrderedMap[string, any], error) {
	om := orderedmap.New[string, any]()

	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyToken.(string)

		value, err := decodeValue(decoder)
		if err != nil {
			return nil, err
		}

		om.Set(key, value)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	return om, nil
}

func decodeValue(decoder *json.Decoder) (any, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	if delim, ok := token.(json.Delim); ok {
		switch delim {
		case '{':
			return decodeObject(decoder)
		case '[':
			return decodeArray(decoder)
		default:
			return nil, errx.New("unexpected delimiter " + delim.String())
		}
	}

	return token, nil
}

func decodeArray(decoder *json.Decoder) ([]any, error) {
	arr := make([]any, 0)
	for decoder.More() {
		value, err := decodeValue(decoder)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	return arr, nil
}
