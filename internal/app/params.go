package app

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"go.trai.ch/agentup/internal/core/domain"
	"go.trai.ch/zerr"
)

// paramEnvPrefix is the prefix Bolt uses for task parameters passed through the environment.
const paramEnvPrefix = "PT_"

// TaskParams are the parameters of a task invocation.
type TaskParams struct {
	Collection     string
	Version        string
	StopService    bool
	AllowMajorSkip bool
}

// ParseTaskParams reads parameters from a JSON object on stdin, falling back
// to PT_* environment variables when stdin is empty. Keys starting with an
// underscore are Bolt metadata and are ignored.
func ParseTaskParams(stdin io.Reader, environ []string) (TaskParams, error) {
	raw := map[string]any{}
	if stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return TaskParams{}, zerr.Wrap(domain.ErrInvalidParameters, err.Error())
		}
		if strings.TrimSpace(string(data)) != "" {
			if err := json.Unmarshal(data, &raw); err != nil {
				return TaskParams{}, zerr.With(zerr.Wrap(domain.ErrInvalidParameters, err.Error()), "source", "stdin")
			}
		}
	}

	if len(raw) == 0 {
		for _, kv := range environ {
			key, value, ok := strings.Cut(kv, "=")
			if !ok || !strings.HasPrefix(key, paramEnvPrefix) {
				continue
			}
			raw[strings.TrimPrefix(key, paramEnvPrefix)] = value
		}
	}

	var p TaskParams
	var err error
	for key, value := range raw {
		if strings.HasPrefix(key, "_") {
			continue
		}
		switch key {
		case "collection":
			p.Collection, err = stringParam(key, value)
		case "version":
			p.Version, err = stringParam(key, value)
		case "stop_service":
			p.StopService, err = boolParam(key, value)
		case "allow_major_skip":
			p.AllowMajorSkip, err = boolParam(key, value)
		default:
			err = zerr.With(zerr.Wrap(domain.ErrInvalidParameters, "unknown parameter"), "parameter", key)
		}
		if err != nil {
			return TaskParams{}, err
		}
	}
	return p, nil
}

func stringParam(key string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidParameters, "expected a string"), "parameter", key)
	}
}

func boolParam(key string, value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		if v == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, zerr.With(zerr.Wrap(domain.ErrInvalidParameters, "expected a boolean"), "parameter", key)
		}
		return b, nil
	default:
		return false, zerr.With(zerr.Wrap(domain.ErrInvalidParameters, "expected a boolean"), "parameter", key)
	}
}
