package store

import (
	"encoding/json"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
)

func marshalContext(sc domain.SessionContext) (string, error) {
	raw, err := json.Marshal(sc)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalContext(raw string, sc *domain.SessionContext) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), sc)
}
