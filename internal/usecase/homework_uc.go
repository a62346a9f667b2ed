package usecase

import (
	"encoding/json"
	"fmt"
	"math"

	"homework-status-bot/internal/domain"
	"homework-status-bot/internal/domain/model"
)

// CheckResponse validates a decoded homework_statuses payload and returns
// its "homeworks" list, which may be empty.
func CheckResponse(payload any) ([]any, error) {
	resp, ok := payload.(map[string]any)
	if !ok {
		return nil, &domain.Error{Kind: domain.KindShapeMismatch, Field: "response", Expected: "dict"}
	}

	// Error envelopes carry no "homeworks", so classify them first.
	if err := ServerError(resp); err != nil {
		return nil, err
	}

	homeworks, ok := resp["homeworks"].([]any)
	if !ok {
		return nil, &domain.Error{Kind: domain.KindShapeMismatch, Field: "homeworks", Expected: "list"}
	}
	return homeworks, nil
}

// ServerError classifies a Practicum error envelope. It returns nil when
// payload carries no known error code.
func ServerError(payload any) *domain.Error {
	resp, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	switch code, _ := resp["code"].(string); code {
	case domain.CodeUnknownError:
		return &domain.Error{Kind: domain.KindServerReported, Code: code, Message: envelopeText(resp["error"])}
	case domain.CodeNotAuthenticated:
		return &domain.Error{Kind: domain.KindServerReported, Code: code, Message: envelopeText(resp["message"])}
	}
	return nil
}

// envelopeText flattens {"error": {"error": "..."}} style nesting.
func envelopeText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		for _, k := range []string{"error", "message", "detail"} {
			if s, ok := t[k].(string); ok {
				return s
			}
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// CurrentDate extracts "current_date" as unix seconds. ok is false when the
// key is absent or not an integral number.
func CurrentDate(payload any) (int64, bool) {
	resp, ok := payload.(map[string]any)
	if !ok {
		return 0, false
	}
	switch v := resp["current_date"].(type) {
	case float64:
		if v != math.Trunc(v) || v < 0 {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil && n >= 0
	}
	return 0, false
}

// ParseHomework turns one raw "homeworks" entry into a model.Homework.
func ParseHomework(raw any) (model.Homework, error) {
	hw, ok := raw.(map[string]any)
	if !ok {
		return model.Homework{}, &domain.Error{Kind: domain.KindShapeMismatch, Field: "homework", Expected: "dict"}
	}
	name, ok := hw["homework_name"]
	if !ok || name == nil {
		return model.Homework{}, &domain.Error{Kind: domain.KindMissingField, Field: "homework_name"}
	}
	status, _ := hw["status"].(string)
	if _, known := model.Verdict(model.Status(status)); !known {
		value := status
		if value == "" {
			value = fmt.Sprint(hw["status"])
		}
		return model.Homework{}, &domain.Error{Kind: domain.KindUnknownStatus, Value: value}
	}
	return model.Homework{Name: fmt.Sprint(name), Status: model.Status(status)}, nil
}

// ParseStatus validates one homework entry and renders its notification text.
func ParseStatus(raw any) (string, error) {
	hw, err := ParseHomework(raw)
	if err != nil {
		return "", err
	}
	return hw.Message(), nil
}
