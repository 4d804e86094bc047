package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Dosada05/aswat-contest/models"
)

// SettingsPatch is what the settings source reported. Nil fields were absent
// and leave the current value alone.
type SettingsPatch struct {
	Deadline           *string
	ShowCurrentResults *bool
	Winners            [models.WinnerSlots]*string
}

func (p SettingsPatch) Empty() bool {
	if p.Deadline != nil || p.ShowCurrentResults != nil {
		return false
	}
	for _, w := range p.Winners {
		if w != nil {
			return false
		}
	}
	return true
}

func (c *Client) FetchSettings(ctx context.Context) (SettingsPatch, error) {
	u, err := url.Parse(c.settingsURL)
	if err != nil {
		return SettingsPatch{}, fmt.Errorf("%w: settings url: %v", ErrUnavailable, err)
	}
	q := u.Query()
	q.Set("action", "getSettings")
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return SettingsPatch{}, err
	}
	return ParseSettings(body)
}

// ParseSettings decodes {deadline?, show_results?, winner_1..winner_10?}.
// show_results may be a bool or the strings "true"/"false".
func ParseSettings(body []byte) (SettingsPatch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return SettingsPatch{}, fmt.Errorf("%w: decode settings: %v", ErrUnavailable, err)
	}

	var patch SettingsPatch

	if v, ok := raw["deadline"]; ok {
		if s, ok := stringValue(v); ok && strings.TrimSpace(s) != "" {
			patch.Deadline = &s
		}
	}

	if v, ok := raw["show_results"]; ok {
		if b, ok := boolValue(v); ok {
			patch.ShowCurrentResults = &b
		}
	}

	for i := 0; i < models.WinnerSlots; i++ {
		v, ok := raw["winner_"+strconv.Itoa(i+1)]
		if !ok {
			continue
		}
		if s, ok := stringValue(v); ok {
			patch.Winners[i] = &s
		}
	}

	return patch, nil
}

func stringValue(v json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func boolValue(v json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}
