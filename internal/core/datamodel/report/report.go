package report

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type Report struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Project  string `json:"project"`
	Hours    Hours  `json:"hours"`
	Comments string `json:"comments"`
	Date     string `json:"date"`
	DateTime string `json:"datetime"`
}

func NewLedger() []Report {
	return []Report{}
}

// Hours decodes leniently so one odd entry cannot make the whole ledger
// unreadable: numbers, numeric strings and null are accepted, anything else
// counts as zero.
type Hours float64

func (h *Hours) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*h = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*h = Hours(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64); err == nil {
			*h = Hours(f)
			return nil
		}
	}
	*h = 0
	return nil
}
