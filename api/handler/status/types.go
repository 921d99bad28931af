package status

import (
	"time"

	"github.com/nodepulse/nodepulse/derive"
	"github.com/nodepulse/nodepulse/types"
)

// CardView decorates an engine card with the display metrics derived from
// the whole batch. The embedded card is a complete snapshot for its kind;
// consumers doing incremental refreshes merge it ignoring nil fields, so a
// transient probe failure never blanks a previously good field.
type CardView struct {
	types.CardData
	HeightDelta *int64      `json:"height_delta"`
	DeltaTone   derive.Tone `json:"delta_tone"`
	DelayTone   derive.Tone `json:"delay_tone"`
	AgeDisplay  *string     `json:"age_display,omitempty"`
}

type StatusResponse struct {
	Network     string     `json:"network"`
	GeneratedAt time.Time  `json:"generated_at"`
	MaxHeight   *int64     `json:"max_height"`
	Cards       []CardView `json:"cards"`
}

type NetworksResponse struct {
	Networks []string `json:"networks"`
}

type SupplyResponse struct {
	Network       string `json:"network"`
	Symbol        string `json:"symbol"`
	Supply        string `json:"supply"`
	SupplyDisplay string `json:"supply_display"`
}
