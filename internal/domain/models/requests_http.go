package models

// Requests for the event-study HTTP endpoints. Defined in domain for
// consistency and reuse across handlers.

type ReactionRequest struct {
	Event string `query:"event" json:"event" validate:"required,datetime=2006-01-02"`
}

type RegimesRequest struct {
	Ticker string `query:"ticker" json:"ticker" default:"^GSPC"`
	Days   int    `query:"days" json:"days" default:"365" validate:"gte=30,lte=3650"`
}

type VaRRequest struct {
	Ticker string `query:"ticker" json:"ticker" default:"^GSPC"`
	Regime string `query:"regime" json:"regime" validate:"required,oneof=high mid low"`
	Days   int    `query:"days" json:"days" default:"730" validate:"gte=60,lte=3650"`
}

type StressRequest struct {
	Event      string  `query:"event" json:"event" validate:"required,datetime=2006-01-02"`
	Multiplier float64 `query:"multiplier" json:"multiplier" default:"1.0" validate:"gte=-10,lte=10"`
}

type CorrelationRequest struct {
	AssetA string `query:"a" json:"a" validate:"required"`
	AssetB string `query:"b" json:"b" validate:"required"`
	Window int    `query:"window" json:"window" default:"30" validate:"gte=20,lte=120"`
	Thresh float64 `query:"thresh" json:"thresh" default:"2.0" validate:"gte=1,lte=3"`
}

type HistoryRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required"`
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}
