package domain

// ForecastAction is the recommendation attached to a forecast record
type ForecastAction string

const (
	ActionRestock   ForecastAction = "RESTOCK"
	ActionDiscount  ForecastAction = "DISCOUNT"
	ActionDeprecate ForecastAction = "DEPRECATE"
	ActionNoAction  ForecastAction = "NO ACTION"
)

// ForecastConfidence is the model confidence band
type ForecastConfidence string

const (
	ConfidenceHigh   ForecastConfidence = "HIGH"
	ConfidenceMedium ForecastConfidence = "MEDIUM"
	ConfidenceLow    ForecastConfidence = "LOW"
)

// ForecastMetrics are the demand signals the forecast was derived from
type ForecastMetrics struct {
	SalesVelocity    float64 `json:"sales_velocity"`
	ReturnRate       float64 `json:"return_rate"`
	AvgRating        float64 `json:"avg_rating"`
	CartActivity     float64 `json:"cart_activity"`
	WishlistActivity float64 `json:"wishlist_activity"`
}

// ForecastRecord is one row of a generated demand forecast
type ForecastRecord struct {
	SKUID           string             `json:"sku_id"`
	ProductName     string             `json:"product_name"`
	Category        string             `json:"category"`
	PredictedDemand float64            `json:"predicted_demand"`
	CurrentStock    float64            `json:"current_stock"`
	Action          ForecastAction     `json:"action"`
	Confidence      ForecastConfidence `json:"confidence"`
	Reason          string             `json:"reason"`
	Metrics         ForecastMetrics    `json:"metrics"`
}

// ForecastStatus is the upstream forecast service status document
type ForecastStatus map[string]interface{}

// SummarizeActions counts forecast records per action
func SummarizeActions(records []ForecastRecord) map[ForecastAction]int {
	summary := make(map[ForecastAction]int)
	for _, r := range records {
		summary[r.Action]++
	}
	return summary
}
