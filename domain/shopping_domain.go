package domain

var (
	MessageSuccessDownloadCart = "shopping list generated"
	MessageFailedDownloadCart  = "failed to generate shopping list"
)

// ShoppingItem is one aggregated line of the shopping list: every cart
// ingredient sharing the same name folded into a single summed amount.
type ShoppingItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}
