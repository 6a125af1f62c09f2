package request

type AddWatchlistRequest struct {
	Symbol string `json:"symbol"`
}
