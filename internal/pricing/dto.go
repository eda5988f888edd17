package pricing

type QuoteRequest struct {
	PriceMRU float64 `json:"priceMRU"`
	Weight   float64 `json:"weight"`
	Zone     string  `json:"zone"`
}

type QuoteResponse struct {
	PriceMRU    float64 `json:"priceMRU"`
	Commission  float64 `json:"commission"`
	Shipping    float64 `json:"shipping"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
	Zone        string  `json:"zone"`
}
