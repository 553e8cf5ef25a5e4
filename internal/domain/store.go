package domain

// Store is a mirrored aggregate owned by the store service. The id is
// assigned there and propagated verbatim through events.
type Store struct {
	ID   int64  `json:"id"`
	CNPJ string `json:"cnpj"`
}

// Product is a mirrored aggregate owned by the store service. The local
// copy is best-effort current; it may be stale between events. Uniqueness
// is (code, store).
type Product struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int64  `json:"quantity"`
	StoreID    int64  `json:"storeId"`
}
