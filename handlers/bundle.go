package handlers

// HandlerBundle groups the handler sets so route registration takes a
// single dependency.
type HandlerBundle struct {
	Booking      *BookingHandler
	Subscription *SubscriptionHandler
	Pricing      *PricingHandler
	Catalog      *CatalogHandler
}
