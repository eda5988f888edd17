package domain

// RunPhase is the derived state of a delivery run. Runs are not persisted
// entities: a run is the set of orders sharing a deliveryRunId, and its
// phase is computed from those orders.
type RunPhase string

const (
	RunDraft   RunPhase = "draft"
	RunActive  RunPhase = "active"
	RunSettled RunPhase = "settled"
)

// RunPhaseOf derives the phase of a run from its orders: active while any
// order is still out for delivery, settled once every launched order has
// either completed with a withdrawal date or been returned to storage,
// draft otherwise.
func RunPhaseOf(orders []Order) RunPhase {
	launched := false
	settled := len(orders) > 0
	for _, o := range orders {
		switch o.Status {
		case StatusOutForDelivery:
			return RunActive
		case StatusCompleted:
			launched = true
			if o.WithdrawalDate == nil {
				settled = false
			}
		case StatusStored, StatusArrivedAtOffice:
			// not yet launched, or returned by the driver
		case StatusNew, StatusOrdered, StatusShippedFromStore, StatusCancelled:
			settled = false
		}
	}
	if launched && settled {
		return RunSettled
	}
	return RunDraft
}
