package domain

// ReconcileAction tells a repository what to do with one record after
// comparing it against an availability snapshot.
type ReconcileAction struct {
	ItemID string
	// NewCount is the clamped count; 0 means delete the record outright.
	NewCount int
}

// ReconcilePlan is the outcome of a reconciliation pass: the per-record
// changes to apply plus the number of cart units that became unavailable.
type ReconcilePlan struct {
	Actions      []ReconcileAction
	RemovedUnits int
}

// ReconcileItems compares cart records against an availability snapshot and
// returns the plan to bring the cart in line with it:
//
//   - itemID absent from availability: the record is deleted, all its units
//     count toward RemovedUnits
//   - available < count: the record is clamped down, the difference counts
//     toward RemovedUnits
//   - available >= count: the record is untouched
//
// Each record is judged against its own key only, so the result does not
// depend on iteration order.
func ReconcileItems(records []CartRecord, avail Availability) ReconcilePlan {
	var plan ReconcilePlan
	for _, r := range records {
		have, ok := avail[r.ItemID]
		if !ok || have <= 0 {
			plan.Actions = append(plan.Actions, ReconcileAction{ItemID: r.ItemID, NewCount: 0})
			plan.RemovedUnits += r.Count
			continue
		}
		if have < r.Count {
			plan.Actions = append(plan.Actions, ReconcileAction{ItemID: r.ItemID, NewCount: have})
			plan.RemovedUnits += r.Count - have
		}
	}
	return plan
}
