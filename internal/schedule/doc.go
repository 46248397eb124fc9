// Package schedule provides types and validation for municipal drop-in
// activity schedules.
//
// Each ScheduleRecord describes one recurring bookable slot (facility,
// activity, weekday, start/end clock times and an optional validity window)
// and is assigned a deterministic SHA1-based ID generated from its stable
// fields, enabling reliable tracking across runs. A Document bundles the
// records produced by one scrape run together with per-source outcomes.
package schedule
